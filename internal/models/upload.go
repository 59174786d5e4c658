package models

import "time"

// Upload pairs a hosted image URL with its generated caption.
type Upload struct {
	ID         string    `json:"upload_id" gorm:"column:upload_id;primaryKey;type:varchar(36)"`
	UserID     string    `json:"user_id" gorm:"type:varchar(36);index"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"index"`
	FileURL    string    `json:"file_url" gorm:"type:text"`
	FileType   string    `json:"file_type" gorm:"type:varchar(100)"`
	Caption    string    `json:"caption" gorm:"type:text"`
}

func (Upload) TableName() string {
	return "uploads"
}

// UploadEvent is published after an upload row is recorded.
type UploadEvent struct {
	UploadID   string    `json:"upload_id"`
	UserID     string    `json:"user_id"`
	FileURL    string    `json:"file_url"`
	FileType   string    `json:"file_type"`
	Caption    string    `json:"caption"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Event builds the event payload for a recorded upload.
func (u *Upload) Event() UploadEvent {
	return UploadEvent{
		UploadID:   u.ID,
		UserID:     u.UserID,
		FileURL:    u.FileURL,
		FileType:   u.FileType,
		Caption:    u.Caption,
		UploadedAt: u.UploadedAt,
	}
}
