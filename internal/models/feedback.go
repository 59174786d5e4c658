package models

import "time"

// Feedback is a rating and comment left by a user.
type Feedback struct {
	ID        string    `json:"feedback_id" gorm:"column:feedback_id;primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Rating    int       `json:"rating" gorm:"not null;check:chk_feedback_rating,rating >= 1 AND rating <= 5"`
	CreatedAt time.Time `json:"created_at"`
	Response  *string   `json:"response" gorm:"type:text"`
	Resolved  bool      `json:"resolved" gorm:"not null;default:false"`

	User *User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Feedback) TableName() string {
	return "feedback"
}

// FeedbackOut is the shape returned to the user who wrote the feedback.
type FeedbackOut struct {
	FeedbackID string    `json:"feedback_id"`
	CreatedAt  time.Time `json:"created_at"`
	Content    string    `json:"content"`
	Rating     int       `json:"rating"`
}

// Out converts a stored row into its user-facing shape.
func (f *Feedback) Out() FeedbackOut {
	return FeedbackOut{
		FeedbackID: f.ID,
		CreatedAt:  f.CreatedAt,
		Content:    f.Content,
		Rating:     f.Rating,
	}
}
