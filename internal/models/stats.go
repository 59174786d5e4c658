package models

// Stats holds the admin dashboard totals.
type Stats struct {
	TotalUsers    int64 `json:"total_users"`
	TotalFeedback int64 `json:"total_feedback"`
	TotalCaptions int64 `json:"total_captions"`
}
