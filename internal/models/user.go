package models

// User represents a registered account.
type User struct {
	ID       string `json:"user_id" gorm:"column:user_id;primaryKey;type:varchar(36)"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Username string `json:"username" gorm:"type:varchar(255)"`
	Password string `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	IsActive bool   `json:"is_active" gorm:"not null;default:true"`
}

// TableName keeps the plural table name shared with the admin tooling.
func (User) TableName() string {
	return "users"
}
