package repositories

import "visualcaption/internal/models"

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Search string // case-insensitive substring of email or username
	Status *bool  // exact match on is_active when set
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Exists(id string) (bool, error)
	List(filter UserFilter) ([]models.User, error)
	SetActive(id string, active bool) error
	Delete(id string) error
	Count() (int64, error)
}
