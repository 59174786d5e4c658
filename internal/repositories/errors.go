package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row matches the requested key.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrConstraint is returned when a write violates a foreign key or check constraint.
	ErrConstraint = errors.New("constraint violation")
)

// translateWriteError maps gorm's translated driver errors onto repository errors.
// The gorm.DB must be opened with TranslateError enabled.
func translateWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrCheckConstraintViolated):
		return ErrConstraint
	}
	return err
}
