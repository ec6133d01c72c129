package userRepo

import (
	"errors"

	"itinera/models"
)

// ErrNotFound is returned when no user matches.
var ErrNotFound = errors.New("user not found")

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(id string) (*models.User, error)
	// GetByIDs retrieves every user whose ID is listed. Unknown IDs are skipped.
	GetByIDs(ids []string) ([]models.User, error)
	// GetByEmail retrieves a user by its email address.
	GetByEmail(email string) (*models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
}
