package repositories

import (
	"context"

	"feedesk/internal/models"
)

// UserRepository defines the interface for staff account persistence
type UserRepository interface {
	// Create creates a new user in the database
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id uint) (*models.User, error)

	// GetByEmail retrieves a user by their email address
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Update updates an existing user's information
	Update(ctx context.Context, user *models.User) error

	// IncrementTokenVersion invalidates every token issued to the user
	IncrementTokenVersion(ctx context.Context, userID uint) error
}
