package repositories

import (
	"context"

	"storefront/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// GetByUsername returns the full record, password hash included.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// GetByID returns the user without its password hash.
	GetByID(ctx context.Context, id int) (*models.User, error)
}
