package repository

import (
	"context"

	"github.com/oksasatya/checklist-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// Create persists a new user; ErrConflict when email or google id is
	// already taken.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*entity.User, error)
	// Update persists email and name changes for an existing user.
	Update(ctx context.Context, u *entity.User) error
}
