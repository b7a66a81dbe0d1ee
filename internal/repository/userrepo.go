package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/curio/internal/model"
)

// UserRepository provides minimal account access for identity resolution.
type UserRepository interface {
	// Create inserts a new user. Duplicate email maps to ErrAlreadyExists.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail loads a user by email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}
