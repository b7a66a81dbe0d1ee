package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/curio/internal/model"
	"github.com/and161185/curio/internal/visibility"
)

// CollectionRepository provides access to collections with predicate push-down
// on list queries. Get returns the raw instance; the service layer evaluates
// the visibility policy against it directly.
type CollectionRepository interface {
	// Create inserts a collection. Duplicate (owner, name) maps to ErrAlreadyExists.
	Create(ctx context.Context, c model.Collection) error

	// Get loads a collection with aggregates by id, regardless of visibility.
	Get(ctx context.Context, id uuid.UUID) (*model.CollectionWithStats, error)

	// Update persists name, description, and privacy. ErrNotFound if missing.
	Update(ctx context.Context, c model.Collection) error

	// Delete removes the collection and its items. ErrNotFound if missing.
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementViews bumps the view counter.
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// List returns collections matching the pushed-down predicate, name order.
	// A nil owner lists across all users; a non-nil owner narrows to one profile.
	List(ctx context.Context, pred visibility.Pred, owner *uuid.UUID) ([]model.CollectionWithStats, error)

	// ListFeed returns collections matching the predicate, newest first.
	ListFeed(ctx context.Context, pred visibility.Pred) ([]model.CollectionWithStats, error)
}
