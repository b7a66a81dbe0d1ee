package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/curio/internal/model"
	"github.com/and161185/curio/internal/visibility"
)

// ItemQuery narrows item listings before the visibility predicate applies.
type ItemQuery struct {
	// CollectionID restricts to one collection when non-nil.
	CollectionID *uuid.UUID
	// Search matches name/description case-insensitively when non-empty.
	Search string
}

// ItemRepository provides access to items joined with their collection's
// privacy context. List queries take the pushed-down visibility predicate;
// Get returns the raw instance for direct policy evaluation.
type ItemRepository interface {
	// Create inserts an item.
	Create(ctx context.Context, it model.Item) error

	// Get loads an item with its owner and collection tier, regardless of visibility.
	Get(ctx context.Context, id uuid.UUID) (*model.ItemWithOwner, error)

	// Update persists mutable item fields. ErrNotFound if missing.
	Update(ctx context.Context, it model.Item) error

	// Delete removes the item. ErrNotFound if missing.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns items matching the query and predicate, newest first.
	List(ctx context.Context, q ItemQuery, pred visibility.Pred) ([]model.ItemWithOwner, error)
}
