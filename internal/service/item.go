package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/curio/internal/convert"
	"github.com/and161185/curio/internal/errs"
	"github.com/and161185/curio/internal/metrics"
	"github.com/and161185/curio/internal/model"
	"github.com/and161185/curio/internal/redact"
	"github.com/and161185/curio/internal/repository"
	"github.com/and161185/curio/internal/visibility"
)

// ItemInput carries the mutable fields of an item for create/update.
type ItemInput struct {
	CollectionID  uuid.UUID
	Name          string
	Description   string
	Category      string
	Privacy       model.PrivacyTier
	Quantity      *int64
	Location      string
	PurchaseDate  *time.Time
	PurchasePrice *float64
	CurrentValue  *float64
	Currency      string
	Extra         map[string]any
	HiddenFields  []string
}

// ItemService exposes item CRUD plus visibility-filtered, redacted reads.
// Read outputs are shaped records with the owner's hidden paths applied.
type ItemService interface {
	// Create adds an item to the actor's own collection, enforcing the tier
	// cascade (item never more open than its collection).
	Create(ctx context.Context, actor uuid.UUID, in ItemInput) (*model.Item, error)
	// Update replaces mutable fields. Owner only; cascade re-validated.
	Update(ctx context.Context, actor, id uuid.UUID, in ItemInput) error
	// Delete removes the item. Owner only.
	Delete(ctx context.Context, actor, id uuid.UUID) error
	// Get returns the shaped, redacted record of one visible item.
	Get(ctx context.Context, viewer model.Viewer, id uuid.UUID) (map[string]any, error)
	// List returns shaped, redacted records of visible items, newest first.
	List(ctx context.Context, viewer model.Viewer, q repository.ItemQuery) ([]map[string]any, error)
}

type ItemServiceImpl struct {
	items       repository.ItemRepository
	collections repository.CollectionRepository
	policy      *visibility.ItemPolicy
	collPolicy  *visibility.CollectionPolicy
	log         *zap.Logger
}

// NewItemService constructs ItemService.
func NewItemService(
	items repository.ItemRepository,
	collections repository.CollectionRepository,
	policy *visibility.ItemPolicy,
	collPolicy *visibility.CollectionPolicy,
	log *zap.Logger,
) *ItemServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &ItemServiceImpl{items: items, collections: collections, policy: policy, collPolicy: collPolicy, log: log}
}

// Create validates input, checks collection ownership, enforces the cascade,
// and inserts the item.
func (s *ItemServiceImpl) Create(ctx context.Context, actor uuid.UUID, in ItemInput) (*model.Item, error) {
	if actor == uuid.Nil || in.CollectionID == uuid.Nil {
		return nil, errors.New("validation: empty actor/collection")
	}
	if in.Name == "" {
		return nil, errors.New("validation: empty name")
	}
	if !in.Privacy.Valid() {
		return nil, errs.ErrInvalidPrivacyTier
	}

	coll, err := s.collections.Get(ctx, in.CollectionID)
	if err != nil {
		return nil, err
	}
	if coll.OwnerID != actor {
		visible, err := s.collPolicy.Allows(ctx, model.UserViewer(actor), coll.OwnerID, coll.Privacy)
		if err != nil {
			return nil, err
		}
		if !visible {
			return nil, errs.ErrNotFound
		}
		return nil, errs.ErrForbidden
	}
	if err := visibility.ValidateTierCascade(coll.Privacy, in.Privacy); err != nil {
		return nil, err
	}

	it := model.Item{
		ID:            uuid.Must(uuid.NewV4()),
		CollectionID:  in.CollectionID,
		Name:          in.Name,
		Description:   in.Description,
		Category:      in.Category,
		Privacy:       in.Privacy,
		Quantity:      in.Quantity,
		Location:      in.Location,
		PurchaseDate:  in.PurchaseDate,
		PurchasePrice: in.PurchasePrice,
		CurrentValue:  in.CurrentValue,
		Currency:      in.Currency,
		Extra:         in.Extra,
		HiddenFields:  in.HiddenFields,
	}
	if err := s.items.Create(ctx, it); err != nil {
		return nil, err
	}
	s.log.Info("item created",
		zap.String("id", it.ID.String()),
		zap.String("collection", in.CollectionID.String()),
		zap.String("privacy", in.Privacy.String()),
	)
	return &it, nil
}

// Update replaces mutable fields after the owner guard and cascade check.
// The item stays in its collection; CollectionID in the input is ignored.
func (s *ItemServiceImpl) Update(ctx context.Context, actor, id uuid.UUID, in ItemInput) error {
	if in.Name == "" {
		return errors.New("validation: empty name")
	}
	if !in.Privacy.Valid() {
		return errs.ErrInvalidPrivacyTier
	}
	cur, err := s.guardOwner(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := visibility.ValidateTierCascade(cur.CollectionPrivacy, in.Privacy); err != nil {
		return err
	}

	next := cur.Item
	next.Name = in.Name
	next.Description = in.Description
	next.Category = in.Category
	next.Privacy = in.Privacy
	next.Quantity = in.Quantity
	next.Location = in.Location
	next.PurchaseDate = in.PurchaseDate
	next.PurchasePrice = in.PurchasePrice
	next.CurrentValue = in.CurrentValue
	next.Currency = in.Currency
	next.Extra = in.Extra
	next.HiddenFields = in.HiddenFields
	return s.items.Update(ctx, next)
}

// Delete removes the item after the owner guard.
func (s *ItemServiceImpl) Delete(ctx context.Context, actor, id uuid.UUID) error {
	if _, err := s.guardOwner(ctx, actor, id); err != nil {
		return err
	}
	return s.items.Delete(ctx, id)
}

// Get evaluates the item policy directly against the fetched instance, then
// shapes and redacts the output.
func (s *ItemServiceImpl) Get(ctx context.Context, viewer model.Viewer, id uuid.UUID) (map[string]any, error) {
	if id == uuid.Nil {
		return nil, errors.New("validation: empty id")
	}
	it, err := s.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.policy.Allows(ctx, viewer, it.OwnerID, it.CollectionPrivacy, it.Privacy)
	if err != nil {
		return nil, err
	}
	metrics.ObserveDecision("item", ok)
	if !ok {
		return nil, errs.ErrNotFound
	}
	return s.render(it, viewer), nil
}

// List pushes the visibility predicate down to storage and redacts each record.
func (s *ItemServiceImpl) List(ctx context.Context, viewer model.Viewer, q repository.ItemQuery) ([]map[string]any, error) {
	items, err := s.items.List(ctx, q, s.policy.Predicate(viewer))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(items))
	for i := range items {
		out = append(out, s.render(&items[i], viewer))
	}
	return out, nil
}

func (s *ItemServiceImpl) render(it *model.ItemWithOwner, viewer model.Viewer) map[string]any {
	rec := convert.ItemRecord(it.Item)
	return redact.Apply(rec, it.HiddenFields, viewer, it.OwnerID)
}

// guardOwner loads the item and enforces write access with the same
// not-found/forbidden split as collections.
func (s *ItemServiceImpl) guardOwner(ctx context.Context, actor, id uuid.UUID) (*model.ItemWithOwner, error) {
	if actor == uuid.Nil || id == uuid.Nil {
		return nil, errors.New("validation: empty actor/id")
	}
	it, err := s.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.OwnerID == actor {
		return it, nil
	}
	visible, err := s.policy.Allows(ctx, model.UserViewer(actor), it.OwnerID, it.CollectionPrivacy, it.Privacy)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, errs.ErrNotFound
	}
	return nil, errs.ErrForbidden
}
