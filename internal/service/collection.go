package service

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/curio/internal/errs"
	"github.com/and161185/curio/internal/metrics"
	"github.com/and161185/curio/internal/model"
	"github.com/and161185/curio/internal/repository"
	"github.com/and161185/curio/internal/visibility"
)

// CollectionService exposes collection CRUD plus visibility-filtered reads.
// Read denials always surface as ErrNotFound so existence never leaks.
type CollectionService interface {
	// Create makes a collection owned by owner.
	Create(ctx context.Context, owner uuid.UUID, name, description string, tier model.PrivacyTier) (*model.Collection, error)
	// Update changes name, description, and privacy. Owner only.
	Update(ctx context.Context, actor, id uuid.UUID, name, description string, tier model.PrivacyTier) error
	// Delete removes the collection and its items. Owner only.
	Delete(ctx context.Context, actor, id uuid.UUID) error
	// Get returns one collection if it is visible to the viewer.
	Get(ctx context.Context, viewer model.Viewer, id uuid.UUID) (*model.CollectionWithStats, error)
	// List returns all collections visible to the viewer.
	List(ctx context.Context, viewer model.Viewer) ([]model.CollectionWithStats, error)
	// ListProfile returns owner's collections visible to the viewer.
	ListProfile(ctx context.Context, viewer model.Viewer, owner uuid.UUID) ([]model.CollectionWithStats, error)
	// ListOwn returns every collection of the owner, any privacy.
	ListOwn(ctx context.Context, owner uuid.UUID) ([]model.CollectionWithStats, error)
}

type CollectionServiceImpl struct {
	repo   repository.CollectionRepository
	policy *visibility.CollectionPolicy
	log    *zap.Logger
}

// NewCollectionService constructs CollectionService.
func NewCollectionService(repo repository.CollectionRepository, policy *visibility.CollectionPolicy, log *zap.Logger) *CollectionServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &CollectionServiceImpl{repo: repo, policy: policy, log: log}
}

// Create validates input and inserts the collection.
func (s *CollectionServiceImpl) Create(ctx context.Context, owner uuid.UUID, name, description string, tier model.PrivacyTier) (*model.Collection, error) {
	if owner == uuid.Nil {
		return nil, errors.New("validation: empty owner")
	}
	if name == "" {
		return nil, errors.New("validation: empty name")
	}
	if !tier.Valid() {
		return nil, errs.ErrInvalidPrivacyTier
	}
	c := model.Collection{
		ID:          uuid.Must(uuid.NewV4()),
		OwnerID:     owner,
		Name:        name,
		Description: description,
		Privacy:     tier,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("collection created",
		zap.String("id", c.ID.String()),
		zap.String("owner", owner.String()),
		zap.String("privacy", tier.String()),
	)
	return &c, nil
}

// Update changes mutable fields after the owner-or-hidden guard.
func (s *CollectionServiceImpl) Update(ctx context.Context, actor, id uuid.UUID, name, description string, tier model.PrivacyTier) error {
	if name == "" {
		return errors.New("validation: empty name")
	}
	if !tier.Valid() {
		return errs.ErrInvalidPrivacyTier
	}
	cur, err := s.guardOwner(ctx, actor, id)
	if err != nil {
		return err
	}
	cur.Name, cur.Description, cur.Privacy = name, description, tier
	return s.repo.Update(ctx, cur.Collection)
}

// Delete removes the collection after the owner-or-hidden guard.
func (s *CollectionServiceImpl) Delete(ctx context.Context, actor, id uuid.UUID) error {
	if _, err := s.guardOwner(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Get evaluates the visibility policy directly against the fetched instance.
// Non-owner views bump the view counter.
func (s *CollectionServiceImpl) Get(ctx context.Context, viewer model.Viewer, id uuid.UUID) (*model.CollectionWithStats, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.policy.Allows(ctx, viewer, c.OwnerID, c.Privacy)
	if err != nil {
		return nil, err
	}
	metrics.ObserveDecision("collection", ok)
	if !ok {
		return nil, errs.ErrNotFound
	}
	if !viewer.Is(c.OwnerID) {
		if err := s.repo.IncrementViews(ctx, id); err != nil {
			s.log.Warn("increment views", zap.String("id", id.String()), zap.Error(err))
		}
	}
	return c, nil
}

// List pushes the visibility predicate down to storage.
func (s *CollectionServiceImpl) List(ctx context.Context, viewer model.Viewer) ([]model.CollectionWithStats, error) {
	return s.repo.List(ctx, s.policy.Predicate(viewer), nil)
}

// ListProfile narrows the visible set to a single owner's collections.
func (s *CollectionServiceImpl) ListProfile(ctx context.Context, viewer model.Viewer, owner uuid.UUID) ([]model.CollectionWithStats, error) {
	if owner == uuid.Nil {
		return nil, errors.New("validation: empty owner")
	}
	return s.repo.List(ctx, s.policy.Predicate(viewer), &owner)
}

// ListOwn bypasses tier filtering: the owner sees everything they own.
func (s *CollectionServiceImpl) ListOwn(ctx context.Context, owner uuid.UUID) ([]model.CollectionWithStats, error) {
	if owner == uuid.Nil {
		return nil, errors.New("validation: empty owner")
	}
	return s.repo.List(ctx, visibility.Owner{UserID: owner}, &owner)
}

// guardOwner loads the collection and enforces write access: invisible
// resources surface as not-found, visible-but-foreign as forbidden.
func (s *CollectionServiceImpl) guardOwner(ctx context.Context, actor, id uuid.UUID) (*model.CollectionWithStats, error) {
	if actor == uuid.Nil || id == uuid.Nil {
		return nil, errors.New("validation: empty actor/id")
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID == actor {
		return c, nil
	}
	visible, err := s.policy.Allows(ctx, model.UserViewer(actor), c.OwnerID, c.Privacy)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, errs.ErrNotFound
	}
	return nil, errs.ErrForbidden
}
