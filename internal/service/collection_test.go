package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/curio/internal/errs"
	"github.com/and161185/curio/internal/graph"
	"github.com/and161185/curio/internal/model"
	"github.com/and161185/curio/internal/repository"
	"github.com/and161185/curio/internal/visibility"
)

type fakeCollections struct {
	byID map[uuid.UUID]*model.CollectionWithStats

	views     map[uuid.UUID]int
	lastPred  visibility.Pred
	lastOwner *uuid.UUID
	listOut   []model.CollectionWithStats
}

var _ repository.CollectionRepository = (*fakeCollections)(nil)

func newFakeCollections() *fakeCollections {
	return &fakeCollections{
		byID:  map[uuid.UUID]*model.CollectionWithStats{},
		views: map[uuid.UUID]int{},
	}
}

func (f *fakeCollections) put(owner uuid.UUID, tier model.PrivacyTier) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	f.byID[id] = &model.CollectionWithStats{Collection: model.Collection{
		ID: id, OwnerID: owner, Name: "c-" + id.String()[:8], Privacy: tier,
	}}
	return id
}

func (f *fakeCollections) Create(_ context.Context, c model.Collection) error {
	for _, cur := range f.byID {
		if cur.OwnerID == c.OwnerID && cur.Name == c.Name {
			return errs.ErrAlreadyExists
		}
	}
	f.byID[c.ID] = &model.CollectionWithStats{Collection: c}
	return nil
}

func (f *fakeCollections) Get(_ context.Context, id uuid.UUID) (*model.CollectionWithStats, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := *c
	return &cpy, nil
}

func (f *fakeCollections) Update(_ context.Context, c model.Collection) error {
	cur, ok := f.byID[c.ID]
	if !ok {
		return errs.ErrNotFound
	}
	cur.Name, cur.Description, cur.Privacy = c.Name, c.Description, c.Privacy
	return nil
}

func (f *fakeCollections) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCollections) IncrementViews(_ context.Context, id uuid.UUID) error {
	f.views[id]++
	return nil
}

func (f *fakeCollections) List(_ context.Context, pred visibility.Pred, owner *uuid.UUID) ([]model.CollectionWithStats, error) {
	f.lastPred, f.lastOwner = pred, owner
	return f.listOut, nil
}

func (f *fakeCollections) ListFeed(_ context.Context, pred visibility.Pred) ([]model.CollectionWithStats, error) {
	f.lastPred = pred
	return f.listOut, nil
}

func newCollectionSvc(t *testing.T) (*CollectionServiceImpl, *fakeCollections, *graph.Memory) {
	t.Helper()
	repo := newFakeCollections()
	g := graph.NewMemory()
	return NewCollectionService(repo, visibility.NewCollectionPolicy(g), nil), repo, g
}

func TestCollectionService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCollectionSvc(t)
	owner := uuid.Must(uuid.NewV4())

	if _, err := svc.Create(ctx, uuid.Nil, "x", "", model.TierPublic); err == nil {
		t.Fatalf("want validation error on empty owner")
	}
	if _, err := svc.Create(ctx, owner, "", "", model.TierPublic); err == nil {
		t.Fatalf("want validation error on empty name")
	}
	if _, err := svc.Create(ctx, owner, "x", "", model.PrivacyTier("friends")); !errors.Is(err, errs.ErrInvalidPrivacyTier) {
		t.Fatalf("want ErrInvalidPrivacyTier, got %v", err)
	}

	c, err := svc.Create(ctx, owner, "coins", "desc", model.TierFollowingOnly)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID == uuid.Nil || c.Privacy != model.TierFollowingOnly {
		t.Fatalf("unexpected collection %+v", c)
	}
}

func TestCollectionService_Get_HidesInvisible(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCollectionSvc(t)

	owner := uuid.Must(uuid.NewV4())
	stranger := uuid.Must(uuid.NewV4())
	id := repo.put(owner, model.TierPrivate)

	if _, err := svc.Get(ctx, model.UserViewer(stranger), id); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("private collection must read as not-found, got %v", err)
	}
	if _, err := svc.Get(ctx, model.UserViewer(owner), id); err != nil {
		t.Fatalf("owner Get: %v", err)
	}
}

func TestCollectionService_Get_CountsForeignViews(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCollectionSvc(t)

	owner := uuid.Must(uuid.NewV4())
	stranger := uuid.Must(uuid.NewV4())
	id := repo.put(owner, model.TierPublic)

	if _, err := svc.Get(ctx, model.UserViewer(owner), id); err != nil {
		t.Fatalf("owner Get: %v", err)
	}
	if repo.views[id] != 0 {
		t.Fatalf("owner view must not count")
	}

	if _, err := svc.Get(ctx, model.UserViewer(stranger), id); err != nil {
		t.Fatalf("stranger Get: %v", err)
	}
	if _, err := svc.Get(ctx, model.Anonymous(), id); err != nil {
		t.Fatalf("anonymous Get: %v", err)
	}
	if repo.views[id] != 2 {
		t.Fatalf("views = %d; want 2", repo.views[id])
	}
}

func TestCollectionService_Update_GuardSplit(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCollectionSvc(t)

	owner := uuid.Must(uuid.NewV4())
	stranger := uuid.Must(uuid.NewV4())
	public := repo.put(owner, model.TierPublic)
	private := repo.put(owner, model.TierPrivate)

	// Visible but foreign: the denial may admit the resource exists.
	if err := svc.Update(ctx, stranger, public, "x", "", model.TierPublic); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("want ErrForbidden on visible foreign collection, got %v", err)
	}
	// Invisible: deny without confirming existence.
	if err := svc.Update(ctx, stranger, private, "x", "", model.TierPublic); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound on invisible collection, got %v", err)
	}

	if err := svc.Update(ctx, owner, public, "renamed", "d", model.TierPrivate); err != nil {
		t.Fatalf("owner Update: %v", err)
	}
	got, _ := repo.Get(ctx, public)
	if got.Name != "renamed" || got.Privacy != model.TierPrivate {
		t.Fatalf("update not persisted: %+v", got.Collection)
	}
}

func TestCollectionService_Delete_Guard(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCollectionSvc(t)

	owner := uuid.Must(uuid.NewV4())
	stranger := uuid.Must(uuid.NewV4())
	id := repo.put(owner, model.TierPublic)

	if err := svc.Delete(ctx, stranger, id); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, owner, id); err != nil {
		t.Fatalf("owner Delete: %v", err)
	}
	if _, err := repo.Get(ctx, id); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("collection must be gone")
	}
}

func TestCollectionService_ListOwn_BypassesTiers(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCollectionSvc(t)

	owner := uuid.Must(uuid.NewV4())
	if _, err := svc.ListOwn(ctx, owner); err != nil {
		t.Fatalf("ListOwn: %v", err)
	}
	if repo.lastOwner == nil || *repo.lastOwner != owner {
		t.Fatalf("ListOwn must narrow to the owner")
	}
	if pred, ok := repo.lastPred.(visibility.Owner); !ok || pred.UserID != owner {
		t.Fatalf("ListOwn predicate = %#v; want ownership only", repo.lastPred)
	}
}

func TestCollectionService_List_PushesPredicate(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCollectionSvc(t)

	if _, err := svc.List(ctx, model.Anonymous()); err != nil {
		t.Fatalf("List: %v", err)
	}
	// Anonymous viewers collapse to the public tier check.
	if pred, ok := repo.lastPred.(visibility.CollectionTier); !ok || pred.Tier != model.TierPublic {
		t.Fatalf("anonymous predicate = %#v; want public tier", repo.lastPred)
	}
	if repo.lastOwner != nil {
		t.Fatalf("List must not narrow to an owner")
	}
}
