package service

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/curio/internal/graph"
	"github.com/and161185/curio/internal/model"
	"github.com/and161185/curio/internal/visibility"
)

func TestFeedService_AnonymousEmpty(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCollections()
	svc := NewFeedService(repo, visibility.NewFeedPolicy(graph.NewMemory()), nil)

	out, err := svc.Feed(ctx, model.Anonymous())
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("anonymous feed must be empty, not nil: %v", out)
	}
	if repo.lastPred != nil {
		t.Fatalf("anonymous feed must not hit storage")
	}
}

func TestFeedService_PushesFeedPredicate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCollections()
	svc := NewFeedService(repo, visibility.NewFeedPolicy(graph.NewMemory()), nil)

	viewer := uuid.Must(uuid.NewV4())
	if _, err := svc.Feed(ctx, model.UserViewer(viewer)); err != nil {
		t.Fatalf("Feed: %v", err)
	}

	// Base membership (viewer follows owner) must lead the conjunction.
	and, ok := repo.lastPred.(visibility.And)
	if !ok || len(and.Preds) != 2 {
		t.Fatalf("feed predicate = %#v; want two-part conjunction", repo.lastPred)
	}
	base, ok := and.Preds[0].(visibility.ViewerFollows)
	if !ok || base.ViewerID != viewer {
		t.Fatalf("feed base = %#v; want viewer-follows-owner", and.Preds[0])
	}
}
