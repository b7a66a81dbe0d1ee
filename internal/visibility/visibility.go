// Package visibility implements the relationship-based visibility rules for
// collections, items, and feeds.
//
// Every rule is a Spec: a pure predicate over (viewer, owner, tiers) and a
// follow-graph snapshot, with a dual push-down form (Predicate) that storage
// adapters translate into query filters. List, retrieve, search, and feed all
// evaluate the same specs, so the decision is identical everywhere.
package visibility

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/curio/internal/model"
)

// FollowGraph is the read surface of the follow graph that decisions depend on.
// Reads need not be linearizable with concurrent follow/unfollow; read-committed
// snapshots from the backing store are sufficient.
type FollowGraph interface {
	// IsFollowing reports whether the edge (follower -> following) exists.
	IsFollowing(ctx context.Context, follower, following uuid.UUID) (bool, error)
}

// Input is the evaluation context for a single decision.
// ItemTier is zero for collection-level checks.
type Input struct {
	Viewer         model.Viewer
	OwnerID        uuid.UUID
	CollectionTier model.PrivacyTier
	ItemTier       model.PrivacyTier
}

// Spec is a single visibility rule: directly evaluable against one instance,
// and convertible to a push-down predicate for list queries.
type Spec interface {
	Evaluate(ctx context.Context, g FollowGraph, in Input) (bool, error)
	Predicate(viewer model.Viewer) Pred
}
