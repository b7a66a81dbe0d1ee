// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

// FollowRepository provides access to the directed follow graph.
// It is a superset of visibility.FollowGraph.
type FollowRepository interface {
	// Follow creates the edge (follower -> following) if absent and reports
	// whether it was newly created. Self-follow is rejected with ErrSelfFollow.
	Follow(ctx context.Context, follower, following uuid.UUID) (bool, error)

	// Unfollow removes the edge if present and returns the number removed.
	// A missing edge is not an error.
	Unfollow(ctx context.Context, follower, following uuid.UUID) (int64, error)

	// IsFollowing reports whether the edge (follower -> following) exists.
	IsFollowing(ctx context.Context, follower, following uuid.UUID) (bool, error)

	// FollowingOf returns the users the given user follows. Ordering unspecified.
	FollowingOf(ctx context.Context, user uuid.UUID) ([]uuid.UUID, error)

	// FollowersOf returns the users following the given user. Ordering unspecified.
	FollowersOf(ctx context.Context, user uuid.UUID) ([]uuid.UUID, error)
}
