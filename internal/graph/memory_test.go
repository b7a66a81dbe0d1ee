package graph

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/and161185/curio/internal/errs"
)

func TestMemory_FollowIdempotent(t *testing.T) {
	ctx := context.Background()
	g := NewMemory()
	a, b := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())

	created, err := g.Follow(ctx, a, b)
	require.NoError(t, err)
	require.True(t, created)

	created, err = g.Follow(ctx, a, b)
	require.NoError(t, err)
	require.False(t, created, "re-follow is a reported no-op")

	ok, err := g.IsFollowing(ctx, a, b)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = g.IsFollowing(ctx, b, a)
	require.NoError(t, err)
	require.False(t, ok, "edges are directed")
}

func TestMemory_SelfFollow(t *testing.T) {
	g := NewMemory()
	a := uuid.Must(uuid.NewV4())

	_, err := g.Follow(context.Background(), a, a)
	require.ErrorIs(t, err, errs.ErrSelfFollow)
}

func TestMemory_Unfollow(t *testing.T) {
	ctx := context.Background()
	g := NewMemory()
	a, b := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())

	removed, err := g.Unfollow(ctx, a, b)
	require.NoError(t, err)
	require.Zero(t, removed, "missing edge is not an error")

	_, err = g.Follow(ctx, a, b)
	require.NoError(t, err)

	removed, err = g.Unfollow(ctx, a, b)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	ok, err := g.IsFollowing(ctx, a, b)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemory_Listings(t *testing.T) {
	ctx := context.Background()
	g := NewMemory()
	a, b, c := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())

	_, err := g.Follow(ctx, a, b)
	require.NoError(t, err)
	_, err = g.Follow(ctx, a, c)
	require.NoError(t, err)
	_, err = g.Follow(ctx, c, b)
	require.NoError(t, err)

	following, err := g.FollowingOf(ctx, a)
	require.NoError(t, err)
	require.ElementsMatch(t, []uuid.UUID{b, c}, following)

	followers, err := g.FollowersOf(ctx, b)
	require.NoError(t, err)
	require.ElementsMatch(t, []uuid.UUID{a, c}, followers)

	empty, err := g.FollowingOf(ctx, b)
	require.NoError(t, err)
	require.Empty(t, empty)
}
