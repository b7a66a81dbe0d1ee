package visibility

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/and161185/curio/internal/graph"
	"github.com/and161185/curio/internal/model"
)

func mustFollow(t *testing.T, g *graph.Memory, a, b uuid.UUID) {
	t.Helper()
	created, err := g.Follow(context.Background(), a, b)
	require.NoError(t, err)
	require.True(t, created)
}

func TestCollectionPolicy_OwnerAlwaysSees(t *testing.T) {
	g := graph.NewMemory()
	p := NewCollectionPolicy(g)
	owner := uuid.Must(uuid.NewV4())

	for _, tier := range []model.PrivacyTier{model.TierPublic, model.TierPrivate, model.TierFollowingOnly} {
		ok, err := p.Allows(context.Background(), model.UserViewer(owner), owner, tier)
		require.NoError(t, err)
		require.True(t, ok, "owner must see own %s collection", tier)
	}
}

func TestCollectionPolicy_Anonymous(t *testing.T) {
	g := graph.NewMemory()
	p := NewCollectionPolicy(g)
	owner := uuid.Must(uuid.NewV4())

	cases := []struct {
		tier model.PrivacyTier
		want bool
	}{
		{model.TierPublic, true},
		{model.TierPrivate, false},
		{model.TierFollowingOnly, false},
	}
	for _, tc := range cases {
		ok, err := p.Allows(context.Background(), model.Anonymous(), owner, tc.tier)
		require.NoError(t, err)
		require.Equal(t, tc.want, ok, "anonymous vs %s", tc.tier)
	}
}

// The following_only direction: the owner extends visibility to people
// they follow; the viewer following the owner earns nothing.
func TestCollectionPolicy_FollowingOnlyDirection(t *testing.T) {
	ctx := context.Background()
	g := graph.NewMemory()
	p := NewCollectionPolicy(g)
	owner := uuid.Must(uuid.NewV4())
	viewer := model.UserViewer(uuid.Must(uuid.NewV4()))

	ok, err := p.Allows(ctx, viewer, owner, model.TierFollowingOnly)
	require.NoError(t, err)
	require.False(t, ok, "no edges: hidden")

	// viewer -> owner alone changes nothing
	mustFollow(t, g, viewer.ID, owner)
	ok, err = p.Allows(ctx, viewer, owner, model.TierFollowingOnly)
	require.NoError(t, err)
	require.False(t, ok, "viewer following owner grants nothing")

	// owner -> viewer opens it
	mustFollow(t, g, owner, viewer.ID)
	ok, err = p.Allows(ctx, viewer, owner, model.TierFollowingOnly)
	require.NoError(t, err)
	require.True(t, ok, "owner follows viewer: visible")
}

func TestCollectionPolicy_PrivateHiddenFromNonOwner(t *testing.T) {
	ctx := context.Background()
	g := graph.NewMemory()
	p := NewCollectionPolicy(g)
	owner := uuid.Must(uuid.NewV4())
	viewer := model.UserViewer(uuid.Must(uuid.NewV4()))

	// even mutual follows never expose a private collection
	mustFollow(t, g, owner, viewer.ID)
	mustFollow(t, g, viewer.ID, owner)

	ok, err := p.Allows(ctx, viewer, owner, model.TierPrivate)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFeedPolicy_BaseMembershipAndMutuality(t *testing.T) {
	ctx := context.Background()
	g := graph.NewMemory()
	p := NewFeedPolicy(g)
	owner := uuid.Must(uuid.NewV4())
	viewer := model.UserViewer(uuid.Must(uuid.NewV4()))

	// not following the owner: nothing in the feed, public or not
	ok, err := p.Allows(ctx, viewer, owner, model.TierPublic)
	require.NoError(t, err)
	require.False(t, ok)

	// viewer -> owner: public enters the feed, following_only needs mutual
	mustFollow(t, g, viewer.ID, owner)
	ok, err = p.Allows(ctx, viewer, owner, model.TierPublic)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = p.Allows(ctx, viewer, owner, model.TierFollowingOnly)
	require.NoError(t, err)
	require.False(t, ok, "following_only requires mutual follow")

	ok, err = p.Allows(ctx, viewer, owner, model.TierPrivate)
	require.NoError(t, err)
	require.False(t, ok)

	// owner follows back: following_only enters, private still never
	mustFollow(t, g, owner, viewer.ID)
	ok, err = p.Allows(ctx, viewer, owner, model.TierFollowingOnly)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = p.Allows(ctx, viewer, owner, model.TierPrivate)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFeedPolicy_AnonymousEmpty(t *testing.T) {
	g := graph.NewMemory()
	p := NewFeedPolicy(g)
	owner := uuid.Must(uuid.NewV4())

	ok, err := p.Allows(context.Background(), model.Anonymous(), owner, model.TierPublic)
	require.NoError(t, err)
	require.False(t, ok)
	require.IsType(t, False{}, p.Predicate(model.Anonymous()))
}

func TestItemPolicy_Cascade(t *testing.T) {
	ctx := context.Background()
	g := graph.NewMemory()
	p := NewItemPolicy(g)
	owner := uuid.Must(uuid.NewV4())
	follower := model.UserViewer(uuid.Must(uuid.NewV4())) // owner follows them
	stranger := model.UserViewer(uuid.Must(uuid.NewV4()))
	mustFollow(t, g, owner, follower.ID)

	tiers := []model.PrivacyTier{model.TierPublic, model.TierPrivate, model.TierFollowingOnly}

	// private collection hides every item from every non-owner
	for _, itemTier := range tiers {
		for _, v := range []model.Viewer{model.Anonymous(), follower, stranger} {
			ok, err := p.Allows(ctx, v, owner, model.TierPrivate, itemTier)
			require.NoError(t, err)
			require.False(t, ok, "private collection, item %s", itemTier)
		}
	}

	// owner sees everything regardless
	for _, collTier := range tiers {
		for _, itemTier := range tiers {
			ok, err := p.Allows(ctx, model.UserViewer(owner), owner, collTier, itemTier)
			require.NoError(t, err)
			require.True(t, ok)
		}
	}

	// public collection: item tier decides
	cases := []struct {
		viewer   model.Viewer
		itemTier model.PrivacyTier
		want     bool
	}{
		{model.Anonymous(), model.TierPublic, true},
		{model.Anonymous(), model.TierFollowingOnly, false},
		{model.Anonymous(), model.TierPrivate, false},
		{stranger, model.TierPublic, true},
		{stranger, model.TierFollowingOnly, false},
		{stranger, model.TierPrivate, false},
		{follower, model.TierPublic, true},
		{follower, model.TierFollowingOnly, true},
		{follower, model.TierPrivate, false},
	}
	for _, tc := range cases {
		ok, err := p.Allows(ctx, tc.viewer, owner, model.TierPublic, tc.itemTier)
		require.NoError(t, err)
		require.Equal(t, tc.want, ok, "public collection, item %s", tc.itemTier)
	}

	// following_only collection: followed viewers see public and
	// following_only items, strangers see nothing
	for _, itemTier := range []model.PrivacyTier{model.TierPublic, model.TierFollowingOnly} {
		ok, err := p.Allows(ctx, follower, owner, model.TierFollowingOnly, itemTier)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = p.Allows(ctx, stranger, owner, model.TierFollowingOnly, itemTier)
		require.NoError(t, err)
		require.False(t, ok)
	}
	ok, err := p.Allows(ctx, follower, owner, model.TierFollowingOnly, model.TierPrivate)
	require.NoError(t, err)
	require.False(t, ok)
}

// End-to-end walk of the visibility scenario: a following_only collection and
// item stay hidden until the owner follows the viewer, and the feed stays
// empty until the viewer follows back.
func TestScenario_FollowingOnlyLifecycle(t *testing.T) {
	ctx := context.Background()
	g := graph.NewMemory()
	coll := NewCollectionPolicy(g)
	items := NewItemPolicy(g)
	feed := NewFeedPolicy(g)

	owner := uuid.Must(uuid.NewV4())
	viewerID := uuid.Must(uuid.NewV4())

	check := func(v model.Viewer, wantColl, wantItem, wantFeed bool) {
		t.Helper()
		ok, err := coll.Allows(ctx, v, owner, model.TierFollowingOnly)
		require.NoError(t, err)
		require.Equal(t, wantColl, ok, "collection")

		ok, err = items.Allows(ctx, v, owner, model.TierFollowingOnly, model.TierFollowingOnly)
		require.NoError(t, err)
		require.Equal(t, wantItem, ok, "item")

		ok, err = feed.Allows(ctx, v, owner, model.TierFollowingOnly)
		require.NoError(t, err)
		require.Equal(t, wantFeed, ok, "feed")
	}

	check(model.Anonymous(), false, false, false)

	viewer := model.UserViewer(viewerID)
	check(viewer, false, false, false)

	mustFollow(t, g, owner, viewerID)
	check(viewer, true, true, false)

	mustFollow(t, g, viewerID, owner)
	check(viewer, true, true, true)
}
