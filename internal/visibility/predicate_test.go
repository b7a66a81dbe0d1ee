package visibility

import (
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/and161185/curio/internal/model"
)

func TestCombinators_Collapse(t *testing.T) {
	owner := Owner{UserID: uuid.Must(uuid.NewV4())}

	require.IsType(t, False{}, AllOf(owner, False{}), "AND with False collapses")
	require.IsType(t, False{}, AnyOf(False{}, False{}), "OR of only False collapses")
	require.Equal(t, Pred(owner), AnyOf(False{}, owner), "single survivor unwraps")

	or, ok := AnyOf(owner, CollectionTier{Tier: model.TierPublic}).(Or)
	require.True(t, ok)
	require.Len(t, or.Preds, 2)
}

// Anonymous viewers collapse every identity-dependent branch, leaving only
// the public-tier condition in the collection predicate.
func TestCollectionPolicy_AnonymousPredicate(t *testing.T) {
	p := NewCollectionPolicy(nil)
	pred := p.Predicate(model.Anonymous())
	require.Equal(t, Pred(CollectionTier{Tier: model.TierPublic}), pred)
}

func TestCollectionPolicy_AuthenticatedPredicate(t *testing.T) {
	viewerID := uuid.Must(uuid.NewV4())
	p := NewCollectionPolicy(nil)

	or, ok := p.Predicate(model.UserViewer(viewerID)).(Or)
	require.True(t, ok)
	require.Len(t, or.Preds, 3)
	require.Equal(t, Pred(Owner{UserID: viewerID}), or.Preds[0])
	require.Equal(t, Pred(CollectionTier{Tier: model.TierPublic}), or.Preds[1])

	and, ok := or.Preds[2].(And)
	require.True(t, ok)
	require.Equal(t, Pred(CollectionTier{Tier: model.TierFollowingOnly}), and.Preds[0])
	require.Equal(t, Pred(OwnerFollows{ViewerID: viewerID}), and.Preds[1])
}

func TestItemPolicy_AnonymousPredicate(t *testing.T) {
	p := NewItemPolicy(nil)

	// only the public/public branch survives for anonymous viewers
	and, ok := p.Predicate(model.Anonymous()).(And)
	require.True(t, ok)
	require.Equal(t, Pred(CollectionTier{Tier: model.TierPublic}), and.Preds[0])
	require.Equal(t, Pred(ItemTier{Tier: model.TierPublic}), and.Preds[1])
}

func TestFeedPolicy_Predicate(t *testing.T) {
	viewerID := uuid.Must(uuid.NewV4())
	p := NewFeedPolicy(nil)

	and, ok := p.Predicate(model.UserViewer(viewerID)).(And)
	require.True(t, ok)
	require.Equal(t, Pred(ViewerFollows{ViewerID: viewerID}), and.Preds[0])

	or, ok := and.Preds[1].(Or)
	require.True(t, ok)
	require.Equal(t, Pred(CollectionTier{Tier: model.TierPublic}), or.Preds[0])
}
