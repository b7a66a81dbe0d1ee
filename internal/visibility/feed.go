package visibility

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/curio/internal/model"
)

// FeedPolicy decides feed membership, which is stricter than plain visibility:
// the feed only carries collections of owners the viewer follows. On top of
// that base condition, public collections are included and following_only
// collections require the follow to be mutual. Private never appears.
//
// Note the inverted base direction relative to CollectionPolicy: the feed
// asks "do I follow the owner", direct visibility asks "does the owner follow
// me". Both directions are intentional product behavior, not a bug.
type FeedPolicy struct {
	graph FollowGraph
	spec  Spec
}

// NewFeedPolicy builds the policy over the given graph adapter.
func NewFeedPolicy(g FollowGraph) *FeedPolicy {
	return &FeedPolicy{
		graph: g,
		spec: All(
			ViewerFollowsOwnerSpec{},
			Any(
				TierSpec{Field: FieldCollection, Tier: model.TierPublic},
				All(
					TierSpec{Field: FieldCollection, Tier: model.TierFollowingOnly},
					OwnerFollowsViewerSpec{},
				),
			),
		),
	}
}

// Allows evaluates feed membership for a single collection.
// Anonymous viewers have an empty feed: this always returns false for them.
func (p *FeedPolicy) Allows(ctx context.Context, viewer model.Viewer, ownerID uuid.UUID, tier model.PrivacyTier) (bool, error) {
	if viewer.IsAnonymous() {
		return false, nil
	}
	return p.spec.Evaluate(ctx, p.graph, Input{Viewer: viewer, OwnerID: ownerID, CollectionTier: tier})
}

// Predicate returns the push-down form; False for anonymous viewers.
func (p *FeedPolicy) Predicate(viewer model.Viewer) Pred {
	if viewer.IsAnonymous() {
		return False{}
	}
	return p.spec.Predicate(viewer)
}
