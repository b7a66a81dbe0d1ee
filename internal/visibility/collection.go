package visibility

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/curio/internal/model"
)

// CollectionPolicy decides whether a viewer may see a collection. It is the
// single source of truth for collection list, retrieve, and search.
//
// Rules, in precedence order:
//  1. the owner always sees their own collection;
//  2. anonymous viewers see public collections only;
//  3. authenticated non-owners see public collections, and following_only
//     collections of owners who follow them.
//
// Private collections never match a non-owner. The disjunction below encodes
// the same precedence: the private branch simply has no spec.
type CollectionPolicy struct {
	graph FollowGraph
	spec  Spec
}

// NewCollectionPolicy builds the policy over the given graph adapter.
func NewCollectionPolicy(g FollowGraph) *CollectionPolicy {
	return &CollectionPolicy{
		graph: g,
		spec: Any(
			OwnerSpec{},
			TierSpec{Field: FieldCollection, Tier: model.TierPublic},
			All(
				TierSpec{Field: FieldCollection, Tier: model.TierFollowingOnly},
				OwnerFollowsViewerSpec{},
			),
		),
	}
}

// Allows evaluates the policy for a single collection instance.
// A false result is not an error; callers map it to not-found.
func (p *CollectionPolicy) Allows(ctx context.Context, viewer model.Viewer, ownerID uuid.UUID, tier model.PrivacyTier) (bool, error) {
	return p.spec.Evaluate(ctx, p.graph, Input{Viewer: viewer, OwnerID: ownerID, CollectionTier: tier})
}

// Predicate returns the push-down form for list/search queries.
func (p *CollectionPolicy) Predicate(viewer model.Viewer) Pred {
	return p.spec.Predicate(viewer)
}
