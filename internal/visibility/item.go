package visibility

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/curio/internal/model"
)

// ItemPolicy decides whether a viewer may see an item, cascading through the
// parent collection: if the collection is not visible, nothing inside it is.
//
// For non-owners the allowed combinations are:
//   - public collection, public item;
//   - public collection, following_only item, owner follows viewer;
//   - following_only collection the viewer can see (owner follows viewer),
//     item public or following_only.
//
// A private item never shows to a non-owner, and a private collection hides
// every item regardless of the item's own tier. The last branch tolerates
// public items inside following_only collections even though the write-time
// cascade forbids creating them.
type ItemPolicy struct {
	graph FollowGraph
	spec  Spec
}

// NewItemPolicy builds the policy over the given graph adapter.
func NewItemPolicy(g FollowGraph) *ItemPolicy {
	return &ItemPolicy{
		graph: g,
		spec: Any(
			OwnerSpec{},
			All(
				TierSpec{Field: FieldCollection, Tier: model.TierPublic},
				TierSpec{Field: FieldItem, Tier: model.TierPublic},
			),
			All(
				TierSpec{Field: FieldCollection, Tier: model.TierPublic},
				TierSpec{Field: FieldItem, Tier: model.TierFollowingOnly},
				OwnerFollowsViewerSpec{},
			),
			All(
				TierSpec{Field: FieldCollection, Tier: model.TierFollowingOnly},
				OwnerFollowsViewerSpec{},
				Any(
					TierSpec{Field: FieldItem, Tier: model.TierPublic},
					TierSpec{Field: FieldItem, Tier: model.TierFollowingOnly},
				),
			),
		),
	}
}

// Allows evaluates the policy for a single item instance.
func (p *ItemPolicy) Allows(ctx context.Context, viewer model.Viewer, ownerID uuid.UUID, collectionTier, itemTier model.PrivacyTier) (bool, error) {
	return p.spec.Evaluate(ctx, p.graph, Input{
		Viewer:         viewer,
		OwnerID:        ownerID,
		CollectionTier: collectionTier,
		ItemTier:       itemTier,
	})
}

// Predicate returns the push-down form for list/search queries.
func (p *ItemPolicy) Predicate(viewer model.Viewer) Pred {
	return p.spec.Predicate(viewer)
}
