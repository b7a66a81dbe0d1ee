package visibility

import (
	"context"

	"github.com/and161185/curio/internal/model"
)

// TierField selects which tier an input-level spec reads.
type TierField int

const (
	FieldCollection TierField = iota
	FieldItem
)

func (f TierField) of(in Input) model.PrivacyTier {
	if f == FieldItem {
		return in.ItemTier
	}
	return in.CollectionTier
}

// OwnerSpec allows a viewer to see their own resource regardless of tier.
type OwnerSpec struct{}

func (OwnerSpec) Evaluate(_ context.Context, _ FollowGraph, in Input) (bool, error) {
	return in.Viewer.Is(in.OwnerID), nil
}

func (OwnerSpec) Predicate(viewer model.Viewer) Pred {
	if viewer.IsAnonymous() {
		return False{}
	}
	return Owner{UserID: viewer.ID}
}

// TierSpec matches a fixed tier on the selected field.
type TierSpec struct {
	Field TierField
	Tier  model.PrivacyTier
}

func (s TierSpec) Evaluate(_ context.Context, _ FollowGraph, in Input) (bool, error) {
	return s.Field.of(in) == s.Tier, nil
}

func (s TierSpec) Predicate(model.Viewer) Pred {
	if s.Field == FieldItem {
		return ItemTier{Tier: s.Tier}
	}
	return CollectionTier{Tier: s.Tier}
}

// OwnerFollowsViewerSpec holds when the resource owner follows the viewer.
// This is the following_only direction: the owner extends visibility to the
// people they follow, not a permission the viewer earns by following.
type OwnerFollowsViewerSpec struct{}

func (OwnerFollowsViewerSpec) Evaluate(ctx context.Context, g FollowGraph, in Input) (bool, error) {
	if in.Viewer.IsAnonymous() {
		return false, nil
	}
	return g.IsFollowing(ctx, in.OwnerID, in.Viewer.ID)
}

func (OwnerFollowsViewerSpec) Predicate(viewer model.Viewer) Pred {
	if viewer.IsAnonymous() {
		return False{}
	}
	return OwnerFollows{ViewerID: viewer.ID}
}

// ViewerFollowsOwnerSpec holds when the viewer follows the resource owner.
// Used only as the feed's base membership condition.
type ViewerFollowsOwnerSpec struct{}

func (ViewerFollowsOwnerSpec) Evaluate(ctx context.Context, g FollowGraph, in Input) (bool, error) {
	if in.Viewer.IsAnonymous() {
		return false, nil
	}
	return g.IsFollowing(ctx, in.Viewer.ID, in.OwnerID)
}

func (ViewerFollowsOwnerSpec) Predicate(viewer model.Viewer) Pred {
	if viewer.IsAnonymous() {
		return False{}
	}
	return ViewerFollows{ViewerID: viewer.ID}
}

// anySpec is a short-circuiting disjunction of specs.
type anySpec []Spec

// Any combines specs so that the first allowing spec wins.
func Any(specs ...Spec) Spec { return anySpec(specs) }

func (s anySpec) Evaluate(ctx context.Context, g FollowGraph, in Input) (bool, error) {
	for _, sp := range s {
		ok, err := sp.Evaluate(ctx, g, in)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (s anySpec) Predicate(viewer model.Viewer) Pred {
	preds := make([]Pred, 0, len(s))
	for _, sp := range s {
		preds = append(preds, sp.Predicate(viewer))
	}
	return AnyOf(preds...)
}

// allSpec is a short-circuiting conjunction of specs.
type allSpec []Spec

// All combines specs so that every spec must allow.
func All(specs ...Spec) Spec { return allSpec(specs) }

func (s allSpec) Evaluate(ctx context.Context, g FollowGraph, in Input) (bool, error) {
	for _, sp := range s {
		ok, err := sp.Evaluate(ctx, g, in)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (s allSpec) Predicate(viewer model.Viewer) Pred {
	preds := make([]Pred, 0, len(s))
	for _, sp := range s {
		preds = append(preds, sp.Predicate(viewer))
	}
	return AllOf(preds...)
}
