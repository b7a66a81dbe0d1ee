package visibility

import (
	"github.com/gofrs/uuid/v5"

	"github.com/and161185/curio/internal/model"
)

// Pred is the push-down form of a visibility decision: a small predicate tree
// that a storage adapter translates into a query filter. The tree only speaks
// the domain's vocabulary (ownership, tiers, follow edges); table layout is
// the translator's concern.
type Pred interface{ isPred() }

// False matches nothing. Produced for anonymous viewers on identity-dependent
// branches and for the anonymous feed.
type False struct{}

// Owner matches resources owned by UserID.
type Owner struct{ UserID uuid.UUID }

// CollectionTier matches resources whose collection carries the tier.
type CollectionTier struct{ Tier model.PrivacyTier }

// ItemTier matches items carrying the tier.
type ItemTier struct{ Tier model.PrivacyTier }

// OwnerFollows matches resources whose owner follows ViewerID
// (edge owner -> viewer).
type OwnerFollows struct{ ViewerID uuid.UUID }

// ViewerFollows matches resources whose owner is followed by ViewerID
// (edge viewer -> owner).
type ViewerFollows struct{ ViewerID uuid.UUID }

// And matches when every child matches.
type And struct{ Preds []Pred }

// Or matches when at least one child matches.
type Or struct{ Preds []Pred }

func (False) isPred()          {}
func (Owner) isPred()          {}
func (CollectionTier) isPred() {}
func (ItemTier) isPred()       {}
func (OwnerFollows) isPred()   {}
func (ViewerFollows) isPred()  {}
func (And) isPred()            {}
func (Or) isPred()             {}

// AllOf builds a conjunction, collapsing to False when any child is False.
func AllOf(preds ...Pred) Pred {
	for _, p := range preds {
		if _, ok := p.(False); ok {
			return False{}
		}
	}
	return And{Preds: preds}
}

// AnyOf builds a disjunction, dropping False children.
func AnyOf(preds ...Pred) Pred {
	kept := make([]Pred, 0, len(preds))
	for _, p := range preds {
		if _, ok := p.(False); ok {
			continue
		}
		kept = append(kept, p)
	}
	switch len(kept) {
	case 0:
		return False{}
	case 1:
		return kept[0]
	}
	return Or{Preds: kept}
}
