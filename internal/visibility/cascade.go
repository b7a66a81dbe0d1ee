package visibility

import (
	"github.com/and161185/curio/internal/errs"
	"github.com/and161185/curio/internal/model"
)

// ValidateTierCascade rejects an item tier more open than its collection's:
// a private collection only holds private items, a following_only collection
// holds no public items. Enforced once at item create/update; the read-path
// policies rely on it and do not re-derive it.
func ValidateTierCascade(collectionTier, itemTier model.PrivacyTier) error {
	if !collectionTier.Valid() || !itemTier.Valid() {
		return errs.ErrInvalidPrivacyTier
	}
	switch collectionTier {
	case model.TierPrivate:
		if itemTier != model.TierPrivate {
			return &errs.TierCascadeError{
				Rule:           errs.CascadePrivateCollection,
				CollectionTier: collectionTier.String(),
				ItemTier:       itemTier.String(),
			}
		}
	case model.TierFollowingOnly:
		if itemTier == model.TierPublic {
			return &errs.TierCascadeError{
				Rule:           errs.CascadeFollowingCollection,
				CollectionTier: collectionTier.String(),
				ItemTier:       itemTier.String(),
			}
		}
	}
	return nil
}
