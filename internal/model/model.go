// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/curio/internal/errs"
)

// PrivacyTier is the closed set of visibility levels carried by collections and items.
type PrivacyTier string

// Tier literals as serialized at the API boundary.
const (
	TierPublic        PrivacyTier = "public"
	TierPrivate       PrivacyTier = "private"
	TierFollowingOnly PrivacyTier = "following_only"
)

// ParsePrivacyTier validates a raw literal against the closed enumeration.
func ParsePrivacyTier(s string) (PrivacyTier, error) {
	t := PrivacyTier(s)
	if !t.Valid() {
		return "", errs.ErrInvalidPrivacyTier
	}
	return t, nil
}

// Valid reports whether the tier is one of the three known literals.
func (t PrivacyTier) Valid() bool {
	switch t {
	case TierPublic, TierPrivate, TierFollowingOnly:
		return true
	}
	return false
}

func (t PrivacyTier) String() string { return string(t) }

// MarshalText serializes the tier literal.
func (t PrivacyTier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, errs.ErrInvalidPrivacyTier
	}
	return []byte(t), nil
}

// UnmarshalText rejects any literal outside the enumeration.
func (t *PrivacyTier) UnmarshalText(b []byte) error {
	parsed, err := ParsePrivacyTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Viewer is the identity context a visibility decision is evaluated under.
// The zero value is an anonymous viewer.
type Viewer struct {
	ID            uuid.UUID
	Authenticated bool
	Elevated      bool // staff: bypasses redaction, not visibility
}

// Anonymous returns an unauthenticated viewer.
func Anonymous() Viewer { return Viewer{} }

// UserViewer returns an authenticated viewer for the given user id.
func UserViewer(id uuid.UUID) Viewer {
	return Viewer{ID: id, Authenticated: true}
}

// IsAnonymous reports whether the viewer carries no identity.
func (v Viewer) IsAnonymous() bool { return !v.Authenticated || v.ID == uuid.Nil }

// Is reports whether the viewer is the given user.
func (v Viewer) Is(userID uuid.UUID) bool {
	return v.Authenticated && v.ID != uuid.Nil && v.ID == userID
}

// User is a platform account. Authentication is out of scope; only identity
// and display data live here.
type User struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

// FollowEdge is a directed follower -> following relation between users.
type FollowEdge struct {
	Follower  uuid.UUID
	Following uuid.UUID
	CreatedAt time.Time
}

// Collection is a user-owned set of items with a single privacy tier.
type Collection struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	Privacy     PrivacyTier
	ViewsCount  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CollectionStats carries per-collection aggregates computed by list queries.
type CollectionStats struct {
	ItemsCount         int64
	TotalCurrentValue  float64
	TotalPurchasePrice float64
}

// CollectionWithStats pairs a collection with its aggregates for listings.
type CollectionWithStats struct {
	Collection
	Stats CollectionStats
}

// Item is a single collectible inside a collection. Its tier is never more
// open than the collection's (enforced at write time, not re-checked on read).
type Item struct {
	ID            uuid.UUID
	CollectionID  uuid.UUID
	Name          string
	Description   string
	Category      string
	Privacy       PrivacyTier
	Quantity      *int64
	Location      string
	PurchaseDate  *time.Time
	PurchasePrice *float64
	CurrentValue  *float64
	Currency      string
	Extra         map[string]any
	// HiddenFields lists output paths redacted for non-owners:
	// "purchase_price", "extra", "extra.<key>".
	HiddenFields []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ItemWithOwner pairs an item with its collection's privacy context, which is
// everything the read path needs to evaluate visibility.
type ItemWithOwner struct {
	Item
	OwnerID           uuid.UUID
	CollectionPrivacy PrivacyTier
}
