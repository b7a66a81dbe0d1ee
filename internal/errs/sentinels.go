// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
)

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist or is not
	// visible to the viewer (callers must not distinguish the two).
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., collection name taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrForbidden indicates the actor may not mutate the resource (not the owner).
	ErrForbidden = errors.New("forbidden")

	// ErrSelfFollow indicates an attempt to follow oneself.
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrInvalidPrivacyTier indicates a privacy literal outside the closed enumeration.
	ErrInvalidPrivacyTier = errors.New("invalid privacy tier")

	// ErrTierCascade indicates an item tier more open than its collection's.
	// Matched via errors.Is; the concrete value is a *TierCascadeError.
	ErrTierCascade = errors.New("item privacy exceeds collection privacy")
)

// CascadeRule identifies which cascade constraint an item write violated.
type CascadeRule int

const (
	// CascadePrivateCollection: a private collection only holds private items.
	CascadePrivateCollection CascadeRule = iota + 1
	// CascadeFollowingCollection: a following_only collection holds no public items.
	CascadeFollowingCollection
)

func (r CascadeRule) String() string {
	switch r {
	case CascadePrivateCollection:
		return "private collection requires private items"
	case CascadeFollowingCollection:
		return "following-only collection forbids public items"
	}
	return "unknown cascade rule"
}

// TierCascadeError reports a rejected item write with the specific rule that
// was violated, so callers can surface a precise message.
type TierCascadeError struct {
	Rule           CascadeRule
	CollectionTier string
	ItemTier       string
}

func (e *TierCascadeError) Error() string {
	return fmt.Sprintf("%s: item tier %q in %q collection", e.Rule, e.ItemTier, e.CollectionTier)
}

// Is makes the error matchable against the ErrTierCascade sentinel.
func (e *TierCascadeError) Is(target error) bool { return target == ErrTierCascade }
