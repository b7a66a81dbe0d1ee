package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/curio/internal/errs"
)

// FollowRepo implements FollowRepository using PostgreSQL. The table's unique
// constraint is the source of truth for edge uniqueness, so concurrent
// duplicate follows degrade to "already following" instead of erroring.
type FollowRepo struct{ db *DB }

// NewFollowRepo constructs a follow repository.
func NewFollowRepo(db *DB) *FollowRepo { return &FollowRepo{db: db} }

// Follow creates the edge if absent and reports whether it was newly created.
func (r *FollowRepo) Follow(ctx context.Context, follower, following uuid.UUID) (bool, error) {
	if follower == following {
		return false, errs.ErrSelfFollow
	}
	const q = `
INSERT INTO follows (follower_id, following_id)
VALUES ($1, $2)
ON CONFLICT (follower_id, following_id) DO NOTHING`
	tag, err := r.db.Pool.Exec(ctx, q, follower, following)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Unfollow removes the edge if present; a missing edge is not an error.
func (r *FollowRepo) Unfollow(ctx context.Context, follower, following uuid.UUID) (int64, error) {
	const q = `DELETE FROM follows WHERE follower_id=$1 AND following_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, follower, following)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// IsFollowing reports whether the edge (follower -> following) exists.
func (r *FollowRepo) IsFollowing(ctx context.Context, follower, following uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id=$1 AND following_id=$2)`
	var ok bool
	if err := r.db.Pool.QueryRow(ctx, q, follower, following).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// FollowingOf returns the users the given user follows.
func (r *FollowRepo) FollowingOf(ctx context.Context, user uuid.UUID) ([]uuid.UUID, error) {
	const q = `SELECT following_id FROM follows WHERE follower_id=$1`
	return r.ids(ctx, q, user)
}

// FollowersOf returns the users following the given user.
func (r *FollowRepo) FollowersOf(ctx context.Context, user uuid.UUID) ([]uuid.UUID, error) {
	const q = `SELECT follower_id FROM follows WHERE following_id=$1`
	return r.ids(ctx, q, user)
}

func (r *FollowRepo) ids(ctx context.Context, q string, user uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Pool.Query(ctx, q, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
