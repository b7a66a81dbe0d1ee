// Package service contains the application services gluing validation,
// visibility policies, and repositories together.
package service

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/curio/internal/errs"
	"github.com/and161185/curio/internal/metrics"
	"github.com/and161185/curio/internal/repository"
)

// FollowService exposes follow-graph operations.
type FollowService interface {
	// Follow creates the edge actor -> target; created=false means it already existed.
	Follow(ctx context.Context, actor, target uuid.UUID) (created bool, err error)
	// Unfollow removes the edge; removed=0 when it did not exist.
	Unfollow(ctx context.Context, actor, target uuid.UUID) (removed int64, err error)
	// IsFollowing reports whether follower follows following.
	IsFollowing(ctx context.Context, follower, following uuid.UUID) (bool, error)
	// Following lists everyone the user follows.
	Following(ctx context.Context, user uuid.UUID) ([]uuid.UUID, error)
	// Followers lists everyone following the user.
	Followers(ctx context.Context, user uuid.UUID) ([]uuid.UUID, error)
}

type FollowServiceImpl struct {
	repo repository.FollowRepository
	log  *zap.Logger
}

// NewFollowService constructs FollowService.
func NewFollowService(repo repository.FollowRepository, log *zap.Logger) *FollowServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &FollowServiceImpl{repo: repo, log: log}
}

// Follow validates identities and delegates edge creation. Re-following is a
// no-op reported via created=false, never an error.
func (s *FollowServiceImpl) Follow(ctx context.Context, actor, target uuid.UUID) (bool, error) {
	if actor == uuid.Nil || target == uuid.Nil {
		return false, errors.New("validation: empty actor/target")
	}
	if actor == target {
		return false, errs.ErrSelfFollow
	}
	created, err := s.repo.Follow(ctx, actor, target)
	if err != nil {
		return false, err
	}
	outcome := "existing"
	if created {
		outcome = "created"
	}
	metrics.FollowMutations.WithLabelValues("follow", outcome).Inc()
	s.log.Info("follow",
		zap.String("actor", actor.String()),
		zap.String("target", target.String()),
		zap.Bool("created", created),
	)
	return created, nil
}

// Unfollow removes the edge and reports how many were removed (0 or 1).
func (s *FollowServiceImpl) Unfollow(ctx context.Context, actor, target uuid.UUID) (int64, error) {
	if actor == uuid.Nil || target == uuid.Nil {
		return 0, errors.New("validation: empty actor/target")
	}
	removed, err := s.repo.Unfollow(ctx, actor, target)
	if err != nil {
		return 0, err
	}
	outcome := "noop"
	if removed > 0 {
		outcome = "removed"
	}
	metrics.FollowMutations.WithLabelValues("unfollow", outcome).Inc()
	s.log.Info("unfollow",
		zap.String("actor", actor.String()),
		zap.String("target", target.String()),
		zap.Int64("removed", removed),
	)
	return removed, nil
}

// IsFollowing checks edge existence.
func (s *FollowServiceImpl) IsFollowing(ctx context.Context, follower, following uuid.UUID) (bool, error) {
	if follower == uuid.Nil || following == uuid.Nil {
		return false, errors.New("validation: empty follower/following")
	}
	return s.repo.IsFollowing(ctx, follower, following)
}

// Following lists followees; ordering is the presentation layer's concern.
func (s *FollowServiceImpl) Following(ctx context.Context, user uuid.UUID) ([]uuid.UUID, error) {
	if user == uuid.Nil {
		return nil, errors.New("validation: empty user")
	}
	return s.repo.FollowingOf(ctx, user)
}

// Followers lists followers; ordering is the presentation layer's concern.
func (s *FollowServiceImpl) Followers(ctx context.Context, user uuid.UUID) ([]uuid.UUID, error) {
	if user == uuid.Nil {
		return nil, errors.New("validation: empty user")
	}
	return s.repo.FollowersOf(ctx, user)
}
