package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/and161185/curio/internal/model"
	"github.com/and161185/curio/internal/repository"
	"github.com/and161185/curio/internal/visibility"
)

// FeedService builds the "people I follow" collection feed.
type FeedService interface {
	// Feed returns collections from followed owners visible to the viewer,
	// newest first. Anonymous viewers get an empty feed.
	Feed(ctx context.Context, viewer model.Viewer) ([]model.CollectionWithStats, error)
}

type FeedServiceImpl struct {
	repo   repository.CollectionRepository
	policy *visibility.FeedPolicy
	log    *zap.Logger
}

// NewFeedService constructs FeedService.
func NewFeedService(repo repository.CollectionRepository, policy *visibility.FeedPolicy, log *zap.Logger) *FeedServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &FeedServiceImpl{repo: repo, policy: policy, log: log}
}

// Feed pushes the feed predicate down to storage. The predicate already
// encodes base membership (viewer follows owner) and the mutuality rule for
// following_only collections.
func (s *FeedServiceImpl) Feed(ctx context.Context, viewer model.Viewer) ([]model.CollectionWithStats, error) {
	if viewer.IsAnonymous() {
		return []model.CollectionWithStats{}, nil
	}
	return s.repo.ListFeed(ctx, s.policy.Predicate(viewer))
}
