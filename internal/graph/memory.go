// Package graph provides an in-memory follow graph backed by adjacency sets.
// It implements the same contract as the PostgreSQL adapter and is the default
// choice for tests and embedded use.
package graph

import (
	"context"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/curio/internal/errs"
)

// Memory is a mutex-guarded adjacency-set follow graph.
type Memory struct {
	mu sync.RWMutex
	// following[a] holds everyone a follows.
	following map[uuid.UUID]map[uuid.UUID]struct{}
	// followers[b] holds everyone following b.
	followers map[uuid.UUID]map[uuid.UUID]struct{}
}

// NewMemory returns an empty in-memory follow graph.
func NewMemory() *Memory {
	return &Memory{
		following: make(map[uuid.UUID]map[uuid.UUID]struct{}),
		followers: make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

// Follow creates the edge (actor -> target) and reports whether it was new.
// Following oneself is a domain error; re-following is a no-op.
func (m *Memory) Follow(_ context.Context, actor, target uuid.UUID) (bool, error) {
	if actor == target {
		return false, errs.ErrSelfFollow
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.following[actor][target]; ok {
		return false, nil
	}
	if m.following[actor] == nil {
		m.following[actor] = make(map[uuid.UUID]struct{})
	}
	if m.followers[target] == nil {
		m.followers[target] = make(map[uuid.UUID]struct{})
	}
	m.following[actor][target] = struct{}{}
	m.followers[target][actor] = struct{}{}
	return true, nil
}

// Unfollow removes the edge if present and returns the number removed (0 or 1).
func (m *Memory) Unfollow(_ context.Context, actor, target uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.following[actor][target]; !ok {
		return 0, nil
	}
	delete(m.following[actor], target)
	delete(m.followers[target], actor)
	return 1, nil
}

// IsFollowing reports whether the edge (follower -> following) exists.
func (m *Memory) IsFollowing(_ context.Context, follower, following uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.following[follower][following]
	return ok, nil
}

// FollowingOf returns everyone the user follows. Ordering is unspecified.
func (m *Memory) FollowingOf(_ context.Context, user uuid.UUID) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return keys(m.following[user]), nil
}

// FollowersOf returns everyone following the user. Ordering is unspecified.
func (m *Memory) FollowersOf(_ context.Context, user uuid.UUID) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return keys(m.followers[user]), nil
}

func keys(set map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
