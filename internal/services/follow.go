package services

import (
	"context"

	"yatube/internal/repository"
)

// FollowObserver is told when an edge is actually created or removed.
type FollowObserver interface {
	FollowChanged(action string)
}

// FollowService creates and removes follow edges. Callers are expected to
// have authenticated the follower already.
type FollowService struct {
	follows  repository.FollowRepository
	observer FollowObserver
}

// NewFollowService creates a follow service. observer may be nil.
func NewFollowService(follows repository.FollowRepository, observer FollowObserver) *FollowService {
	return &FollowService{follows: follows, observer: observer}
}

// Follow makes followerID follow targetID. Following yourself or an author
// you already follow does nothing.
func (s *FollowService) Follow(ctx context.Context, followerID, targetID uint) error {
	if followerID == targetID {
		return nil
	}
	created, err := s.follows.Create(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if created && s.observer != nil {
		s.observer.FollowChanged("follow")
	}
	return nil
}

// Unfollow removes the edge if there is one.
func (s *FollowService) Unfollow(ctx context.Context, followerID, targetID uint) error {
	if followerID == targetID {
		return nil
	}
	removed, err := s.follows.Delete(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if removed && s.observer != nil {
		s.observer.FollowChanged("unfollow")
	}
	return nil
}

// IsFollowing reports whether followerID follows targetID.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error) {
	if followerID == 0 || followerID == targetID {
		return false, nil
	}
	return s.follows.Exists(ctx, followerID, targetID)
}
