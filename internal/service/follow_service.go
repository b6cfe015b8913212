package service

import (
	"context"
	"log/slog"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
)

// FollowService maintains the directed follow graph between users.
type FollowService struct {
	follows repository.FollowRepository
	users   repository.UserRepository
}

// FollowStats is the follow state shown on a profile.
type FollowStats struct {
	Following      bool  `json:"following"`
	FollowingCount int64 `json:"following_count"`
	FollowerCount  int64 `json:"follower_count"`
}

func NewFollowService(follows repository.FollowRepository, users repository.UserRepository) *FollowService {
	return &FollowService{follows: follows, users: users}
}

// Follow records that followerID follows authorID. Self-follows and existing
// edges are silently ignored.
func (s *FollowService) Follow(ctx context.Context, followerID, authorID uint) error {
	if followerID == 0 {
		return models.NewUnauthorizedError("Authentication required")
	}
	if followerID == authorID {
		return nil
	}
	if err := s.follows.Create(ctx, followerID, authorID); err != nil {
		return err
	}
	observability.FollowChanges.WithLabelValues("follow").Inc()
	middleware.Logger.InfoContext(ctx, "follow recorded", slog.Uint64("author_id", uint64(authorID)))
	return nil
}

// Unfollow removes the edge if present.
func (s *FollowService) Unfollow(ctx context.Context, followerID, authorID uint) error {
	if followerID == 0 {
		return models.NewUnauthorizedError("Authentication required")
	}
	if err := s.follows.Delete(ctx, followerID, authorID); err != nil {
		return err
	}
	observability.FollowChanges.WithLabelValues("unfollow").Inc()
	return nil
}

// FollowByUsername follows the user with the given username.
func (s *FollowService) FollowByUsername(ctx context.Context, followerID uint, username string) (*models.User, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return author, s.Follow(ctx, followerID, author.ID)
}

// UnfollowByUsername unfollows the user with the given username.
func (s *FollowService) UnfollowByUsername(ctx context.Context, followerID uint, username string) (*models.User, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return author, s.Unfollow(ctx, followerID, author.ID)
}

// IsFollowing reports whether followerID follows authorID. Anonymous viewers follow nobody.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error) {
	if followerID == 0 {
		return false, nil
	}
	return s.follows.Exists(ctx, followerID, authorID)
}

func (s *FollowService) FollowingCount(ctx context.Context, userID uint) (int64, error) {
	return s.follows.CountFollowing(ctx, userID)
}

func (s *FollowService) FollowerCount(ctx context.Context, userID uint) (int64, error) {
	return s.follows.CountFollowers(ctx, userID)
}

// Stats gathers the follow flag and counters for viewerID looking at authorID.
func (s *FollowService) Stats(ctx context.Context, viewerID, authorID uint) (FollowStats, error) {
	var stats FollowStats
	var err error
	if stats.Following, err = s.IsFollowing(ctx, viewerID, authorID); err != nil {
		return FollowStats{}, err
	}
	if stats.FollowingCount, err = s.FollowingCount(ctx, authorID); err != nil {
		return FollowStats{}, err
	}
	if stats.FollowerCount, err = s.FollowerCount(ctx, authorID); err != nil {
		return FollowStats{}, err
	}
	return stats, nil
}
