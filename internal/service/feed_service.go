package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/pagination"
	"yatube/internal/repository"
)

// FeedService composes a user's subscription feed. The feed is recomputed from
// the follow graph on every call.
type FeedService struct {
	posts    repository.PostRepository
	pageSize int
}

func NewFeedService(posts repository.PostRepository, pageSize int) *FeedService {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &FeedService{posts: posts, pageSize: pageSize}
}

// FeedFor returns one page of posts by authors userID follows, newest first.
func (s *FeedService) FeedFor(ctx context.Context, userID uint, page int) (PostPage, error) {
	if userID == 0 {
		return PostPage{}, models.NewUnauthorizedError("Authentication required")
	}

	return listPosts(ctx, s.posts, models.PostFilter{FollowerID: userID}, s.pageSize, page)
}
