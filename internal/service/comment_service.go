package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
	"yatube/internal/validation"
)

type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
}

type CreateCommentInput struct {
	PostID   uint
	AuthorID uint
	Text     string
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

// Create appends a comment to an existing post.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.AuthorID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if _, err := s.posts.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	text, err := validation.NormalizeText(in.Text)
	if err != nil {
		return nil, models.NewFieldError("text", err.Error())
	}

	comment := &models.Comment{
		Text:     text,
		AuthorID: in.AuthorID,
		PostID:   in.PostID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.CommentsCreated.Inc()
	return comment, nil
}

func (s *CommentService) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}
