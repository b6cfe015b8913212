package service

import (
	"context"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/validation"
)

type GroupService struct {
	groups repository.GroupRepository
}

type CreateGroupInput struct {
	Title       string
	Slug        string
	Description string
}

func NewGroupService(groups repository.GroupRepository) *GroupService {
	return &GroupService{groups: groups}
}

// Create registers a group. Duplicate slugs surface as a validation error.
func (s *GroupService) Create(ctx context.Context, in CreateGroupInput) (*models.Group, error) {
	title := strings.TrimSpace(in.Title)
	slug := strings.TrimSpace(in.Slug)

	if err := validation.ValidateGroupTitle(title); err != nil {
		return nil, models.NewFieldError("title", err.Error())
	}
	if err := validation.ValidateGroupSlug(slug); err != nil {
		return nil, models.NewFieldError("slug", err.Error())
	}

	group := &models.Group{Title: title, Slug: slug, Description: strings.TrimSpace(in.Description)}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) List(ctx context.Context) ([]models.Group, error) {
	return s.groups.List(ctx)
}
