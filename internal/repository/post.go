package repository

import (
	"context"
	"errors"

	"yatube/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	List(ctx context.Context, filter models.PostFilter, limit, offset int) ([]*models.Post, error)
	Count(ctx context.Context, filter models.PostFilter) (int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// Update rewrites the mutable columns. CreatedAt and AuthorID are never touched.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{ID: post.ID}).
		Select("text", "group_id", "image").
		Updates(map[string]interface{}{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// List returns one window of the filtered listing, newest first.
func (r *postRepository) List(ctx context.Context, filter models.PostFilter, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyFilter(r.db.WithContext(ctx), filter).
		Preload("Author").
		Preload("Group").
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context, filter models.PostFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.Post{}), filter).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// applyFilter narrows the posts query. FollowerID is resolved through a
// subquery on follows so the feed always reflects the current graph.
func (r *postRepository) applyFilter(db *gorm.DB, filter models.PostFilter) *gorm.DB {
	if filter.GroupID != 0 {
		db = db.Where("posts.group_id = ?", filter.GroupID)
	}
	if filter.AuthorID != 0 {
		db = db.Where("posts.author_id = ?", filter.AuthorID)
	}
	if filter.FollowerID != 0 {
		followed := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Follow{}).
			Select("author_id").
			Where("user_id = ?", filter.FollowerID)
		db = db.Where("posts.author_id IN (?)", followed)
	}
	return db
}
