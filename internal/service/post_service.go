package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/pagination"
	"yatube/internal/repository"
	"yatube/internal/storage"
	"yatube/internal/validation"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// PostPage is one page of a post listing.
type PostPage = pagination.Page[*models.Post]

type PostService struct {
	posts         repository.PostRepository
	groups        repository.GroupRepository
	users         repository.UserRepository
	comments      repository.CommentRepository
	images        storage.Store
	pageSize      int
	maxImageBytes int64
}

// PostServiceOptions tunes listing and upload limits.
type PostServiceOptions struct {
	PageSize      int
	MaxImageBytes int64
}

// ImageUpload is a raw uploaded file.
type ImageUpload struct {
	Filename string
	Data     []byte
}

type CreatePostInput struct {
	AuthorID uint
	Text     string
	GroupID  *uint
	Image    *ImageUpload
}

type EditPostInput struct {
	PostID  uint
	UserID  uint
	Text    string
	GroupID *uint
	Image   *ImageUpload
}

// GroupPosts is a group together with one page of its posts.
type GroupPosts struct {
	Group *models.Group `json:"group"`
	Page  PostPage      `json:"page_obj"`
}

// AuthorPosts is an author together with one page of their posts.
type AuthorPosts struct {
	Author *models.User `json:"author"`
	Page   PostPage     `json:"page_obj"`
}

// PostDetail is a post with its comments, oldest first.
type PostDetail struct {
	Post        *models.Post      `json:"post"`
	Comments    []*models.Comment `json:"comments"`
	AuthorPosts int64             `json:"author_posts_count"`
}

func NewPostService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	comments repository.CommentRepository,
	images storage.Store,
	opts PostServiceOptions,
) *PostService {
	if opts.PageSize <= 0 {
		opts.PageSize = pagination.DefaultPageSize
	}
	return &PostService{
		posts:         posts,
		groups:        groups,
		users:         users,
		comments:      comments,
		images:        images,
		pageSize:      opts.PageSize,
		maxImageBytes: opts.MaxImageBytes,
	}
}

// ListAll returns one page of every post, newest first.
func (s *PostService) ListAll(ctx context.Context, page int) (PostPage, error) {
	return s.listPage(ctx, models.PostFilter{}, page)
}

// ListByGroup returns the group identified by slug and one page of its posts.
func (s *PostService) ListByGroup(ctx context.Context, slug string, page int) (*GroupPosts, error) {
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	p, err := s.listPage(ctx, models.PostFilter{GroupID: group.ID}, page)
	if err != nil {
		return nil, err
	}
	return &GroupPosts{Group: group, Page: p}, nil
}

// ListByAuthor returns the user identified by username and one page of their posts.
func (s *PostService) ListByAuthor(ctx context.Context, username string, page int) (*AuthorPosts, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	p, err := s.listPage(ctx, models.PostFilter{AuthorID: author.ID}, page)
	if err != nil {
		return nil, err
	}
	return &AuthorPosts{Author: author, Page: p}, nil
}

func (s *PostService) listPage(ctx context.Context, filter models.PostFilter, page int) (PostPage, error) {
	return listPosts(ctx, s.posts, filter, s.pageSize, page)
}

// listPosts counts the posts matching filter and loads the requested page of them.
func listPosts(ctx context.Context, posts repository.PostRepository, filter models.PostFilter, pageSize, page int) (PostPage, error) {
	count, err := posts.Count(ctx, filter)
	if err != nil {
		return PostPage{}, err
	}

	w := pagination.Resolve(int(count), pageSize, page)
	items := []*models.Post{}
	if w.Limit > 0 {
		items, err = posts.List(ctx, filter, w.Limit, w.Offset)
		if err != nil {
			return PostPage{}, err
		}
	}
	return pagination.NewPage(items, w), nil
}

func (s *PostService) Get(ctx context.Context, postID uint) (*models.Post, error) {
	return s.posts.GetByID(ctx, postID)
}

// Detail returns the post, its comments and the author's total post count.
func (s *PostService) Detail(ctx context.Context, postID uint) (*PostDetail, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	authorPosts, err := s.posts.Count(ctx, models.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments, AuthorPosts: authorPosts}, nil
}

func (s *PostService) Create(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "post.create", attribute.Int("author.id", int(in.AuthorID)))
	defer func() { observability.EndSpan(span, err) }()

	if in.AuthorID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	text, groupID, err := s.validateForm(ctx, in.Text, in.GroupID)
	if err != nil {
		return nil, err
	}

	post = &models.Post{
		Text:     text,
		AuthorID: in.AuthorID,
		GroupID:  groupID,
	}
	var imageKey string
	if in.Image != nil {
		if post.Image, imageKey, err = s.storeImage(ctx, in.Image); err != nil {
			return nil, err
		}
	}

	if err = s.posts.Create(ctx, post); err != nil {
		s.discardImage(ctx, imageKey)
		return nil, err
	}

	observability.PostsWritten.WithLabelValues("create").Inc()
	middleware.Logger.InfoContext(ctx, "post created", slog.Uint64("post_id", uint64(post.ID)))
	return post, nil
}

// Edit overwrites text, group and (when given) image of a post the actor authored.
// The post keeps its id, author and creation time.
func (s *PostService) Edit(ctx context.Context, in EditPostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "post.edit", attribute.Int("post.id", int(in.PostID)))
	defer func() { observability.EndSpan(span, err) }()

	post, err = s.posts.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !CanMutate(in.UserID, post) {
		observability.DeniedEdits.Inc()
		return nil, models.NewForbiddenError("Only the author can edit this post")
	}

	text, groupID, err := s.validateForm(ctx, in.Text, in.GroupID)
	if err != nil {
		return nil, err
	}

	post.Text = text
	post.GroupID = groupID
	post.Group = nil
	var imageKey string
	if in.Image != nil {
		if post.Image, imageKey, err = s.storeImage(ctx, in.Image); err != nil {
			return nil, err
		}
	}

	if err = s.posts.Update(ctx, post); err != nil {
		s.discardImage(ctx, imageKey)
		return nil, err
	}

	observability.PostsWritten.WithLabelValues("edit").Inc()
	return post, nil
}

// validateForm normalizes text and checks that the selected group exists.
// A zero group ID means "no group".
func (s *PostService) validateForm(ctx context.Context, rawText string, groupID *uint) (string, *uint, error) {
	text, err := validation.NormalizeText(rawText)
	if err != nil {
		return "", nil, models.NewFieldError("text", err.Error())
	}

	if groupID == nil || *groupID == 0 {
		return text, nil, nil
	}
	if _, err := s.groups.GetByID(ctx, *groupID); err != nil {
		if models.IsNotFound(err) {
			return "", nil, models.NewFieldError("group", "Select a valid choice. That choice is not one of the available choices.")
		}
		return "", nil, err
	}
	id := *groupID
	return text, &id, nil
}

// storeImage validates upload and saves it, returning its URL and object key.
func (s *PostService) storeImage(ctx context.Context, upload *ImageUpload) (string, string, error) {
	info, err := storage.Inspect(upload.Data, s.maxImageBytes)
	if err != nil {
		return "", "", models.NewFieldError("image", err.Error())
	}
	if s.images == nil {
		return "", "", models.NewInternalError(errors.New("image storage is not configured"))
	}

	key := fmt.Sprintf("posts/%s%s", uuid.NewString(), info.Ext)
	url, err := s.images.Save(ctx, key, info.ContentType, upload.Data)
	if err != nil {
		return "", "", models.NewInternalError(err)
	}
	middleware.Logger.InfoContext(ctx, "post image stored",
		slog.String("key", key),
		slog.String("original_name", strings.TrimSpace(upload.Filename)),
	)
	return url, key, nil
}

// discardImage removes an image whose post could not be written.
func (s *PostService) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Delete(context.WithoutCancel(ctx), key); err != nil {
		middleware.Logger.WarnContext(ctx, "orphaned post image",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
