package service

import (
	"errors"
	"testing"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// services bundles real repositories over an in-memory SQLite database.
type services struct {
	db       *gorm.DB
	images   *testutil.MemoryImageStore
	posts    *PostService
	follows  *FollowService
	feed     *FeedService
	comments *CommentService
	users    *UserService
	groups   *GroupService
}

func newServices(t *testing.T) *services {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	postRepo := repository.NewPostRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	userRepo := repository.NewUserRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	images := testutil.NewMemoryImageStore()

	return &services{
		db:       db,
		images:   images,
		posts:    NewPostService(postRepo, groupRepo, userRepo, commentRepo, images, PostServiceOptions{PageSize: 10, MaxImageBytes: 1 << 20}),
		follows:  NewFollowService(followRepo, userRepo),
		feed:     NewFeedService(postRepo, 10),
		comments: NewCommentService(commentRepo, postRepo),
		users:    NewUserService(userRepo),
		groups:   NewGroupService(groupRepo),
	}
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR
// and, when field is non-empty, that the field carries a message.
func assertValidationError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	if field != "" {
		assert.Contains(t, appErr.Fields, field)
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func postIDs(posts []*models.Post) []uint {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
