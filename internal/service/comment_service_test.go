package service

import (
	"context"
	"testing"
	"time"

	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_Create(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, s.db, "author")
	reader := testutil.CreateUser(t, s.db, "reader")
	post := testutil.CreatePosts(t, s.db, author, nil, 1, time.Now())[0]

	t.Run("any authenticated user may comment", func(t *testing.T) {
		c, err := s.comments.Create(ctx, CreateCommentInput{PostID: post.ID, AuthorID: reader.ID, Text: "  great post "})
		require.NoError(t, err)
		assert.Equal(t, "great post", c.Text)
		assert.Equal(t, reader.ID, c.AuthorID)
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := s.comments.Create(ctx, CreateCommentInput{PostID: post.ID, AuthorID: reader.ID, Text: "   "})
		assertValidationError(t, err, "text")
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := s.comments.Create(ctx, CreateCommentInput{PostID: 999, AuthorID: reader.ID, Text: "hi"})
		assertCode(t, err, models.CodeNotFound)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := s.comments.Create(ctx, CreateCommentInput{PostID: post.ID, Text: "hi"})
		assertCode(t, err, models.CodeUnauthorized)
	})

	comments, err := s.comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}
