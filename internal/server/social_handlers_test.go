package server

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddComment(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	author := testutil.CreateUser(t, env.db, "leo")
	reader := testutil.CreateUser(t, env.db, "reader")
	post := testutil.CreatePosts(t, env.db, author, nil, 1, time.Now().Add(-time.Hour))[0]
	commentPath := postPath(post.ID) + "comment/"

	t.Run("creates and redirects to the post", func(t *testing.T) {
		resp := env.postForm(t, commentPath, env.tokenFor(t, reader), url.Values{"text": {"nice"}})
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, postPath(post.ID), resp.Header.Get("Location"))

		var body struct {
			Comments []models.Comment `json:"comments"`
		}
		decode(t, env.get(t, postPath(post.ID), ""), &body)
		require.Len(t, body.Comments, 1)
		assert.Equal(t, "nice", body.Comments[0].Text)
		assert.Equal(t, "reader", body.Comments[0].Author.Username)
	})

	t.Run("json body", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, commentPath, env.tokenFor(t, reader),
			strings.NewReader(`{"text":"second"}`), fiber.MIMEApplicationJSON)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	})

	t.Run("empty text", func(t *testing.T) {
		resp := env.postForm(t, commentPath, env.tokenFor(t, reader), url.Values{"text": {"  "}})
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		var body models.ErrorResponse
		decode(t, resp, &body)
		assert.Contains(t, body.Fields, "text")
	})

	t.Run("unknown post", func(t *testing.T) {
		resp := env.postForm(t, "/posts/9999/comment/", env.tokenFor(t, reader), url.Values{"text": {"x"}})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestFollowFlow(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	author := testutil.CreateUser(t, env.db, "leo")
	follower := testutil.CreateUser(t, env.db, "fan")
	stranger := testutil.CreateUser(t, env.db, "stranger")
	testutil.CreatePosts(t, env.db, author, nil, 1, time.Now().Add(-time.Hour))

	fanToken := env.tokenFor(t, follower)
	strangerToken := env.tokenFor(t, stranger)

	feed := func(token string) pageBody {
		t.Helper()
		var body listingBody
		resp := env.get(t, "/follow/", token)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		decode(t, resp, &body)
		return body.Page
	}

	assert.Empty(t, feed(fanToken).Items)

	resp := env.get(t, "/profile/leo/follow/", fanToken)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/profile/leo/", resp.Header.Get("Location"))

	// Following twice keeps a single edge.
	env.get(t, "/profile/leo/follow/", fanToken)
	var edges int64
	env.db.Model(&models.Follow{}).Count(&edges)
	assert.EqualValues(t, 1, edges)

	page := feed(fanToken)
	require.Len(t, page.Items, 1)
	assert.Equal(t, author.ID, page.Items[0].AuthorID)
	assert.Empty(t, feed(strangerToken).Items)

	var profile struct {
		Following     bool  `json:"following"`
		FollowerCount int64 `json:"follower_count"`
	}
	decode(t, env.get(t, "/profile/leo/", fanToken), &profile)
	assert.True(t, profile.Following)
	assert.EqualValues(t, 1, profile.FollowerCount)

	resp = env.get(t, "/profile/leo/unfollow/", fanToken)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/profile/leo/", resp.Header.Get("Location"))
	assert.Empty(t, feed(fanToken).Items)

	// Unfollowing again is harmless.
	resp = env.get(t, "/profile/leo/unfollow/", fanToken)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
}

func TestFollowSelfIsNoop(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	author := testutil.CreateUser(t, env.db, "leo")

	resp := env.get(t, "/profile/leo/follow/", env.tokenFor(t, author))
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)

	var edges int64
	env.db.Model(&models.Follow{}).Count(&edges)
	assert.Zero(t, edges)
}

func TestFollowUnknownUser(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	fan := testutil.CreateUser(t, env.db, "fan")

	resp := env.get(t, "/profile/ghost/follow/", env.tokenFor(t, fan))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
