package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"yatube/internal/config"
	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
	images *testutil.MemoryImageStore
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:            "server-test-secret-that-is-long-enough",
		Port:                 "0",
		Env:                  "test",
		PostsPerPage:         10,
		IndexCacheTTLSeconds: 0,
		MediaURLPrefix:       "/media",
		ImageMaxUploadSizeMB: 1,
	}
}

func newTestEnv(t *testing.T, cfg *config.Config, rdb *redis.Client) *testEnv {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	if cfg == nil {
		cfg = testConfig()
	}
	db := testutil.NewSQLiteDB(t)
	images := testutil.NewMemoryImageStore()

	s, err := NewServerWithDeps(cfg, db, rdb, images)
	require.NoError(t, err)

	return &testEnv{server: s, app: s.App(), db: db, images: images}
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// tokenFor issues a session token for user.
func (e *testEnv) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := e.server.tokens.Issue(user.ID, user.Username)
	require.NoError(t, err)
	return token
}

// do sends a request, optionally authenticated with token via the session cookie.
func (e *testEnv) do(t *testing.T, method, target, token string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) get(t *testing.T, target, token string) *http.Response {
	t.Helper()
	return e.do(t, http.MethodGet, target, token, nil, "")
}

func (e *testEnv) postForm(t *testing.T, target, token string, values url.Values) *http.Response {
	t.Helper()
	return e.do(t, http.MethodPost, target, token,
		strings.NewReader(values.Encode()), fiber.MIMEApplicationForm)
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

type pageBody struct {
	Items       []models.Post `json:"items"`
	Number      int           `json:"number"`
	NumPages    int           `json:"num_pages"`
	Count       int           `json:"count"`
	HasNext     bool          `json:"has_next"`
	HasPrevious bool          `json:"has_previous"`
}

type listingBody struct {
	Page pageBody `json:"page_obj"`
}

func TestLivenessCheck(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	resp := env.get(t, "/health/live", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, "up", body["status"])
}

func TestReadinessCheck(t *testing.T) {
	t.Run("without redis", func(t *testing.T) {
		env := newTestEnv(t, nil, nil)

		resp := env.get(t, "/health/ready", "")
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		decode(t, resp, &body)
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "healthy", body.Checks["database"])
		assert.Equal(t, "unavailable", body.Checks["redis"])
	})

	t.Run("redis down", func(t *testing.T) {
		mr, rdb := newMiniredis(t)
		env := newTestEnv(t, nil, rdb)
		mr.Close()

		resp := env.get(t, "/health/ready", "")
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.get(t, "/", "")

	resp := env.get(t, "/metrics", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http_requests_total")
}

func TestRequiredRoutesRedirectAnonymous(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	author := testutil.CreateUser(t, env.db, "author")
	post := testutil.CreatePosts(t, env.db, author, nil, 1, time.Now().Add(-time.Hour))[0]

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/create/"},
		{http.MethodPost, "/create/"},
		{http.MethodGet, "/follow/"},
		{http.MethodGet, "/profile/author/follow/"},
		{http.MethodGet, "/profile/author/unfollow/"},
		{http.MethodGet, postPath(post.ID) + "edit/"},
		{http.MethodPost, postPath(post.ID) + "edit/"},
		{http.MethodPost, postPath(post.ID) + "comment/"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp := env.do(t, tc.method, tc.path, "", nil, "")
			assert.Equal(t, fiber.StatusFound, resp.StatusCode)
			assert.Equal(t, "/auth/login/?next="+url.QueryEscape(tc.path), resp.Header.Get("Location"))
		})
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	resp := env.get(t, "/nope/", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
