package cache

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisStorage(t *testing.T) (*Storage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewStorage(client, "test:"), mr
}

func TestStorage_RoundTrip(t *testing.T) {
	s, mr := newMiniredisStorage(t)

	val, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("k", []byte("v"), time.Minute))
	assert.True(t, mr.Exists("test:k"))

	val, err = s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	mr.FastForward(2 * time.Minute)
	val, err = s.Get("k")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Delete("a"))
	assert.False(t, mr.Exists("test:a"))
}

func TestStorage_ResetOnlyTouchesPrefix(t *testing.T) {
	s, mr := newMiniredisStorage(t)
	require.NoError(t, mr.Set("other", "keep"))
	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))

	require.NoError(t, s.Reset())
	assert.False(t, mr.Exists("test:a"))
	assert.False(t, mr.Exists("test:b"))
	assert.True(t, mr.Exists("other"))
	assert.NoError(t, s.Close())
}

func TestConnect_Unreachable(t *testing.T) {
	assert.Nil(t, Connect(context.Background(), "127.0.0.1:1"))

	mr := miniredis.RunT(t)
	client := Connect(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NotNil(t, client)
	_ = client.Close()
}

func newCountingApp(cfg PageCacheConfig) (*fiber.App, *int) {
	calls := 0
	app := fiber.New()
	app.Get("/", PageCache(cfg), func(c *fiber.Ctx) error {
		calls++
		return c.SendString("render " + strconv.Itoa(calls))
	})
	return app, &calls
}

func get(t *testing.T, app *fiber.App, target, cookie string) (string, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: cookie})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body), resp.Header.Get(CacheHeader)
}

func TestPageCache_ServesCachedPage(t *testing.T) {
	s, _ := newMiniredisStorage(t)
	app, calls := newCountingApp(PageCacheConfig{TTL: time.Minute, IdentityCookie: "access_token", Storage: s})

	body, header := get(t, app, "/", "")
	assert.Equal(t, "render 1", body)
	assert.Equal(t, "miss", header)

	body, header = get(t, app, "/", "")
	assert.Equal(t, "render 1", body)
	assert.Equal(t, "hit", header)
	assert.Equal(t, 1, *calls)
}

func TestPageCache_KeyIncludesIdentityAndQuery(t *testing.T) {
	app, calls := newCountingApp(PageCacheConfig{TTL: time.Minute, IdentityCookie: "access_token"})

	get(t, app, "/", "alice")
	get(t, app, "/", "bob")
	get(t, app, "/?page=2", "alice")
	assert.Equal(t, 3, *calls)

	_, header := get(t, app, "/", "alice")
	assert.Equal(t, "hit", header)
	assert.Equal(t, 3, *calls)
}

func TestPageCache_Expires(t *testing.T) {
	app, calls := newCountingApp(PageCacheConfig{TTL: time.Second, IdentityCookie: "access_token"})

	get(t, app, "/", "")
	time.Sleep(2500 * time.Millisecond)
	body, _ := get(t, app, "/", "")
	assert.Equal(t, "render 2", body)
	assert.Equal(t, 2, *calls)
}

func TestPageCache_DisabledWithZeroTTL(t *testing.T) {
	app, calls := newCountingApp(PageCacheConfig{})
	get(t, app, "/", "")
	get(t, app, "/", "")
	assert.Equal(t, 2, *calls)
}
