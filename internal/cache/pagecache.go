package cache

import (
	"strconv"
	"time"

	"yatube/internal/observability"

	"github.com/cespare/xxhash/v2"
	"github.com/gofiber/fiber/v2"
	fibercache "github.com/gofiber/fiber/v2/middleware/cache"
)

const (
	// CacheHeader reports hit or miss on cached responses.
	CacheHeader   = "X-Cache"
	pageKeyPrefix = "page:"
)

// PageCacheConfig configures the whole-page cache.
type PageCacheConfig struct {
	TTL time.Duration
	// IdentityCookie is folded into the key so viewers never share pages.
	IdentityCookie string
	// Storage backs the cache; nil keeps entries in process memory.
	Storage fiber.Storage
}

// PageKey derives the cache key for a request from its URL and identity.
func PageKey(c *fiber.Ctx, identityCookie string) string {
	h := xxhash.New()
	_, _ = h.WriteString(c.OriginalURL())
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(c.Cookies(identityCookie))
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(c.Get(fiber.HeaderAuthorization))
	return pageKeyPrefix + strconv.FormatUint(h.Sum64(), 16)
}

// PageCache caches successful GET responses for TTL. Writes elsewhere do not
// invalidate entries; they simply expire.
func PageCache(cfg PageCacheConfig) fiber.Handler {
	if cfg.TTL <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	handler := fibercache.New(fibercache.Config{
		Expiration:   cfg.TTL,
		CacheHeader:  CacheHeader,
		CacheControl: false,
		Storage:      cfg.Storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return PageKey(c, cfg.IdentityCookie)
		},
	})

	return func(c *fiber.Ctx) error {
		err := handler(c)
		switch c.GetRespHeader(CacheHeader) {
		case "hit":
			observability.PageCacheLookups.WithLabelValues("hit").Inc()
		case "miss":
			observability.PageCacheLookups.WithLabelValues("miss").Inc()
		}
		return err
	}
}
