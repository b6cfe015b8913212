package middleware

import (
	"context"
	"net/url"
	"strings"

	"yatube/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// AccessTokenCookie carries the session JWT for browser clients.
const AccessTokenCookie = "access_token"

const localIdentity = "identity"

// Authenticator resolves the request identity from a bearer token or the
// access_token cookie.
type Authenticator struct {
	tokens      *auth.Tokens
	revocations *auth.Revocations
	loginPath   string
}

func NewAuthenticator(tokens *auth.Tokens, revocations *auth.Revocations, loginPath string) *Authenticator {
	return &Authenticator{tokens: tokens, revocations: revocations, loginPath: loginPath}
}

// TokenFromRequest returns the raw token, preferring the Authorization header.
func TokenFromRequest(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Cookies(AccessTokenCookie)
}

// Identify attaches the identity of a valid, unrevoked token to the request.
// Anonymous requests pass through untouched.
func (a *Authenticator) Identify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := TokenFromRequest(c)
		if raw == "" {
			return c.Next()
		}

		id, err := a.tokens.Parse(raw)
		if err != nil || a.revocations.IsRevoked(c.UserContext(), id.TokenID) {
			return c.Next()
		}

		c.Locals(localIdentity, id)
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalUsername, id.Username)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, id.UserID))
		return c.Next()
	}
}

// Required redirects anonymous requests to the login page, passing the
// original URL as ?next=. It expects Identify to have run first.
func (a *Authenticator) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) != 0 {
			return c.Next()
		}
		return c.Redirect(a.loginPath+"?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
	}
}

// UserID returns the authenticated user ID, or 0 for anonymous requests.
func UserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals(LocalUserID).(uint); ok {
		return id
	}
	return 0
}

// Username returns the authenticated username, or "" for anonymous requests.
func Username(c *fiber.Ctx) string {
	if name, ok := c.Locals(LocalUsername).(string); ok {
		return name
	}
	return ""
}

// CurrentIdentity returns the verified token identity, if any.
func CurrentIdentity(c *fiber.Ctx) *auth.Identity {
	id, _ := c.Locals(localIdentity).(*auth.Identity)
	return id
}
