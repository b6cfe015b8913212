package server

import (
	"log/slog"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

type credentials struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Next     string `json:"next" form:"next"`
}

// LoginPrompt handles GET /auth/login/
func (s *Server) LoginPrompt(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"next": safeNext(c.Query("next")),
		"form": formDescriptor{
			Action: loginPath,
			Fields: []string{"username", "password", "next"},
		},
	})
}

// Signup handles POST /auth/signup/
func (s *Server) Signup(c *fiber.Ctx) error {
	var req credentials
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Signup(c.UserContext(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	token, err := s.issueSession(c, user)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /auth/login/
// With a safe ?next= (or form field) the client is redirected there.
func (s *Server) Login(c *fiber.Ctx) error {
	var req credentials
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, err := s.issueSession(c, user)
	if err != nil {
		return respondError(c, err)
	}

	next := req.Next
	if next == "" {
		next = c.Query("next")
	}
	if next = safeNext(next); next != "" {
		return c.Redirect(next, fiber.StatusFound)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /auth/logout/
// The current token is revoked until it would have expired anyway.
func (s *Server) Logout(c *fiber.Ctx) error {
	if id := middleware.CurrentIdentity(c); id != nil {
		if err := s.revocations.Revoke(c.UserContext(), id.TokenID, id.ExpiresAt); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "token revocation failed",
				slog.String("error", err.Error()))
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (s *Server) issueSession(c *fiber.Ctx, user *models.User) (string, error) {
	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.tokens.TTL()),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return token, nil
}
