package server

import (
	"yatube/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// ProfileFollow handles GET /profile/:username/follow/
// Following yourself or someone already followed changes nothing.
func (s *Server) ProfileFollow(c *fiber.Ctx) error {
	author, err := s.followService.FollowByUsername(c.UserContext(), middleware.UserID(c), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Redirect(profilePath(author.Username), fiber.StatusFound)
}

// ProfileUnfollow handles GET /profile/:username/unfollow/
func (s *Server) ProfileUnfollow(c *fiber.Ctx) error {
	author, err := s.followService.UnfollowByUsername(c.UserContext(), middleware.UserID(c), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Redirect(profilePath(author.Username), fiber.StatusFound)
}
