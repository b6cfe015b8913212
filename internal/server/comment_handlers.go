package server

import (
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /posts/:id/comment/
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	text := c.FormValue("text")
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var req struct {
			Text string `json:"text"`
		}
		if err := c.BodyParser(&req); err == nil {
			text = req.Text
		}
	}

	_, err = s.commentService.Create(c.UserContext(), service.CreateCommentInput{
		PostID:   id,
		AuthorID: middleware.UserID(c),
		Text:     text,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Redirect(postPath(id), fiber.StatusFound)
}
