package server

import (
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// formDescriptor tells clients which fields a form accepts and where it posts.
type formDescriptor struct {
	Action string            `json:"action"`
	Fields []string          `json:"fields"`
	Groups []models.Group    `json:"groups,omitempty"`
	IsEdit bool              `json:"is_edit"`
	Values map[string]any    `json:"values,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Index handles GET /
func (s *Server) Index(c *fiber.Ctx) error {
	page, err := s.postService.ListAll(c.UserContext(), pageNumber(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"page_obj": page})
}

// GroupPosts handles GET /group/:slug/
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	res, err := s.postService.ListByGroup(c.UserContext(), c.Params("slug"), pageNumber(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// Profile handles GET /profile/:username/
func (s *Server) Profile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	res, err := s.postService.ListByAuthor(ctx, c.Params("username"), pageNumber(c))
	if err != nil {
		return respondError(c, err)
	}

	stats, err := s.followService.Stats(ctx, middleware.UserID(c), res.Author.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"author":          res.Author,
		"page_obj":        res.Page,
		"following":       stats.Following,
		"following_count": stats.FollowingCount,
		"follower_count":  stats.FollowerCount,
	})
}

// PostDetail handles GET /posts/:id/
func (s *Server) PostDetail(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.postService.Detail(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{
		"post":               detail.Post,
		"comments":           detail.Comments,
		"author_posts_count": detail.AuthorPosts,
		"can_edit":           service.CanMutate(middleware.UserID(c), detail.Post),
	}
	if middleware.UserID(c) != 0 {
		resp["form"] = formDescriptor{
			Action: postPath(id) + "comment/",
			Fields: []string{"text"},
		}
	}
	return c.JSON(resp)
}

// CreatePostForm handles GET /create/
func (s *Server) CreatePostForm(c *fiber.Ctx) error {
	groups, err := s.groupService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"form": formDescriptor{
		Action: "/create/",
		Fields: []string{"text", "group", "image"},
		Groups: groups,
	}})
}

// CreatePost handles POST /create/
func (s *Server) CreatePost(c *fiber.Ctx) error {
	form, err := s.readPostForm(c)
	if err != nil {
		return respondError(c, err)
	}

	_, err = s.postService.Create(c.UserContext(), service.CreatePostInput{
		AuthorID: middleware.UserID(c),
		Text:     form.Text,
		GroupID:  form.GroupID,
		Image:    form.Image,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Redirect(profilePath(middleware.Username(c)), fiber.StatusFound)
}

// EditPostForm handles GET /posts/:id/edit/
// Anyone but the author is sent back to the post.
func (s *Server) EditPostForm(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	ctx := c.UserContext()

	post, err := s.postService.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if !service.CanMutate(middleware.UserID(c), post) {
		return c.Redirect(postPath(id), fiber.StatusFound)
	}

	groups, err := s.groupService.List(ctx)
	if err != nil {
		return respondError(c, err)
	}

	values := map[string]any{"text": post.Text}
	if post.GroupID != nil {
		values["group"] = *post.GroupID
	}
	if post.Image != "" {
		values["image"] = post.Image
	}

	return c.JSON(fiber.Map{
		"post": post,
		"form": formDescriptor{
			Action: postPath(id) + "edit/",
			Fields: []string{"text", "group", "image"},
			Groups: groups,
			IsEdit: true,
			Values: values,
		},
	})
}

// EditPost handles POST /posts/:id/edit/
// A non-author is redirected to the post without any change being made.
func (s *Server) EditPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// Authorize before reading the body so a non-author never sees form errors.
	post, err := s.postService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !service.CanMutate(middleware.UserID(c), post) {
		return c.Redirect(postPath(id), fiber.StatusFound)
	}

	form, err := s.readPostForm(c)
	if err != nil {
		return respondError(c, err)
	}

	_, err = s.postService.Edit(c.UserContext(), service.EditPostInput{
		PostID:  id,
		UserID:  middleware.UserID(c),
		Text:    form.Text,
		GroupID: form.GroupID,
		Image:   form.Image,
	})
	switch {
	case err == nil, models.IsForbidden(err):
		return c.Redirect(postPath(id), fiber.StatusFound)
	default:
		return respondError(c, err)
	}
}

// FollowIndex handles GET /follow/
func (s *Server) FollowIndex(c *fiber.Ctx) error {
	page, err := s.feedService.FeedFor(c.UserContext(), middleware.UserID(c), pageNumber(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"page_obj": page})
}
