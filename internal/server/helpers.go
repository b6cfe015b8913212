package server

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/pagination"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 404 JSON response and returns errResponseWritten:
// a malformed id can never name an existing object.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", c.Params(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// pageNumber reads ?page=; malformed values select the first page.
func pageNumber(c *fiber.Ctx) int {
	return pagination.ParsePageNumber(c.Query("page"))
}

// respondError writes err with the status its AppError code maps to.
func respondError(c *fiber.Ctx, err error) error {
	status := models.StatusCode(err)
	if status == fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			"path", c.Path(), "error", err.Error())
	}
	return models.RespondWithError(c, status, err)
}

func postPath(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}

func profilePath(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

// safeNext accepts only same-site absolute paths as a post-login target.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return ""
	}
	return next
}

// postForm is the submitted post create/edit form.
type postForm struct {
	Text    string
	GroupID *uint
	Image   *service.ImageUpload
}

// readPostForm accepts JSON bodies as well as url-encoded and multipart forms.
// An empty or zero group selects no group.
func (s *Server) readPostForm(c *fiber.Ctx) (*postForm, error) {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var req struct {
			Text  string `json:"text"`
			Group *uint  `json:"group"`
		}
		if err := c.BodyParser(&req); err != nil {
			return nil, models.NewValidationError("Invalid request body")
		}
		return &postForm{Text: req.Text, GroupID: req.Group}, nil
	}

	form := &postForm{Text: c.FormValue("text")}
	if raw := strings.TrimSpace(c.FormValue("group")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, models.NewFieldError("group", "Select a valid group")
		}
		gid := uint(id)
		form.GroupID = &gid
	}

	image, err := s.readImage(c)
	if err != nil {
		return nil, err
	}
	form.Image = image
	return form, nil
}

// readImage returns the uploaded "image" file, or nil when none was sent.
// Reads stop one byte past the size limit so the service can reject oversize files.
func (s *Server) readImage(c *fiber.Ctx) (*service.ImageUpload, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	mf, err := c.MultipartForm()
	if err != nil {
		return nil, models.NewFieldError("image", "Upload a valid image")
	}
	files := mf.File["image"]
	if len(files) == 0 || files[0].Size == 0 {
		return nil, nil
	}

	src, err := files[0].Open()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, s.maxImageBytes()+1))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &service.ImageUpload{Filename: files[0].Filename, Data: data}, nil
}
