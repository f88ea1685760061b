package handler

import (
    "context"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/avrorin/blog-platform/internal/middleware"
    "github.com/avrorin/blog-platform/internal/queue"
    "github.com/avrorin/blog-platform/internal/repository"
    queue_publisher "github.com/avrorin/blog-platform/internal/service"
)

// BlogHandler bundles the blog repository and the event publisher used by
// the mutation endpoints. Publish is a field so tests can swap the RabbitMQ
// publisher for a recorder.
type BlogHandler struct {
	Blogs   *repository.BlogRepo
	Publish func(ctx context.Context, ev queue.BlogActivityEvent) error
}

func NewBlogHandler(blogs *repository.BlogRepo) *BlogHandler {
	if blogs == nil {
		panic("nil repository passed to NewBlogHandler")
	}
	return &BlogHandler{Blogs: blogs, Publish: queue_publisher.PublishBlogActivity}
}

type createBlogReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImgSrc      string `json:"imgSrc"`
	UserID      string `json:"userId"`
}

type updateBlogReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImgSrc      string `json:"imgSrc"`
}

// publishActivity fires a blog.activity event without letting broker
// trouble surface to the client.
func (h *BlogHandler) publishActivity(ctx context.Context, action, blogID, userID, title string) {
	if h.Publish == nil {
		return
	}
	_ = h.Publish(ctx, queue.BlogActivityEvent{
		Action:     action,
		BlogID:     blogID,
		UserID:     userID,
		Title:      title,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// GetAll returns one page of blogs (10 per page, most recently updated
// first) with author fields embedded. Public, no authentication.
func (h *BlogHandler) GetAll(c echo.Context) error {
	offset := 0
	if s := c.QueryParam("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			offset = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Blogs.List(ctx, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error fetching blogs", "details": err.Error()})
	}
	return c.JSON(http.StatusOK, items)
}

// GetArticle returns a single blog by the id query parameter. Public.
func (h *BlogHandler) GetArticle(c echo.Context) error {
	id := strings.TrimSpace(c.QueryParam("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Blog ID is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Blogs.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBlogNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Blog not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error fetching blog", "details": err.Error()})
	}
	return c.JSON(http.StatusOK, b)
}

// Create inserts a new blog for the userId given in the body. The endpoint
// is deliberately not authenticated and does not cross-check the owner
// against a token subject; the caller-supplied userId is trusted as-is.
// This mirrors the platform's current API contract and is a known gap.
func (h *BlogHandler) Create(c echo.Context) error {
	var req createBlogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.UserID = strings.TrimSpace(req.UserID)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Title is required"})
	}
	if req.UserID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "User ID is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Blogs.Create(ctx, req.Title, req.Description, req.ImgSrc, req.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error creating blog", "details": err.Error()})
	}

	h.publishActivity(ctx, "created", b.ID, b.UserID, b.Title)
	return c.JSON(http.StatusCreated, b)
}

// Update modifies a blog's title, description and image. The flow is fixed:
// auth gate (router) -> id present -> load -> owner comparison -> mutate.
// A failed step must leave the blog untouched.
func (h *BlogHandler) Update(c echo.Context) error {
	uid, _ := c.Get(middleware.UserIDKey).(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized"})
	}
	id := strings.TrimSpace(c.QueryParam("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Blog ID is required"})
	}
	var req updateBlogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Blogs.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBlogNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Blog not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error fetching blog", "details": err.Error()})
	}
	if b.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You can only modify your own blog posts"})
	}

	if err := h.Blogs.Update(ctx, id, req.Title, req.Description, req.ImgSrc); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error updating blog", "details": err.Error()})
	}

	updated, err := h.Blogs.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error fetching blog", "details": err.Error()})
	}

	h.publishActivity(ctx, "updated", updated.ID, updated.UserID, updated.Title)
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a blog after the same auth -> id -> load -> owner chain as
// Update. Deleting an id that is already gone answers 404, never a crash.
func (h *BlogHandler) Delete(c echo.Context) error {
	uid, _ := c.Get(middleware.UserIDKey).(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized"})
	}
	id := strings.TrimSpace(c.QueryParam("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Blog ID is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Blogs.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBlogNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Blog not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error fetching blog", "details": err.Error()})
	}
	if b.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You can only modify your own blog posts"})
	}

	if err := h.Blogs.Delete(ctx, id); err != nil {
		if err == repository.ErrBlogNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Blog not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error deleting blog", "details": err.Error()})
	}

	h.publishActivity(ctx, "deleted", b.ID, b.UserID, b.Title)
	return c.JSON(http.StatusNoContent, echo.Map{"message": "Blog deleted successfully"})
}
