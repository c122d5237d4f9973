package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redsocial-app/backend/internal/apperrors"
	"github.com/redsocial-app/backend/internal/authz"
	"github.com/redsocial-app/backend/internal/models"
	"github.com/redsocial-app/backend/internal/repositories"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository     repositories.PostRepository
	categoryRepository repositories.CategoryRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, categoryRepo repositories.CategoryRepository) *PostHandler {
	return &PostHandler{
		postRepository:     postRepo,
		categoryRepository: categoryRepo,
	}
}

// RegisterPostRoutes registers post-related routes. Reads are public,
// mutations and personal listings require authentication.
func (h *PostHandler) RegisterPostRoutes(public, protected *echo.Group) {
	public.GET("/posts", h.List)
	public.GET("/posts/popular", h.Popular)
	public.GET("/posts/search", h.Search)
	public.GET("/posts/:id", h.Get)
	public.GET("/users/:id/posts", h.ListByUser)
	protected.POST("/posts", h.Create)
	protected.GET("/posts/mine", h.MyPosts)
	protected.PUT("/posts/:id", h.Update)
	protected.DELETE("/posts/:id", h.Delete)
}

// Create publishes a new post authored by the actor.
func (h *PostHandler) Create(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation("title and content are required")
	}

	if req.CategoryID != nil {
		if _, err := h.categoryRepository.GetByID(c.Request().Context(), *req.CategoryID); err != nil {
			if apperrors.KindOf(err) == apperrors.KindNotFound {
				return apperrors.Validation("the category does not exist")
			}
			return err
		}
	}

	post := &models.Post{
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		Tags:        req.Tags,
		ImageURL:    req.ImageURL,
		Status:      models.PostStatusPublished,
		PublishedAt: time.Now().UTC(),
		UserID:      actorID(c),
		CategoryID:  req.CategoryID,
	}
	if err := h.postRepository.Create(c.Request().Context(), post); err != nil {
		return err
	}

	slog.Info("post created", "post", post.ID, "author", post.UserID)

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"id": post.ID}})
}

// Get retrieves a single post with author, category and counts.
func (h *PostHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return apperrors.Validation("invalid post ID")
	}
	post, err := h.postRepository.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		return err
	}
	enriched := enrichPosts([]models.Post{*post})
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": enriched[0]})
}

// List retrieves all published posts, newest first.
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.postRepository.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": enrichPosts(posts)})
}

// MyPosts retrieves the actor's own posts regardless of status.
func (h *PostHandler) MyPosts(c echo.Context) error {
	posts, err := h.postRepository.ListByUser(c.Request().Context(), actorID(c), false)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": posts})
}

// ListByUser retrieves a user's published posts for the public profile.
func (h *PostHandler) ListByUser(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}
	posts, err := h.postRepository.ListByUser(c.Request().Context(), userID, true)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": posts, "total": len(posts)})
}

// Popular ranks published posts by reaction count. The limit parameter is
// clamped, never rejected.
func (h *PostHandler) Popular(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	posts, err := h.postRepository.Popular(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": enrichPosts(posts)})
}

// Search matches published posts by substring over title, content and tags.
func (h *PostHandler) Search(c echo.Context) error {
	term := c.QueryParam("term")
	if strings.TrimSpace(term) == "" {
		return apperrors.Validation("the search term is required")
	}
	posts, err := h.postRepository.Search(c.Request().Context(), term)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": enrichPosts(posts), "total": len(posts)})
}

// Update edits an owned post; only provided fields change.
func (h *PostHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return apperrors.Validation("invalid post ID")
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation(err.Error())
	}

	post, err := h.postRepository.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		return err
	}
	if err := authz.Authorize(actorID(c), actorRole(c), post.UserID, authz.Owner); err != nil {
		return err
	}

	if req.Title != "" {
		post.Title = strings.TrimSpace(req.Title)
	}
	if req.Content != "" {
		post.Content = req.Content
	}
	if req.Tags != "" {
		post.Tags = req.Tags
	}
	if req.ImageURL != "" {
		post.ImageURL = req.ImageURL
	}
	if req.CategoryID != nil {
		if _, err := h.categoryRepository.GetByID(c.Request().Context(), *req.CategoryID); err != nil {
			if apperrors.KindOf(err) == apperrors.KindNotFound {
				return apperrors.Validation("the category does not exist")
			}
			return err
		}
		post.CategoryID = req.CategoryID
	}

	if err := h.postRepository.Update(c.Request().Context(), post); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "post updated"})
}

// Delete removes an owned post and its engagement rows.
func (h *PostHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return apperrors.Validation("invalid post ID")
	}

	post, err := h.postRepository.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		return err
	}
	if err := authz.Authorize(actorID(c), actorRole(c), post.UserID, authz.Owner); err != nil {
		return err
	}

	if err := h.postRepository.Delete(c.Request().Context(), uint(id)); err != nil {
		return err
	}

	slog.Info("post deleted", "post", id, "actor", actorID(c))

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "post deleted"})
}
