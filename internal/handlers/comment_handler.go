package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redsocial-app/backend/internal/apperrors"
	"github.com/redsocial-app/backend/internal/authz"
	"github.com/redsocial-app/backend/internal/models"
	"github.com/redsocial-app/backend/internal/repositories"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(public, protected *echo.Group) {
	public.GET("/posts/:post_id/comments", h.ListByPost)
	public.GET("/comments/:id", h.Get)
	protected.POST("/posts/:post_id/comments", h.Create)
	protected.PUT("/comments/:id", h.Update)
	protected.DELETE("/comments/:id", h.Delete)
}

// CommentView is a comment with its author summary attached.
type CommentView struct {
	models.Comment
	Author models.UserSummary `json:"author"`
}

func commentViews(comments []models.Comment) []CommentView {
	views := make([]CommentView, len(comments))
	for i, comment := range comments {
		views[i] = CommentView{Comment: comment, Author: comment.User.ToSummary()}
	}
	return views
}

// Create adds a comment to an existing post.
func (h *CommentHandler) Create(c echo.Context) error {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 32)
	if err != nil {
		return apperrors.Validation("invalid post ID")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation("the comment body is required")
	}

	// A comment always references a post that exists at creation time.
	if _, err := h.postRepository.GetByID(c.Request().Context(), uint(postID)); err != nil {
		return err
	}

	comment := &models.Comment{
		Content: req.Content,
		UserID:  actorID(c),
		PostID:  uint(postID),
	}
	if err := h.commentRepository.Create(c.Request().Context(), comment); err != nil {
		return err
	}

	slog.Info("comment created", "comment", comment.ID, "post", postID, "author", comment.UserID)

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": comment})
}

// ListByPost retrieves a post's comments newest first.
func (h *CommentHandler) ListByPost(c echo.Context) error {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 32)
	if err != nil {
		return apperrors.Validation("invalid post ID")
	}

	if _, err := h.postRepository.GetByID(c.Request().Context(), uint(postID)); err != nil {
		return err
	}

	comments, err := h.commentRepository.ListByPost(c.Request().Context(), uint(postID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": commentViews(comments), "total": len(comments)})
}

// Get retrieves a single comment.
func (h *CommentHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return apperrors.Validation("invalid comment ID")
	}
	comment, err := h.commentRepository.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		return err
	}
	view := CommentView{Comment: *comment, Author: comment.User.ToSummary()}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": view})
}

// Update edits an owned comment and marks it edited.
func (h *CommentHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return apperrors.Validation("invalid comment ID")
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation("the comment body is required")
	}

	comment, err := h.commentRepository.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		return err
	}
	if err := authz.Authorize(actorID(c), actorRole(c), comment.UserID, authz.Owner); err != nil {
		return err
	}

	comment.Content = req.Content
	comment.Edited = true
	if err := h.commentRepository.Update(c.Request().Context(), comment); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": comment})
}

// Delete removes a comment. The owner or an admin may delete; the
// comment's reactions go with it atomically.
func (h *CommentHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return apperrors.Validation("invalid comment ID")
	}

	comment, err := h.commentRepository.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		return err
	}
	if err := authz.Authorize(actorID(c), actorRole(c), comment.UserID, authz.OwnerOrAdmin); err != nil {
		return err
	}

	if err := h.commentRepository.Delete(c.Request().Context(), uint(id)); err != nil {
		return err
	}

	slog.Info("comment deleted", "comment", id, "actor", actorID(c))

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "comment deleted"})
}
