package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redsocial-app/backend/internal/apperrors"
	"github.com/redsocial-app/backend/internal/models"
	"github.com/redsocial-app/backend/internal/repositories"
)

// ReactionHandler handles HTTP requests related to reactions
type ReactionHandler struct {
	reactionRepository repositories.ReactionRepository
	postRepository     repositories.PostRepository
	commentRepository  repositories.CommentRepository
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(reactionRepo repositories.ReactionRepository, postRepo repositories.PostRepository, commentRepo repositories.CommentRepository) *ReactionHandler {
	return &ReactionHandler{
		reactionRepository: reactionRepo,
		postRepository:     postRepo,
		commentRepository:  commentRepo,
	}
}

// RegisterReactionRoutes registers reaction-related routes. Summaries are
// public, mutations require authentication.
func (h *ReactionHandler) RegisterReactionRoutes(public, protected *echo.Group) {
	public.GET("/reactions/by-post/:id", h.ListByPost)
	public.GET("/reactions/by-comment/:id", h.ListByComment)
	protected.POST("/reactions/react", h.React)
	protected.GET("/reactions/check", h.Check)
	protected.DELETE("/reactions/:id", h.Delete)
}

// targetExists verifies the referenced post or comment; a missing target
// is caller-fixable, so it maps to a validation error, not 404.
func (h *ReactionHandler) targetExists(c echo.Context, target models.ReactionTarget) error {
	if id, ok := target.PostID(); ok {
		if _, err := h.postRepository.GetByID(c.Request().Context(), id); err != nil {
			if apperrors.KindOf(err) == apperrors.KindNotFound {
				return apperrors.Validation("the post does not exist")
			}
			return err
		}
		return nil
	}
	id, _ := target.CommentID()
	if _, err := h.commentRepository.GetByID(c.Request().Context(), id); err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return apperrors.Validation("the comment does not exist")
		}
		return err
	}
	return nil
}

// React creates, updates or removes the actor's reaction on a post or
// comment (toggle semantics).
func (h *ReactionHandler) React(c echo.Context) error {
	var req models.ReactRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	req.Kind = strings.TrimSpace(req.Kind)
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation("the reaction kind is required")
	}

	target, err := req.Target()
	if err != nil {
		return apperrors.Validation("provide exactly one of post_id or comment_id")
	}
	if err := h.targetExists(c, target); err != nil {
		return err
	}

	outcome, reaction, err := h.reactionRepository.Toggle(c.Request().Context(), actorID(c), target, req.Kind)
	if err != nil {
		return err
	}

	slog.Info("reaction toggled", "actor", actorID(c), "outcome", outcome, "kind", req.Kind)

	resp := echo.Map{"success": true, "action": outcome}
	if reaction != nil {
		resp["data"] = reaction
	}
	return c.JSON(http.StatusOK, resp)
}

// ListByPost returns the grouped reaction summary for a post.
func (h *ReactionHandler) ListByPost(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return apperrors.Validation("invalid post ID")
	}
	summary, err := h.reactionRepository.SummaryForPost(c.Request().Context(), uint(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": summary})
}

// ListByComment returns the grouped reaction summary for a comment.
func (h *ReactionHandler) ListByComment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return apperrors.Validation("invalid comment ID")
	}
	summary, err := h.reactionRepository.SummaryForComment(c.Request().Context(), uint(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": summary})
}

// Check reports whether the actor already reacted to the given target.
func (h *ReactionHandler) Check(c echo.Context) error {
	req := models.ReactRequest{Kind: "check"}
	if raw := c.QueryParam("post_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return apperrors.Validation("invalid post_id")
		}
		v := uint(id)
		req.PostID = &v
	}
	if raw := c.QueryParam("comment_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return apperrors.Validation("invalid comment_id")
		}
		v := uint(id)
		req.CommentID = &v
	}
	target, err := req.Target()
	if err != nil {
		return apperrors.Validation("provide exactly one of post_id or comment_id")
	}

	reaction, err := h.reactionRepository.FindForActor(c.Request().Context(), actorID(c), target)
	if err != nil {
		return err
	}
	if reaction == nil {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "has_reaction": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "has_reaction": true, "data": reaction})
}

// Delete removes one of the actor's own reactions by id.
func (h *ReactionHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return apperrors.Validation("invalid reaction ID")
	}
	if err := h.reactionRepository.DeleteOwned(c.Request().Context(), actorID(c), uint(id)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "reaction deleted"})
}
