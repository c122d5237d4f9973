package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/redsocial-app/backend/internal/apperrors"
	"github.com/redsocial-app/backend/internal/repositories"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository) *FollowHandler {
	return &FollowHandler{followRepository: followRepo}
}

// RegisterFollowRoutes registers follow-related routes. Listings and stats
// are public, edge mutations require authentication.
func (h *FollowHandler) RegisterFollowRoutes(public, protected *echo.Group) {
	public.GET("/users/:id/followers", h.Followers)
	public.GET("/users/:id/following", h.Following)
	public.GET("/users/:id/follow-stats", h.Stats)
	protected.POST("/users/:id/follow", h.FollowUser)
	protected.DELETE("/users/:id/follow", h.UnfollowUser)
	protected.GET("/users/:id/follow", h.CheckFollowing)
}

func parseUserID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperrors.Validation("invalid user ID")
	}
	return uint(id), nil
}

// FollowUser creates a follow edge from the actor to the target user.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	targetID, err := parseUserID(c)
	if err != nil {
		return err
	}

	edge, err := h.followRepository.Follow(c.Request().Context(), actorID(c), targetID)
	if err != nil {
		return err
	}

	slog.Info("follow created", "follower", actorID(c), "followee", targetID)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "you are now following this user",
		"data":    edge,
	})
}

// UnfollowUser removes the actor's follow edge to the target user.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	targetID, err := parseUserID(c)
	if err != nil {
		return err
	}

	if err := h.followRepository.Unfollow(c.Request().Context(), actorID(c), targetID); err != nil {
		return err
	}

	slog.Info("follow removed", "follower", actorID(c), "followee", targetID)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "you no longer follow this user"})
}

// CheckFollowing reports whether the actor follows the target user.
func (h *FollowHandler) CheckFollowing(c echo.Context) error {
	targetID, err := parseUserID(c)
	if err != nil {
		return err
	}
	if actorID(c) == targetID {
		return apperrors.Validation("you cannot follow yourself")
	}

	following, err := h.followRepository.IsFollowing(c.Request().Context(), actorID(c), targetID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "following": following})
}

// Followers lists the users following the target, newest edge first.
func (h *FollowHandler) Followers(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}
	entries, err := h.followRepository.Followers(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": entries, "total": len(entries)})
}

// Following lists the users the target follows, newest edge first.
func (h *FollowHandler) Following(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}
	entries, err := h.followRepository.Following(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": entries, "total": len(entries)})
}

// Stats returns follower/following/published-post counts for a user.
func (h *FollowHandler) Stats(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}
	stats, err := h.followRepository.Stats(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": stats})
}
