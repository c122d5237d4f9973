package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/redsocial-app/backend/internal/models"
	"github.com/redsocial-app/backend/internal/repositories"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	postRepository   repositories.PostRepository
	followRepository repositories.FollowRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository, followRepo repositories.FollowRepository) *FeedHandler {
	return &FeedHandler{
		postRepository:   postRepo,
		followRepository: followRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(protected *echo.Group) {
	protected.GET("/posts/feed", h.GetFeed)
}

// EnrichedPost is a post with its author and category summaries attached.
type EnrichedPost struct {
	models.Post
	Author   models.UserSummary      `json:"author"`
	Category *models.CategorySummary `json:"category,omitempty"`
}

func enrichPosts(posts []models.Post) []EnrichedPost {
	enriched := make([]EnrichedPost, len(posts))
	for i, p := range posts {
		enriched[i] = EnrichedPost{Post: p, Author: p.User.ToSummary()}
		if p.Category != nil {
			summary := p.Category.ToSummary()
			enriched[i].Category = &summary
		}
	}
	return enriched
}

// GetFeed returns the reverse-chronological stream of published posts
// authored by the actor's followees.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > repositories.FeedMaxLimit {
		limit = repositories.FeedMaxLimit
	}

	followees, err := h.followRepository.FollowingIDs(c.Request().Context(), actorID(c))
	if err != nil {
		return err
	}
	if len(followees) == 0 {
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "you are not following anyone yet",
			"data":    []EnrichedPost{},
		})
	}

	posts, err := h.postRepository.Feed(c.Request().Context(), followees, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": enrichPosts(posts)})
}
