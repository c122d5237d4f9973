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
	"github.com/redsocial-app/backend/pkg/storage"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
	mediaStorage     storage.MediaStorage
}

// NewUserHandler creates a new UserHandler. mediaStorage may be nil when
// no bucket is configured; profile photo uploads then fail cleanly.
func NewUserHandler(userRepo repositories.UserRepository, followRepo repositories.FollowRepository, media storage.MediaStorage) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		followRepository: followRepo,
		mediaStorage:     media,
	}
}

// RegisterUserRoutes registers user profile routes
func (h *UserHandler) RegisterUserRoutes(public, protected *echo.Group) {
	public.GET("/users/search", h.SearchUsers)
	public.GET("/users/:id", h.GetUser)
	protected.GET("/profile", h.GetProfile)
	protected.PUT("/profile", h.UpdateProfile)
	protected.PUT("/profile/password", h.ChangePassword)
}

func (h *UserHandler) profileOf(c echo.Context, user *models.User) (*models.UserProfile, error) {
	stats, err := h.followRepository.Stats(c.Request().Context(), user.ID)
	if err != nil {
		return nil, err
	}
	return &models.UserProfile{
		User:           *user,
		PublishedPosts: stats.PublishedPosts,
		Followers:      stats.Followers,
		Following:      stats.Following,
	}, nil
}

// GetUser retrieves a public profile; inactive accounts are hidden.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return apperrors.Validation("invalid user ID")
	}

	user, err := h.userRepository.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		return err
	}
	if !user.Active {
		return apperrors.NotFound("the user does not exist")
	}

	profile, err := h.profileOf(c, user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": profile})
}

// GetProfile retrieves the authenticated user's own profile.
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userRepository.GetByID(c.Request().Context(), actorID(c))
	if err != nil {
		return err
	}
	profile, err := h.profileOf(c, user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": profile})
}

// UpdateProfile updates the actor's profile from a multipart form. A new
// photo goes through the media service; the old object is deleted first.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user, err := h.userRepository.GetByID(c.Request().Context(), actorID(c))
	if err != nil {
		return err
	}

	if name := strings.TrimSpace(c.FormValue("name")); name != "" {
		if len(name) > 100 {
			return apperrors.Validation("name must not exceed 100 characters")
		}
		user.Name = name
	}

	if username := strings.TrimSpace(c.FormValue("username")); username != "" {
		if len(username) > 50 {
			return apperrors.Validation("username must not exceed 50 characters")
		}
		taken, err := h.userRepository.UsernameTaken(c.Request().Context(), username, user.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict("the username is already in use")
		}
		user.Username = username
	}

	if raw := c.FormValue("age"); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil || age < 0 {
			return apperrors.Validation("age must be a non-negative number")
		}
		user.Age = &age
	}

	if bio := strings.TrimSpace(c.FormValue("bio")); bio != "" {
		if len(bio) > 500 {
			return apperrors.Validation("bio must not exceed 500 characters")
		}
		user.Bio = bio
	}

	if file, err := c.FormFile("photo"); err == nil && file != nil {
		if h.mediaStorage == nil {
			return apperrors.Internal("media storage is not configured", nil)
		}
		if !storage.IsValidImage(file.Filename, file.Header.Get("Content-Type"), file.Size) {
			return apperrors.Validation("the file is not a valid image or exceeds 10MB (allowed: JPG, PNG, GIF, WEBP)")
		}

		src, err := file.Open()
		if err != nil {
			return apperrors.Internal("failed to read uploaded file", err)
		}
		defer src.Close()

		if user.PhotoURL != "" {
			if _, err := h.mediaStorage.Delete(c.Request().Context(), user.PhotoURL); err != nil {
				slog.Warn("failed to delete previous profile photo", "user", user.ID, "error", err)
			}
		}

		url, err := h.mediaStorage.Upload(c.Request().Context(), src, file.Filename, file.Header.Get("Content-Type"))
		if err != nil {
			return apperrors.Internal("failed to store profile photo", err)
		}
		user.PhotoURL = url
	}

	if err := h.userRepository.Update(c.Request().Context(), user); err != nil {
		return err
	}

	slog.Info("profile updated", "user", user.ID)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}

// ChangePassword verifies the current password and stores a new hash.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation("current and new passwords are required (minimum 6 characters)")
	}

	user, err := h.userRepository.GetByID(c.Request().Context(), actorID(c))
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apperrors.Validation("the current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("failed to hash password", err)
	}
	user.PasswordHash = string(hash)
	if err := h.userRepository.Update(c.Request().Context(), user); err != nil {
		return err
	}

	slog.Info("password changed", "user", user.ID)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "password changed"})
}

// SearchUsers matches active users by substring over name and username.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	term := c.QueryParam("term")
	if strings.TrimSpace(term) == "" {
		return apperrors.Validation("the search term is required")
	}

	users, err := h.userRepository.Search(c.Request().Context(), term)
	if err != nil {
		return err
	}

	summaries := make([]models.UserSummary, len(users))
	for i, u := range users {
		summaries[i] = u.ToSummary()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": summaries, "total": len(summaries)})
}
