package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/redsocial-app/backend/internal/apperrors"
	"github.com/redsocial-app/backend/internal/middleware"
	"github.com/redsocial-app/backend/internal/models"
	"github.com/redsocial-app/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

// AuthHandler handles registration and login
type AuthHandler struct {
	userRepository repositories.UserRepository
	firebaseAuth   *fbauth.Client
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil; the
// Firebase login route then reports the provider as unavailable.
func NewAuthHandler(userRepo repositories.UserRepository, firebaseAuth *fbauth.Client) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		firebaseAuth:   firebaseAuth,
	}
}

// RegisterAuthRoutes registers authentication routes
func (h *AuthHandler) RegisterAuthRoutes(public *echo.Group) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)
	public.POST("/auth/firebase-login", h.FirebaseLogin)
}

func (h *AuthHandler) issueToken(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(middleware.Secret()))
}

// Register creates a local account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation("name, username, email and a password of at least 6 characters are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("failed to hash password", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         models.RoleStandard,
		Active:       true,
	}
	if err := h.userRepository.Create(c.Request().Context(), user); err != nil {
		return err
	}

	slog.Info("user registered", "user", user.ID, "username", user.Username)

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": user})
}

// Login exchanges email and password for a signed token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation("email and password are required")
	}

	user, err := h.userRepository.GetByEmail(c.Request().Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return apperrors.Unauthenticated("invalid credentials")
		}
		return err
	}
	if !user.Active {
		return apperrors.Unauthenticated("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return apperrors.Unauthenticated("invalid credentials")
	}

	token, err := h.issueToken(user)
	if err != nil {
		return apperrors.Internal("failed to sign token", err)
	}

	slog.Info("user logged in", "user", user.ID)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"token": token, "user": user},
	})
}

// FirebaseLogin verifies a Firebase ID token and exchanges it for a local
// token, creating the account on first sight.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebaseAuth == nil {
		return apperrors.Internal("firebase authentication is not configured", nil)
	}

	var req models.FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation("the id_token field is required")
	}

	decoded, err := h.firebaseAuth.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return apperrors.Unauthenticated("invalid firebase token")
	}
	email, _ := decoded.Claims["email"].(string)
	if email == "" {
		return apperrors.Unauthenticated("the firebase token carries no email")
	}
	email = strings.ToLower(email)

	user, err := h.userRepository.GetByEmail(c.Request().Context(), email)
	switch {
	case err == nil:
		if !user.Active {
			return apperrors.Unauthenticated("invalid credentials")
		}
	case apperrors.KindOf(err) == apperrors.KindNotFound:
		name, _ := decoded.Claims["name"].(string)
		if req.Name != "" {
			name = req.Name
		}
		if name == "" {
			name = email
		}
		username := req.Username
		if username == "" {
			username = fmt.Sprintf("user_%s", decoded.UID)
		}

		user = &models.User{
			Name:     name,
			Username: username,
			Email:    email,
			// No local password; login goes through the provider.
			PasswordHash: "!firebase",
			Role:         models.RoleStandard,
			Active:       true,
		}
		if err := h.userRepository.Create(c.Request().Context(), user); err != nil {
			return err
		}
		slog.Info("user provisioned from firebase", "user", user.ID, "uid", decoded.UID)
	default:
		return err
	}

	token, err := h.issueToken(user)
	if err != nil {
		return apperrors.Internal("failed to sign token", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"token": token, "user": user},
	})
}
