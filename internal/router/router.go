package router

import (
	"errors"
	"log"
	"log/slog"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redsocial-app/backend/internal/apperrors"
	"github.com/redsocial-app/backend/internal/handlers"
	"github.com/redsocial-app/backend/internal/middleware"
	"github.com/redsocial-app/backend/internal/models"
	"github.com/redsocial-app/backend/internal/repositories"
	"github.com/redsocial-app/backend/pkg/storage"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.HTTPErrorHandler = errorHandler
	slog.Info("global middleware configured")
}

// errorHandler maps domain errors to their status codes and a uniform
// JSON body. Internal causes are logged, never returned.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := apperrors.HTTPStatus(err)
	message := apperrors.Message(err)

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		if m, isString := httpErr.Message.(string); isString {
			message = m
		}
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
	}

	if err := c.JSON(status, echo.Map{"success": false, "message": message}); err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}

// SetupRoutes configures all application routes and injects dependencies.
// firebaseAuthClient and media may be nil when those integrations are not
// configured.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, firebaseAuthClient *auth.Client, media storage.MediaStorage) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
		&models.Follow{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	slog.Info("PostgreSQL auto-migrations completed for all models")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	categoryRepo := repositories.NewPostgresCategoryRepository(pgdb)
	postRepo := repositories.NewPostgresPostRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	reactionRepo := repositories.NewPostgresReactionRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)

	// --- Public routes ---
	public := e.Group("/api/v1")

	// --- Protected routes (require JWT authentication) ---
	protected := e.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware())

	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(public)

	userHandler := handlers.NewUserHandler(userRepo, followRepo, media)
	userHandler.RegisterUserRoutes(public, protected)

	postHandler := handlers.NewPostHandler(postRepo, categoryRepo)
	postHandler.RegisterPostRoutes(public, protected)

	feedHandler := handlers.NewFeedHandler(postRepo, followRepo)
	feedHandler.RegisterFeedRoutes(protected)

	followHandler := handlers.NewFollowHandler(followRepo)
	followHandler.RegisterFollowRoutes(public, protected)

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo)
	commentHandler.RegisterCommentRoutes(public, protected)

	reactionHandler := handlers.NewReactionHandler(reactionRepo, postRepo, commentRepo)
	reactionHandler.RegisterReactionRoutes(public, protected)

	slog.Info("all routes configured")
}
