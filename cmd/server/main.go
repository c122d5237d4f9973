package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/redsocial-app/backend/internal/router"
	"github.com/redsocial-app/backend/pkg/config"
	"github.com/redsocial-app/backend/pkg/firebase"
	"github.com/redsocial-app/backend/pkg/storage"
	"github.com/redsocial-app/backend/validators"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	ctx := context.Background()

	// Firebase login is optional; without credentials the route reports
	// the provider as unavailable.
	var authClient *fbauth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		authClient = firebaseApp.AuthClient
	} else {
		slog.Info("firebase credentials not configured, firebase login disabled")
	}

	// Media storage is optional; without a bucket photo uploads fail cleanly.
	var media storage.MediaStorage
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Storage(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize media storage: %v", err)
		}
		media = s3Store
	} else {
		slog.Info("media bucket not configured, photo uploads disabled")
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, authClient, media)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
