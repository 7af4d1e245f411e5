package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"redditradar/internal/db"
	"redditradar/internal/router"
	"redditradar/internal/services"
	"redditradar/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading env vars from system")
	}

	// Initialize Database
	db.Init()
	st := store.NewGormStore(db.DB)

	// External clients are constructed once here and injected; nothing in
	// the service layer reaches for process-wide state.
	redditService, err := services.NewRedditService()
	if err != nil {
		slog.Error("failed to initialize reddit client", "err", err)
		os.Exit(1)
	}
	classifier := services.NewClassifierService()
	refresher := services.NewRefreshService(st, redditService, classifier)

	// Initialize Gin
	r := gin.Default()
	router.RegisterRoutes(r, st, refresher, classifier)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("redditradar server starting", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}
