package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lexify/document-scanner/internal/analyzer"
	"github.com/lexify/document-scanner/internal/config"
	"github.com/lexify/document-scanner/internal/db"
	"github.com/lexify/document-scanner/internal/repository"
	"github.com/lexify/document-scanner/internal/router"
	"github.com/lexify/document-scanner/internal/services"
	"github.com/lexify/document-scanner/internal/storage"
	"github.com/lexify/document-scanner/internal/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	if cfg.GoogleAPIKey == "" {
		logger.Warn("GOOGLE_API_KEY is not set; uploads will be saved with a placeholder analysis")
	}

	// Initialize database
	if err := db.EnsureDatabase(cfg); err != nil {
		logger.Fatal("Failed to ensure database", "error", err)
	}

	database, err := db.NewMySQLDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	// Run migrations
	if err := db.RunMigrations(database, cfg); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	// Optional raw-upload archival
	var archive storage.Storage
	if cfg.S3Endpoint != "" {
		archive, err = storage.NewS3Storage(cfg)
		if err != nil {
			logger.Warn("S3 archival disabled", "error", err)
			archive = nil
		}
	}

	// Wire the upload pipeline
	docRepo := repository.NewRepository(database)
	llmAnalyzer := analyzer.NewGeminiAnalyzer(cfg, logger)
	docService := services.NewService(docRepo, llmAnalyzer, archive, logger)

	// Setup HTTP router
	handler := router.NewRouter(docService, cfg, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "db", cfg.DBUser+"@"+cfg.DBHost+"/"+cfg.DBName)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
