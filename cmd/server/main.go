package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpattn/indexjoin/internal/api"
	"github.com/rpattn/indexjoin/internal/config"
	"github.com/rpattn/indexjoin/internal/db"
	"github.com/rpattn/indexjoin/internal/export"
	"github.com/rpattn/indexjoin/internal/join"
	"github.com/rpattn/indexjoin/internal/middleware"
	"github.com/rpattn/indexjoin/internal/repository"
	"github.com/rpattn/indexjoin/internal/search"

	"github.com/rs/cors"
)

func main() {
	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database, cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	savedQueryRepo := repository.NewSavedQueryRepository(conn.Pool)
	savedJoinRepo := repository.NewSavedJoinRepository(conn.Pool)

	// Search client and join engine
	searchClient := search.NewClient(cfg.SearchBaseURL)
	engine := join.NewEngine(searchClient, savedQueryRepo,
		join.WithDefaultFetchLimit(cfg.DefaultFetchLimit),
		join.WithPreviewFetchLimit(cfg.PreviewFetchLimit),
		join.WithPreviewSampleSize(cfg.PreviewSampleSize),
		join.WithPreviewTopKeys(cfg.PreviewTopKeys),
	)
	exportService := export.NewService()

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	wrap := func(h http.Handler) http.Handler {
		return corsHandler.Handler(middleware.LoggingMiddleware(h))
	}

	mux := http.NewServeMux()
	mux.Handle("/api/multi-index-join/export", wrap(export.NewHTTPHandler(engine, exportService)))
	mux.Handle("/api/multi-index-join", wrap(api.NewJoinHandler(engine)))
	mux.Handle("/api/multi-index-join/", wrap(api.NewJoinHandler(engine)))
	mux.Handle("/api/saved-queries", wrap(api.NewSavedQueryHandler(savedQueryRepo, "/api/saved-queries")))
	mux.Handle("/api/saved-queries/", wrap(api.NewSavedQueryHandler(savedQueryRepo, "/api/saved-queries")))
	mux.Handle("/api/saved-joins", wrap(api.NewSavedJoinHandler(savedJoinRepo, "/api/saved-joins")))
	mux.Handle("/api/saved-joins/", wrap(api.NewSavedJoinHandler(savedJoinRepo, "/api/saved-joins")))
	mux.Handle("/api/indices/", wrap(api.NewFieldsHandler(searchClient, "/api/indices")))

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting join server on %s", cfg.ServerAddr)
		log.Printf("Join endpoint available at http://localhost%s/api/multi-index-join", cfg.ServerAddr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
