package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gradgallery/server/internal/config"
	"github.com/gradgallery/server/internal/gallery"
	"github.com/gradgallery/server/internal/handlers"
	"github.com/gradgallery/server/internal/imagehost"
	"github.com/gradgallery/server/internal/localstore"
	custommw "github.com/gradgallery/server/internal/middleware"
	"github.com/gradgallery/server/internal/observability"
	"github.com/gradgallery/server/internal/repository"
	"github.com/gradgallery/server/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Telemetry
	ctx := context.Background()
	telemetry, err := observability.Initialize(ctx, observability.ConfigFromEnv())
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	defer telemetry.Shutdown(ctx)

	logger := observability.GetLogger()

	// Initialize database and repository
	var photoRepo repository.PhotoRepo
	if cfg.UsePostgres() {
		logger.Info("Using PostgreSQL database")
		db, err := repository.NewPostgresDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
		}
		defer db.Close()
		photoRepo = repository.NewPhotoRepositoryPostgres(db)
	} else {
		logger.Info("Using SQLite database")
		db, err := repository.NewSQLiteDB(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite database: %v", err)
		}
		defer db.Close()
		photoRepo = repository.NewPhotoRepository(db)
	}

	// Local persisted store
	store := localstore.New(cfg.LocalStore)

	// Image host client
	host := imagehost.NewClient(
		cfg.ImageHost.UploadURL,
		cfg.ImageHost.APIKey,
		cfg.ImageHost.Retries,
		cfg.RetryDelay(),
	)

	// Resolver chain: the remote tier is an upstream HTTP service when one is
	// configured, otherwise this process's own document store. Then the local
	// file store, then the compiled-in set. Admin mutations write through
	// whichever of those two tiers is writable from here: a remote upstream is
	// read-only, so edits land in the local store; the own document store is
	// written directly, or its content would shadow every edit.
	var remoteTier gallery.Provider
	var backing gallery.BackingStore
	if cfg.Gallery.RemoteAPIBase != "" {
		remoteTier = gallery.NewRemoteProvider(cfg.Gallery.RemoteAPIBase)
		backing = gallery.NewLocalBacking(store)
	} else {
		remoteTier = gallery.NewRepoProvider(photoRepo)
		backing = gallery.NewRepoBacking(photoRepo)
	}
	resolver := gallery.NewResolver(
		remoteTier,
		gallery.NewLocalProvider(store),
		gallery.NewDefaultProvider(),
	)

	// Live admin feed
	hub := services.NewWebSocketHub()
	go hub.Run()

	feed := services.NewActivityFeed(store, hub)
	prep := services.NewImagePrepService(cfg.Gallery.ThumbMaxDim)

	// Admin mutation pipeline against the local store
	adminSession := gallery.NewPageSession(resolver)
	if err := adminSession.Init(ctx); err != nil {
		logger.Warnf("Initial gallery resolve failed: %v", err)
	}
	pipeline := gallery.NewPipeline(
		backing,
		host,
		adminSession,
		cfg.Gallery.MaxImages,
		cfg.MaxFileSizeBytes(),
	).WithPrep(prep).WithNotifier(feed)

	// Metrics
	httpMetrics, err := observability.NewHTTPMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize HTTP metrics: %v", err)
	}
	galleryMetrics, err := observability.NewGalleryMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize gallery metrics: %v", err)
	}

	// Auth
	sessions := custommw.NewSessionStore(cfg.SessionTTL())
	password := custommw.NewPasswordChecker(cfg.Admin.Password, cfg.Admin.PasswordHash)

	// Initialize handlers
	photoHandler := handlers.NewPhotoHandler(photoRepo, host, cfg.PublicBaseURL, cfg.MaxFileSizeBytes())
	galleryHandler := handlers.NewGalleryHandler(resolver, store, galleryMetrics)
	adminHandler := handlers.NewAdminHandler(pipeline, adminSession, store, sessions, password, hub, galleryMetrics, cfg.MaxFileSizeBytes())
	wsHandler := handlers.NewWebSocketHandler(hub)
	healthHandler := handlers.NewHealthHandler()

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.MetricsMiddleware(httpMetrics))

	// Routes
	r.Get("/health", healthHandler.HealthCheck)
	r.Get("/api/health", healthHandler.HealthCheck)

	// Photo service API
	r.Get("/api/photos", photoHandler.List)
	r.Get("/api/photo/{id}", photoHandler.GetURL)
	r.Post("/api/upload", photoHandler.Upload)
	r.Delete("/api/photos/{id}", photoHandler.Delete)

	// Public gallery
	r.Route("/gallery", func(r chi.Router) {
		r.Get("/photos", galleryHandler.GetPhotos)
		r.Get("/photos/{id}", galleryHandler.GetPhoto)
	})

	// Admin panel
	r.Route("/admin", func(r chi.Router) {
		r.With(custommw.AccessLog(store, "login")).Post("/login", adminHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(custommw.AdminAuth(sessions))

			r.Post("/logout", adminHandler.Logout)
			r.With(custommw.AccessLog(store, "upload")).Post("/photos", adminHandler.UploadPhotos)
			r.Patch("/photos/{id}/title", adminHandler.EditTitle)
			r.With(custommw.AccessLog(store, "delete")).Delete("/photos/{id}", adminHandler.DeletePhoto)
			r.With(custommw.AccessLog(store, "clear")).Delete("/photos", adminHandler.ClearAll)
			r.Get("/stats", adminHandler.Stats)
			r.Get("/activities", adminHandler.Activities)
			r.Get("/access-logs", adminHandler.AccessLogs)
			r.Get("/export", adminHandler.Export)
			r.Get("/ws", wsHandler.HandleConnection)
		})
	})

	// Create server
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Longer for uploads
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Gallery server starting on %s", cfg.ServerAddress)
		logger.Infof("Max images: %d, max file size: %dMB", cfg.Gallery.MaxImages, cfg.Gallery.MaxFileSizeMB)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
