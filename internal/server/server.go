package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/teamform/wellboard/internal/auth"
	"github.com/teamform/wellboard/internal/cache"
	"github.com/teamform/wellboard/internal/config"
	"github.com/teamform/wellboard/internal/database"
	"github.com/teamform/wellboard/internal/faceit"
	"github.com/teamform/wellboard/internal/handlers"
	custommiddleware "github.com/teamform/wellboard/internal/middleware"
	"github.com/teamform/wellboard/internal/scheduler"
	"github.com/teamform/wellboard/internal/services"
)

// Standing background jobs and their intervals.
const (
	matchSyncJob      = "match-sync"
	matchSyncInterval = 6 * time.Hour

	tokenRefreshJob      = "token-refresh"
	tokenRefreshInterval = time.Hour

	metricsRetentionJob      = "metrics-retention"
	metricsRetentionInterval = 24 * time.Hour
)

type Server struct {
	config          *config.Config
	db              *database.DB
	ratingCache     *cache.RatingCache
	jwtManager      *auth.JWTManager
	authMiddleware  *auth.AuthMiddleware
	roleMiddleware  *auth.RoleMiddleware
	apiRateLimiter  *custommiddleware.RateLimiter
	authRateLimiter *custommiddleware.RateLimiter
	scheduler       *scheduler.Scheduler
	server          *http.Server

	authService      *services.AuthService
	wellbeingService *services.WellbeingService
	analyticsService *services.AnalyticsService
	importService    *services.ImportService
	tokenService     *services.TokenService
	faceitService    *services.FaceitService
	ratingService    *services.RatingService
	fileService      *services.FileService
}

func NewServer() (*Server, error) {
	// Load configuration
	cfg := config.Load()

	// Setup database
	db, err := database.NewConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run migrations
	if err := db.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Setup redis cache
	ratingCache, err := cache.NewRatingCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	// Setup JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, "wellboard")
	authMiddleware := auth.NewAuthMiddleware(jwtManager)
	roleMiddleware := auth.NewRoleMiddleware(db)

	// Setup Faceit client
	faceitClient := faceit.NewClient(cfg)

	// Setup services
	authService := services.NewAuthService(db, jwtManager)
	wellbeingService := services.NewWellbeingService(db)
	analyticsService := services.NewAnalyticsService(db)
	importService := services.NewImportService(db, faceitClient, analyticsService)
	tokenService := services.NewTokenService(db, faceitClient.OAuth())
	faceitService := services.NewFaceitService(db, faceitClient)
	ratingService := services.NewRatingService(db, ratingCache)
	fileService, err := services.NewFileService(db, cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to setup file storage: %w", err)
	}

	// Setup rate limiters
	apiRateLimiter := custommiddleware.NewAPIRateLimiter()
	authRateLimiter := custommiddleware.NewAuthRateLimiter()

	// Setup background jobs
	sched := scheduler.New()
	sched.Add(matchSyncJob, matchSyncInterval, importService.SyncAllUserMatches)
	sched.Add(tokenRefreshJob, tokenRefreshInterval, func(ctx context.Context) {
		tokenService.RefreshExpiring(ctx)
	})
	sched.Add(metricsRetentionJob, metricsRetentionInterval, func(ctx context.Context) {
		if _, err := analyticsService.RetentionSweep(ctx); err != nil {
			slog.Error("Metrics retention sweep failed", "error", err)
		}
	})

	return &Server{
		config:           cfg,
		db:               db,
		ratingCache:      ratingCache,
		jwtManager:       jwtManager,
		authMiddleware:   authMiddleware,
		roleMiddleware:   roleMiddleware,
		apiRateLimiter:   apiRateLimiter,
		authRateLimiter:  authRateLimiter,
		scheduler:        sched,
		authService:      authService,
		wellbeingService: wellbeingService,
		analyticsService: analyticsService,
		importService:    importService,
		tokenService:     tokenService,
		faceitService:    faceitService,
		ratingService:    ratingService,
		fileService:      fileService,
	}, nil
}

func (s *Server) Start() error {
	// Setup router
	router := s.setupRouter()

	// Create HTTP server
	s.server = &http.Server{
		Addr:    ":" + s.config.Port,
		Handler: router,
	}

	// Start background jobs
	s.scheduler.StartAll()

	// Start server in goroutine
	go func() {
		slog.Info("Starting wellboard server", "port", s.config.Port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	return s.Shutdown()
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop background jobs before the listener so no sync pass is cut off
	s.scheduler.StopAll()

	// Shutdown HTTP server
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	// Close caches and database
	if err := s.ratingCache.Close(); err != nil {
		slog.Error("Failed to close redis connection", "error", err)
	}
	if err := s.db.Close(); err != nil {
		slog.Error("Failed to close database connection", "error", err)
	}

	// Close rate limiters
	s.apiRateLimiter.Close()
	s.authRateLimiter.Close()

	slog.Info("Server shutdown complete")
	return nil
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(auth.SecurityHeaders)
	r.Use(s.apiRateLimiter.RateLimit)

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"}, // Configure properly for production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		authHandler := handlers.NewAuthHandler(s.authService)
		faceitHandler := handlers.NewFaceitHandler(s.faceitService, s.importService)

		// Auth routes with stricter rate limiting; profile routes inside
		// are individually protected
		r.Group(func(r chi.Router) {
			r.Use(s.authRateLimiter.RateLimit)
			r.Mount("/auth", authHandler.Routes(s.authMiddleware))
		})

		r.Mount("/faceit", faceitHandler.Routes(s.authMiddleware))

		// Protected routes group
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware.RequireAuth)

			moodHandler := handlers.NewMoodHandler(s.wellbeingService, s.roleMiddleware)
			r.Mount("/mood", moodHandler.Routes())

			testsHandler := handlers.NewTestsHandler(s.wellbeingService, s.roleMiddleware)
			r.Mount("/tests", testsHandler.Routes())

			balanceWheelHandler := handlers.NewBalanceWheelHandler(s.wellbeingService, s.roleMiddleware)
			r.Mount("/balance-wheel", balanceWheelHandler.Routes())

			analyticsHandler := handlers.NewAnalyticsHandler(s.analyticsService)
			r.Mount("/analytics", analyticsHandler.Routes())

			filesHandler := handlers.NewFilesHandler(s.fileService, s.roleMiddleware)
			r.Mount("/files", filesHandler.Routes())

			ratingHandler := handlers.NewRatingHandler(s.ratingService, s.roleMiddleware)
			r.Mount("/player-rating", ratingHandler.Routes())

			adminHandler := handlers.NewAdminHandler(s.db, s.authService)
			r.Mount("/admin", adminHandler.Routes(s.roleMiddleware))
		})
	})

	return r
}
