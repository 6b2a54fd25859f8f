package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"studyreview/internal/config"
	"studyreview/internal/database"
	"studyreview/internal/handlers"
	"studyreview/internal/repository"
	"studyreview/internal/security"
	"studyreview/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// The health endpoint answers while the database is being prepared;
	// every other route is swapped in once startup completes.
	startup := handlers.NewStartupStatus()
	var current atomic.Value
	bootMux := http.NewServeMux()
	bootMux.HandleFunc("GET /api/health", startup.Health)
	current.Store(http.Handler(bootMux))

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr: addr,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current.Load().(http.Handler).ServeHTTP(w, r)
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	ctx := context.Background()

	// Initialize database with config (supports sqlite, postgres, mysql)
	startup.SetCurrentStep(handlers.StepDatabase)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	startup.CompleteStep(handlers.StepDatabase)
	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	startup.SetCurrentStep(handlers.StepMigrations)
	if err := db.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	startup.CompleteStep(handlers.StepMigrations)
	log.Println("Migrations completed successfully")

	startup.SetCurrentStep(handlers.StepServices)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	studyRepo := repository.NewStudyRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Initialize services
	if cfg.SessionSecret == "change-me" {
		log.Println("Warning: SECRET_KEY is not set, using the default signing key")
	}
	authService := service.NewAuthService(userRepo, security.NewTokenIssuer(cfg.SessionSecret, cfg.SessionDuration))
	reviewService := service.NewReviewService(reviewRepo, settingsRepo)
	studyService := service.NewStudyService(studyRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	dashboardService := service.NewDashboardService(studyRepo, reviewRepo)

	proxies, err := security.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
	}
	limiter := security.NewRateLimiter(cfg.RateLimitPerMinute, proxies...)
	go cleanupRateLimiter(limiter, cfg.Debug)

	// Initialize handlers
	router := handlers.NewRouter(handlers.Handlers{
		Middleware: handlers.NewMiddleware(authService, limiter),
		Startup:    startup,
		Auth:       handlers.NewAuthHandler(authService),
		Reviews:    handlers.NewReviewHandler(reviewService),
		Studies:    handlers.NewStudyHandler(studyService),
		Settings:   handlers.NewSettingsHandler(settingsService),
		Dashboard:  handlers.NewDashboardHandler(dashboardService),
	})
	current.Store(router)

	startup.CompleteStep(handlers.StepServices)
	startup.MarkReady()
	log.Println("Server ready")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}

// cleanupRateLimiter periodically forgets idle clients
func cleanupRateLimiter(limiter *security.RateLimiter, debug bool) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		limiter.Cleanup()
		if debug {
			log.Printf("[DEBUG] Rate limiter tracking %d clients", limiter.Len())
		}
	}
}
