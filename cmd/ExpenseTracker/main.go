package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	database "github.com/sebuszqo/ExpenseTracker/db"
	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"github.com/sebuszqo/ExpenseTracker/internal/config"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/application"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/infrastructure"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/interfaces"
	"github.com/sebuszqo/ExpenseTracker/internal/logger"
	"github.com/sebuszqo/ExpenseTracker/internal/middleware"
)

const shutdownTimeout = 30 * time.Second

type Server struct {
	router          *http.ServeMux
	categoryHandler *interfaces.CategoryHandler
	jwtMiddleware   func(http.Handler) http.Handler
	dbService       *database.DBService
}

func NewServer(categoryHandler *interfaces.CategoryHandler, jwtManager auth.JWTManagerInterface, dbService *database.DBService) *Server {
	return &Server{
		categoryHandler: categoryHandler,
		jwtMiddleware:   auth.JWTAccessTokenMiddleware(jwtManager),
		dbService:       dbService,
		router:          http.NewServeMux(),
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	interfaces.RespondError(w, http.StatusNotFound, "Path not found")
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	health := s.dbService.Health(r.Context())
	if health["status"] != "up" {
		interfaces.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	interfaces.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) RegisterRoutes() {
	withCategoryID := func(h http.HandlerFunc) http.Handler {
		return s.jwtMiddleware(s.categoryHandler.ValidateCategoryIDMiddleware(h))
	}

	s.router.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	s.router.Handle("GET /api/categories", s.jwtMiddleware(http.HandlerFunc(s.categoryHandler.GetCategories)))
	s.router.Handle("POST /api/categories", s.jwtMiddleware(http.HandlerFunc(s.categoryHandler.CreateCategory)))
	s.router.Handle("GET /api/categories/{categoryID}", withCategoryID(s.categoryHandler.GetCategory))
	s.router.Handle("PUT /api/categories/{categoryID}", withCategoryID(s.categoryHandler.UpdateCategory))
	s.router.Handle("DELETE /api/categories/{categoryID}", withCategoryID(s.categoryHandler.DeleteCategory))

	s.router.Handle("/", http.HandlerFunc(notFoundHandler))
}

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// run owns every resource it opens, so deferred cleanup happens before main
// decides how to exit.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("missing configuration, update to start server: %w", err)
	}

	appLogger := logger.New(cfg.Logging, cfg.Primary.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, cfg.Database.ConnectionString, appLogger); err != nil {
		return fmt.Errorf("could not apply database migrations: %w", err)
	}

	dbService, err := database.NewDBService(cfg.Database, appLogger)
	if err != nil {
		return fmt.Errorf("could not initialize database: %w", err)
	}
	defer dbService.Close()

	categoryRepo := infrastructure.NewCategoryRepository(dbService.DB)
	categoryService := application.NewCategoryService(categoryRepo)
	categoryHandler := interfaces.NewCategoryHandler(categoryService, interfaces.RespondJSON, interfaces.RespondError)

	server := NewServer(categoryHandler, auth.NewJWTManager(cfg.Auth.JWTSecret), dbService)
	server.RegisterRoutes()

	if cfg.HealthChecks.Enabled {
		scheduler, err := StartHealthScheduler(dbService, cfg.HealthChecks.Interval, appLogger)
		if err != nil {
			return fmt.Errorf("scheduler didn't start: %w", err)
		}
		defer scheduler.Stop()
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      middleware.Logging(appLogger)(server.router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
	case <-ctx.Done():
	}
	appLogger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// StartHealthScheduler logs the database health on every interval.
func StartHealthScheduler(dbService *database.DBService, interval time.Duration, appLogger zerolog.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc("@every "+interval.String(), func() {
		health := dbService.Health(context.Background())
		event := appLogger.Info()
		if health["status"] != "up" {
			event = appLogger.Warn()
		}
		for key, value := range health {
			event = event.Str(key, value)
		}
		event.Msg("database health check")
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
