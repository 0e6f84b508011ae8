// Package api wires the gin engine, middleware, and HTTP server lifecycle.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/support-reports/internal/config"
	"github.com/jonesrussell/support-reports/internal/handler"
	"github.com/jonesrussell/support-reports/internal/logger"
)

const (
	defaultReadTimeout = 10 * time.Second
	// Raw exports can stream for a while on slow consumers.
	defaultWriteTimeout = 120 * time.Second
	defaultIdleTimeout  = 60 * time.Second

	shutdownTimeout = 10 * time.Second
)

// Server is the HTTP server with lifecycle management.
type Server struct {
	server *http.Server
	logger logger.Logger
}

// NewServer builds the gin engine with standard middleware, registers all
// routes, and returns a Server ready to run. dbPing backs the health check;
// done signals background middleware goroutines on shutdown.
func NewServer(
	reportHandler *handler.ReportHandler,
	cfg *config.Config,
	log logger.Logger,
	dbPing func() error,
	done <-chan struct{},
) *Server {
	if cfg.Service.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(RecoveryMiddleware(log))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log))

	RegisterHealthRoutes(router, cfg.Service.Name, cfg.Service.Version, dbPing)
	SetupRoutes(router, reportHandler, cfg.RateLimit, done)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Service.Port),
		Handler:      router,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	return &Server{
		server: httpServer,
		logger: log,
	}
}

// Run starts the server and blocks until SIGINT/SIGTERM, then shuts down
// gracefully so in-flight exports can finish.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server",
			logger.String("address", s.server.Addr),
		)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		s.logger.Info("Shutting down", logger.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return <-errCh
}
