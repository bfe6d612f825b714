// Package ops exposes the operational HTTP endpoint: liveness, readiness
// and the last reconciliation cycle's statistics.
package ops

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rentora_backend/internal/reconciler"
	"rentora_backend/platform/config"
	"rentora_backend/platform/logger"
)

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	http *http.Server
	log  *logger.Logger
}

func NewServer(cfg config.OpsConfig, engine *reconciler.Engine, health HealthChecker, log *logger.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              cfg.GetOpsAddr(),
			Handler:           newRouter(engine, health),
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

func newRouter(engine *reconciler.Engine, health HealthChecker) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := health.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, engine.Stats())
	})

	return router
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
