// Package server exposes the scorer, recommendation engine and action compiler over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ppiankov/cloudshift/internal/billing"
)

// Name is reported by the health endpoint.
const Name = "cloudshift-api"

// DefaultAddr is used when no listen address is configured.
const DefaultAddr = ":8787"

// maxBodyBytes bounds action documents posted to /actions/compile.
const maxBodyBytes = 1 << 20

// Options configures the HTTP API. Items is read-only once the router is built.
type Options struct {
	Version        string
	Items          map[billing.Provider][]billing.CostItem
	MinImpact      float64
	AllowedOrigins []string
}

// NewRouter constructs the gin engine with middleware and routes registered.
func NewRouter(opts Options) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		RequestID(),
		Logging(),
		Recovery(),
		CORS(opts.AllowedOrigins),
	)

	h := &handlers{opts: opts}
	r.GET("/health", h.health)
	r.GET("/recommendations", h.recommendations)
	r.POST("/actions/compile", h.compileActions)

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "not_found", fmt.Sprintf("no route for %s %s", c.Request.Method, c.Request.URL.Path), nil)
	})
	return r
}

// Addr normalizes a listen address: "" becomes DefaultAddr and a bare port gains a colon.
func Addr(addr string) string {
	if addr == "" {
		return DefaultAddr
	}
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return ":" + addr
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              Addr(addr),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	slog.Info("API server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
