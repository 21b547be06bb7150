package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpadapter "github.com/aretw0/talentscout/pkg/adapters/http"
	"github.com/aretw0/talentscout/pkg/adapters/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServeOptions configures the network servers.
type ServeOptions struct {
	Port            int
	ShutdownTimeout time.Duration
}

// NewHTTPHandler returns the REST/WebSocket API with /metrics mounted.
func NewHTTPHandler(comps *Components) http.Handler {
	metrics := promhttp.HandlerFor(comps.Registry, promhttp.HandlerOpts{Registry: comps.Registry})
	return httpadapter.NewHandler(comps.Engine, comps.Sessions,
		httpadapter.WithMetricsHandler(metrics),
		httpadapter.WithLogger(comps.Logger),
	)
}

// Serve runs the HTTP API until SIGINT/SIGTERM or ctx is done.
func Serve(ctx context.Context, comps *Components, opts ServeOptions) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           NewHTTPHandler(comps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	serverErrors := make(chan error, 1)
	go func() {
		comps.Logger.Info("HTTP server listening", "address", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-sigCtx.Done():
		comps.Logger.Info("shutting down", "signal", sigCtx.Signal())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			comps.Logger.Warn("graceful shutdown did not complete", "timeout", opts.ShutdownTimeout, "err", err)
			if cerr := srv.Close(); cerr != nil {
				return fmt.Errorf("error killing server: %w", cerr)
			}
		}
		comps.Logger.Info("HTTP server stopped gracefully")
		return nil
	}
}

// ServeMCP exposes the screening tools over stdio or SSE.
func ServeMCP(ctx context.Context, comps *Components, transport string, opts ServeOptions) error {
	srv := mcp.NewServer(comps.Engine, comps.Sessions, mcp.WithLogger(comps.Logger))

	switch transport {
	case "stdio":
		comps.Logger.Info("Starting MCP server (stdio)")
		return srv.ServeStdio()
	case "sse":
		sigCtx := NewSignalContext(ctx)
		defer sigCtx.Cancel()
		return srv.ServeSSE(sigCtx, opts.Port, opts.ShutdownTimeout)
	}
	return fmt.Errorf("unknown transport %q, supported: stdio, sse", transport)
}
