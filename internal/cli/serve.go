package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	httpadapter "github.com/embld/interviewflow/pkg/adapters/http"
	"github.com/embld/interviewflow/pkg/adapters/mcp"
)

// Handler builds the HTTP API of app.
func (a *App) Handler() http.Handler {
	auth := httpadapter.HeaderAuthenticator()
	if len(a.Config.Server.AuthTokens) > 0 {
		auth = httpadapter.TokenAuthenticator(a.Config.Server.AuthTokens)
	}
	return httpadapter.NewHandler(a.Engine, a.Sessions,
		httpadapter.WithAuthenticator(auth),
		httpadapter.WithGatherer(a.Registry),
		httpadapter.WithLogger(a.Logger),
		httpadapter.WithAllowedOrigins(a.Config.Server.AllowedOrigins...),
	)
}

// Serve runs the HTTP API on ln until ctx is done, then drains in-flight
// requests for at most the configured shutdown timeout.
func Serve(ctx context.Context, app *App, ln net.Listener) error {
	srv := &http.Server{
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("HTTP server listening", "address", ln.Addr().String())
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	timeout := app.Config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	app.Logger.Info("shutting down HTTP server", "timeout", timeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return fmt.Errorf("graceful shutdown did not complete in %v: %w", timeout, err)
	}
	app.Logger.Info("HTTP server stopped")
	return nil
}

// ServeMCP exposes the engine as MCP tools over "stdio" or "sse".
func ServeMCP(ctx context.Context, app *App, transport string) error {
	srv := mcp.NewServer(app.Engine, mcp.WithLogger(app.Logger))
	switch transport {
	case "stdio":
		return srv.ServeStdio()
	case "sse":
		return srv.ServeSSE(ctx, app.Config.MCP.Addr, app.Config.MCP.BaseURL)
	default:
		return fmt.Errorf("unknown transport %q (want stdio or sse)", transport)
	}
}
