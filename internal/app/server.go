package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// Start serves HTTP in the background. The returned channel closes once a
// termination signal arrives, the app context is cancelled, or the listener
// fails.
func (a *App) Start() <-chan struct{} {
	done := make(chan struct{})
	ctx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)
		err := a.httpServer.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", "error", err)
			stop()
		}
	}()

	go func() {
		<-ctx.Done()
		stop()
		slog.Info("shutdown requested", "cause", context.Cause(ctx))
		close(done)
	}()

	return done
}

// Serve runs the HTTP server on l. The channel yields the Serve result.
func (a *App) Serve(l net.Listener) <-chan error {
	result := make(chan error, 1)
	go func() {
		defer close(result)
		result <- a.httpServer.Serve(l)
	}()
	return result
}

// Stop drains in-flight requests, then releases every resource in order.
func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "http server shutdown", "error", err)
	}

	if a.accountStore != nil {
		st := a.accountStore.Stats(ctx)
		slog.InfoContext(ctx, "account store discarded", "users", st.Users, "mfa_enabled", st.MFAEnabled)
	}

	a.release(ctx)
	slog.InfoContext(ctx, "application stopped")
}
