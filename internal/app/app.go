package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/migorithm/authotp/internal/account/outbound/memstore"
	"github.com/migorithm/authotp/internal/pkg/clock"
	"github.com/migorithm/authotp/internal/pkg/config"
	"github.com/migorithm/authotp/internal/pkg/hash"
	"github.com/migorithm/authotp/internal/pkg/instrument"
	"github.com/migorithm/authotp/internal/pkg/messaging"
	"github.com/migorithm/authotp/internal/pkg/otp"
	"github.com/migorithm/authotp/internal/pkg/router"
	"github.com/migorithm/authotp/internal/pkg/uid"
	"github.com/migorithm/authotp/internal/pkg/validator"
)

const defaultConfigPath = "./config/config.yaml"

// closer releases one resource during Stop.
type closer struct {
	name string
	fn   func(context.Context) error
}

// App owns every long-lived dependency and the HTTP server.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	configPath string
	config     config.Config
	ins        instrument.Instrumentation

	validator  validator.Validator
	clock      clock.Clocker
	credential hash.Hash
	uuid       uid.StringID
	totp       otp.OTP

	messaging    messaging.Messaging
	accountStore *memstore.Store

	router     *router.Router
	httpServer *http.Server

	// closers are released last to first, after the HTTP server has drained.
	closers []closer
}

// New builds the App from the file named by CONFIG_PATH, falling back to
// ./config/config.yaml. Any wiring failure is fatal.
func New() *App {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	a, err := NewFromPath(path)
	if err != nil {
		slog.Error("failed to start application", "error", err)
		os.Exit(1)
	}
	return a
}

// NewFromPath builds the App from the config file at path. Resources
// acquired before a failing step are released before returning.
func NewFromPath(path string) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{ctx: ctx, cancel: cancel, configPath: path}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"config", a.initConfig},
		{"instrument", a.initInstrument},
		{"libraries", a.initLibraries},
		{"messaging", a.initMessaging},
		{"http server", a.initHTTPServer},
		{"modules", a.initModules},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			a.release(ctx)
			cancel()
			return nil, fmt.Errorf("init %s: %w", step.name, err)
		}
	}

	return a, nil
}

// release runs the registered closers in reverse registration order.
func (a *App) release(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "close resource", "name", c.name, "error", err)
		}
	}
	a.closers = nil
}

func (a *App) onClose(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}
