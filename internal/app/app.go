package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/specialistvlad/roprogo/internal/config"
	"github.com/specialistvlad/roprogo/internal/ctxlog"
	"github.com/specialistvlad/roprogo/internal/hwio"
	"github.com/specialistvlad/roprogo/internal/interp"
	"github.com/specialistvlad/roprogo/internal/program"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	ctx        context.Context
	config     *Config
	loader     config.Loader
	encoder    config.Encoder
	device     hwio.Device
	closeIO    func() error
	model      *config.Model
	program    atomic.Pointer[program.Program]
	httpServer *http.Server
}

// Option customises an App.
type Option func(*App)

// WithDevice makes the app use device instead of opening the configured one.
func WithDevice(device hwio.Device) Option {
	return func(a *App) { a.device = device }
}

// WithEncoder sets the encoder used when Config.Print is set.
func WithEncoder(enc config.Encoder) Option {
	return func(a *App) { a.encoder = enc }
}

// NewApp is the constructor for the main application. It returns an App
// with its own isolated logger; nothing is loaded until Load or Run.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	a := &App{
		outW:   outW,
		logger: logger,
		ctx:    ctxlog.WithLogger(context.Background(), logger),
		config: cfg,
		loader: loader,
	}
	for _, opt := range opts {
		opt(a)
	}
	logger.Debug("Logger configured successfully.")
	return a
}

// Load reads the diagram, opens the I/O device and builds the program.
func (a *App) Load(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	model, err := a.loader.Load(ctx, a.config.ProgramPaths...)
	if err != nil {
		return fmt.Errorf("failed to load diagram: %w", err)
	}
	a.model = model
	a.logger.Debug("Diagram loaded.", "subroutines", len(model.Subroutines))
	if a.config.Print {
		return nil
	}

	if a.device == nil {
		if err := a.openDevice(ctx); err != nil {
			return err
		}
	}

	prog, err := program.Build(ctx, model, a.device, program.Options{
		Entry: a.config.Entry,
		Interp: interp.Options{
			PollInterval: a.config.PollInterval,
			WaitTimeout:  a.config.WaitTimeout,
			MaxCallDepth: a.config.MaxCallDepth,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to build program: %w", err)
	}
	a.program.Store(prog)
	return nil
}

// Model returns the loaded diagram model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}

// Program returns the built program. This is primarily for testing.
func (a *App) Program() *program.Program {
	return a.program.Load()
}

// Device returns the I/O device in use.
func (a *App) Device() hwio.Device {
	return a.device
}
