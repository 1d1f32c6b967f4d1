package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/roprogo/internal/ctxlog"
)

// Run loads the diagram if needed and runs the program once. The health
// check server is up from the start and answers 503 until the program is
// built. With Print set it writes the diagram back out instead.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")
	defer a.closeDevice()

	if !a.config.Print {
		a.healthCheckServer()
		defer func() { _ = a.closeHealthCheckServer() }()
	}

	if a.model == nil {
		if err := a.Load(ctx); err != nil {
			return err
		}
	}

	if a.config.Print {
		return a.printModel()
	}

	prog := a.program.Load()
	a.logger.Info("🚀 Starting program.", "entry", prog.Entry(), "subroutines", prog.Subroutines())
	if err := prog.Run(ctx); err != nil {
		return fmt.Errorf("program failed: %w", err)
	}
	a.logger.Info("🏁 Program finished.")
	return nil
}

func (a *App) printModel() error {
	if a.encoder == nil {
		return fmt.Errorf("no encoder configured for printing")
	}
	out, err := a.encoder.Encode(a.model)
	if err != nil {
		return fmt.Errorf("failed to encode diagram: %w", err)
	}
	_, err = a.outW.Write(out)
	return err
}
