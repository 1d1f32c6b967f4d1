package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/roprogo/internal/hwio/remote"
	"github.com/specialistvlad/roprogo/internal/hwio/sim"
)

// openDevice opens the configured I/O device.
func (a *App) openDevice(ctx context.Context) error {
	switch a.config.IO {
	case IORemote:
		d, err := remote.Dial(ctx, remote.Config{
			URL:       a.config.IOURL,
			Namespace: a.config.IONamespace,
			Timeout:   a.config.IOTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to I/O bridge: %w", err)
		}
		a.device = d
		a.closeIO = d.Close
		a.logger.Info("Connected to I/O bridge.", "url", a.config.IOURL)
	default:
		d := sim.New()
		for _, s := range a.model.Sensors {
			d.SetSensor(s.Module, s.Port, s.Value)
		}
		a.device = d
		a.logger.Info("Using simulated I/O device.", "sensors", len(a.model.Sensors))
	}
	return nil
}

func (a *App) closeDevice() {
	if a.closeIO == nil {
		return
	}
	if err := a.closeIO(); err != nil {
		a.logger.Warn("Closing I/O device failed.", "error", err)
	}
	a.closeIO = nil
}
