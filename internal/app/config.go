package app

import (
	"errors"
	"fmt"
	"time"
)

// Device kinds accepted by Config.IO.
const (
	IOSim    = "sim"
	IORemote = "remote"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProgramPaths []string // .hcl files or directories

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	IO          string
	IOURL       string
	IONamespace string
	IOTimeout   time.Duration

	Entry        string
	WaitTimeout  time.Duration
	PollInterval time.Duration
	MaxCallDepth int

	// Print writes the loaded diagram back as HCL instead of running it.
	Print bool
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ProgramPaths) == 0 {
		return nil, errors.New("ProgramPaths is a required configuration field and cannot be empty")
	}
	if cfg.IO == "" {
		cfg.IO = IOSim
	}
	switch cfg.IO {
	case IOSim:
	case IORemote:
		if cfg.IOURL == "" {
			return nil, errors.New("IOURL is required when IO is 'remote'")
		}
	default:
		return nil, fmt.Errorf("unknown IO device %q: must be '%s' or '%s'", cfg.IO, IOSim, IORemote)
	}
	if cfg.WaitTimeout < 0 || cfg.PollInterval < 0 || cfg.IOTimeout < 0 {
		return nil, errors.New("durations cannot be negative")
	}
	if cfg.MaxCallDepth < 0 {
		return nil, errors.New("MaxCallDepth cannot be negative")
	}
	return &cfg, nil
}
