package config

import (
	"context"
)

// Loader is the interface for a format-specific diagram loader.
type Loader interface {
	// Load reads every diagram file found under paths and merges them into
	// one format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Encoder writes a model back into a format-specific representation.
type Encoder interface {
	Encode(m *Model) ([]byte, error)
}
