// Package hwio defines the I/O capability the interpreter drives: reading
// sensors, writing outputs and playing sounds on an interface module.
//
// Concrete devices live in sub-packages: sim is an in-memory device used for
// dry runs and tests, remote talks to a controller bridge over socket.io.
package hwio

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// ErrNotConnected is returned by devices whose transport is gone.
var ErrNotConnected = errors.New("hwio: device not connected")

// Device is the I/O capability consumed by the interpreter.
type Device interface {
	// SensorValue reads one input of an interface module.
	SensorValue(ctx context.Context, module string, port, mode int) (float64, error)
	// SetOutput applies a command bag (value, commandType, distance, syncTo,
	// sleep) to one output port.
	SetOutput(ctx context.Context, module string, port int, settings map[string]any) error
	// SetSound plays a stored sound.
	SetSound(ctx context.Context, module string, index int, wait bool, repeat int) error
}

// OutputCommand is the typed view of an output settings bag.
type OutputCommand struct {
	Value       float64 `mapstructure:"value" json:"value"`
	CommandType string  `mapstructure:"commandType" json:"commandType,omitempty"`
	Distance    int     `mapstructure:"distance" json:"distance,omitempty"`
	SyncTo      *int    `mapstructure:"syncTo" json:"syncTo,omitempty"`
	Sleep       bool    `mapstructure:"sleep" json:"sleep,omitempty"`
}

// DecodeOutput converts a settings bag into an OutputCommand. Numbers may
// arrive as any Go numeric type or as numeric strings.
func DecodeOutput(settings map[string]any) (OutputCommand, error) {
	var cmd OutputCommand
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &cmd,
	})
	if err != nil {
		return cmd, err
	}
	if err := dec.Decode(settings); err != nil {
		return cmd, fmt.Errorf("decoding output settings: %w", err)
	}
	return cmd, nil
}
