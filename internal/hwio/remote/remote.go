// Package remote implements hwio.Device on top of a socket.io connection to
// a controller bridge. Sensor reads are acknowledged emits; outputs and
// sounds are fire-and-forget events.
//
// Events emitted:
//
//	sensor  {module, port, mode}         ack: [value]
//	output  {module, port, settings}
//	sound   {module, index, wait, repeat}
package remote

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/specialistvlad/roprogo/internal/ctxlog"
	"github.com/specialistvlad/roprogo/internal/hwio"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Config holds the connection settings of a remote device.
type Config struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	// Timeout bounds the connection attempt and each sensor round trip.
	Timeout time.Duration
}

// Device is a socket.io backed hwio.Device.
type Device struct {
	io        *socket.Socket
	timeout   time.Duration
	connected atomic.Bool
}

var _ hwio.Device = (*Device)(nil)

type sensorRequest struct {
	Module string `json:"module"`
	Port   int    `json:"port"`
	Mode   int    `json:"mode"`
}

type outputEvent struct {
	Module   string             `json:"module"`
	Port     int                `json:"port"`
	Settings hwio.OutputCommand `json:"settings"`
}

type soundEvent struct {
	Module string `json:"module"`
	Index  int    `json:"index"`
	Wait   bool   `json:"wait"`
	Repeat int    `json:"repeat"`
}

// Dial connects to the bridge and waits for the connection to be
// established, the context to end or the configured timeout to pass.
func Dial(ctx context.Context, cfg Config) (*Device, error) {
	logger := ctxlog.FromContext(ctx).With("device", "remote", "url", cfg.URL)
	logger.Info("Connecting to I/O bridge...")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)
	d := &Device{io: io, timeout: timeout}

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to I/O bridge", "sid", io.Id())
		d.connected.Store(true)
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		var err error = fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})
	io.On(types.EventName("disconnect"), func(reason ...any) {
		logger.Warn("I/O bridge disconnected", "reason", reason)
		d.connected.Store(false)
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return d, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}
}

// Close disconnects from the bridge.
func (d *Device) Close() error {
	d.connected.Store(false)
	d.io.Disconnect()
	return nil
}

type ackResult struct {
	value float64
	err   error
}

// SensorValue implements hwio.Device.
func (d *Device) SensorValue(ctx context.Context, module string, port, mode int) (float64, error) {
	if !d.connected.Load() {
		return 0, hwio.ErrNotConnected
	}
	done := make(chan ackResult, 1)
	req := sensorRequest{Module: module, Port: port, Mode: mode}
	err := d.io.Emit("sensor", req, func(args []any, err error) {
		if err != nil {
			done <- ackResult{err: err}
			return
		}
		v, perr := parseReading(args)
		done <- ackResult{value: v, err: perr}
	})
	if err != nil {
		return 0, fmt.Errorf("emitting sensor request: %w", err)
	}

	select {
	case res := <-done:
		return res.value, res.err
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(d.timeout):
		return 0, fmt.Errorf("timed out after %s waiting for sensor %s/%d", d.timeout, module, port)
	}
}

// SetOutput implements hwio.Device.
func (d *Device) SetOutput(ctx context.Context, module string, port int, settings map[string]any) error {
	if !d.connected.Load() {
		return hwio.ErrNotConnected
	}
	cmd, err := hwio.DecodeOutput(settings)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Emitting output", "module", module, "port", port, "value", cmd.Value)
	return d.io.Emit("output", outputEvent{Module: module, Port: port, Settings: cmd})
}

// SetSound implements hwio.Device.
func (d *Device) SetSound(ctx context.Context, module string, index int, wait bool, repeat int) error {
	if !d.connected.Load() {
		return hwio.ErrNotConnected
	}
	return d.io.Emit("sound", soundEvent{Module: module, Index: index, Wait: wait, Repeat: repeat})
}

// parseReading extracts the numeric reading from an acknowledgement.
func parseReading(args []any) (float64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("sensor ack carried no value")
	}
	switch v := args[0].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		var f float64
		if err := mapstructure.WeakDecode(strings.TrimSpace(v), &f); err != nil {
			return 0, fmt.Errorf("sensor reading %q: %w", v, err)
		}
		return f, nil
	case map[string]any:
		if inner, ok := v["value"]; ok {
			return parseReading([]any{inner})
		}
	}
	return 0, fmt.Errorf("unsupported sensor reading %T", args[0])
}
