// Package sim provides an in-memory hwio.Device. Sensor readings are set or
// queued by the caller; every output write and sound is recorded so that
// dry runs can be inspected afterwards.
package sim

import (
	"context"
	"sync"

	"github.com/specialistvlad/roprogo/internal/ctxlog"
	"github.com/specialistvlad/roprogo/internal/hwio"
)

// Write is one recorded SetOutput call.
type Write struct {
	Module   string
	Port     int
	Settings map[string]any
}

// SoundCall is one recorded SetSound call.
type SoundCall struct {
	Module string
	Index  int
	Wait   bool
	Repeat int
}

type sensorKey struct {
	module string
	port   int
}

// Device is a thread-safe simulated interface module.
type Device struct {
	mu      sync.Mutex
	sensors map[sensorKey]float64
	queued  map[sensorKey][]float64
	reads   int
	writes  []Write
	sounds  []SoundCall
}

var _ hwio.Device = (*Device)(nil)

// New creates a device whose sensors all read zero.
func New() *Device {
	return &Device{
		sensors: make(map[sensorKey]float64),
		queued:  make(map[sensorKey][]float64),
	}
}

// SetSensor fixes the reading of a sensor.
func (d *Device) SetSensor(module string, port int, value float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sensors[sensorKey{module, port}] = value
}

// QueueSensor schedules successive readings. Once the queue is drained the
// last queued value keeps being returned.
func (d *Device) QueueSensor(module string, port int, values ...float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := sensorKey{module, port}
	d.queued[k] = append(d.queued[k], values...)
}

// SensorValue implements hwio.Device.
func (d *Device) SensorValue(ctx context.Context, module string, port, mode int) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reads++
	k := sensorKey{module, port}
	if q := d.queued[k]; len(q) > 0 {
		d.sensors[k] = q[0]
		d.queued[k] = q[1:]
	}
	return d.sensors[k], nil
}

// SetOutput implements hwio.Device.
func (d *Device) SetOutput(ctx context.Context, module string, port int, settings map[string]any) error {
	cmd, err := hwio.DecodeOutput(settings)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("Simulated output", "module", module, "port", port,
		"value", cmd.Value, "command", cmd.CommandType, "distance", cmd.Distance)

	copied := make(map[string]any, len(settings))
	for k, v := range settings {
		copied[k] = v
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes = append(d.writes, Write{Module: module, Port: port, Settings: copied})
	return nil
}

// SetSound implements hwio.Device.
func (d *Device) SetSound(ctx context.Context, module string, index int, wait bool, repeat int) error {
	ctxlog.FromContext(ctx).Info("Simulated sound", "module", module, "index", index, "wait", wait, "repeat", repeat)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sounds = append(d.sounds, SoundCall{Module: module, Index: index, Wait: wait, Repeat: repeat})
	return nil
}

// Writes returns the recorded output writes.
func (d *Device) Writes() []Write {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Write(nil), d.writes...)
}

// Sounds returns the recorded sound calls.
func (d *Device) Sounds() []SoundCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]SoundCall(nil), d.sounds...)
}

// Reads returns how many sensor readings were taken.
func (d *Device) Reads() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reads
}
