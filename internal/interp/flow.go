package interp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/roprogo/internal/diagram"
)

// branchPins returns the true and false exits of a branch node. Diagrams
// name them "J"/"N"; older sensor branches use "1"/"0".
func branchPins(n *diagram.Node) (yes, no string, err error) {
	y, yok := namedPin(n, "J")
	o, ook := namedPin(n, "N")
	if yok && ook {
		return y, o, nil
	}
	y, yok = namedPin(n, "1")
	o, ook = namedPin(n, "0")
	if yok && ook {
		return y, o, nil
	}
	return "", "", structureErr(n, "branch has no J/N exit pins")
}

func (in *Interpreter) runFlowIf(ctx context.Context, f *Frame, n *diagram.Node, bag Bag) (string, Bag, error) {
	p := n.Payload.(*diagram.FlowIf)
	yes, no, err := branchPins(n)
	if err != nil {
		return "", bag, err
	}

	var taken bool
	switch p.Style {
	case diagram.StyleSensor:
		v, err := in.device.SensorValue(ctx, p.Sensor.Module, p.Sensor.Port, p.Sensor.Mode)
		if err != nil {
			return "", bag, fmt.Errorf("reading sensor %s/%d: %w", p.Sensor.Module, p.Sensor.Port, err)
		}
		if p.Compare != nil {
			taken = p.Compare.Holds(v)
		} else {
			taken = truthy(v)
		}
	case diagram.StyleDataInput:
		inputs := n.FindPinsByClass(diagram.ClassDataInput)
		if len(inputs) == 0 {
			return "", bag, structureErr(n, "data branch has no %s pin", diagram.ClassDataInput)
		}
		res, err := in.ResolveValue(ctx, f, inputs[0])
		if err != nil {
			return "", bag, err
		}
		v, ok := res["value"]
		if !ok {
			logger(ctx).Error("Branch input produced no value, ending this path.")
			return "", bag, nil
		}
		taken = truthy(v)
	default:
		logger(ctx).Error("Unknown branch style, ending this path.", "style", p.Style)
		return "", bag, nil
	}

	if taken {
		return yes, bag, nil
	}
	return no, bag, nil
}

func runCountLoop(ctx context.Context, n *diagram.Node, enteredFrom string, bag Bag) (string, Bag, error) {
	p := n.Payload.(*diagram.CountLoop)
	var entry string
	if pin, ok := n.FindPin(enteredFrom); ok {
		entry = pin.Name
	}

	var exit string
	switch entry {
	case "=1":
		p.Reset()
		exit = "N"
	case "+1":
		if p.Advance() {
			exit = "J"
		} else {
			exit = "N"
		}
	default:
		logger(ctx).Error("Loop was entered through an unknown pin, ending this path.", "pin", enteredFrom, "pin_name", entry)
		return "", bag, nil
	}

	logger(ctx).Debug("Loop counter updated.", "counter", p.Counter(), "count", p.Count)
	pin, ok := namedPin(n, exit)
	if !ok {
		return "", bag, structureErr(n, "loop has no %q exit pin", exit)
	}
	return pin, bag, nil
}

func (in *Interpreter) runSound(ctx context.Context, n *diagram.Node, bag Bag) (string, Bag, error) {
	p := n.Payload.(*diagram.Sound)
	switch {
	case n.DecodeErr != nil:
		logger(ctx).Error("Sound element is malformed, skipping it.", "error", n.DecodeErr)
	case !p.Valid:
		logger(ctx).Error("Sound element has no sound index, skipping it.")
	default:
		if err := in.device.SetSound(ctx, in.opts.SoundModule, p.Index, p.Wait, p.Repeat); err != nil {
			return "", bag, fmt.Errorf("playing sound %d: %w", p.Index, err)
		}
	}
	return flowOutput(n, bag)
}

func runDelay(ctx context.Context, n *diagram.Node, bag Bag) (string, Bag, error) {
	d := n.Payload.(*diagram.Delay).Duration()
	logger(ctx).Debug("Delaying.", "duration", d)
	if err := sleep(ctx, d); err != nil {
		return "", bag, err
	}
	return flowOutput(n, bag)
}

func runHelper(n *diagram.Node, bag Bag) (string, Bag, error) {
	if pins := n.FindPinsByClass(diagram.ClassFlowOutput); len(pins) > 0 {
		return pins[0], bag, nil
	}
	if pins := n.FindPinsByClass(diagram.ClassDataOutput); len(pins) > 0 {
		return pins[0], bag, nil
	}
	return "", bag, structureErr(n, "merge helper has no output pin")
}

func (in *Interpreter) runWait(ctx context.Context, n *diagram.Node, bag Bag) (string, Bag, error) {
	p := n.Payload.(*diagram.Wait)
	if !p.Classic {
		logger(ctx).Error("Wait element is not a classic element, ending this path.")
		return "", bag, nil
	}

	if in.opts.WaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, in.opts.WaitTimeout)
		defer cancel()
	}

	for i := 0; i < p.Count; i++ {
		if err := in.waitOnce(ctx, p); err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil && in.opts.WaitTimeout > 0 {
				return "", bag, fmt.Errorf("%w after %s", ErrWaitTimeout, in.opts.WaitTimeout)
			}
			return "", bag, err
		}
	}
	return flowOutput(n, bag)
}

func (in *Interpreter) waitOnce(ctx context.Context, p *diagram.Wait) error {
	read := func() (float64, error) {
		return in.device.SensorValue(ctx, p.Sensor.Module, p.Sensor.Port, p.Sensor.Mode)
	}
	first, err := read()
	if err != nil {
		return err
	}
	equals := func(want float64) func(float64) bool {
		return func(v float64) bool { return v == want }
	}

	switch {
	case p.Level && p.Up:
		return in.pollUntil(ctx, first, read, equals(1))
	case p.Level && p.Down:
		return in.pollUntil(ctx, first, read, equals(0))
	case p.Level:
		return nil
	case p.Up && p.Down:
		return in.pollUntil(ctx, first, read, func(v float64) bool { return v != first })
	case p.Up:
		if err := in.pollUntil(ctx, first, read, equals(0)); err != nil {
			return err
		}
		return in.pollUntil(ctx, 0, read, equals(1))
	case p.Down:
		if err := in.pollUntil(ctx, first, read, equals(1)); err != nil {
			return err
		}
		return in.pollUntil(ctx, 1, read, equals(0))
	}
	return nil
}

// pollUntil samples the sensor every poll interval until done holds.
// current is the most recent reading.
func (in *Interpreter) pollUntil(ctx context.Context, current float64, read func() (float64, error), done func(float64) bool) error {
	for !done(current) {
		if err := sleep(ctx, in.opts.PollInterval); err != nil {
			return err
		}
		v, err := read()
		if err != nil {
			return err
		}
		current = v
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
