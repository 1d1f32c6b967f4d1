package interp

import (
	"context"
	"fmt"

	"github.com/specialistvlad/roprogo/internal/diagram"
)

func (in *Interpreter) write(ctx context.Context, module string, port int, settings Bag) error {
	logger(ctx).Debug("Writing output.", "module", module, "port", port, "settings", map[string]any(settings))
	if err := in.device.SetOutput(ctx, module, port, settings); err != nil {
		return fmt.Errorf("writing output %s/%d: %w", module, port, err)
	}
	return nil
}

// runOutDual drives one motor output. Classic elements carry their own
// command; otherwise the node is the sink of a pushed command bag.
func (in *Interpreter) runOutDual(ctx context.Context, n *diagram.Node, bag Bag) (string, Bag, error) {
	p := n.Payload.(*diagram.DataOutDual)
	var next string
	if p.Classic {
		bag["commandType"] = p.Command
		if p.Stop {
			bag["value"] = 0
		} else {
			bag["value"] = p.Value * diagram.SpeedScale
		}
		pin, _, err := flowOutput(n, bag)
		if err != nil {
			return "", bag, err
		}
		next = pin
	}

	if p.Resolution != nil && *p.Resolution == 0 {
		v, ok := bag.Number("value")
		if !ok {
			logger(ctx).Error("Motor command carries no numeric value, ending this path.")
			return "", bag, nil
		}
		bag["value"] = toInt(v) * diagram.SpeedScale
	}

	if err := in.write(ctx, p.Module, p.Output, bag); err != nil {
		return "", bag, err
	}
	return next, bag, nil
}

func direction(d string) string {
	if d == "0" {
		return "cw"
	}
	return "ccw"
}

func (in *Interpreter) runOutDualEx(ctx context.Context, n *diagram.Node, bag Bag) (string, Bag, error) {
	p := n.Payload.(*diagram.DataOutDualEx)
	speed := p.Speed * diagram.SpeedScale
	first := Bag{"value": speed, "commandType": direction(p.Direction1)}
	second := Bag{"value": speed, "commandType": direction(p.Direction2), "syncTo": p.Output1}

	switch p.Action {
	case diagram.ActionDistance:
		first["distance"] = p.Distance
		first["sleep"] = true
		second = nil
	case diagram.ActionSync:
		first["syncTo"] = p.Output2
	case diagram.ActionSyncDistance:
		first["distance"] = p.Distance
		first["syncTo"] = p.Output2
		second["distance"] = p.Distance
		second["sleep"] = true
	case diagram.ActionStop:
		first = Bag{"value": 0, "commandType": "cw"}
		second = Bag{"value": 0, "commandType": "cw"}
	default:
		logger(ctx).Error("Encoder motor has an unknown action, skipping it.", "action", p.Action)
		return flowOutput(n, bag)
	}

	if err := in.write(ctx, p.Module, p.Output1, first); err != nil {
		return "", bag, err
	}
	if second != nil && p.Output2 != diagram.NoOutput {
		if err := in.write(ctx, p.Module, p.Output2, second); err != nil {
			return "", bag, err
		}
	}
	return flowOutput(n, bag)
}

func (in *Interpreter) runOutSngl(ctx context.Context, n *diagram.Node, bag Bag) (string, Bag, error) {
	p := n.Payload.(*diagram.DataOutSngl)
	port := p.Output + diagram.SingleOutputOffset

	if p.Classic {
		if err := in.write(ctx, p.Module, port, Bag{"value": p.Value}); err != nil {
			return "", bag, err
		}
		return flowOutput(n, bag)
	}

	v, ok := bag.Number("value")
	if !ok {
		logger(ctx).Error("Output command carries no numeric value, ending this path.")
		return "", bag, nil
	}
	value := toInt(v)
	if p.Resolution != 0 {
		value *= diagram.SpeedScale
	}
	if value < 0 {
		value = 0
	}
	if err := in.write(ctx, p.Module, port, Bag{"value": value}); err != nil {
		return "", bag, err
	}
	return "", bag, nil
}
