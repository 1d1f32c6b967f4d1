package interp

import (
	"context"
	"fmt"

	"github.com/specialistvlad/roprogo/internal/diagram"
	"github.com/specialistvlad/roprogo/internal/scope"
)

func (in *Interpreter) runDataIn(ctx context.Context, n *diagram.Node, bag Bag, dir Direction) (string, Bag, error) {
	if dir != Reverse {
		return "", bag, nil
	}
	s := n.Payload.(*diagram.DataIn).Sensor
	v, err := in.device.SensorValue(ctx, s.Module, s.Port, s.Mode)
	if err != nil {
		return "", bag, fmt.Errorf("reading sensor %s/%d: %w", s.Module, s.Port, err)
	}
	bag["value"] = v
	return "", bag, nil
}

// runDataMssg builds a {commandType, value} command and pushes it to every
// listener on the data output before continuing the flow.
func (in *Interpreter) runDataMssg(ctx context.Context, f *Frame, n *diagram.Node, bag Bag) (string, Bag, error) {
	p := n.Payload.(*diagram.DataMssg)

	var value int
	if inputs := n.FindPinsByClass(diagram.ClassDataInput); len(inputs) > 0 {
		res, err := in.ResolveValue(ctx, f, inputs[0])
		if err != nil {
			return "", bag, err
		}
		v, ok := res.Number("value")
		if !ok {
			logger(ctx).Error("Command input produced no numeric value, ending this path.")
			return "", bag, nil
		}
		value = toInt(v)
	} else if p.HasValue {
		value = p.Value
	} else {
		logger(ctx).Error("Command has neither a data input nor a value, ending this path.")
		return "", bag, nil
	}

	outputs := n.FindPinsByClass(diagram.ClassDataOutput)
	if len(outputs) == 0 {
		return "", bag, structureErr(n, "command has no %s pin", diagram.ClassDataOutput)
	}
	cmd := Bag{"commandType": p.Command, "value": value}
	if err := in.PushValue(ctx, f, outputs[0], cmd); err != nil {
		return "", bag, err
	}
	return flowOutput(n, bag)
}

func runVariable(ctx context.Context, f *Frame, n *diagram.Node, bag Bag, dir Direction) (string, Bag, error) {
	p := n.Payload.(*diagram.Variable)
	cell, ok := variableCell(f, p)
	if !ok {
		logger(ctx).Error("Variable has an unknown scope, skipping it.", "variable", p.Name, "scope", p.Scope)
		return "", bag, nil
	}

	current, stored := cell.load()
	if !stored {
		current = p.Init
	}

	if dir == Reverse {
		bag["value"] = current
		return "", bag, nil
	}

	cmd, hasCmd := bag["commandType"].(string)
	_, hasValue := bag["value"]
	next := p.Init
	if hasCmd && hasValue {
		operand, ok := bag.Number("value")
		if !ok {
			logger(ctx).Error("Variable write carries a non-numeric value, skipping it.", "variable", p.Name, "value", bag["value"])
			return "", bag, nil
		}
		v, err := scope.Apply(current, cmd, operand)
		if err != nil {
			logger(ctx).Error("Invalid variable command, skipping it.", "variable", p.Name, "error", err)
			return "", bag, nil
		}
		next = v
	}
	cell.store(next)
	logger(ctx).Debug("Variable written.", "variable", p.Name, "scope", p.Scope, "value", next)
	return "", bag, nil
}

// cell is the backing storage of one variable in its scope.
type cell struct {
	load  func() (float64, bool)
	store func(float64)
}

func variableCell(f *Frame, p *diagram.Variable) (cell, bool) {
	switch p.Scope {
	case diagram.ScopeObject:
		return cell{load: p.Stored, store: p.Store}, true
	case diagram.ScopeSubprogram:
		return storeCell(f.Locals, p.Name), f.Locals != nil
	case diagram.ScopeGlobal:
		return storeCell(f.Globals, p.Name), f.Globals != nil
	}
	return cell{}, false
}

func storeCell(s *scope.Store, name string) cell {
	return cell{
		load:  func() (float64, bool) { return s.Lookup(name) },
		store: func(v float64) { s.Set(name, v) },
	}
}
