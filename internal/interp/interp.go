package interp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/specialistvlad/roprogo/internal/ctxlog"
	"github.com/specialistvlad/roprogo/internal/diagram"
	"github.com/specialistvlad/roprogo/internal/hwio"
)

const (
	// DefaultPollInterval is how often blocking waits sample a sensor.
	DefaultPollInterval = 10 * time.Millisecond
	// DefaultMaxCallDepth bounds nested subroutine calls.
	DefaultMaxCallDepth = 64
	// DefaultSoundModule is the interface module sound commands go to.
	DefaultSoundModule = "IF1"
)

// Options tunes an Interpreter. Zero values select the defaults.
type Options struct {
	PollInterval time.Duration
	// WaitTimeout bounds every sensor wait. Zero waits forever.
	WaitTimeout  time.Duration
	MaxCallDepth int
	SoundModule  string
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.MaxCallDepth <= 0 {
		o.MaxCallDepth = DefaultMaxCallDepth
	}
	if o.SoundModule == "" {
		o.SoundModule = DefaultSoundModule
	}
	return o
}

// Interpreter executes single nodes against an I/O device.
type Interpreter struct {
	device      hwio.Device
	subroutines Registry
	opts        Options
}

// New creates an interpreter. subroutines may be nil when the diagram has no
// call sites.
func New(device hwio.Device, subroutines Registry, opts Options) *Interpreter {
	return &Interpreter{
		device:      device,
		subroutines: subroutines,
		opts:        opts.withDefaults(),
	}
}

// Options returns the effective options.
func (in *Interpreter) Options() Options {
	return in.opts
}

// Run executes n in direction dir. enteredFrom is the pin of n through which
// control arrived; when empty, f.LastPin is used. It returns the output pin
// control leaves through ("" for none) and the value bag the node produced.
func (in *Interpreter) Run(ctx context.Context, f *Frame, n *diagram.Node, enteredFrom string, bag Bag, dir Direction) (string, Bag, error) {
	if enteredFrom == "" {
		enteredFrom = f.LastPin
	}
	if bag == nil {
		bag = Bag{}
	}
	logger := ctxlog.FromContext(ctx).With(
		"subroutine", f.Name,
		"node_id", n.ID,
		"kind", n.Kind.String(),
		"direction", dir.String(),
	)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Executing node.")

	if n.DecodeErr != nil && n.Kind != diagram.KindFlowSound {
		logger.Error("Node attributes are malformed, ending this path.", "error", n.DecodeErr)
		return "", bag, nil
	}

	switch n.Kind {
	case diagram.KindProcessStart:
		return in.forwardOnly(dir, bag, func() (string, Bag, error) { return flowOutput(n, bag) })
	case diagram.KindProcessStop:
		return "", nil, nil
	case diagram.KindFlowIf:
		return in.forwardOnly(dir, bag, func() (string, Bag, error) { return in.runFlowIf(ctx, f, n, bag) })
	case diagram.KindDataIn:
		return in.runDataIn(ctx, n, bag, dir)
	case diagram.KindDataHelper:
		return in.forwardOnly(dir, bag, func() (string, Bag, error) { return runHelper(n, bag) })
	case diagram.KindDataMssg:
		return in.forwardOnly(dir, bag, func() (string, Bag, error) { return in.runDataMssg(ctx, f, n, bag) })
	case diagram.KindDataOutDual:
		return in.forwardOnly(dir, bag, func() (string, Bag, error) { return in.runOutDual(ctx, n, bag) })
	case diagram.KindDataOutDualEx:
		return in.forwardOnly(dir, bag, func() (string, Bag, error) { return in.runOutDualEx(ctx, n, bag) })
	case diagram.KindDataOutSngl:
		return in.forwardOnly(dir, bag, func() (string, Bag, error) { return in.runOutSngl(ctx, n, bag) })
	case diagram.KindFlowWaitChange, diagram.KindFlowWaitCount:
		return in.forwardOnly(dir, bag, func() (string, Bag, error) { return in.runWait(ctx, n, bag) })
	case diagram.KindFlowCountLoop:
		return in.forwardOnly(dir, bag, func() (string, Bag, error) { return runCountLoop(ctx, n, enteredFrom, bag) })
	case diagram.KindFlowSound:
		return in.forwardOnly(dir, bag, func() (string, Bag, error) { return in.runSound(ctx, n, bag) })
	case diagram.KindDataConst:
		bag["value"] = n.Payload.(*diagram.Const).Value
		return "", bag, nil
	case diagram.KindDataVariable:
		return runVariable(ctx, f, n, bag, dir)
	case diagram.KindFlowDelay:
		return in.forwardOnly(dir, bag, func() (string, Bag, error) { return runDelay(ctx, n, bag) })
	case diagram.KindSubroutineRef:
		return in.forwardOnly(dir, bag, func() (string, Bag, error) { return in.runCall(ctx, f, n, enteredFrom, bag) })
	case diagram.KindSubroutineFlowIn:
		return in.forwardOnly(dir, bag, func() (string, Bag, error) { return flowOutput(n, bag) })
	case diagram.KindSubroutineFlowOut:
		return n.ID, bag, nil
	case diagram.KindSubroutineDataIn:
		if dir != Reverse {
			return "", bag, nil
		}
		return in.runBoundaryDataIn(ctx, f, n, bag)
	case diagram.KindSubroutineDataOut:
		return in.forwardOnly(dir, bag, func() (string, Bag, error) { return in.runBoundaryDataOut(ctx, f, n, bag) })
	case diagram.KindUnknown:
		logger.Error("Node kind is not implemented, ending this path.", "class", n.ClassName)
		return "", bag, nil
	}
	return "", bag, fmt.Errorf("interp: unhandled kind %s", n.Kind)
}

// forwardOnly runs fn in forward direction. Reverse queries of effectful
// kinds yield nothing so that value resolution never touches hardware.
func (in *Interpreter) forwardOnly(dir Direction, bag Bag, fn func() (string, Bag, error)) (string, Bag, error) {
	if dir == Reverse {
		return "", bag, nil
	}
	return fn()
}

func flowOutput(n *diagram.Node, bag Bag) (string, Bag, error) {
	pins := n.FindPinsByClass(diagram.ClassFlowOutput)
	if len(pins) == 0 {
		return "", bag, structureErr(n, "no %s pin", diagram.ClassFlowOutput)
	}
	return pins[0], bag, nil
}

// namedPin returns the first pin whose name contains one of names, in order
// of preference.
func namedPin(n *diagram.Node, names ...string) (string, bool) {
	for _, name := range names {
		if pins := n.FindPinsByAttribute(diagram.AttrName, name); len(pins) > 0 {
			return pins[0], true
		}
	}
	return "", false
}

func logger(ctx context.Context) *slog.Logger {
	return ctxlog.FromContext(ctx)
}
