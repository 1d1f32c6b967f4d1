// Package interp is the node interpreter of the diagram runtime.
//
// A caller (normally program.Subroutine) repeatedly hands the interpreter the
// node control has reached. Run executes that node in FORWARD direction and
// returns the id of the output pin control leaves through, if any. Data moves
// orthogonally to control:
//
//   - ResolveValue walks the wire feeding a data input backwards, through any
//     merge helpers, to the producing node and runs it in REVERSE direction.
//     Reverse execution only computes a value and never writes to hardware.
//   - PushValue walks every wire leaving a data output and runs each consumer
//     in FORWARD direction with its own copy of the value bag, following any
//     further output pins the consumer returns.
//
// Both primitives run synchronously inside the triggering node, so one
// control step may execute many other nodes before it returns.
//
// The interpreter keeps no per-run state of its own. Everything a node may
// need besides its own payload is carried by the Frame passed to Run: the
// wire resolver of the current subroutine body, the subprogram and global
// variable stores and, inside a call, a reference back to the call site.
//
// # Errors
//
// Diagram-content problems (unknown kinds, missing subroutines, malformed
// attributes, invalid variable commands) are logged and end the affected flow
// path: Run returns no next pin and a nil error. Structural problems such as a
// missing J/N pin or an unconnected data input are returned as
// *StructureError. Device failures, cancellation and exhausted call depth are
// returned as errors as well.
package interp
