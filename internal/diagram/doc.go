// Package diagram holds the structural model of a loaded RoboPro diagram:
// nodes, their pins and the typed attribute payload decoded for each node
// kind.
//
// Nodes are created once by a loader and live for one program execution.
// The only mutable parts are the per-kind state cells inside payloads (loop
// counters, object-scoped variable cells), which are touched exclusively by
// the interpreter while it runs that node.
//
// Pin lookups by attribute are substring tests, not equality: asking for
// class "dataobjectinput" also matches a pin whose class merely contains
// that text.
package diagram
