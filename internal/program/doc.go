// Package program turns a loaded diagram model into a runnable program.
//
// Build creates one Subroutine per diagram body, each with its own wire
// table, registers them in a subroutine registry and wires a single
// interpreter to all of them. Program.Run then drives control flow from the
// ProcessStart node of the entry subroutine until no node hands control on.
package program
