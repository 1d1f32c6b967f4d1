// Package dag holds the call graph of a diagram: one vertex per subroutine
// and an edge from every subroutine to each subroutine it calls.
//
// The runtime tolerates recursive call graphs, bounded only by the
// interpreter's call depth limit, so the program builder uses DetectCycles
// to warn about them before the first node runs.
package dag
