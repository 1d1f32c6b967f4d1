package dag

import "sync"

// Graph is a directed graph of subroutine calls.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all vertices, keyed by subroutine name.
	nodes map[string]*node
}

// node is a single subroutine. It is un-exported to enforce interaction with
// the graph via the public API (using names), not by direct struct
// manipulation.
type node struct {
	id string
	// callers holds the subroutines calling this one.
	callers map[string]*node
	// callees holds the subroutines this one calls.
	callees map[string]*node
}
