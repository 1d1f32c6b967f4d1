package dag

import (
	"fmt"
	"sort"
	"strings"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a subroutine to the graph. If it already exists, the function
// does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.addNode(id)
}

func (g *Graph) addNode(id string) *node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &node{
		id:      id,
		callers: make(map[string]*node),
		callees: make(map[string]*node),
	}
	g.nodes[id] = n
	return n
}

// AddEdge records that fromID calls toID. A subroutine calling itself is a
// valid edge. An error is returned if either node does not exist.
func (g *Graph) AddEdge(fromID, toID string) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("caller not found: %s", fromID)
	}
	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("callee not found: %s", toID)
	}

	toNode.callers[fromID] = fromNode
	fromNode.callees[toID] = toNode
	return nil
}

// Callees returns, sorted, the subroutines the given one calls.
func (g *Graph) Callees(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedKeys(n.callees), nil
}

// Callers returns, sorted, the subroutines calling the given one.
func (g *Graph) Callers(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedKeys(n.callers), nil
}

// Reachable returns, sorted, every subroutine reachable from id through
// calls, id itself included.
func (g *Graph) Reachable(id string) []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	start, ok := g.nodes[id]
	if !ok {
		return nil
	}
	seen := map[string]*node{id: start}
	stack := []*node{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for cid, c := range n.callees {
			if _, ok := seen[cid]; !ok {
				seen[cid] = c
				stack = append(stack, c)
			}
		}
	}
	return sortedKeys(seen)
}

// DetectCycles checks the graph for recursive calls. It returns a non-nil
// error describing the first cycle found, e.g. "a -> b -> a". Nodes are
// visited in name order so the report is stable.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// permanent: fully visited and not part of a cycle.
	// onStack: in the recursion stack of the current traversal.
	permanent := make(map[string]bool)
	onStack := make(map[string]bool)
	var path []string

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if onStack[n.id] {
			start := 0
			for i, id := range path {
				if id == n.id {
					start = i
					break
				}
			}
			cycle := append(append([]string(nil), path[start:]...), n.id)
			return fmt.Errorf("cycle detected: %s", strings.Join(cycle, " -> "))
		}

		onStack[n.id] = true
		path = append(path, n.id)
		for _, id := range sortedKeys(n.callees) {
			if err := visit(n.callees[id]); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		delete(onStack, n.id)
		permanent[n.id] = true
		return nil
	}

	for _, id := range sortedKeys(g.nodes) {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]*node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
