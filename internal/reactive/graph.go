// Package reactive implements a small pull-based dependency graph.
//
// Inputs hold externally set values and carry a version that only moves when
// the value actually changes. Calcs are memoized derived values that
// recompute on Get when, and only when, a dependency version has moved.
// Nothing computes until a value is requested.
//
// A Graph and its nodes are not safe for concurrent use; callers serialize
// access (one graph per session).
package reactive

import (
	"sort"
	"time"
)

// Node is anything a Calc can depend on.
type Node interface {
	Name() string
	// Version brings the node up to date and returns its current version.
	Version() uint64
}

// Observer is notified after every Calc evaluation.
type Observer func(name string, elapsed time.Duration, err error)

// Graph groups the nodes of one session and carries the evaluation observer.
type Graph struct {
	nodes    []Node
	evals    map[string]int
	observer Observer
}

func NewGraph() *Graph {
	return &Graph{evals: make(map[string]int)}
}

// SetObserver installs a hook called after each evaluation (nil disables).
func (g *Graph) SetObserver(o Observer) {
	g.observer = o
}

// Evaluations returns how many times each calc has been computed.
func (g *Graph) Evaluations() map[string]int {
	out := make(map[string]int, len(g.evals))
	for k, v := range g.evals {
		out[k] = v
	}
	return out
}

// Names lists the registered node names, sorted.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.nodes))
	for _, n := range g.nodes {
		names = append(names, n.Name())
	}
	sort.Strings(names)
	return names
}

func (g *Graph) register(n Node) {
	g.nodes = append(g.nodes, n)
}

func (g *Graph) record(name string, elapsed time.Duration, err error) {
	g.evals[name]++
	if g.observer != nil {
		g.observer(name, elapsed, err)
	}
}
