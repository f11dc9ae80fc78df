package reactive

import "time"

// Calc is a memoized derived value.
type Calc[T any] struct {
	graph   *Graph
	name    string
	deps    []Node
	compute func() (T, error)

	seen    []uint64
	value   T
	err     error
	valid   bool
	version uint64
}

// NewCalc registers a derived node computed from deps. compute reads its
// dependencies through their Get methods.
func NewCalc[T any](g *Graph, name string, compute func() (T, error), deps ...Node) *Calc[T] {
	c := &Calc[T]{
		graph:   g,
		name:    name,
		deps:    deps,
		compute: compute,
		seen:    make([]uint64, len(deps)),
	}
	g.register(c)
	return c
}

func (c *Calc[T]) Name() string { return c.name }

// Version refreshes the calc if needed and returns its version.
func (c *Calc[T]) Version() uint64 {
	c.refresh()
	return c.version
}

// Get returns the memoized value, recomputing first if a dependency changed.
// Errors are memoized alongside the value.
func (c *Calc[T]) Get() (T, error) {
	c.refresh()
	return c.value, c.err
}

// Invalidate forces the next Get to recompute.
func (c *Calc[T]) Invalidate() {
	c.valid = false
}

func (c *Calc[T]) stale() bool {
	if !c.valid {
		return true
	}
	for i, d := range c.deps {
		if d.Version() != c.seen[i] {
			return true
		}
	}
	return false
}

func (c *Calc[T]) refresh() {
	if !c.stale() {
		return
	}
	for i, d := range c.deps {
		c.seen[i] = d.Version()
	}
	start := time.Now()
	c.value, c.err = c.compute()
	c.valid = true
	c.version++
	c.graph.record(c.name, time.Since(start), c.err)
}
