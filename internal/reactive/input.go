package reactive

// Input is an externally set value.
type Input[T any] struct {
	name    string
	value   T
	version uint64
	equal   func(a, b T) bool
}

// NewInput registers an input on g. equal decides whether Set is a change;
// nil treats every Set as a change.
func NewInput[T any](g *Graph, name string, initial T, equal func(a, b T) bool) *Input[T] {
	in := &Input[T]{name: name, value: initial, version: 1, equal: equal}
	g.register(in)
	return in
}

func (in *Input[T]) Name() string { return in.name }

func (in *Input[T]) Version() uint64 { return in.version }

func (in *Input[T]) Get() T { return in.value }

// Set stores v and reports whether dependents were invalidated.
func (in *Input[T]) Set(v T) bool {
	if in.equal != nil && in.equal(in.value, v) {
		return false
	}
	in.value = v
	in.version++
	return true
}

// Equal is the equality func for comparable values.
func Equal[T comparable](a, b T) bool {
	return a == b
}
