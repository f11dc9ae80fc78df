package reactive

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcIsLazyAndMemoized(t *testing.T) {
	g := NewGraph()
	x := NewInput(g, "x", 2, Equal[int])
	calls := 0
	double := NewCalc(g, "double", func() (int, error) {
		calls++
		return x.Get() * 2, nil
	}, x)

	assert.Equal(t, 0, calls, "nothing computes before Get")

	v, err := double.Get()
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	_, _ = double.Get()
	_, _ = double.Get()
	assert.Equal(t, 1, calls)

	assert.False(t, x.Set(2), "same value is not a change")
	_, _ = double.Get()
	assert.Equal(t, 1, calls)

	assert.True(t, x.Set(5))
	v, _ = double.Get()
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, g.Evaluations()["double"])
}

func TestCalcChainRecomputesOnlyInvalidatedNodes(t *testing.T) {
	g := NewGraph()
	a := NewInput(g, "a", 1, Equal[int])
	b := NewInput(g, "b", 10, Equal[int])

	left := NewCalc(g, "left", func() (int, error) { return a.Get() + 1, nil }, a)
	right := NewCalc(g, "right", func() (int, error) { return b.Get() + 1, nil }, b)
	sum := NewCalc(g, "sum", func() (int, error) {
		l, err := left.Get()
		if err != nil {
			return 0, err
		}
		r, err := right.Get()
		if err != nil {
			return 0, err
		}
		return l + r, nil
	}, left, right)

	v, err := sum.Get()
	require.NoError(t, err)
	assert.Equal(t, 13, v)

	b.Set(20)
	v, _ = sum.Get()
	assert.Equal(t, 23, v)

	evals := g.Evaluations()
	assert.Equal(t, 1, evals["left"])
	assert.Equal(t, 2, evals["right"])
	assert.Equal(t, 2, evals["sum"])
	assert.Equal(t, []string{"a", "b", "left", "right", "sum"}, g.Names())
}

func TestCalcMemoizesErrors(t *testing.T) {
	g := NewGraph()
	in := NewInput(g, "in", "", Equal[string])
	boom := errors.New("boom")
	calls := 0
	c := NewCalc(g, "c", func() (string, error) {
		calls++
		if in.Get() == "" {
			return "", boom
		}
		return in.Get(), nil
	}, in)

	_, err := c.Get()
	assert.ErrorIs(t, err, boom)
	_, err = c.Get()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)

	in.Set("ok")
	v, err := c.Get()
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestInvalidateAndObserver(t *testing.T) {
	g := NewGraph()
	var observed []string
	g.SetObserver(func(name string, elapsed time.Duration, err error) {
		observed = append(observed, name)
	})
	in := NewInput(g, "in", 1, nil)
	c := NewCalc(g, "c", func() (int, error) { return in.Get(), nil }, in)

	_, _ = c.Get()
	c.Invalidate()
	_, _ = c.Get()
	assert.Equal(t, []string{"c", "c"}, observed)

	assert.True(t, in.Set(1), "nil equality treats every set as a change")
	_, _ = c.Get()
	assert.Len(t, observed, 3)
}
