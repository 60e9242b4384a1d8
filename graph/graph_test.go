package graph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hz.tools/flow"
	"hz.tools/flow/blocks"
	"hz.tools/flow/graph"
	"hz.tools/flow/mock"
)

func TestBuilderRejectsMissingSource(t *testing.T) {
	a, b := flow.NewStream[int](flow.StreamOptions{Capacity: 4})
	sink := blocks.NewVectorSink("sink", b)
	_ = a // producer side deliberately left unbound: no source block added

	g, err := graph.NewBuilder().Add(sink).Build()
	require.Error(t, err)
	require.Nil(t, g)
}

func TestBuilderRejectsCycle(t *testing.T) {
	w0, r0 := flow.NewStream[int](flow.StreamOptions{Capacity: 4})
	w1, r1 := flow.NewStream[int](flow.StreamOptions{Capacity: 4})
	w2, r2 := flow.NewStream[int](flow.StreamOptions{Capacity: 4})
	w3, r3 := flow.NewStream[int](flow.StreamOptions{Capacity: 4})

	// a and b form a loop; src feeds a and b also feeds sink, so the
	// graph has a source and a sink and only the cycle check rejects it.
	src := blocks.NewSource("src", []int{1}, w0)
	blkA := flow.NewSync2x1("a", r0, r2, w1, func(x, y int) int { return x + y })
	blkB := mock.New(mock.Config{
		Name:     "b",
		Inputs:   []flow.Port{{Name: "in", Stream: r1.Ref()}},
		Outputs:  []flow.Port{{Name: "loop", Stream: w2.Ref()}, {Name: "out", Stream: w3.Ref()}},
		WorkFunc: func(int) flow.WorkResult { return flow.Ok() },
	})
	sink := blocks.NewVectorSink("sink", r3)

	_, err := graph.NewBuilder().Add(src).Add(blkA).Add(blkB).Add(sink).Build()
	require.Error(t, err)
	require.Contains(t, err.Error(), "cycle")
}

func TestBuilderAcceptsSimpleChain(t *testing.T) {
	w, r := flow.NewStream[int](flow.StreamOptions{Capacity: 8})
	src := blocks.NewSource("src", []int{1, 2, 3}, w)
	sink := blocks.NewVectorSink("sink", r)

	g, err := graph.NewBuilder().Add(src).Add(sink).Build()
	require.NoError(t, err)
	require.NotNil(t, g)
	require.Len(t, g.Blocks(), 2)
}

func TestGraphStopIsIdempotent(t *testing.T) {
	w, r := flow.NewStream[int](flow.StreamOptions{Capacity: 8})
	src := blocks.NewSource("src", []int{1}, w)
	sink := blocks.NewVectorSink("sink", r)

	g, err := graph.NewBuilder().Add(src).Add(sink).Build()
	require.NoError(t, err)

	g.Stop()
	g.Stop()
	require.True(t, g.Stopped())
}
