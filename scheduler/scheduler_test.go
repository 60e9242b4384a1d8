package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hz.tools/flow"
	"hz.tools/flow/blocks"
	"hz.tools/flow/graph"
	"hz.tools/flow/scheduler"
)

func TestSingleSchedulerSimpleChain(t *testing.T) {
	w1, r1 := flow.NewStream[int](flow.StreamOptions{Capacity: 8})
	w2, r2 := flow.NewStream[int](flow.StreamOptions{Capacity: 8})

	src := blocks.NewSource("src", []int{1, 2, 3, 4}, w1)
	mapBlk := blocks.NewMap("double", r1, w2, func(v int) int { return v * 2 })
	sink := blocks.NewVectorSink("sink", r2)

	g, err := graph.NewBuilder().Add(src).Add(mapBlk).Add(sink).Build()
	require.NoError(t, err)
	require.NoError(t, g.Run(scheduler.NewSingle()))
	require.Equal(t, []int{2, 4, 6, 8}, sink.Items())
}

func buildChain(name string, n int) (flow.Block, flow.Block, flow.Block, *blocks.VectorSink[int]) {
	data := make([]int, n)
	for i := range data {
		data[i] = i + 1
	}
	w1, r1 := flow.NewStream[int](flow.StreamOptions{Capacity: 64})
	w2, r2 := flow.NewStream[int](flow.StreamOptions{Capacity: 64})

	src := blocks.NewSource(name+"-src", data, w1)
	mapBlk := blocks.NewMap(name+"-map", r1, w2, func(v int) int { return v })
	sink := blocks.NewVectorSink(name+"-sink", r2)
	return src, mapBlk, sink, sink
}

func TestMultiSchedulerTwoParallelChains(t *testing.T) {
	const n = 2000
	srcA, mapA, sinkA, vecA := buildChain("A", n)
	srcB, mapB, sinkB, vecB := buildChain("B", n)

	g, err := graph.NewBuilder().
		Add(srcA).Add(mapA).Add(sinkA).
		Add(srcB).Add(mapB).Add(sinkB).
		Build()
	require.NoError(t, err)

	require.NoError(t, g.Run(scheduler.NewMulti(4)))

	wantA := make([]int, n)
	wantB := make([]int, n)
	for i := range wantA {
		wantA[i] = i + 1
		wantB[i] = i + 1
	}
	require.Equal(t, wantA, vecA.Items())
	require.Equal(t, wantB, vecB.Items())
}

func TestSingleSchedulerStopMidRun(t *testing.T) {
	data := make([]int, 100)
	for i := range data {
		data[i] = i + 1
	}
	w1, r1 := flow.NewStream[int](flow.StreamOptions{Capacity: 4})
	w2, r2 := flow.NewStream[int](flow.StreamOptions{Capacity: 4})

	src := blocks.NewSource("src", data, w1)
	ident := blocks.NewIdentity("identity", r1, w2)
	sink := blocks.NewVectorSink("sink", r2)

	g, err := graph.NewBuilder().Add(src).Add(ident).Add(sink).Build()
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		for {
			if len(sink.Items()) >= 10 {
				g.Stop()
				return
			}
			select {
			case <-done:
				return
			case <-time.After(time.Millisecond):
			}
		}
	}()

	err = g.Run(scheduler.NewSingle())
	close(done)
	require.NoError(t, err)

	items := sink.Items()
	require.GreaterOrEqual(t, len(items), 10)
	require.LessOrEqual(t, len(items), 100)
	require.True(t, g.Stopped())
}

func TestCooperativeSchedulerSimpleChain(t *testing.T) {
	w1, r1 := flow.NewStream[int](flow.StreamOptions{Capacity: 8})
	w2, r2 := flow.NewStream[int](flow.StreamOptions{Capacity: 8})

	src := blocks.NewSource("src", []int{5, 6, 7}, w1)
	ident := blocks.NewIdentity("identity", r1, w2)
	sink := blocks.NewVectorSink("sink", r2)

	g, err := graph.NewBuilder().Add(src).Add(ident).Add(sink).Build()
	require.NoError(t, err)
	require.NoError(t, g.Run(scheduler.NewCooperative()))
	require.Equal(t, []int{5, 6, 7}, sink.Items())
}

func TestMultiSchedulerWithWorkersDefault(t *testing.T) {
	w1, r1 := flow.NewStream[int](flow.StreamOptions{Capacity: 8})
	w2, r2 := flow.NewStream[int](flow.StreamOptions{Capacity: 8})

	src := blocks.NewSource("src", []int{1, 2, 3}, w1)
	ident := blocks.NewIdentity("identity", r1, w2)
	sink := blocks.NewVectorSink("sink", r2)

	g, err := graph.NewBuilder().Add(src).Add(ident).Add(sink).Build()
	require.NoError(t, err)
	require.NoError(t, g.Run(scheduler.WithWorkers()))
	require.Equal(t, []int{1, 2, 3}, sink.Items())
}

func TestMultiSchedulerPropagatesError(t *testing.T) {
	w1, r1 := flow.NewStream[int](flow.StreamOptions{Capacity: 8})
	w2, r2 := flow.NewStream[int](flow.StreamOptions{Capacity: 8})

	failSrc := blocks.NewFailingSource("FailingSource", []int{1, 2, 3, 4, 5}, 2, w1)
	ident := blocks.NewIdentity("Identity", r1, w2)
	sink := blocks.NewVectorSink("Sink", r2)

	g, err := graph.NewBuilder().Add(failSrc).Add(ident).Add(sink).Build()
	require.NoError(t, err)

	err = g.Run(scheduler.NewMulti(2))
	require.Error(t, err)
	require.Contains(t, err.Error(), "FailingSource")
}
