package blocks_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hz.tools/flow"
	"hz.tools/flow/blocks"
	"hz.tools/flow/graph"
	"hz.tools/flow/scheduler"
)

func runToCompletion(t *testing.T, g *graph.Graph) {
	t.Helper()
	require.NoError(t, g.Run(scheduler.NewSingle()))
}

func TestSourceMapVectorSink(t *testing.T) {
	w1, r1 := flow.NewStream[int](flow.StreamOptions{Capacity: 8})
	w2, r2 := flow.NewStream[int](flow.StreamOptions{Capacity: 8})

	src := blocks.NewSource("src", []int{1, 2, 3, 4}, w1)
	mapBlk := blocks.NewMap("double", r1, w2, func(v int) int { return v * 2 })
	sink := blocks.NewVectorSink("sink", r2)

	g, err := graph.NewBuilder().Add(src).Add(mapBlk).Add(sink).Build()
	require.NoError(t, err)
	runToCompletion(t, g)

	require.Equal(t, []int{2, 4, 6, 8}, sink.Items())
}

func TestTagCollectingSinkAlignsTags(t *testing.T) {
	w1, r1 := flow.NewStream[int](flow.StreamOptions{Capacity: 8})
	w2, r2 := flow.NewStream[int](flow.StreamOptions{Capacity: 8})

	src := blocks.NewTaggedSource("src", []int{10, 20, 30},
		[]flow.Tag{{Offset: 1, Key: "k", Value: flow.StringTag("v")}}, w1)
	ident := blocks.NewIdentity("identity", r1, w2)
	sink := blocks.NewTagCollectingSink("sink", r2)

	g, err := graph.NewBuilder().Add(src).Add(ident).Add(sink).Build()
	require.NoError(t, err)
	runToCompletion(t, g)

	items := sink.Items()
	require.Len(t, items, 3)
	require.Equal(t, 20, items[1].Item)
	require.Len(t, items[1].Tags, 1)
	require.Equal(t, "k", items[1].Tags[0].Key)
}

func TestFailingSourcePropagatesError(t *testing.T) {
	w1, r1 := flow.NewStream[int](flow.StreamOptions{Capacity: 8})
	w2, r2 := flow.NewStream[int](flow.StreamOptions{Capacity: 8})

	failSrc := blocks.NewFailingSource("FailingSource", []int{1, 2, 3, 4, 5}, 3, w1)
	ident := blocks.NewIdentity("Identity", r1, w2)
	sink := blocks.NewVectorSink("Sink", r2)

	g, err := graph.NewBuilder().Add(failSrc).Add(ident).Add(sink).Build()
	require.NoError(t, err)

	err = g.Run(scheduler.NewSingle())
	require.Error(t, err)
	require.Contains(t, err.Error(), "FailingSource")
	require.Contains(t, err.Error(), "boom")
}

func TestBatchGroupsFixedSizeRuns(t *testing.T) {
	w1, r1 := flow.NewStream[int](flow.StreamOptions{Capacity: 4})
	w2, r2 := flow.NewStream[[]int](flow.StreamOptions{Capacity: 4})

	src := blocks.NewSource("src", []int{1, 2, 3, 4, 5, 6, 7}, w1)
	batch := blocks.NewBatch("batch", r1, w2, 3)
	sink := blocks.NewVectorSink("sink", r2)

	g, err := graph.NewBuilder().Add(src).Add(batch).Add(sink).Build()
	require.NoError(t, err)
	runToCompletion(t, g)

	require.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}, {7}}, sink.Items())
}

func TestThrottleForwardsAllItemsInOrder(t *testing.T) {
	w1, r1 := flow.NewStream[int](flow.StreamOptions{Capacity: 16})
	w2, r2 := flow.NewStream[int](flow.StreamOptions{Capacity: 16})

	data := make([]int, 200)
	for i := range data {
		data[i] = i + 1
	}

	src := blocks.NewSource("src", data, w1)
	throttle := blocks.NewThrottle("throttle", r1, w2, 4, time.Millisecond)
	sink := blocks.NewVectorSink("sink", r2)

	g, err := graph.NewBuilder().Add(src).Add(throttle).Add(sink).Build()
	require.NoError(t, err)

	require.NoError(t, g.Run(scheduler.NewSingle()))
	require.Equal(t, data, sink.Items())
}
