package flow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSync1x1DoublesAndDrains(t *testing.T) {
	inW, inR := NewStream[int](StreamOptions{Capacity: 8})
	outW, outR := NewStream[int](StreamOptions{Capacity: 8})

	blk := NewSync1x1("double", inR, outW, func(v int) int { return v * 2 })

	ws, err := inW.Reserve()
	require.NoError(t, err)
	ws.Data[0], ws.Data[1], ws.Data[2] = 1, 2, 3
	require.NoError(t, ws.Produce(3))
	inW.Close()

	res := blk.Work()
	require.Equal(t, StatusOk, res.Status())

	rs, err := outR.Reserve()
	require.NoError(t, err)
	require.Equal(t, []int{2, 4, 6}, rs.Data[:3])
	require.NoError(t, rs.Consume(3))

	res = blk.Work()
	require.Equal(t, StatusEndOfStream, res.Status())
	require.True(t, outR.Closed())
}

func TestSync1x1TagPassthroughRebased(t *testing.T) {
	inW, inR := NewStream[int](StreamOptions{Capacity: 8})
	outW, outR := NewStream[int](StreamOptions{Capacity: 8})

	blk := NewSync1x1("identity", inR, outW, func(v int) int { return v })

	ws, err := inW.Reserve()
	require.NoError(t, err)
	ws.Data[0], ws.Data[1], ws.Data[2] = 10, 20, 30
	require.NoError(t, ws.Produce(3, Tag{Offset: 1, Key: "k", Value: StringTag("v")}))

	res := blk.Work()
	require.Equal(t, StatusOk, res.Status())

	rs, err := outR.Reserve()
	require.NoError(t, err)
	require.Len(t, rs.Tags, 1)
	require.Equal(t, uint64(1), rs.Tags[0].Offset)
}

func TestSync2x1Combines(t *testing.T) {
	aW, aR := NewStream[int](StreamOptions{Capacity: 8})
	bW, bR := NewStream[int](StreamOptions{Capacity: 8})
	outW, outR := NewStream[int](StreamOptions{Capacity: 8})

	blk := NewSync2x1("add", aR, bR, outW, func(a, b int) int { return a + b })

	aws, err := aW.Reserve()
	require.NoError(t, err)
	aws.Data[0], aws.Data[1] = 1, 2
	require.NoError(t, aws.Produce(2))

	bws, err := bW.Reserve()
	require.NoError(t, err)
	bws.Data[0], bws.Data[1] = 10, 20
	require.NoError(t, bws.Produce(2))

	res := blk.Work()
	require.Equal(t, StatusOk, res.Status())

	rs, err := outR.Reserve()
	require.NoError(t, err)
	require.Equal(t, []int{11, 22}, rs.Data[:2])
}

func TestSync1x1PendingWhenInputEmpty(t *testing.T) {
	_, inR := NewStream[int](StreamOptions{Capacity: 8})
	outW, _ := NewStream[int](StreamOptions{Capacity: 8})

	blk := NewSync1x1("double", inR, outW, func(v int) int { return v * 2 })
	res := blk.Work()
	require.Equal(t, StatusPending, res.Status())
}
