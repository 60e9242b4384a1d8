package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamBasicProduceConsume(t *testing.T) {
	w, r := NewStream[int](StreamOptions{Capacity: 8})

	ws, err := w.Reserve()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(ws.Data), 3)
	ws.Data[0] = 1
	ws.Data[1] = 2
	ws.Data[2] = 3
	require.NoError(t, ws.Produce(3))

	rs, err := r.Reserve()
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, rs.Data[:3])
	require.NoError(t, rs.Consume(3))

	assert.Equal(t, 8, w.Cap())
}

func TestStreamEmptyBeforeClose(t *testing.T) {
	_, r := NewStream[int](StreamOptions{Capacity: 4})
	_, err := r.Reserve()
	require.ErrorIs(t, err, ErrEmpty)
	assert.True(t, IsWouldBlock(err))
}

func TestStreamClosedAfterDrain(t *testing.T) {
	w, r := NewStream[int](StreamOptions{Capacity: 4})

	ws, err := w.Reserve()
	require.NoError(t, err)
	ws.Data[0] = 42
	require.NoError(t, ws.Produce(1))
	w.Close()

	rs, err := r.Reserve()
	require.NoError(t, err)
	require.Equal(t, 42, rs.Data[0])
	require.NoError(t, rs.Consume(1))

	_, err = r.Reserve()
	require.ErrorIs(t, err, ErrClosed)
}

func TestStreamFullWhenRingSaturated(t *testing.T) {
	w, _ := NewStream[int](StreamOptions{Capacity: 2})
	ws, err := w.Reserve()
	require.NoError(t, err)
	require.NoError(t, ws.Produce(len(ws.Data)))

	_, err = w.Reserve()
	require.ErrorIs(t, err, ErrFull)
}

func TestStreamTagsDeliveredInWindow(t *testing.T) {
	w, r := NewStream[int](StreamOptions{Capacity: 16})

	ws, err := w.Reserve()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		ws.Data[i] = i * 10
	}
	require.NoError(t, ws.Produce(5, Tag{Offset: 2, Key: "k", Value: StringTag("v")}))

	rs, err := r.Reserve()
	require.NoError(t, err)
	require.Len(t, rs.Tags, 1)
	assert.Equal(t, uint64(2), rs.Tags[0].Offset)
	s, ok := rs.Tags[0].Value.String()
	require.True(t, ok)
	assert.Equal(t, "v", s)
}

func TestStreamTagsDroppedOnceConsumedPast(t *testing.T) {
	w, r := NewStream[int](StreamOptions{Capacity: 16})

	ws, err := w.Reserve()
	require.NoError(t, err)
	require.NoError(t, ws.Produce(4, Tag{Offset: 1, Key: "a", Value: IntTag(1)}))

	rs, err := r.Reserve()
	require.NoError(t, err)
	require.Len(t, rs.Tags, 1)
	require.NoError(t, rs.Consume(4))

	ws2, err := w.Reserve()
	require.NoError(t, err)
	require.NoError(t, ws2.Produce(2))
	rs2, err := r.Reserve()
	require.NoError(t, err)
	assert.Empty(t, rs2.Tags)
}

func TestStreamTagOffsetMustBeMonotonic(t *testing.T) {
	w, _ := NewStream[int](StreamOptions{Capacity: 16})
	ws, err := w.Reserve()
	require.NoError(t, err)
	require.NoError(t, ws.Produce(4, Tag{Offset: 3, Key: "a", Value: BoolTag(true)}))

	ws2, err := w.Reserve()
	require.NoError(t, err)
	err = ws2.Produce(1, Tag{Offset: 1, Key: "b", Value: BoolTag(false)})
	require.Error(t, err)
}

func TestStreamRefTypeName(t *testing.T) {
	w, _ := NewStream[float32](StreamOptions{Capacity: 4})
	assert.Contains(t, w.Ref().TypeName(), "float32")
}

func TestStreamBindDuplicateProducerIsWiringError(t *testing.T) {
	w, _ := NewStream[int](StreamOptions{Capacity: 4})
	ref := w.Ref()
	require.NoError(t, ref.BindProducer(1))
	err := ref.BindProducer(2)
	require.Error(t, err)
	var wErr *WiringError
	require.ErrorAs(t, err, &wErr)
}
