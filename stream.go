// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020-2022
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE. }}}

package flow

import (
	"fmt"
	"sync"

	"code.hybscloud.com/atomix"

	"hz.tools/flow/internal/waiter"
)

const (
	// DefaultCapacity is used by NewStream when StreamOptions.Capacity
	// is left at zero. Falls in the middle of the 4Ki-64Ki element
	// range suggested for stream sizing.
	DefaultCapacity = 16 * 1024
)

// StreamOptions configures a Stream at construction time.
type StreamOptions struct {
	// Capacity is the number of elements the ring can hold. Rounded up
	// to the next power of two; must be able to hold the largest
	// single Reserve any block attached to it will ever request, or
	// the producer will wedge against back-pressure that can never be
	// satisfied. Zero means DefaultCapacity.
	Capacity int

	// Name labels the stream in diagnostics. Optional.
	Name string
}

// pad is cache-line padding between the hot cursor fields of a
// streamCore, following the cached-index SPSC layout this ring is
// grounded on.
type pad [64]byte

// streamCore is the shared body of a Stream[T]: a fixed-capacity ring
// of T with two cached-cursor atomic indices (Lamport's construction)
// plus a small tag FIFO and an EOF flag. Exactly one WriteStream[T]
// and one ReadStream[T] are issued for a given streamCore, and only
// those two owners may call the producer-side/consumer-side methods
// respectively.
type streamCore[T any] struct {
	id   StreamID
	name string

	_          pad
	head       atomix.Uint64 // consumer cursor; producer reads this
	_          pad
	cachedTail uint64 // producer's cached view of tail
	_          pad
	tail       atomix.Uint64 // producer cursor; consumer reads this
	_          pad
	cachedHead uint64 // consumer's cached view of head
	_          pad

	buf  []T
	mask uint64

	closed atomix.Uint64 // 0 = open, 1 = producer called Close

	tagMu     sync.Mutex
	tags      []Tag
	lastTagAt uint64 // highest tag offset attached so far, tags must be >=

	producerBlock BlockID
	consumerBlock BlockID
	hasProducer   bool
	hasConsumer   bool

	waiters waiter.Pair
}

func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// NewStream constructs a Stream[T] and returns its producer and
// consumer endpoint handles. Each handle is move-only in spirit: the
// graph builder binds each to exactly one block, and a second bind
// attempt on either handle is a wiring error.
func NewStream[T any](opts StreamOptions) (WriteStream[T], ReadStream[T]) {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	n := roundToPow2(capacity)
	core := &streamCore[T]{
		id:   newStreamID(),
		name: opts.Name,
		buf:  make([]T, n),
		mask: uint64(n - 1),
	}
	return WriteStream[T]{core: core}, ReadStream[T]{core: core}
}

// Cap returns the stream's ring capacity in elements.
func (c *streamCore[T]) Cap() int {
	return int(c.mask + 1)
}

func (c *streamCore[T]) isClosed() bool {
	return c.closed.LoadAcquire() != 0
}

// close sets EOF on the stream and wakes any armed consumer waiter,
// passing the infinite-availability sentinel so the waiter fires
// regardless of its threshold. Shared by WriteStream.Close and the
// type-erased StreamRef.Close a scheduler uses to propagate EOF from a
// block retired early by Stop.
func (c *streamCore[T]) close() {
	c.closed.StoreRelease(1)
	c.waiters.SignalProduce(^uint64(0))
}

// --- producer side ---

// WriteSlice is a reserved, contiguous writable region returned by
// WriteStream.Reserve. The caller fills some prefix of Data and calls
// Produce with however many elements it actually wrote. Dropping a
// WriteSlice without calling Produce publishes nothing: there are no
// torn writes.
type WriteSlice[T any] struct {
	// Data is the contiguous writable region. len(Data) may be less
	// than the total free space if the free region wraps around the
	// end of the ring; a second Reserve call after Produce will expose
	// the remainder.
	Data []T

	// Offset is the absolute stream-coordinate index of Data[0].
	Offset uint64

	core *streamCore[T]
}

// reserveWrite computes the contiguous writable run starting at the
// producer cursor, bounded by the consumer's cached position. Backs
// WriteStream.Reserve.
func (c *streamCore[T]) reserveWrite() (WriteSlice[T], error) {
	tail := c.tail.LoadRelaxed()
	if tail-c.cachedHead > c.mask {
		c.cachedHead = c.head.LoadAcquire()
		if tail-c.cachedHead > c.mask {
			return WriteSlice[T]{}, ErrFull
		}
	}
	free := (c.cachedHead + c.mask + 1) - tail
	start := tail & c.mask
	run := c.mask + 1 - start
	if run > free {
		run = free
	}
	return WriteSlice[T]{
		Data:   c.buf[start : start+run],
		Offset: tail,
		core:   c,
	}, nil
}

// Produce publishes the first n elements of a WriteSlice (n must be <=
// len(slice.Data)), attaching tags whose offsets are given in absolute
// stream coordinates and must each be >= the previous call's high-water
// offset. Produce performs a release-store of the producer cursor so
// that the consumer's next acquire-load observes the new elements.
func (s WriteSlice[T]) Produce(n int, tags ...Tag) error {
	c := s.core
	if n < 0 || n > len(s.Data) {
		return fmt.Errorf("flow: produce count %d out of range [0,%d]", n, len(s.Data))
	}
	if len(tags) > 0 {
		c.tagMu.Lock()
		for _, t := range tags {
			if hw := max(c.lastTagAt, s.Offset); t.Offset < hw {
				c.tagMu.Unlock()
				return fmt.Errorf("flow: tag offset %d precedes previous high water %d", t.Offset, hw)
			}
			c.lastTagAt = t.Offset
			c.tags = append(c.tags, t)
		}
		c.tagMu.Unlock()
	}
	if n == 0 {
		return nil
	}
	newTail := s.Offset + uint64(n)
	c.tail.StoreRelease(newTail)
	c.waiters.SignalProduce(newTail - c.head.LoadRelaxed())
	return nil
}

// WriteStream is the producer handle of a Stream[T]. Exactly one
// WriteStream exists per stream; it is bound to exactly one Block by a
// graph.Builder.
type WriteStream[T any] struct {
	core *streamCore[T]
}

// Reserve returns the next contiguous writable region. Returns ErrFull
// if the ring currently has zero free elements.
func (w WriteStream[T]) Reserve() (WriteSlice[T], error) {
	return w.core.reserveWrite()
}

// Avail reports how many elements could be written right now without
// blocking, without actually reserving them.
func (w WriteStream[T]) Avail() int {
	c := w.core
	tail := c.tail.LoadRelaxed()
	head := c.head.LoadAcquire()
	return int((head + c.mask + 1) - tail)
}

// Close sets EOF on the stream. Idempotent; must be called at most
// once by the owning producer block, ordinarily from EndOfStream
// handling or block shutdown.
func (w WriteStream[T]) Close() {
	w.core.close()
}

// ID returns the stream's identifier.
func (w WriteStream[T]) ID() StreamID { return w.core.id }

// Cap returns the ring's total capacity in elements.
func (w WriteStream[T]) Cap() int { return w.core.Cap() }

// --- consumer side ---

// ReadSlice is a reserved, contiguous readable region returned by
// ReadStream.Reserve, together with the tags whose offsets fall inside
// it. The caller reads some prefix of Data and calls Consume with
// however many elements it actually used. Dropping a ReadSlice without
// calling Consume consumes nothing.
type ReadSlice[T any] struct {
	Data []T
	Tags []Tag

	// Offset is the absolute stream-coordinate index of Data[0].
	Offset uint64

	core *streamCore[T]
}

func (c *streamCore[T]) reserveRead() (ReadSlice[T], error) {
	head := c.head.LoadRelaxed()
	if head >= c.cachedTail {
		c.cachedTail = c.tail.LoadAcquire()
		if head >= c.cachedTail {
			if c.isClosed() {
				return ReadSlice[T]{}, ErrClosed
			}
			return ReadSlice[T]{}, ErrEmpty
		}
	}
	start := head & c.mask
	used := c.cachedTail - head
	run := c.mask + 1 - start
	if run > used {
		run = used
	}
	data := c.buf[start : start+run]

	var tags []Tag
	if len(data) > 0 {
		hi := head + uint64(len(data))
		c.tagMu.Lock()
		for _, t := range c.tags {
			if t.Offset >= head && t.Offset < hi {
				tags = append(tags, t)
			}
		}
		c.tagMu.Unlock()
	}

	return ReadSlice[T]{
		Data:   data,
		Tags:   tags,
		Offset: head,
		core:   c,
	}, nil
}

// Consume advances the consumer cursor by n (n must be <=
// len(slice.Data)) and drops any tags now strictly behind the new
// cursor position. Performs a release-store of the consumer cursor so
// the producer's next acquire-load observes the freed space.
func (s ReadSlice[T]) Consume(n int) error {
	c := s.core
	if n < 0 || n > len(s.Data) {
		return fmt.Errorf("flow: consume count %d out of range [0,%d]", n, len(s.Data))
	}
	if n == 0 {
		return nil
	}
	newHead := s.Offset + uint64(n)

	c.tagMu.Lock()
	if len(c.tags) > 0 {
		kept := c.tags[:0]
		for _, t := range c.tags {
			if t.Offset >= newHead {
				kept = append(kept, t)
			}
		}
		c.tags = kept
	}
	c.tagMu.Unlock()

	c.head.StoreRelease(newHead)
	c.waiters.SignalConsume((c.tail.LoadRelaxed() + c.mask + 1) - newHead)
	return nil
}

// ReadStream is the consumer handle of a Stream[T]. Exactly one
// ReadStream exists per stream; it is bound to exactly one Block by a
// graph.Builder.
type ReadStream[T any] struct {
	core *streamCore[T]
}

// Reserve returns the next contiguous readable region plus any tags
// inside it. Returns ErrEmpty if nothing is available yet and the
// producer has not closed the stream, or ErrClosed if the producer has
// closed it and the ring has drained.
func (r ReadStream[T]) Reserve() (ReadSlice[T], error) {
	return r.core.reserveRead()
}

// Avail reports how many elements are available to read right now,
// without reserving them.
func (r ReadStream[T]) Avail() int {
	c := r.core
	head := c.head.LoadRelaxed()
	tail := c.tail.LoadAcquire()
	return int(tail - head)
}

// Closed reports whether the producer has called Close on this stream.
// Does not imply the ring has drained; check Avail() == 0 as well.
func (r ReadStream[T]) Closed() bool { return r.core.isClosed() }

// ID returns the stream's identifier.
func (r ReadStream[T]) ID() StreamID { return r.core.id }

// Cap returns the ring's total capacity in elements.
func (r ReadStream[T]) Cap() int { return r.core.Cap() }

// vim: foldmethod=marker
