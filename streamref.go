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

import "fmt"

// StreamRef is the type-erased face of a Stream[T]'s shared body. A
// Block reports Pending against a StreamRef rather than against a
// generic WriteStream[T]/ReadStream[T] because the scheduler and the
// graph builder need to hold streams of heterogeneous element type in
// one adjacency structure; nothing in this interface depends on T.
type StreamRef interface {
	// ID returns the stream's identifier, stable for its lifetime.
	ID() StreamID

	// TypeName identifies the stream's element type, for diagnostics.
	// Both endpoints of a stream come from one NewStream[T] call and so
	// share T; the graph builder makes no type comparison.
	TypeName() string

	// Cap returns the ring's total capacity in elements.
	Cap() int

	// Closed reports whether the producer has called Close.
	Closed() bool

	// BindProducer/BindConsumer/ProducerBlock/ConsumerBlock and the
	// waiter methods below are exported so that graph/scheduler
	// (different packages) can reach them: Go interfaces can't expose
	// unexported methods across packages, so graph/scheduler simply
	// don't call the ones they have no business calling.
	BindProducer(b BlockID) error
	BindConsumer(b BlockID) error
	ProducerBlock() (BlockID, bool)
	ConsumerBlock() (BlockID, bool)

	// ArmConsumerWaiter registers wake to fire once at least n items
	// are available to read, or on EOF. ArmProducerWaiter is the
	// symmetric producer-side registration for n free slots. Both
	// recheck the stream's current state before parking and fire wake
	// immediately, instead of arming, if the condition is already met.
	ArmConsumerWaiter(n uint64, wake func())
	ArmProducerWaiter(n uint64, wake func())

	// WakeWaiters immediately fires any armed waiter on either side of
	// the stream, regardless of threshold. Called during graph
	// shutdown so a block parked waiting on this stream re-runs and
	// observes the graph has stopped.
	WakeWaiters()

	// Close closes the stream from the producer side, as if the
	// producer block itself had called WriteStream.Close. Called
	// during graph shutdown so a block retired early by Stop still
	// signals EOF downstream.
	Close()
}

// TypeName is implemented per-instantiation by typeNameOf[T], relying
// on fmt's %T verb so no reflection import is needed at call sites.
func typeNameOf[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

func (c *streamCore[T]) ID() StreamID    { return c.id }
func (c *streamCore[T]) TypeName() string { return typeNameOf[T]() }
func (c *streamCore[T]) Closed() bool     { return c.isClosed() }

// BindProducer associates a stream's producer side with a block. Graph
// construction calls this once per WriteStream; a second call is a
// wiring error (ErrDuplicateEndpoint).
func (c *streamCore[T]) BindProducer(b BlockID) error {
	if c.hasProducer {
		return &WiringError{Stream: c.id, Err: ErrDuplicateEndpoint}
	}
	c.producerBlock = b
	c.hasProducer = true
	return nil
}

// BindConsumer associates a stream's consumer side with a block.
func (c *streamCore[T]) BindConsumer(b BlockID) error {
	if c.hasConsumer {
		return &WiringError{Stream: c.id, Err: ErrDuplicateEndpoint}
	}
	c.consumerBlock = b
	c.hasConsumer = true
	return nil
}

// ProducerBlock returns the bound producer block id, if any.
func (c *streamCore[T]) ProducerBlock() (BlockID, bool) { return c.producerBlock, c.hasProducer }

// ConsumerBlock returns the bound consumer block id, if any.
func (c *streamCore[T]) ConsumerBlock() (BlockID, bool) { return c.consumerBlock, c.hasConsumer }

// ArmConsumerWaiter registers a wake callback for the next produce (or
// close) that brings availability to at least n items. If n items (or
// EOF) are already available by the time this is called — a produce
// that raced ahead of the caller's own empty Reserve — wake fires
// immediately instead of being armed, so the caller is never parked
// against a condition that has already happened.
func (c *streamCore[T]) ArmConsumerWaiter(n uint64, wake func()) {
	satisfied := func() bool {
		if c.isClosed() {
			return true
		}
		head := c.head.LoadRelaxed()
		tail := c.tail.LoadAcquire()
		return tail-head >= n
	}
	if already := c.waiters.ArmConsumer(n, wake, satisfied); already {
		wake()
	}
}

// ArmProducerWaiter registers a wake callback for the next consume
// that frees at least n slots. Same already-satisfied recheck as
// ArmConsumerWaiter, for the symmetric race on the producer side.
func (c *streamCore[T]) ArmProducerWaiter(n uint64, wake func()) {
	satisfied := func() bool {
		tail := c.tail.LoadRelaxed()
		head := c.head.LoadAcquire()
		free := (head + c.mask + 1) - tail
		return free >= n
	}
	if already := c.waiters.ArmProducer(n, wake, satisfied); already {
		wake()
	}
}

// WakeWaiters fires any armed waiter on either side unconditionally.
func (c *streamCore[T]) WakeWaiters() {
	c.waiters.WakeAll()
}

// Close closes the stream from the producer side.
func (c *streamCore[T]) Close() {
	c.close()
}

// Ref returns the type-erased StreamRef for this endpoint's underlying
// stream. Used when reporting Pending, and by the graph builder during
// wiring validation.
func (w WriteStream[T]) Ref() StreamRef { return w.core }

// Ref returns the type-erased StreamRef for this endpoint's underlying
// stream.
func (r ReadStream[T]) Ref() StreamRef { return r.core }

// vim: foldmethod=marker
