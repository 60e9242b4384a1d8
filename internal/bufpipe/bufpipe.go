// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020
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

// Package bufpipe is a non-blocking, bounded, single-producer
// single-consumer channel of T. It exists for the helper goroutines a
// Block spawns from Start: a goroutine doing blocking I/O (or, as in
// blocks.Throttle, driving a time.Ticker) needs to hand values to a
// Work call without ever blocking on the handoff, since Work must
// never block indefinitely.
package bufpipe

import (
	"context"
	"fmt"
)

// ErrOverrun is returned by TrySend when the pipe's buffer is already
// full. The caller (ordinarily a helper goroutine) decides whether to
// drop the value, close the pipe, or apply its own backoff.
var ErrOverrun error = fmt.Errorf("flow/internal/bufpipe: buffer overrun")

// ErrClosed is returned by TrySend and TryReceive once the pipe has
// been closed and, for TryReceive, fully drained.
var ErrClosed error = fmt.Errorf("flow/internal/bufpipe: pipe is closed")

// ErrEmpty is returned by TryReceive when the pipe has no value ready.
var ErrEmpty error = fmt.Errorf("flow/internal/bufpipe: pipe is empty")

// Pipe is a non-blocking bounded channel of T.
type Pipe[T any] struct {
	ctx    context.Context
	cancel context.CancelFunc
	buf    chan T
}

// New creates a Pipe with the given buffer capacity.
func New[T any](capacity int) *Pipe[T] {
	return NewWithContext[T](context.Background(), capacity)
}

// NewWithContext creates a Pipe that also closes itself when the
// parent context is done.
func NewWithContext[T any](ctx context.Context, capacity int) *Pipe[T] {
	ctx, cancel := context.WithCancel(ctx)
	return &Pipe[T]{ctx: ctx, cancel: cancel, buf: make(chan T, capacity)}
}

// TrySend enqueues v without blocking. Returns ErrOverrun if the
// buffer is full, or ErrClosed if Close was already called.
func (p *Pipe[T]) TrySend(v T) error {
	select {
	case <-p.ctx.Done():
		return ErrClosed
	default:
	}
	select {
	case p.buf <- v:
		return nil
	default:
		return ErrOverrun
	}
}

// TryReceive dequeues the next value without blocking. Returns
// ErrEmpty if nothing is queued, or ErrClosed once the pipe is closed
// and drained.
func (p *Pipe[T]) TryReceive() (T, error) {
	select {
	case v, ok := <-p.buf:
		if !ok {
			var zero T
			return zero, ErrClosed
		}
		return v, nil
	default:
	}
	select {
	case <-p.ctx.Done():
		var zero T
		return zero, ErrClosed
	default:
		var zero T
		return zero, ErrEmpty
	}
}

// Close cancels the pipe's context; future TrySend calls fail with
// ErrClosed and TryReceive drains any remaining buffered values before
// also returning ErrClosed.
func (p *Pipe[T]) Close() error {
	p.cancel()
	return nil
}

// vim: foldmethod=marker
