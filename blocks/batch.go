// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2021-2022
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

package blocks

import (
	"hz.tools/flow"
)

// Batch groups fixed-size runs of T arriving on in into single []T
// items on out. A batch's items may arrive across several Work calls
// (a Reserve can return fewer than size elements when the input ring
// wraps), so Batch accumulates into a scratch buffer drawn from a
// flow.BufferPool rather than growing a fresh slice on every call.
type Batch[T any] struct {
	flow.NopLifecycle

	name string
	in   flow.ReadStream[T]
	out  flow.WriteStream[[]T]
	size int

	pool    *flow.BufferPool[T]
	scratch []T
	filled  int
}

// NewBatch returns a Block that groups every size items read from in
// into one []T item written to out. A short final batch (the input
// closing with fewer than size items buffered) is flushed as-is.
func NewBatch[T any](name string, in flow.ReadStream[T], out flow.WriteStream[[]T], size int) *Batch[T] {
	return &Batch[T]{
		name: name,
		in:   in,
		out:  out,
		size: size,
		pool: flow.NewBufferPool[T](size),
	}
}

func (b *Batch[T]) Name() string { return b.name }
func (b *Batch[T]) Inputs() []flow.Port {
	return []flow.Port{{Name: "in", Stream: b.in.Ref()}}
}
func (b *Batch[T]) Outputs() []flow.Port {
	return []flow.Port{{Name: "out", Stream: b.out.Ref()}}
}

func (b *Batch[T]) flush() error {
	if b.filled == 0 {
		return nil
	}
	ws, err := b.out.Reserve()
	if err != nil {
		return err
	}
	out := append([]T(nil), b.scratch[:b.filled]...)
	ws.Data[0] = out
	if err := ws.Produce(1); err != nil {
		return err
	}
	b.pool.Put(b.scratch)
	b.scratch = nil
	b.filled = 0
	return nil
}

func (b *Batch[T]) Work() flow.WorkResult {
	if b.scratch == nil {
		b.scratch = b.pool.Get()
		b.filled = 0
	}

	rs, err := b.in.Reserve()
	if err != nil {
		if err != flow.ErrClosed {
			return flow.Pending(b.in.Ref(), uint64(b.size-b.filled))
		}
		if ferr := b.flush(); ferr != nil {
			if ferr == flow.ErrFull {
				return flow.Pending(b.out.Ref(), 1)
			}
			return flow.Error(flow.NewBlockError(b.name, ferr))
		}
		b.out.Close()
		return flow.EndOfStream()
	}

	n := b.size - b.filled
	if len(rs.Data) < n {
		n = len(rs.Data)
	}
	if n == 0 {
		return flow.Ok()
	}
	copy(b.scratch[b.filled:], rs.Data[:n])
	b.filled += n
	if err := rs.Consume(n); err != nil {
		return flow.Error(flow.NewBlockError(b.name, err))
	}

	if b.filled == b.size {
		if err := b.flush(); err != nil {
			if err == flow.ErrFull {
				return flow.Pending(b.out.Ref(), 1)
			}
			return flow.Error(flow.NewBlockError(b.name, err))
		}
	}
	return flow.Ok()
}

// vim: foldmethod=marker
