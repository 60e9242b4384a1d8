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

package flow

import "sync"

// BufferPool is a dynamically sized pool of reusable []T slices, all of
// the same length. Blocks that allocate a scratch buffer per Work call
// (rather than writing straight into a ReadSlice/WriteSlice) can use a
// BufferPool to avoid doing that allocation every iteration.
//
// Under the hood this is a sync.Pool with a type-safe Get/Put pair.
type BufferPool[T any] struct {
	length int
	pool   *sync.Pool
}

// NewBufferPool creates a BufferPool that hands out []T slices of the
// given length.
func NewBufferPool[T any](length int) *BufferPool[T] {
	return &BufferPool[T]{
		length: length,
		pool: &sync.Pool{
			New: func() interface{} {
				return make([]T, length)
			},
		},
	}
}

// Get returns an unused buffer, or allocates a new one of the pool's
// configured length.
func (p *BufferPool[T]) Get() []T {
	return p.pool.Get().([]T)
}

// Put returns a buffer to the pool. The length is not re-validated: a
// caller that hands back a buffer of a different length will get that
// same odd-length buffer back out on a future Get, so callers should
// only Put buffers obtained from this pool's own Get.
func (p *BufferPool[T]) Put(buf []T) {
	p.pool.Put(buf)
}

// vim: foldmethod=marker
