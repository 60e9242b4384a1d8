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

package blocks

import (
	"fmt"

	"hz.tools/flow"
)

// FailingSource emits items normally until it has been called
// failAfter times, at which point it returns an Error result instead.
// Built to exercise error propagation and shutdown ordering in tests:
// the scheduler must abort the graph and still call Stop on every
// other block.
type FailingSource[T any] struct {
	flow.NopLifecycle
	name      string
	out       flow.WriteStream[T]
	data      []T
	pos       int
	calls     int
	failAfter int
	stopped   bool
}

// NewFailingSource returns a Source-like Block that fails with an
// "boom" BlockError on its failAfter'th call to Work (1-indexed).
func NewFailingSource[T any](name string, data []T, failAfter int, out flow.WriteStream[T]) *FailingSource[T] {
	return &FailingSource[T]{name: name, out: out, data: data, failAfter: failAfter}
}

func (s *FailingSource[T]) Name() string         { return s.name }
func (s *FailingSource[T]) Inputs() []flow.Port  { return nil }
func (s *FailingSource[T]) Outputs() []flow.Port { return []flow.Port{{Name: "out", Stream: s.out.Ref()}} }

// Stop records that it was called, so tests can assert every block in
// the graph was stopped after a failure, not just that Run returned.
func (s *FailingSource[T]) Stop() error {
	s.stopped = true
	return nil
}

// Stopped reports whether Stop has been called.
func (s *FailingSource[T]) Stopped() bool { return s.stopped }

func (s *FailingSource[T]) Work() flow.WorkResult {
	s.calls++
	if s.calls >= s.failAfter {
		return flow.Error(flow.NewBlockError(s.name, fmt.Errorf("boom")))
	}

	if s.pos >= len(s.data) {
		s.out.Close()
		return flow.EndOfStream()
	}

	ws, err := s.out.Reserve()
	if err != nil {
		return flow.Pending(s.out.Ref(), 1)
	}
	n := 1
	if len(ws.Data) < n {
		return flow.Pending(s.out.Ref(), 1)
	}
	ws.Data[0] = s.data[s.pos]
	s.pos++
	if err := ws.Produce(n); err != nil {
		return flow.Error(flow.NewBlockError(s.name, err))
	}
	return flow.Ok()
}

// vim: foldmethod=marker
