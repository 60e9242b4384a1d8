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

// Package blocks holds small, generic Block implementations useful for
// testing graphs and for gluing fixed data into a larger pipeline:
// Source, Sink variants, Map, Identity, Throttle, and a scriptable
// FailingSource for exercising error propagation.
package blocks

import "hz.tools/flow"

// Source emits a fixed, in-memory slice of items and then closes its
// output. Mainly useful for tests and examples; a real acquisition
// block instead spawns a helper goroutine from Start that feeds a
// stream from a device.
type Source[T any] struct {
	flow.NopLifecycle
	name string
	out  flow.WriteStream[T]
	data []T
	pos  int
}

// NewSource returns a Block that writes each element of data, in
// order, to out, then closes out.
func NewSource[T any](name string, data []T, out flow.WriteStream[T]) *Source[T] {
	return &Source[T]{name: name, out: out, data: data}
}

func (s *Source[T]) Name() string         { return s.name }
func (s *Source[T]) Inputs() []flow.Port  { return nil }
func (s *Source[T]) Outputs() []flow.Port { return []flow.Port{{Name: "out", Stream: s.out.Ref()}} }

func (s *Source[T]) Work() flow.WorkResult {
	if s.pos >= len(s.data) {
		s.out.Close()
		return flow.EndOfStream()
	}

	ws, err := s.out.Reserve()
	if err != nil {
		return flow.Pending(s.out.Ref(), 1)
	}

	n := len(ws.Data)
	if remaining := len(s.data) - s.pos; n > remaining {
		n = remaining
	}
	if n == 0 {
		return flow.Pending(s.out.Ref(), 1)
	}

	copy(ws.Data[:n], s.data[s.pos:s.pos+n])
	s.pos += n
	if err := ws.Produce(n); err != nil {
		return flow.Error(flow.NewBlockError(s.name, err))
	}
	return flow.Ok()
}

// TaggedSource is a Source variant that also emits a fixed set of tags
// at construction time, attached on whichever Work call first produces
// past each tag's offset.
type TaggedSource[T any] struct {
	flow.NopLifecycle
	name string
	out  flow.WriteStream[T]
	data []T
	tags []flow.Tag
	pos  int
}

// NewTaggedSource returns a Source-like Block that additionally
// attaches tags (already sorted by Offset, per the monotonic-offset
// requirement) to the items it produces.
func NewTaggedSource[T any](name string, data []T, tags []flow.Tag, out flow.WriteStream[T]) *TaggedSource[T] {
	return &TaggedSource[T]{name: name, out: out, data: data, tags: tags}
}

func (s *TaggedSource[T]) Name() string         { return s.name }
func (s *TaggedSource[T]) Inputs() []flow.Port  { return nil }
func (s *TaggedSource[T]) Outputs() []flow.Port { return []flow.Port{{Name: "out", Stream: s.out.Ref()}} }

func (s *TaggedSource[T]) Work() flow.WorkResult {
	if s.pos >= len(s.data) {
		s.out.Close()
		return flow.EndOfStream()
	}

	ws, err := s.out.Reserve()
	if err != nil {
		return flow.Pending(s.out.Ref(), 1)
	}

	n := len(ws.Data)
	if remaining := len(s.data) - s.pos; n > remaining {
		n = remaining
	}
	if n == 0 {
		return flow.Pending(s.out.Ref(), 1)
	}

	copy(ws.Data[:n], s.data[s.pos:s.pos+n])

	var due []flow.Tag
	for len(s.tags) > 0 && int(s.tags[0].Offset) < s.pos+n {
		due = append(due, s.tags[0])
		s.tags = s.tags[1:]
	}

	s.pos += n
	if err := ws.Produce(n, due...); err != nil {
		return flow.Error(flow.NewBlockError(s.name, err))
	}
	return flow.Ok()
}

// vim: foldmethod=marker
