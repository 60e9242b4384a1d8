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
	"sync"

	"hz.tools/flow"
)

// VectorSink accumulates every item it reads into an in-memory slice.
// Mainly useful for tests: call Items after the graph's Run returns to
// inspect everything the sink received.
type VectorSink[T any] struct {
	flow.NopLifecycle
	name string
	in   flow.ReadStream[T]

	mu    sync.Mutex
	items []T
}

// NewVectorSink returns a Block that drains in into an in-memory
// slice.
func NewVectorSink[T any](name string, in flow.ReadStream[T]) *VectorSink[T] {
	return &VectorSink[T]{name: name, in: in}
}

func (s *VectorSink[T]) Name() string         { return s.name }
func (s *VectorSink[T]) Inputs() []flow.Port  { return []flow.Port{{Name: "in", Stream: s.in.Ref()}} }
func (s *VectorSink[T]) Outputs() []flow.Port { return nil }

func (s *VectorSink[T]) Work() flow.WorkResult {
	rs, err := s.in.Reserve()
	if err != nil {
		if err == flow.ErrClosed {
			return flow.EndOfStream()
		}
		return flow.Pending(s.in.Ref(), 1)
	}

	s.mu.Lock()
	s.items = append(s.items, rs.Data...)
	s.mu.Unlock()

	n := len(rs.Data)
	if err := rs.Consume(n); err != nil {
		return flow.Error(flow.NewBlockError(s.name, err))
	}
	return flow.Ok()
}

// Items returns a copy of everything received so far. Safe to call
// concurrently with Work, though the result is only meaningful once
// the owning graph has finished running.
func (s *VectorSink[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// TaggedItem pairs an item with the tags co-delivered at its stream
// offset, as recorded by TagCollectingSink.
type TaggedItem[T any] struct {
	Offset uint64
	Item   T
	Tags   []flow.Tag
}

// TagCollectingSink records every item together with whatever tags
// shared its read_buf window, preserving the data model's tag
// alignment guarantee for inspection in tests.
type TagCollectingSink[T any] struct {
	flow.NopLifecycle
	name string
	in   flow.ReadStream[T]

	mu    sync.Mutex
	items []TaggedItem[T]
}

// NewTagCollectingSink returns a Block that drains in, recording the
// tags co-delivered with each item.
func NewTagCollectingSink[T any](name string, in flow.ReadStream[T]) *TagCollectingSink[T] {
	return &TagCollectingSink[T]{name: name, in: in}
}

func (s *TagCollectingSink[T]) Name() string { return s.name }
func (s *TagCollectingSink[T]) Inputs() []flow.Port {
	return []flow.Port{{Name: "in", Stream: s.in.Ref()}}
}
func (s *TagCollectingSink[T]) Outputs() []flow.Port { return nil }

func (s *TagCollectingSink[T]) Work() flow.WorkResult {
	rs, err := s.in.Reserve()
	if err != nil {
		if err == flow.ErrClosed {
			return flow.EndOfStream()
		}
		return flow.Pending(s.in.Ref(), 1)
	}

	s.mu.Lock()
	for i, v := range rs.Data {
		offset := rs.Offset + uint64(i)
		var tags []flow.Tag
		for _, t := range rs.Tags {
			if t.Offset == offset {
				tags = append(tags, t)
			}
		}
		s.items = append(s.items, TaggedItem[T]{Offset: offset, Item: v, Tags: tags})
	}
	s.mu.Unlock()

	n := len(rs.Data)
	if err := rs.Consume(n); err != nil {
		return flow.Error(flow.NewBlockError(s.name, err))
	}
	return flow.Ok()
}

// Items returns a copy of everything received so far, each paired
// with whatever tags were co-delivered at its offset.
func (s *TagCollectingSink[T]) Items() []TaggedItem[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TaggedItem[T], len(s.items))
	copy(out, s.items)
	return out
}

// vim: foldmethod=marker
