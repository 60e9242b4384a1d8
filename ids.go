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

import "sync/atomic"

// BlockID is an opaque identifier assigned to a Block when it is added
// to a graph.Builder. It has no meaning outside of the graph that
// allocated it.
type BlockID uint64

// StreamID is an opaque identifier assigned to a Stream at construction
// time. Like BlockID it is only meaningful within the graph that wired
// the stream's endpoints.
type StreamID uint64

var nextStreamID uint64

// newStreamID hands out a process-wide unique StreamID. A global counter
// (rather than one scoped to a single graph) keeps StreamID stable even
// when a Stream is constructed before its owning graph.Builder exists,
// which is the common case: blocks are built bottom-up, wired to each
// other, and only then added to a Builder.
func newStreamID() StreamID {
	return StreamID(atomic.AddUint64(&nextStreamID, 1))
}

// vim: foldmethod=marker
