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

// Package flow is the core runtime of a statically typed flow-graph
// library, in the tradition of GNU Radio: user code composes directed
// graphs of processing Blocks connected by typed Streams, and a
// scheduler (see hz.tools/flow/scheduler) drives those Blocks to
// completion.
//
// This package owns the three leaf abstractions every Block and every
// Scheduler is built from:
//
//   - Tag, the out-of-band (offset, key, value) annotation carried
//     alongside stream items.
//   - Stream, a single-producer/single-consumer ring buffer of a
//     statically known element type T, split into a WriteStream[T]
//     (producer) and ReadStream[T] (consumer) endpoint pair.
//   - Block, the polymorphic contract every processing node
//     implements, and WorkResult, the four-way return value a Block's
//     Work method uses to report progress, back-pressure, end of
//     stream, or failure.
//
// Graph construction and wiring validation live in hz.tools/flow/graph;
// the three scheduling strategies (single-threaded, multithreaded,
// cooperative) live in hz.tools/flow/scheduler. Concrete Blocks (a
// Source, a Sink, a Throttle, ...) live in hz.tools/flow/blocks. This
// package deliberately contains none of those: it is the part every
// other package depends on, not the other way around.
package flow
