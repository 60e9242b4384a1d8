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

// Port names one of a Block's stream endpoints for diagnostics and for
// the graph builder's wiring report. Name labels the endpoint within
// its block; Stream is the type-erased handle to the underlying stream.
type Port struct {
	Name   string
	Stream StreamRef
}

// Block is the contract every processing node in a graph implements.
// Implementations are ordinarily built with the NewSync1x1/NewSync2x1
// helpers in this package rather than written by hand; Block is the
// lower-level interface those helpers, and the scheduler, operate
// against.
type Block interface {
	// Name identifies the block in diagnostics, errors, and the
	// graph's wiring report. Need not be unique, but usually is.
	Name() string

	// Inputs and Outputs return type-erased references to the block's
	// stream ends, used by graph validation (every input has exactly
	// one upstream, every output exactly one downstream) and by the
	// scheduler to build its adjacency view.
	Inputs() []Port
	Outputs() []Port

	// Start is called once, before the scheduler calls Work for the
	// first time. A Block that needs a helper goroutine (e.g. for
	// blocking I/O a Work call must not perform directly) spawns it
	// here.
	Start() error

	// Stop is called once, during shutdown, in reverse topological
	// order (consumers before their producers). Any helper goroutine
	// started in Start must be joined before Stop returns.
	Stop() error

	// Work is called by the scheduler whenever the block is ready. A
	// single call must make some bounded amount of progress: consume
	// zero or more items from each touched input, produce zero or
	// more on each touched output, and return without blocking
	// indefinitely.
	Work() WorkResult
}

// NopLifecycle is embedded by Block implementations that need no
// Start/Stop behavior, so they only have to implement Name, Inputs,
// Outputs, and Work.
type NopLifecycle struct{}

// Start is a no-op.
func (NopLifecycle) Start() error { return nil }

// Stop is a no-op.
func (NopLifecycle) Stop() error { return nil }

// Status is the discriminant of a WorkResult.
type Status uint8

const (
	// StatusOk means progress was made; the scheduler may call Work
	// on this block again immediately.
	StatusOk Status = iota

	// StatusPending means the block needs at least N more items (or N
	// more free slots, depending on which side of Stream it waits on)
	// before it can usefully run again.
	StatusPending

	// StatusEndOfStream means all of the block's outputs have been
	// closed and no further work is possible; the block is retired.
	StatusEndOfStream

	// StatusError means an unrecoverable condition occurred; the
	// scheduler initiates shutdown of the whole graph.
	StatusError
)

// String renders a Status for diagnostics and test failure messages.
func (s Status) String() string {
	switch s {
	case StatusOk:
		return "Ok"
	case StatusPending:
		return "Pending"
	case StatusEndOfStream:
		return "EndOfStream"
	case StatusError:
		return "Error"
	default:
		return "Status(?)"
	}
}

// WorkResult is the four-way return value of Block.Work.
type WorkResult struct {
	status Status

	// Stream and N are populated for StatusPending: the block needs
	// at least N more items available on Stream (if Stream is one of
	// the block's inputs) or N more free slots on Stream (if Stream
	// is one of the block's outputs).
	Stream StreamRef
	N      uint64

	// Err is populated for StatusError.
	Err *BlockError
}

// Status returns the result's discriminant.
func (w WorkResult) Status() Status { return w.status }

// Ok reports that progress was made and the block may run again
// immediately.
func Ok() WorkResult { return WorkResult{status: StatusOk} }

// Pending reports that the block cannot make progress until at least
// n items (for an input stream) or n free slots (for an output
// stream) are available on ref.
func Pending(ref StreamRef, n uint64) WorkResult {
	return WorkResult{status: StatusPending, Stream: ref, N: n}
}

// EndOfStream reports that the block has no further work: its outputs
// are closed and it is ready to be retired.
func EndOfStream() WorkResult { return WorkResult{status: StatusEndOfStream} }

// Error reports an unrecoverable block-specific condition. The
// scheduler will initiate an orderly shutdown of the whole graph.
func Error(err *BlockError) WorkResult { return WorkResult{status: StatusError, Err: err} }

// vim: foldmethod=marker
