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

import (
	"fmt"

	"code.hybscloud.com/iox"
)

var (
	// ErrFull is returned by WriteStream.Reserve when the ring has zero
	// free elements. It is a semantic signal, not a failure: callers
	// (ordinarily a Block's Work method, by way of a scheduler) should
	// translate it into a Pending result rather than propagate it.
	//
	// This wraps iox.ErrWouldBlock for ecosystem consistency with the
	// rest of the back-pressure-aware packages this module builds on.
	ErrFull error = fmt.Errorf("flow: stream has no free capacity: %w", iox.ErrWouldBlock)

	// ErrEmpty is returned by ReadStream.Reserve when the ring has zero
	// available elements and the producer has not closed the stream.
	ErrEmpty error = fmt.Errorf("flow: stream has no available items: %w", iox.ErrWouldBlock)

	// ErrClosed is returned by ReadStream.Reserve when the ring is empty
	// and the producer has called Close. Unlike ErrFull/ErrEmpty this is
	// terminal: no future Reserve call on this stream will succeed.
	ErrClosed error = fmt.Errorf("flow: stream is closed")

	// ErrDuplicateEndpoint is returned when a graph attempts to bind a
	// second producer or consumer to a stream that already has one.
	ErrDuplicateEndpoint error = fmt.Errorf("flow: stream endpoint is already bound")
)

// IsWouldBlock reports whether err is a back-pressure signal (ErrFull or
// ErrEmpty) rather than a failure. Delegates to iox.IsWouldBlock so that
// errors wrapped through several layers of %w still classify correctly.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// WiringError is returned by graph validation when the block/stream
// topology violates one of the invariants in the data model: duplicate
// endpoint use, a cycle, an unconnected endpoint, or a graph with no
// source or no sink.
type WiringError struct {
	// Block is the name of the block at fault, if any single block can
	// be blamed; empty for graph-wide problems like missing a source or
	// a sink.
	Block string

	// Stream identifies the offending stream, or zero if not applicable.
	Stream StreamID

	Err error
}

func (e *WiringError) Error() string {
	if e.Block == "" {
		return fmt.Sprintf("flow: wiring error: %s", e.Err)
	}
	return fmt.Sprintf("flow: wiring error on block %q: %s", e.Block, e.Err)
}

func (e *WiringError) Unwrap() error {
	return e.Err
}

// BlockError is the unrecoverable, block-specific condition a Block
// returns via WorkResult's Error variant. It always carries the
// originating block's name so the scheduler and graph can report it
// without the block having to embed its own name in every error string.
type BlockError struct {
	Block string
	Err   error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("flow: block %q: %s", e.Block, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}

// NewBlockError wraps err as a BlockError attributed to the given block
// name. Convenience used by Block implementations inside their Work
// method.
func NewBlockError(block string, err error) *BlockError {
	return &BlockError{Block: block, Err: err}
}

// SchedulerError reports a failure surfaced by the scheduling engine
// itself (a Block's Start or Stop that returned an error, or a Block
// that returned StatusError without a BlockError payload), as opposed
// to a BlockError, which is a Block voluntarily reporting its own
// failure. A panic inside Work is not recovered.
type SchedulerError struct {
	Block string
	Err   error
}

func (e *SchedulerError) Error() string {
	if e.Block == "" {
		return fmt.Sprintf("flow: scheduler error: %s", e.Err)
	}
	return fmt.Sprintf("flow: scheduler error near block %q: %s", e.Block, e.Err)
}

func (e *SchedulerError) Unwrap() error {
	return e.Err
}

// vim: foldmethod=marker
