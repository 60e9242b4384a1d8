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

package testutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hz.tools/flow"
)

// TestReadWriteSamples checks that everything written to w, across
// however many Reserve/Produce calls it takes, comes out r's Reserve
// loop in the same order. It's meant to be reused by anything handing
// back a bare WriteStream/ReadStream pair, the same way a codec or
// transport implementation would be run through a shared conformance
// check.
func TestReadWriteSamples[T comparable](t *testing.T, name string, w flow.WriteStream[T], r flow.ReadStream[T], values []T) {
	t.Run(name, func(t *testing.T) {
		done := make(chan struct{})
		go func() {
			defer close(done)
			defer w.Close()
			pos := 0
			for pos < len(values) {
				slice, err := w.Reserve()
				if err == flow.ErrFull {
					time.Sleep(time.Millisecond)
					continue
				}
				assert.NoError(t, err)
				n := copy(slice.Data, values[pos:])
				assert.NoError(t, slice.Produce(n))
				pos += n
			}
		}()

		got := make([]T, 0, len(values))
		for {
			slice, err := r.Reserve()
			if err == flow.ErrEmpty {
				time.Sleep(time.Millisecond)
				continue
			}
			if err == flow.ErrClosed {
				break
			}
			assert.NoError(t, err)
			got = append(got, slice.Data...)
			assert.NoError(t, slice.Consume(len(slice.Data)))
		}

		<-done
		assert.Equal(t, values, got)
	})
}

// TestReader checks the invariants a freshly constructed ReadStream
// must hold before its producer has written anything: nothing
// available, not yet closed, and a Reserve call reporting ErrEmpty
// rather than blocking or panicking.
func TestReader[T any](t *testing.T, name string, r flow.ReadStream[T]) {
	t.Run(name, func(t *testing.T) {
		t.Run("EmptyBeforeProduce", func(t *testing.T) {
			assert.Equal(t, 0, r.Avail())
		})
		t.Run("NotYetClosed", func(t *testing.T) {
			assert.False(t, r.Closed())
		})
		t.Run("ReserveOnEmptyReportsErrEmpty", func(t *testing.T) {
			_, err := r.Reserve()
			assert.Equal(t, flow.ErrEmpty, err)
		})
		t.Run("Cap", func(t *testing.T) {
			// Just invoked to ensure it doesn't panic, and is a power of two.
			assert.Greater(t, r.Cap(), 0)
			assert.Zero(t, r.Cap()&(r.Cap()-1))
		})
	})
}

// vim: foldmethod=marker
