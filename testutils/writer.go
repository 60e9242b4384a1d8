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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/flow"
)

// TestWriter checks the invariants a freshly constructed WriteStream
// must hold before anything has been produced: full free capacity,
// a non-empty Reserve, and a Close that can be called twice without
// panicking.
func TestWriter[T any](t *testing.T, name string, w flow.WriteStream[T]) {
	t.Run(name, func(t *testing.T) {
		t.Run("FullyFreeBeforeProduce", func(t *testing.T) {
			assert.Equal(t, w.Cap(), w.Avail())
		})
		t.Run("ReserveReturnsData", func(t *testing.T) {
			slice, err := w.Reserve()
			require.NoError(t, err)
			assert.Greater(t, len(slice.Data), 0)
			assert.NoError(t, slice.Produce(0))
		})
		t.Run("CloseIsIdempotent", func(t *testing.T) {
			w.Close()
			w.Close()
		})
	})
}

// vim: foldmethod=marker
