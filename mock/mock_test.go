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

package mock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/flow"
	"hz.tools/flow/mock"
)

func TestBlockScriptedWork(t *testing.T) {
	started, stopped := false, false
	blk := mock.New(mock.Config{
		Name: "scripted",
		WorkFunc: func(calls int) flow.WorkResult {
			if calls < 3 {
				return flow.Ok()
			}
			return flow.EndOfStream()
		},
		StartFunc: func() error { started = true; return nil },
		StopFunc:  func() error { stopped = true; return nil },
	})

	require.NoError(t, blk.Start())
	assert.True(t, started)

	assert.Equal(t, flow.StatusOk, blk.Work().Status())
	assert.Equal(t, flow.StatusOk, blk.Work().Status())
	assert.Equal(t, flow.StatusEndOfStream, blk.Work().Status())
	assert.Equal(t, 3, blk.Calls())

	require.NoError(t, blk.Stop())
	assert.True(t, stopped)
}

func TestBlockDefaultName(t *testing.T) {
	blk := mock.New(mock.Config{
		WorkFunc: func(int) flow.WorkResult { return flow.Ok() },
	})
	assert.Equal(t, "mock", blk.Name())
}

func TestBlockReportsPending(t *testing.T) {
	w, _ := flow.NewStream[int](flow.StreamOptions{Capacity: 4})
	ref := w.Ref()

	blk := mock.New(mock.Config{
		Outputs: []flow.Port{{Name: "out", Stream: ref}},
		WorkFunc: func(calls int) flow.WorkResult {
			return flow.Pending(ref, 4)
		},
	})

	res := blk.Work()
	assert.Equal(t, flow.StatusPending, res.Status())
	assert.Equal(t, uint64(4), res.N)
}
