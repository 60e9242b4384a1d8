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

package flow_test

import (
	"testing"

	"hz.tools/flow"
	"hz.tools/flow/testutils"
)

func TestStreamConformance(t *testing.T) {
	w, r := flow.NewStream[int](flow.StreamOptions{Capacity: 8, Name: "conformance"})

	values := make([]int, 5000)
	for i := range values {
		values[i] = i
	}

	testutils.TestReadWriteSamples(t, "RoundTrip", w, r, values)
}

func TestStreamInvariants(t *testing.T) {
	w, r := flow.NewStream[int](flow.StreamOptions{Capacity: 16})
	testutils.TestReader(t, "FreshReader", r)
	testutils.TestWriter(t, "FreshWriter", w)
}

// vim: foldmethod=marker
