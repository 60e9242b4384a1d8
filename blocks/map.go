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

import "hz.tools/flow"

// NewMap returns a Block that applies fn to every item read from in
// and writes the result to out. A thin name for flow.NewSync1x1, kept
// here because "Map" is what callers reach for first.
func NewMap[In, Out any](name string, in flow.ReadStream[In], out flow.WriteStream[Out], fn func(In) Out) flow.Block {
	return flow.NewSync1x1(name, in, out, fn)
}

// NewIdentity returns a Block that copies items (and their tags)
// verbatim from in to out.
func NewIdentity[T any](name string, in flow.ReadStream[T], out flow.WriteStream[T]) flow.Block {
	return flow.NewSync1x1(name, in, out, func(v T) T { return v })
}

// vim: foldmethod=marker
