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

// Synchronous blocks consume exactly one item per input and produce
// exactly one item per output, per logical iteration. NewSync1x1 and
// NewSync2x1 implement the general Work protocol correctly for that
// common shape (compute the minimum of available input and free
// output, iterate, pass tags through from the first input unchanged)
// so a caller only has to supply the per-item function.

// Sync1x1Func transforms one input item into one output item.
type Sync1x1Func[In, Out any] func(In) Out

// Sync2x1Func combines one item from each of two inputs into one
// output item.
type Sync2x1Func[A, B, Out any] func(A, B) Out

// sync1x1 is the Block built by NewSync1x1.
type sync1x1[In, Out any] struct {
	NopLifecycle
	name string
	in   ReadStream[In]
	out  WriteStream[Out]
	fn   Sync1x1Func[In, Out]
}

// NewSync1x1 builds a Block that applies fn to every item read from in
// and writes the result to out, passing tags through unchanged at
// their re-based offset.
func NewSync1x1[In, Out any](name string, in ReadStream[In], out WriteStream[Out], fn Sync1x1Func[In, Out]) Block {
	return &sync1x1[In, Out]{name: name, in: in, out: out, fn: fn}
}

func (b *sync1x1[In, Out]) Name() string { return b.name }

func (b *sync1x1[In, Out]) Inputs() []Port {
	return []Port{{Name: "in", Stream: b.in.Ref()}}
}

func (b *sync1x1[In, Out]) Outputs() []Port {
	return []Port{{Name: "out", Stream: b.out.Ref()}}
}

func (b *sync1x1[In, Out]) Work() WorkResult {
	rs, err := b.in.Reserve()
	if err != nil {
		if err == ErrClosed {
			b.out.Close()
			return EndOfStream()
		}
		return Pending(b.in.Ref(), 1)
	}

	ws, err := b.out.Reserve()
	if err != nil {
		return Pending(b.out.Ref(), 1)
	}

	n := len(rs.Data)
	if len(ws.Data) < n {
		n = len(ws.Data)
	}
	if n == 0 {
		return Pending(b.out.Ref(), 1)
	}

	for i := 0; i < n; i++ {
		ws.Data[i] = b.fn(rs.Data[i])
	}

	outTags := rebaseTags(rs.Tags, rs.Offset, ws.Offset, n)

	if err := ws.Produce(n, outTags...); err != nil {
		return Error(NewBlockError(b.name, err))
	}
	if err := rs.Consume(n); err != nil {
		return Error(NewBlockError(b.name, err))
	}
	return Ok()
}

// sync2x1 is the Block built by NewSync2x1.
type sync2x1[A, B, Out any] struct {
	NopLifecycle
	name string
	a    ReadStream[A]
	b    ReadStream[B]
	out  WriteStream[Out]
	fn   Sync2x1Func[A, B, Out]
}

// NewSync2x1 builds a Block that applies fn to corresponding items read
// from a and b and writes the result to out, passing tags through
// unchanged from the first input (a) at their re-based offset.
func NewSync2x1[A, B, Out any](name string, a ReadStream[A], b ReadStream[B], out WriteStream[Out], fn Sync2x1Func[A, B, Out]) Block {
	return &sync2x1[A, B, Out]{name: name, a: a, b: b, out: out, fn: fn}
}

func (k *sync2x1[A, B, Out]) Name() string { return k.name }

func (k *sync2x1[A, B, Out]) Inputs() []Port {
	return []Port{{Name: "a", Stream: k.a.Ref()}, {Name: "b", Stream: k.b.Ref()}}
}

func (k *sync2x1[A, B, Out]) Outputs() []Port {
	return []Port{{Name: "out", Stream: k.out.Ref()}}
}

func (k *sync2x1[A, B, Out]) Work() WorkResult {
	ars, err := k.a.Reserve()
	if err != nil {
		if err == ErrClosed {
			k.out.Close()
			return EndOfStream()
		}
		return Pending(k.a.Ref(), 1)
	}
	brs, err := k.b.Reserve()
	if err != nil {
		if err == ErrClosed {
			k.out.Close()
			return EndOfStream()
		}
		return Pending(k.b.Ref(), 1)
	}
	ws, err := k.out.Reserve()
	if err != nil {
		return Pending(k.out.Ref(), 1)
	}

	n := len(ars.Data)
	if len(brs.Data) < n {
		n = len(brs.Data)
	}
	if len(ws.Data) < n {
		n = len(ws.Data)
	}
	if n == 0 {
		return Pending(k.out.Ref(), 1)
	}

	for i := 0; i < n; i++ {
		ws.Data[i] = k.fn(ars.Data[i], brs.Data[i])
	}

	outTags := rebaseTags(ars.Tags, ars.Offset, ws.Offset, n)

	if err := ws.Produce(n, outTags...); err != nil {
		return Error(NewBlockError(k.name, err))
	}
	if err := ars.Consume(n); err != nil {
		return Error(NewBlockError(k.name, err))
	}
	if err := brs.Consume(n); err != nil {
		return Error(NewBlockError(k.name, err))
	}
	return Ok()
}

// rebaseTags translates tags from an input stream's coordinate system
// (inTags, with inBase the absolute offset of the window's first
// element) to an output stream's coordinate system (outBase the
// absolute offset of the output window's first element), keeping only
// tags whose item index falls within the n items actually produced.
func rebaseTags(inTags []Tag, inBase, outBase uint64, n int) []Tag {
	if len(inTags) == 0 {
		return nil
	}
	out := make([]Tag, 0, len(inTags))
	for _, t := range inTags {
		if t.Offset < inBase {
			continue
		}
		delta := t.Offset - inBase
		if delta >= uint64(n) {
			continue
		}
		out = append(out, Tag{Offset: outBase + delta, Key: t.Key, Value: t.Value})
	}
	return out
}

// vim: foldmethod=marker
