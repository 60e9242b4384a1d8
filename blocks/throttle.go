// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2021
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

import (
	"time"

	"hz.tools/flow"
	"hz.tools/flow/internal/bufpipe"
)

// Throttle passes items from in to out at a fixed maximum rate,
// expressed as items per the given duration. A helper goroutine
// started in Start drips tokens into a non-blocking pipe at that
// rate. Work only takes a token once it has confirmed in has data and
// out has room, so a token taken is always spent, never dropped on
// the floor by a losing race against Reserve.
//
// The data model leaves open whether Pending should carry a timing
// hint for rate-limited blocks; this implementation takes the
// event-driven side of that question (no stream condition describes
// "wait for a timer", so there is nothing to report Pending against).
// When in and out are both ready but no token has arrived yet, Work
// backs off for a short, bounded interval before returning Ok, rather
// than spinning the calling scheduler hot between ticks.
type Throttle[T any] struct {
	name string
	in   flow.ReadStream[T]
	out  flow.WriteStream[T]

	itemsPerTick int
	period       time.Duration

	tokens *bufpipe.Pipe[struct{}]
	done   chan struct{}
}

// tokenPollBackoff bounds how long Work sleeps waiting for the next
// token once it already knows in/out have room to move data, so it
// never spins the calling scheduler hot between ticker intervals.
const tokenPollBackoff = time.Millisecond

// NewThrottle returns a Block that forwards items from in to out at
// up to itemsPerTick items every period.
func NewThrottle[T any](name string, in flow.ReadStream[T], out flow.WriteStream[T], itemsPerTick int, period time.Duration) *Throttle[T] {
	return &Throttle[T]{
		name:         name,
		in:           in,
		out:          out,
		itemsPerTick: itemsPerTick,
		period:       period,
		tokens:       bufpipe.New[struct{}](4),
	}
}

func (t *Throttle[T]) Name() string { return t.name }
func (t *Throttle[T]) Inputs() []flow.Port {
	return []flow.Port{{Name: "in", Stream: t.in.Ref()}}
}
func (t *Throttle[T]) Outputs() []flow.Port {
	return []flow.Port{{Name: "out", Stream: t.out.Ref()}}
}

// Start launches the ticker goroutine that drips a token every period.
func (t *Throttle[T]) Start() error {
	t.done = make(chan struct{})
	go func() {
		ticker := time.NewTicker(t.period)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.tokens.TrySend(struct{}{})
			case <-t.done:
				return
			}
		}
	}()
	return nil
}

// Stop joins the ticker goroutine.
func (t *Throttle[T]) Stop() error {
	// done is unbuffered, so this send completes only once the ticker
	// goroutine has taken its exit branch and will send no more tokens.
	t.done <- struct{}{}
	t.tokens.Close()
	return nil
}

func (t *Throttle[T]) Work() flow.WorkResult {
	rs, err := t.in.Reserve()
	if err != nil {
		if err == flow.ErrClosed {
			t.out.Close()
			return flow.EndOfStream()
		}
		return flow.Pending(t.in.Ref(), 1)
	}

	ws, err := t.out.Reserve()
	if err != nil {
		return flow.Pending(t.out.Ref(), 1)
	}

	if _, err := t.tokens.TryReceive(); err != nil {
		sleep := t.period
		if sleep > tokenPollBackoff {
			sleep = tokenPollBackoff
		}
		time.Sleep(sleep)
		return flow.Ok()
	}

	n := t.itemsPerTick
	if len(rs.Data) < n {
		n = len(rs.Data)
	}
	if len(ws.Data) < n {
		n = len(ws.Data)
	}
	if n == 0 {
		return flow.Ok()
	}

	copy(ws.Data[:n], rs.Data[:n])

	if err := ws.Produce(n); err != nil {
		return flow.Error(flow.NewBlockError(t.name, err))
	}
	if err := rs.Consume(n); err != nil {
		return flow.Error(flow.NewBlockError(t.name, err))
	}
	return flow.Ok()
}

// vim: foldmethod=marker
