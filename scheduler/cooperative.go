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

package scheduler

import (
	"sync"

	"hz.tools/flow"
	"hz.tools/flow/graph"
)

// Cooperative is the cooperative-task scheduler: each block runs as
// its own goroutine, and a Pending result suspends that goroutine on
// a channel (its "waker") rather than being placed back on a shared
// ready queue. The cooperative runtime this builds on is simply the Go
// runtime's own goroutines, which is the closest thing the ecosystem
// offers to a general cooperative-task abstraction; no additional
// library is pulled in for this scheduler.
//
// Same contract as Single and Multi, different suspension mechanism:
// a block's "ready" state is just its goroutine not being blocked on
// a channel receive.
type Cooperative struct{}

// NewCooperative returns the cooperative scheduler.
func NewCooperative() *Cooperative { return &Cooperative{} }

// Run implements graph.Scheduler.
func (c *Cooperative) Run(g *graph.Graph) error {
	nodes := g.Nodes()
	if err := startAll(g); err != nil {
		return err
	}

	var (
		wg    sync.WaitGroup
		errMu sync.Mutex
		first error
	)

	setErr := func(err error) {
		errMu.Lock()
		if first == nil {
			first = err
		}
		errMu.Unlock()
	}

	for _, n := range nodes {
		wg.Add(1)
		go func(id flow.BlockID, blk flow.Block) {
			defer wg.Done()
			wake := make(chan struct{}, 1)

			for {
				if g.Stopped() {
					closeOutputs(blk)
					return
				}

				res := blk.Work()
				switch res.Status() {
				case flow.StatusOk:
					continue

				case flow.StatusPending:
					armWaiterChan(res, id, wake)
					<-wake
					continue

				case flow.StatusEndOfStream:
					return

				case flow.StatusError:
					setErr(blockError(blk.Name(), res))
					g.Stop()
					return
				}
			}
		}(n.ID, n.Block)
	}

	wg.Wait()

	if err := shutdown(g); err != nil && first == nil {
		return err
	}
	return first
}

// armWaiterChan arms whichever side of res.Stream's waiter pair id
// owns, with a wake callback that performs a non-blocking send on the
// block's own wake channel (buffered to size one, so a wake that
// arrives before the block reaches its receive is not lost).
func armWaiterChan(res flow.WorkResult, id flow.BlockID, wake chan struct{}) {
	ref := res.Stream
	fire := func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	}

	if cons, ok := ref.ConsumerBlock(); ok && cons == id {
		ref.ArmConsumerWaiter(res.N, fire)
		return
	}
	if prod, ok := ref.ProducerBlock(); ok && prod == id {
		ref.ArmProducerWaiter(res.N, fire)
		return
	}
	fire()
}

// vim: foldmethod=marker
