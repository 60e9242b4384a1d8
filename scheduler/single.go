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
	"hz.tools/flow"
	"hz.tools/flow/graph"
)

// Single is the single-threaded scheduler: one goroutine, one FIFO
// ready queue. A block that keeps returning Ok cannot starve the rest
// of the graph, since it re-enters the queue at the tail rather than
// being called again immediately.
type Single struct{}

// NewSingle returns the single-threaded scheduler.
func NewSingle() *Single { return &Single{} }

// Run implements graph.Scheduler.
func (s *Single) Run(g *graph.Graph) error {
	nodes := g.Nodes()
	if err := startAll(g); err != nil {
		return err
	}

	var q readyQueue
	retired := make(map[flow.BlockID]bool, len(nodes))
	for _, n := range nodes {
		q.push(n.ID)
	}

	for q.len() > 0 {
		id, ok := q.pop()
		if !ok {
			break
		}
		if retired[id] {
			continue
		}

		blk, ok := g.Block(id)
		if !ok {
			continue
		}

		if g.Stopped() {
			retired[id] = true
			closeOutputs(blk)
			continue
		}

		res := blk.Work()
		switch res.Status() {
		case flow.StatusOk:
			q.push(id)

		case flow.StatusPending:
			armWaiter(res, id, &q)

		case flow.StatusEndOfStream:
			retired[id] = true

		case flow.StatusError:
			shutdown(g)
			return blockError(blk.Name(), res)
		}
	}

	return shutdown(g)
}

// armWaiter registers id to be pushed back onto q once res.Stream
// reports at least res.N items/free-slots available, by arming the
// appropriate side of that stream's waiter pair. Which side depends on
// whether id is the stream's producer or its consumer: a block
// reports Pending against one of its own inputs (it is the consumer)
// or one of its own outputs (it is the producer), so the StreamRef
// tells us which side to arm by checking which block owns which role.
func armWaiter(res flow.WorkResult, id flow.BlockID, q *readyQueue) {
	ref := res.Stream
	wake := func() { q.push(id) }

	if cons, ok := ref.ConsumerBlock(); ok && cons == id {
		ref.ArmConsumerWaiter(res.N, wake)
		return
	}
	if prod, ok := ref.ProducerBlock(); ok && prod == id {
		ref.ArmProducerWaiter(res.N, wake)
		return
	}
	// Should not happen for a well-formed graph: fall back to an
	// immediate re-queue rather than losing the block forever.
	q.push(id)
}

// vim: foldmethod=marker
