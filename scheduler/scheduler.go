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

// Package scheduler supplies the three execution strategies every
// graph.Graph can Run under: Single (one goroutine, FIFO ready
// queue), Multi (N worker goroutines sharing a concurrent ready
// queue), and Cooperative (one goroutine per block, parked on a
// channel between Pending results). All three honor the same Block
// contract and back-pressure algorithm; they differ only in how a
// ready block is picked up and how a Pending block is re-armed.
package scheduler

import (
	"sync"

	"hz.tools/flow"
	"hz.tools/flow/graph"
)

// shutdown runs Stop on every block in g, in reverse topological
// order (consumers before producers), collecting the first error
// encountered but calling Stop on every block regardless, since a
// single misbehaving Stop must not prevent the rest of the graph from
// being torn down.
func shutdown(g *graph.Graph) error {
	var first error
	for _, blk := range g.ShutdownOrder() {
		if err := blk.Stop(); err != nil && first == nil {
			first = &flow.SchedulerError{Block: blk.Name(), Err: err}
		}
	}
	return first
}

// startAll calls Start on every block in the graph, in the order
// Build saw them. If any Start fails, the blocks already started are
// stopped before returning the error, so a failed Run never leaks
// helper goroutines.
func startAll(g *graph.Graph) error {
	started := make([]flow.Block, 0, len(g.Nodes()))
	for _, n := range g.Nodes() {
		if err := n.Block.Start(); err != nil {
			for i := len(started) - 1; i >= 0; i-- {
				started[i].Stop()
			}
			return &flow.SchedulerError{Block: n.Block.Name(), Err: err}
		}
		started = append(started, n.Block)
	}
	return nil
}

// closeOutputs closes every output stream of blk from the producer
// side. Called when a block is retired early because Graph.Stop was
// observed, rather than because the block itself reached EndOfStream
// and closed its own outputs: without this, a block stuck waiting on
// one of blk's outputs would see neither new data nor EOF once blk
// stops running.
func closeOutputs(blk flow.Block) {
	for _, p := range blk.Outputs() {
		p.Stream.Close()
	}
}

// blockError turns a StatusError WorkResult's payload into the error
// Run returns, falling back to a SchedulerError if a block
// misbehaved and returned StatusError without an Err.
func blockError(name string, res flow.WorkResult) error {
	if res.Err != nil {
		return res.Err
	}
	return &flow.SchedulerError{Block: name, Err: errMissingBlockError}
}

var errMissingBlockError = schedErr("block returned StatusError with no BlockError payload")

type schedErr string

func (e schedErr) Error() string { return string(e) }

// readyQueue is a simple mutex-protected FIFO of flow.BlockID, used by
// Single. Multi uses a lock-free lfq.MPMC instead, since its ready
// queue is genuinely contended by several worker goroutines; Single
// never contends with itself, so a plain mutex is the right tool here.
type readyQueue struct {
	mu    sync.Mutex
	items []flow.BlockID
}

func (q *readyQueue) push(id flow.BlockID) {
	q.mu.Lock()
	q.items = append(q.items, id)
	q.mu.Unlock()
}

func (q *readyQueue) pop() (flow.BlockID, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return 0, false
	}
	id := q.items[0]
	q.items = q.items[1:]
	return id, true
}

func (q *readyQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// vim: foldmethod=marker
