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
	"runtime"
	"sync"

	"code.hybscloud.com/lfq"
	"code.hybscloud.com/spin"

	"hz.tools/flow"
	"hz.tools/flow/graph"
)

// Multi is the multithreaded scheduler: a fixed pool of worker
// goroutines shares one concurrent ready queue. Ready-set membership
// is still per-block (a per-block mutex ensures at most one worker
// ever runs a given block's Work at a time, since blocks need not be
// internally thread-safe); the ready queue itself is a lock-free
// lfq.MPMC, and a condition variable wakes idle workers when it gains
// new entries.
type Multi struct {
	workers int
}

// NewMulti returns the multithreaded scheduler with the given number
// of worker goroutines.
func NewMulti(workers int) *Multi {
	if workers < 1 {
		workers = 1
	}
	return &Multi{workers: workers}
}

// WithWorkers returns the multithreaded scheduler sized to
// runtime.GOMAXPROCS(0) worker goroutines, for callers that want a
// reasonable default rather than picking a worker count themselves.
func WithWorkers() *Multi {
	return NewMulti(runtime.GOMAXPROCS(0))
}

type multiState struct {
	ready *lfq.MPMC[flow.BlockID]

	mu       sync.Mutex
	cond     *sync.Cond
	closing  bool
	inFlight int // blocks currently enqueued-or-running, not yet retired

	blockMu map[flow.BlockID]*sync.Mutex

	errMu sync.Mutex
	err   error
}

func newMultiState(total int) *multiState {
	capacity := 16
	for capacity < total*2 {
		capacity *= 2
	}
	s := &multiState{
		ready:    lfq.NewMPMC[flow.BlockID](capacity),
		blockMu:  make(map[flow.BlockID]*sync.Mutex, total),
		inFlight: total,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// push enqueues id, retrying against transient ErrWouldBlock from the
// lock-free queue's threshold mechanism: the first 64 retries each
// call spin.Pause, later ones retry immediately. The queue is sized so
// it is never genuinely full for the set of blocks it schedules.
func (s *multiState) push(id flow.BlockID) {
	for i := 0; ; i++ {
		v := id
		if err := s.ready.Enqueue(&v); err == nil {
			break
		}
		if i < 64 {
			spin.Pause()
		}
	}
	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
}

func (s *multiState) setErr(err error) {
	s.errMu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.errMu.Unlock()
}

func (s *multiState) close() {
	s.mu.Lock()
	s.closing = true
	s.cond.Broadcast()
	s.mu.Unlock()
}

func (s *multiState) retire() {
	s.mu.Lock()
	s.inFlight--
	if s.inFlight <= 0 {
		s.closing = true
		s.cond.Broadcast()
	}
	s.mu.Unlock()
}

// Run implements graph.Scheduler.
func (m *Multi) Run(g *graph.Graph) error {
	nodes := g.Nodes()
	if err := startAll(g); err != nil {
		return err
	}

	state := newMultiState(len(nodes))
	for _, n := range nodes {
		state.blockMu[n.ID] = &sync.Mutex{}
	}
	for _, n := range nodes {
		state.push(n.ID)
	}

	var wg sync.WaitGroup
	for i := 0; i < m.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.worker(g, state)
		}()
	}
	wg.Wait()

	if err := shutdown(g); err != nil && state.err == nil {
		return err
	}
	return state.err
}

func (m *Multi) worker(g *graph.Graph, state *multiState) {
	for {
		id, err := state.ready.Dequeue()
		if err != nil {
			state.mu.Lock()
			for err != nil && !state.closing {
				state.cond.Wait()
				id, err = state.ready.Dequeue()
			}
			closing := state.closing
			state.mu.Unlock()
			if err != nil {
				if closing {
					return
				}
				continue
			}
		}

		blk, ok := g.Block(id)
		if !ok {
			continue
		}

		bm := state.blockMu[id]
		if !bm.TryLock() {
			// Another worker is already running this block; put it
			// back and let that worker's own re-enqueue (or this
			// retry) pick it up.
			state.push(id)
			continue
		}

		if g.Stopped() {
			closeOutputs(blk)
			bm.Unlock()
			state.retire()
			continue
		}

		res := blk.Work()
		bm.Unlock()

		switch res.Status() {
		case flow.StatusOk:
			state.push(id)

		case flow.StatusPending:
			armWaiterMulti(res, id, state)

		case flow.StatusEndOfStream:
			state.retire()

		case flow.StatusError:
			state.setErr(blockError(blk.Name(), res))
			state.close()
			return
		}
	}
}

// armWaiterMulti is the Multi-scheduler analogue of single.go's
// armWaiter: it re-enqueues id via state.push once the stream
// satisfies the Pending condition, rather than pushing onto a plain
// FIFO slice.
func armWaiterMulti(res flow.WorkResult, id flow.BlockID, state *multiState) {
	ref := res.Stream
	wake := func() { state.push(id) }

	if cons, ok := ref.ConsumerBlock(); ok && cons == id {
		ref.ArmConsumerWaiter(res.N, wake)
		return
	}
	if prod, ok := ref.ProducerBlock(); ok && prod == id {
		ref.ArmProducerWaiter(res.N, wake)
		return
	}
	state.push(id)
}

// vim: foldmethod=marker
