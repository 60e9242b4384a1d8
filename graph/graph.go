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

// Package graph owns Blocks, validates their wiring into a directed
// acyclic graph, and exposes Run, which delegates the actual execution
// strategy to a Scheduler from hz.tools/flow/scheduler.
package graph

import (
	"fmt"
	"sync/atomic"

	"hz.tools/flow"
)

// Scheduler is implemented by every execution strategy in
// hz.tools/flow/scheduler (Single, Multi, Cooperative). Run drives g's
// blocks to completion according to that strategy's contract and
// returns the first BlockError or SchedulerError encountered, or nil
// on a clean shutdown.
type Scheduler interface {
	Run(g *Graph) error
}

// node is a block plus the bookkeeping Builder/validate need: its
// assigned id and the cached slices of its input/output ports.
type node struct {
	id      flow.BlockID
	block   flow.Block
	inputs  []flow.Port
	outputs []flow.Port
}

// Graph owns a validated, wired set of blocks and can Run them under a
// chosen Scheduler.
type Graph struct {
	nodes   []*node
	byBlock map[flow.BlockID]*node
	stopped atomic.Bool
}

// Builder assembles a Graph incrementally. Blocks are constructed
// bottom-up by caller code (wiring their Stream endpoints to each
// other directly), then handed to Builder.Add; Builder only needs to
// know the set of blocks to assign ids and run wiring validation.
type Builder struct {
	blocks []flow.Block
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add registers a block with the graph under construction. The order
// blocks are added in has no semantic effect; adjacency is derived
// entirely from how their Port.Stream references tie together.
func (b *Builder) Add(block flow.Block) *Builder {
	b.blocks = append(b.blocks, block)
	return b
}

// Build validates the wiring of every added block and, if valid,
// returns the resulting Graph. See validate.go for the checks
// performed.
func (b *Builder) Build() (*Graph, error) {
	g := &Graph{
		byBlock: make(map[flow.BlockID]*node, len(b.blocks)),
	}

	for i, blk := range b.blocks {
		id := flow.BlockID(i + 1)
		n := &node{
			id:      id,
			block:   blk,
			inputs:  blk.Inputs(),
			outputs: blk.Outputs(),
		}
		g.nodes = append(g.nodes, n)
		g.byBlock[id] = n

		for _, p := range n.outputs {
			if err := p.Stream.BindProducer(id); err != nil {
				return nil, &flow.WiringError{Block: blk.Name(), Stream: p.Stream.ID(), Err: err}
			}
		}
		for _, p := range n.inputs {
			if err := p.Stream.BindConsumer(id); err != nil {
				return nil, &flow.WiringError{Block: blk.Name(), Stream: p.Stream.ID(), Err: err}
			}
		}
	}

	if err := validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Blocks returns every block in the graph, in the order they were
// added to the Builder.
func (g *Graph) Blocks() []flow.Block {
	out := make([]flow.Block, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.block
	}
	return out
}

// BlockID returns the id Build assigned to block, if block is part of
// this graph.
func (g *Graph) BlockID(block flow.Block) (flow.BlockID, bool) {
	for _, n := range g.nodes {
		if n.block == block {
			return n.id, true
		}
	}
	return 0, false
}

// NodeInfo pairs a block with the id Build assigned it.
type NodeInfo struct {
	ID    flow.BlockID
	Block flow.Block
}

// Nodes returns every block in the graph together with its assigned
// id, in the order blocks were added to the Builder. Schedulers use
// this to build their own ready-queue and waiter bookkeeping keyed by
// BlockID rather than repeatedly doing identity lookups over Blocks().
func (g *Graph) Nodes() []NodeInfo {
	out := make([]NodeInfo, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = NodeInfo{ID: n.id, Block: n.block}
	}
	return out
}

// Block looks up a block by its assigned id.
func (g *Graph) Block(id flow.BlockID) (flow.Block, bool) {
	n, ok := g.byBlock[id]
	if !ok {
		return nil, false
	}
	return n.block, true
}

// Run delegates execution to sched. Returns the first BlockError or
// SchedulerError encountered, or nil once every block has reached
// EndOfStream (or Stop was called and shutdown completed cleanly).
func (g *Graph) Run(sched Scheduler) error {
	if sched == nil {
		return fmt.Errorf("flow/graph: Run called with a nil Scheduler")
	}
	return sched.Run(g)
}

// Stop requests cooperative shutdown: schedulers poll this between
// work iterations and, once observed, retire each block the next time
// it comes up to run, without calling its Work again, and close its
// outputs. Items still buffered in streams at that point are not
// drained. Safe to call from any goroutine, including a signal
// handler.
//
// A block parked on a stream waiter (a Pending result armed against
// one of its streams) does not poll Stopped on its own; it only runs
// again once woken. Stop therefore wakes every stream's waiters
// unconditionally, so every parked block re-runs, observes Stopped,
// and retires instead of waiting forever for a produce or consume
// that may never come.
func (g *Graph) Stop() {
	g.stopped.Store(true)
	g.wakeAllStreams()
}

// wakeAllStreams fires every stream's waiter pair once, deduplicated
// by stream id since a stream appears once as an output and once as
// an input across two different nodes.
func (g *Graph) wakeAllStreams() {
	seen := make(map[flow.StreamID]bool)
	wake := func(p flow.Port) {
		if id := p.Stream.ID(); !seen[id] {
			seen[id] = true
			p.Stream.WakeWaiters()
		}
	}
	for _, n := range g.nodes {
		for _, p := range n.inputs {
			wake(p)
		}
		for _, p := range n.outputs {
			wake(p)
		}
	}
}

// Stopped reports whether Stop has been called.
func (g *Graph) Stopped() bool {
	return g.stopped.Load()
}

// vim: foldmethod=marker
