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

package graph

import (
	"fmt"

	"hz.tools/flow"
)

// validate performs the four wiring checks the data model requires
// before Run is allowed to start: every endpoint connected, no cycles,
// and at least one source and one sink.
func validate(g *Graph) error {
	if len(g.nodes) == 0 {
		return &flow.WiringError{Err: fmt.Errorf("graph has no blocks")}
	}

	seen := make(map[flow.StreamID]flow.StreamRef)
	for _, n := range g.nodes {
		for _, p := range n.inputs {
			seen[p.Stream.ID()] = p.Stream
		}
		for _, p := range n.outputs {
			seen[p.Stream.ID()] = p.Stream
		}
	}

	for id, ref := range seen {
		prod, hasProd := ref.ProducerBlock()
		cons, hasCons := ref.ConsumerBlock()
		if !hasProd {
			return &flow.WiringError{Stream: id, Err: fmt.Errorf("stream has no producer block in this graph")}
		}
		if !hasCons {
			return &flow.WiringError{Stream: id, Err: fmt.Errorf("stream has no consumer block in this graph")}
		}
		if _, ok := g.byBlock[prod]; !ok {
			return &flow.WiringError{Stream: id, Err: fmt.Errorf("stream's producer block is not in this graph")}
		}
		if _, ok := g.byBlock[cons]; !ok {
			return &flow.WiringError{Stream: id, Err: fmt.Errorf("stream's consumer block is not in this graph")}
		}
	}

	hasSource, hasSink := false, false
	for _, n := range g.nodes {
		if len(n.inputs) == 0 {
			hasSource = true
		}
		if len(n.outputs) == 0 {
			hasSink = true
		}
	}
	if !hasSource {
		return &flow.WiringError{Err: fmt.Errorf("graph has no source block (a block with zero inputs)")}
	}
	if !hasSink {
		return &flow.WiringError{Err: fmt.Errorf("graph has no sink block (a block with zero outputs)")}
	}

	return detectCycle(g)
}

// detectCycle runs a standard three-color DFS over the producer-to-
// consumer edges a stream induces between two blocks, rejecting the
// graph if it is not a DAG. Feedback loops must be expressed with an
// explicit delay block split into a source/sink pair, per the data
// model; this function does not special-case that.
func detectCycle(g *Graph) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[flow.BlockID]int, len(g.nodes))

	adjacency := make(map[flow.BlockID][]flow.BlockID)
	for _, n := range g.nodes {
		for _, p := range n.outputs {
			if cons, ok := p.Stream.ConsumerBlock(); ok {
				adjacency[n.id] = append(adjacency[n.id], cons)
			}
		}
	}

	var visit func(id flow.BlockID) error
	visit = func(id flow.BlockID) error {
		color[id] = gray
		for _, next := range adjacency[id] {
			switch color[next] {
			case white:
				if err := visit(next); err != nil {
					return err
				}
			case gray:
				return &flow.WiringError{Err: fmt.Errorf("graph contains a cycle through block id %d", next)}
			}
		}
		color[id] = black
		return nil
	}

	for _, n := range g.nodes {
		if color[n.id] == white {
			if err := visit(n.id); err != nil {
				return err
			}
		}
	}
	return nil
}

// vim: foldmethod=marker
