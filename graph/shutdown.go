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

import "hz.tools/flow"

// ShutdownOrder returns the graph's blocks in reverse topological
// order: consumers before their producers, so that by the time a
// block's Stop is called every block reading from it has already
// stopped pulling. Schedulers call this during shutdown instead of
// deriving their own order.
func (g *Graph) ShutdownOrder() []flow.Block {
	order := reverseTopoOrder(g)
	out := make([]flow.Block, len(order))
	for i, n := range order {
		out[i] = n.block
	}
	return out
}

// reverseTopoOrder returns the graph's nodes consumers-first via a
// depth-first post-order traversal of the producer-to-consumer edges:
// a node is appended only after every block downstream of it has
// already been appended. The graph is already known to be acyclic by
// the time this is called (Build runs validate first).
func reverseTopoOrder(g *Graph) []*node {
	visited := make(map[flow.BlockID]bool, len(g.nodes))
	var out []*node

	adjacency := make(map[flow.BlockID][]flow.BlockID)
	for _, n := range g.nodes {
		for _, p := range n.outputs {
			if cons, ok := p.Stream.ConsumerBlock(); ok {
				adjacency[n.id] = append(adjacency[n.id], cons)
			}
		}
	}

	var visit func(n *node)
	visit = func(n *node) {
		if visited[n.id] {
			return
		}
		visited[n.id] = true
		for _, nextID := range adjacency[n.id] {
			if next, ok := g.byBlock[nextID]; ok {
				visit(next)
			}
		}
		out = append(out, n)
	}

	for _, n := range g.nodes {
		visit(n)
	}
	return out
}

// vim: foldmethod=marker
