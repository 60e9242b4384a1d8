// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020
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

// Package mock provides a scriptable flow.Block for tests: rather than
// hand-writing a new Block type for every test scenario, Config lets a
// test supply just the WorkFunc (and, optionally, StartFunc/StopFunc)
// it cares about.
package mock

import "hz.tools/flow"

// Config configures a mock Block. WorkFunc is required; StartFunc and
// StopFunc default to no-ops.
type Config struct {
	// Name identifies the block in diagnostics. Defaults to "mock" if
	// empty.
	Name string

	// Inputs and Outputs are the block's type-erased stream ports,
	// exactly as a real Block would report them.
	Inputs  []flow.Port
	Outputs []flow.Port

	// WorkFunc is called once per Block.Work invocation. Required.
	WorkFunc func(calls int) flow.WorkResult

	// StartFunc and StopFunc, if set, back the Block's lifecycle
	// hooks. Each is called at most once.
	StartFunc func() error
	StopFunc  func() error
}

// Block is a flow.Block whose behavior is entirely defined by a
// Config, for exercising scheduler and graph code without writing a
// bespoke Block type per test case.
type Block struct {
	cfg   Config
	calls int
}

// New returns a Block driven by cfg.
func New(cfg Config) *Block {
	if cfg.Name == "" {
		cfg.Name = "mock"
	}
	return &Block{cfg: cfg}
}

// Name implements flow.Block.
func (b *Block) Name() string { return b.cfg.Name }

// Inputs implements flow.Block.
func (b *Block) Inputs() []flow.Port { return b.cfg.Inputs }

// Outputs implements flow.Block.
func (b *Block) Outputs() []flow.Port { return b.cfg.Outputs }

// Start implements flow.Block.
func (b *Block) Start() error {
	if b.cfg.StartFunc == nil {
		return nil
	}
	return b.cfg.StartFunc()
}

// Stop implements flow.Block.
func (b *Block) Stop() error {
	if b.cfg.StopFunc == nil {
		return nil
	}
	return b.cfg.StopFunc()
}

// Work implements flow.Block. The 1-based index of this call (1 for
// the first call) is passed to WorkFunc so a test can script a
// sequence of results ("Ok a few times, then Error").
func (b *Block) Work() flow.WorkResult {
	b.calls++
	return b.cfg.WorkFunc(b.calls)
}

// Calls reports how many times Work has been called so far.
func (b *Block) Calls() int { return b.calls }

// vim: foldmethod=marker
