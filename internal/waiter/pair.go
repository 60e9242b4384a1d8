// Package waiter holds the back-pressure waiter registry a Stream
// embeds to re-arm a blocked block without a general observer list.
// Per the data model a stream has at most one consumer blocked on it
// and at most one producer blocked on it at any time, so a Pair of two
// optional slots is all the bookkeeping a stream ever needs.
package waiter

import "sync"

// Waiter is a single armed wait: a block parked on this stream wanting
// at least Threshold items (consumer side) or free slots (producer
// side) before it can usefully run again.
type Waiter struct {
	Threshold uint64
	Wake      func()
}

// Pair is the producer-waiter/consumer-waiter slot pair embedded in a
// stream. At most one waiter is armed per side: a block only ever asks
// a single stream for a single Pending condition, and the scheduler
// does not re-arm a block that is already ready.
type Pair struct {
	mu       sync.Mutex
	consumer *Waiter // waiting for >= Threshold items available
	producer *Waiter // waiting for >= Threshold free slots
}

// ArmConsumer registers wake to fire the next time SignalProduce
// observes at least threshold available items, or on EOF. Replaces any
// previously armed consumer waiter.
//
// satisfied is called while still holding the pair's lock, so it is
// serialized against any concurrent SignalProduce: this closes the gap
// where a produce (or close) happens between the caller's own failed
// Reserve and the Arm call, which would otherwise fire against nobody
// and leave the caller parked forever. If satisfied already reports the
// threshold met, ArmConsumer does not arm a waiter and returns true so
// the caller can treat itself as immediately ready instead of parking.
func (p *Pair) ArmConsumer(threshold uint64, wake func(), satisfied func() bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if satisfied() {
		p.consumer = nil
		return true
	}
	p.consumer = &Waiter{Threshold: threshold, Wake: wake}
	return false
}

// ArmProducer registers wake to fire the next time SignalConsume
// observes at least threshold free slots. Replaces any previously
// armed producer waiter. See ArmConsumer for why satisfied is checked
// under the same lock as Signal.
func (p *Pair) ArmProducer(threshold uint64, wake func(), satisfied func() bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if satisfied() {
		p.producer = nil
		return true
	}
	p.producer = &Waiter{Threshold: threshold, Wake: wake}
	return false
}

// DisarmConsumer clears any armed consumer waiter without firing it.
// Used when a block is re-scheduled through some other path before its
// Pending condition was satisfied.
func (p *Pair) DisarmConsumer() {
	p.mu.Lock()
	p.consumer = nil
	p.mu.Unlock()
}

// DisarmProducer clears any armed producer waiter without firing it.
func (p *Pair) DisarmProducer() {
	p.mu.Lock()
	p.producer = nil
	p.mu.Unlock()
}

// WakeAll immediately fires and clears both armed waiters, regardless
// of whether their threshold is met. Used for cooperative shutdown:
// once a graph's Stop is observed, every block parked on a stream must
// be woken so it can re-run, see Stopped, and retire rather than park
// forever waiting for a produce/consume that may never come.
func (p *Pair) WakeAll() {
	p.mu.Lock()
	c, pr := p.consumer, p.producer
	p.consumer, p.producer = nil, nil
	p.mu.Unlock()
	if c != nil {
		c.Wake()
	}
	if pr != nil {
		pr.Wake()
	}
}

// SignalProduce is called after a produce (or a close, passing
// ^uint64(0) as an infinite-availability sentinel) with the number of
// items now available to the consumer. If the armed consumer waiter's
// threshold is met, it fires and is cleared.
func (p *Pair) SignalProduce(available uint64) {
	p.mu.Lock()
	w := p.consumer
	if w != nil && available >= w.Threshold {
		p.consumer = nil
	} else {
		w = nil
	}
	p.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

// SignalConsume is called after a consume with the number of free
// slots now available to the producer. If the armed producer waiter's
// threshold is met, it fires and is cleared.
func (p *Pair) SignalConsume(free uint64) {
	p.mu.Lock()
	w := p.producer
	if w != nil && free >= w.Threshold {
		p.producer = nil
	} else {
		w = nil
	}
	p.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}
