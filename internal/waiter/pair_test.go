package waiter

import "testing"

func TestPairConsumerWakesOnThreshold(t *testing.T) {
	var p Pair
	woke := false
	p.ArmConsumer(4, func() { woke = true }, func() bool { return false })

	p.SignalProduce(2)
	if woke {
		t.Fatalf("woke early with only 2 available, wanted 4")
	}

	p.SignalProduce(4)
	if !woke {
		t.Fatalf("did not wake once threshold was met")
	}
}

func TestPairProducerWakesOnThreshold(t *testing.T) {
	var p Pair
	woke := false
	p.ArmProducer(8, func() { woke = true }, func() bool { return false })

	p.SignalConsume(3)
	if woke {
		t.Fatalf("woke early with only 3 free, wanted 8")
	}

	p.SignalConsume(8)
	if !woke {
		t.Fatalf("did not wake once threshold was met")
	}
}

func TestPairFiresOnce(t *testing.T) {
	var p Pair
	n := 0
	p.ArmConsumer(1, func() { n++ }, func() bool { return false })
	p.SignalProduce(5)
	p.SignalProduce(5)
	if n != 1 {
		t.Fatalf("expected wake exactly once, got %d", n)
	}
}

func TestPairDisarm(t *testing.T) {
	var p Pair
	woke := false
	p.ArmConsumer(1, func() { woke = true }, func() bool { return false })
	p.DisarmConsumer()
	p.SignalProduce(100)
	if woke {
		t.Fatalf("disarmed waiter should not fire")
	}
}

func TestPairCloseSentinelWakesRegardlessOfThreshold(t *testing.T) {
	var p Pair
	woke := false
	p.ArmConsumer(1000, func() { woke = true }, func() bool { return false })
	p.SignalProduce(^uint64(0))
	if !woke {
		t.Fatalf("EOF sentinel should satisfy any threshold")
	}
}
