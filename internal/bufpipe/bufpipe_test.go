package bufpipe

import "testing"

func TestPipeSendReceive(t *testing.T) {
	p := New[int](2)
	if err := p.TrySend(1); err != nil {
		t.Fatalf("TrySend: %v", err)
	}
	v, err := p.TryReceive()
	if err != nil || v != 1 {
		t.Fatalf("TryReceive = (%d, %v), want (1, nil)", v, err)
	}
}

func TestPipeOverrun(t *testing.T) {
	p := New[int](1)
	if err := p.TrySend(1); err != nil {
		t.Fatalf("TrySend: %v", err)
	}
	if err := p.TrySend(2); err != ErrOverrun {
		t.Fatalf("TrySend on a full pipe = %v, want ErrOverrun", err)
	}
}

func TestPipeEmpty(t *testing.T) {
	p := New[int](1)
	if _, err := p.TryReceive(); err != ErrEmpty {
		t.Fatalf("TryReceive on an empty pipe = %v, want ErrEmpty", err)
	}
}

func TestPipeClosed(t *testing.T) {
	p := New[int](1)
	p.Close()
	if err := p.TrySend(1); err != ErrClosed {
		t.Fatalf("TrySend after Close = %v, want ErrClosed", err)
	}
	if _, err := p.TryReceive(); err != ErrClosed {
		t.Fatalf("TryReceive after Close = %v, want ErrClosed", err)
	}
}
