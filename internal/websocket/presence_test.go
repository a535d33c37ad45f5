package websocket

import "testing"

func TestPresence_IncrementDecrement(t *testing.T) {
	p := NewPresence()

	if p.OnlineCount() != 0 {
		t.Fatalf("OnlineCount() = %d, want 0", p.OnlineCount())
	}

	p.Increment(1)
	p.Increment(2)
	if p.OnlineCount() != 2 {
		t.Errorf("OnlineCount() = %d, want 2", p.OnlineCount())
	}

	p.Decrement(1)
	if p.OnlineCount() != 1 {
		t.Errorf("OnlineCount() after decrement = %d, want 1", p.OnlineCount())
	}
}

func TestPresence_SecondConnectionKeepsUserOnline(t *testing.T) {
	p := NewPresence()

	// Same user connects twice, disconnects once.
	p.Increment(7)
	p.Increment(7)
	p.Decrement(7)

	if p.OnlineCount() != 1 {
		t.Errorf("OnlineCount() = %d, want 1 (one connection still open)", p.OnlineCount())
	}

	p.Decrement(7)
	if p.OnlineCount() != 0 {
		t.Errorf("OnlineCount() = %d, want 0", p.OnlineCount())
	}
}

func TestPresence_DecrementClampsAtZero(t *testing.T) {
	p := NewPresence()

	p.Decrement(3)
	p.Decrement(3)
	if p.OnlineCount() != 0 {
		t.Errorf("OnlineCount() = %d, want 0", p.OnlineCount())
	}

	// The entry must be gone, not negative: a fresh connect counts again.
	p.Increment(3)
	if p.OnlineCount() != 1 {
		t.Errorf("OnlineCount() = %d, want 1", p.OnlineCount())
	}
}

func TestPresence_EntryRemovedAtZero(t *testing.T) {
	p := NewPresence()

	p.Increment(5)
	p.Decrement(5)

	p.mu.Lock()
	_, exists := p.counts[5]
	p.mu.Unlock()
	if exists {
		t.Error("presence entry should be removed when its count reaches zero")
	}
}
