package websocket

import "sync"

// Presence tracks how many open connections each user holds. State is
// volatile: a restart makes everyone offline until they reconnect.
type Presence struct {
	mu     sync.Mutex
	counts map[uint]int
}

func NewPresence() *Presence {
	return &Presence{counts: make(map[uint]int)}
}

// Increment raises the connection count for a user by one.
func (p *Presence) Increment(userID uint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts[userID]++
}

// Decrement lowers the connection count by one, clamped at zero. The entry
// is removed entirely once it reaches zero.
func (p *Presence) Decrement(userID uint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.counts[userID] <= 1 {
		delete(p.counts, userID)
		return
	}
	p.counts[userID]--
}

// OnlineCount returns the number of distinct users with at least one open
// connection.
func (p *Presence) OnlineCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.counts)
}
