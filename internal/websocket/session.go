package websocket

import (
	"sync"

	"github.com/google/uuid"
)

// Identity is the authenticated user bound to a connection. It carries
// everything the realtime handlers need, so inbound events never re-query
// storage for the sender.
type Identity struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SessionIndex maps an open connection to its authenticated identity.
type SessionIndex struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]Identity
}

func NewSessionIndex() *SessionIndex {
	return &SessionIndex{sessions: make(map[uuid.UUID]Identity)}
}

func (s *SessionIndex) Bind(connID uuid.UUID, identity Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[connID] = identity
}

func (s *SessionIndex) Lookup(connID uuid.UUID) (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.sessions[connID]
	return identity, ok
}

// Unbind removes the association and returns the previously bound identity.
// Unbinding an unknown connection is a no-op.
func (s *SessionIndex) Unbind(connID uuid.UUID) (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.sessions[connID]
	if ok {
		delete(s.sessions, connID)
	}
	return identity, ok
}
