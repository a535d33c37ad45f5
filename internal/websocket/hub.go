package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/papochat/papo/internal/metrics"
)

// EventType discriminates the realtime protocol.
type EventType string

const (
	// Inbound
	TypeMessageSend EventType = "message:send"
	TypeRoomLeave   EventType = "room:leave"
	TypePong        EventType = "pong"

	// Outbound
	TypePresenceUpdate EventType = "presence:update"
	TypeMessageNew     EventType = "message:new"
	TypeRoomLeft       EventType = "room:left"
	TypeResult         EventType = "result"
	TypePing           EventType = "ping"
)

// Event is the wire envelope in both directions.
type Event struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Result is sent back to the originating connection for every inbound event.
// Failures travel on the same channel; nothing is thrown across the
// connection boundary.
type Result struct {
	Ok    bool        `json:"ok"`
	Error string      `json:"error,omitempty"`
	Msg   interface{} `json:"msg,omitempty"`
}

// Hub owns the connection registry, the per-user and per-room broadcast
// groups, the presence registry and the session index.
type Hub struct {
	clients map[uuid.UUID]*Client

	// Connections per user id; one user may hold several at once.
	users map[uint]map[uuid.UUID]*Client

	// Connections subscribed to a room group.
	rooms map[uint]map[uuid.UUID]*Client

	presence *Presence
	sessions *SessionIndex

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		users:      make(map[uint]map[uuid.UUID]*Client),
		rooms:      make(map[uint]map[uuid.UUID]*Client),
		presence:   NewPresence(),
		sessions:   NewSessionIndex(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run processes registrations and keepalives until Stop is called.
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			h.ping()
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		client.Conn.Close()
	}
	h.clients = make(map[uuid.UUID]*Client)
}

func (h *Hub) Register(client *Client)   { h.register <- client }
func (h *Hub) Unregister(client *Client) { h.unregister <- client }

// Sessions exposes the session index for event handlers.
func (h *Hub) Sessions() *SessionIndex { return h.sessions }

// OnlineCount reports the number of distinct users currently connected.
func (h *Hub) OnlineCount() int { return h.presence.OnlineCount() }

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()

	h.clients[client.ID] = client

	userID := client.Identity.ID
	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[uuid.UUID]*Client)
	}
	h.users[userID][client.ID] = client

	// Personal group plus one group per room membership at connect time.
	for roomID := range client.Rooms {
		if _, ok := h.rooms[roomID]; !ok {
			h.rooms[roomID] = make(map[uuid.UUID]*Client)
		}
		h.rooms[roomID][client.ID] = client
	}

	h.sessions.Bind(client.ID, client.Identity)
	h.presence.Increment(userID)
	metrics.WsConnections.Inc()
	h.mu.Unlock()

	log.Debug().
		Str("conn", client.ID.String()).
		Uint("user", userID).
		Msg("client registered")

	h.BroadcastPresence()
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ID]; !ok {
		// Double disconnect is a no-op.
		h.mu.Unlock()
		return
	}

	for roomID := range client.roomSnapshot() {
		h.removeFromRoomLocked(client, roomID)
	}

	identity, bound := h.sessions.Unbind(client.ID)
	if bound {
		if userClients, ok := h.users[identity.ID]; ok {
			delete(userClients, client.ID)
			if len(userClients) == 0 {
				delete(h.users, identity.ID)
			}
		}
		h.presence.Decrement(identity.ID)
	}

	delete(h.clients, client.ID)
	close(client.Send)
	metrics.WsConnections.Dec()
	h.mu.Unlock()

	log.Debug().
		Str("conn", client.ID.String()).
		Uint("user", identity.ID).
		Msg("client unregistered")

	if bound {
		h.BroadcastPresence()
	}
}

// SubscribeRoom adds a single connection to a room group.
func (h *Hub) SubscribeRoom(client *Client, roomID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[uuid.UUID]*Client)
	}
	h.rooms[roomID][client.ID] = client
	client.addRoom(roomID)
}

// UnsubscribeRoom removes only this connection from a room group. Other
// connections of the same user keep their subscription.
func (h *Hub) UnsubscribeRoom(client *Client, roomID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoomLocked(client, roomID)
}

func (h *Hub) removeFromRoomLocked(client *Client, roomID uint) {
	if room, ok := h.rooms[roomID]; ok {
		delete(room, client.ID)
		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
	client.removeRoom(roomID)
}

// SendToRoom delivers an event to every connection subscribed to the room
// group.
func (h *Hub) SendToRoom(roomID uint, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[roomID] {
		client.enqueue(data)
	}
}

// SendToUser delivers an event to every active connection of a user.
func (h *Hub) SendToUser(userID uint, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.users[userID] {
		client.enqueue(data)
	}
}

// BroadcastPresence pushes the current online count to every connection.
func (h *Hub) BroadcastPresence() {
	payload, err := json.Marshal(map[string]int{"active": h.presence.OnlineCount()})
	if err != nil {
		return
	}
	data, err := json.Marshal(&Event{Type: TypePresenceUpdate, Data: payload})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		client.enqueue(data)
	}
}

func (h *Hub) ping() {
	data, err := json.Marshal(&Event{Type: TypePing})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		client.enqueue(data)
	}
}
