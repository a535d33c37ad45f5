package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512 * 1024 // 512KB
)

// EventHandler processes inbound events from an authenticated connection. A
// returned error becomes a failure Result on the same channel.
type EventHandler interface {
	HandleEvent(client *Client, evt *Event) error
}

type Client struct {
	ID       uuid.UUID
	Identity Identity
	Conn     *websocket.Conn
	Send     chan []byte
	Rooms    map[uint]bool
	Hub      *Hub
	mu       sync.RWMutex
}

// NewClient wraps an upgraded connection. roomIDs are the user's memberships
// queried at connect time; later membership changes do not reach an already
// open connection except through an explicit room:leave.
func NewClient(hub *Hub, conn *websocket.Conn, identity Identity, roomIDs []uint) *Client {
	rooms := make(map[uint]bool, len(roomIDs))
	for _, id := range roomIDs {
		rooms[id] = true
	}
	return &Client{
		ID:       uuid.New(),
		Identity: identity,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Rooms:    rooms,
		Hub:      hub,
	}
}

// ReadPump reads events from the connection until it closes.
func (c *Client) ReadPump(handler EventHandler) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var evt Event
		err := c.Conn.ReadJSON(&evt)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("conn", c.ID.String()).Msg("websocket read error")
			}
			break
		}

		if evt.Type == TypePong {
			continue
		}

		if handler != nil {
			if err := handler.HandleEvent(c, &evt); err != nil {
				c.SendResult(Result{Ok: false, Error: err.Error()})
			}
		}
	}
}

// WritePump drains the send queue and keeps the connection alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.Conn.WriteMessage(websocket.TextMessage, message)

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent marshals and queues an event for this connection only.
func (c *Client) SendEvent(evtType EventType, data interface{}) error {
	evt := Event{Type: evtType}

	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return err
		}
		evt.Data = jsonData
	}

	evtData, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	select {
	case c.Send <- evtData:
		return nil
	default:
		return ErrClientQueueFull
	}
}

// SendResult reports the outcome of an inbound event to the caller.
func (c *Client) SendResult(res Result) {
	c.SendEvent(TypeResult, res)
}

func (c *Client) IsInRoom(roomID uint) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Rooms[roomID]
}

func (c *Client) addRoom(roomID uint) {
	c.mu.Lock()
	c.Rooms[roomID] = true
	c.mu.Unlock()
}

func (c *Client) removeRoom(roomID uint) {
	c.mu.Lock()
	delete(c.Rooms, roomID)
	c.mu.Unlock()
}

func (c *Client) roomSnapshot() map[uint]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rooms := make(map[uint]bool, len(c.Rooms))
	for id := range c.Rooms {
		rooms[id] = true
	}
	return rooms
}

func (c *Client) enqueue(data []byte) {
	select {
	case c.Send <- data:
	default:
		log.Warn().Str("conn", c.ID.String()).Msg("client send queue full, dropping")
	}
}
