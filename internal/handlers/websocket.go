package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/papochat/papo/internal/database"
	"github.com/papochat/papo/internal/middleware"
	ws "github.com/papochat/papo/internal/websocket"
)

// WebSocketHandler upgrades authenticated handshakes into realtime
// connections.
type WebSocketHandler struct {
	hub      *ws.Hub
	db       *database.Database
	events   *MessageHandler
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, db *database.Database, events *MessageHandler) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		db:     db,
		events: events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handle runs after WSAuthMiddleware: the identity is already verified. The
// user's memberships are queried here, at connect time; membership changes
// made afterwards do not reach this connection.
func (h *WebSocketHandler) Handle(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	identity := ws.Identity{ID: claims.UserID, Name: claims.Name, Email: claims.Email}

	rooms, err := h.db.GetUserRooms(identity.ID)
	if err != nil {
		log.Error().Err(err).Uint("user", identity.ID).Msg("ws connect: load rooms")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rooms"})
		return
	}
	roomIDs := make([]uint, len(rooms))
	for i, r := range rooms {
		roomIDs[i] = r.ID
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn, identity, roomIDs)

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.events)
}
