package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/papochat/papo/internal/database"
	"github.com/papochat/papo/internal/handlers/dto"
	"github.com/papochat/papo/internal/middleware"
)

type HTTPMessageHandler struct {
	db *database.Database
}

func NewHTTPMessageHandler(db *database.Database) *HTTPMessageHandler {
	return &HTTPMessageHandler{db: db}
}

// GetRoomMessages returns a room's history. Membership is re-checked on
// every call.
func (h *HTTPMessageHandler) GetRoomMessages(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	member, err := h.db.IsMember(claims.UserID, roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check membership"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this room"})
		return
	}

	messages, err := h.db.RoomHistory(roomID)
	if err != nil {
		log.Error().Err(err).Uint("room", roomID).Msg("room history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get messages"})
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponses(messages))
}

// GetDMMessages returns the DM history with another user. DMs have no
// membership concept, so no authorization re-check happens here.
func (h *HTTPMessageHandler) GetDMMessages(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	otherID, ok := parseIDParam(c, "otherId")
	if !ok {
		return
	}

	messages, err := h.db.DMHistory(claims.UserID, otherID)
	if err != nil {
		log.Error().Err(err).Uint("other", otherID).Msg("dm history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get messages"})
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponses(messages))
}
