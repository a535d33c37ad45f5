package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/papochat/papo/internal/database"
	"github.com/papochat/papo/internal/middleware"
	"github.com/papochat/papo/internal/models"
)

type RoomHandler struct {
	db *database.Database
}

func NewRoomHandler(db *database.Database) *RoomHandler {
	return &RoomHandler{db: db}
}

// GetMyRooms lists the rooms the authenticated user belongs to.
func (h *RoomHandler) GetMyRooms(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	rooms, err := h.db.GetUserRooms(claims.UserID)
	if err != nil {
		log.Error().Err(err).Msg("list rooms")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get rooms"})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// CreateRoom creates a room with a unique name; the creator joins it
// immediately.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	room := &models.Room{Name: name}
	if err := h.db.CreateRoom(room); err != nil {
		if errors.Is(err, database.ErrRoomExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "room already exists"})
			return
		}
		log.Error().Err(err).Msg("create room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		return
	}

	if err := h.db.AddUserToRoom(claims.UserID, room.ID); err != nil {
		log.Error().Err(err).Uint("room", room.ID).Msg("add creator to room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join room"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": room.ID, "name": room.Name})
}

// JoinRoom adds the authenticated user to an existing room.
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	exists, err := h.db.RoomExists(roomID)
	if err != nil || !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	if err := h.db.AddUserToRoom(claims.UserID, roomID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// LeaveRoom removes the membership row account-wide. Active realtime
// subscriptions are unaffected; those go through the room:leave event.
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	exists, err := h.db.RoomExists(roomID)
	if err != nil || !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	if err := h.db.RemoveUserFromRoom(claims.UserID, roomID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to leave room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
