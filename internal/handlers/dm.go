package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/papochat/papo/internal/database"
	"github.com/papochat/papo/internal/handlers/dto"
	"github.com/papochat/papo/internal/middleware"
)

// DMHandler manages the saved-contact list. Contacts are independent of
// whether any messages exist.
type DMHandler struct {
	db *database.Database
}

func NewDMHandler(db *database.Database) *DMHandler {
	return &DMHandler{db: db}
}

func (h *DMHandler) ListContacts(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	users, err := h.db.ListDmContacts(claims.UserID)
	if err != nil {
		log.Error().Err(err).Msg("list dm contacts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list contacts"})
		return
	}

	out := make([]dto.UserInfo, len(users))
	for i := range users {
		out[i] = dto.NewUserInfo(&users[i])
	}
	c.JSON(http.StatusOK, out)
}

// AddContact saves a DM partner found by email.
func (h *DMHandler) AddContact(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}

	other, err := h.db.FindUserByEmail(email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if other.ID == claims.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot save a DM with yourself"})
		return
	}

	if err := h.db.AddDmContact(claims.UserID, other.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save contact"})
		return
	}

	c.JSON(http.StatusOK, dto.NewUserInfo(other))
}

func (h *DMHandler) RemoveContact(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	otherID, ok := parseIDParam(c, "otherId")
	if !ok {
		return
	}

	if err := h.db.RemoveDmContact(claims.UserID, otherID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove contact"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
