package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/papochat/papo/internal/database"
	"github.com/papochat/papo/internal/handlers/dto"
)

type UserHandler struct {
	db *database.Database
}

func NewUserHandler(db *database.Database) *UserHandler {
	return &UserHandler{db: db}
}

// FindByEmail locates a user by exact email, for starting a DM.
func (h *UserHandler) FindByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}

	user, err := h.db.FindUserByEmail(email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, dto.NewUserInfo(user))
}
