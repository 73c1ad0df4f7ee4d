package handler

import (
	"net/http"

	"edlink/internal/database"
	"edlink/internal/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(c *gin.Context) {
	if err := database.Ping(h.db); err != nil {
		response.Error(c, http.StatusServiceUnavailable, "UNAVAILABLE", "database unreachable")
		return
	}
	response.Success(c, gin.H{"status": "ok"})
}
