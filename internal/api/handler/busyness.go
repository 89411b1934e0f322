package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/savorly/recommender/internal/service"
)

// BusynessHandler serves zone busyness predictions.
type BusynessHandler struct {
	svc *service.BusynessService
}

// NewBusynessHandler creates a new busyness handler.
func NewBusynessHandler(svc *service.BusynessService) *BusynessHandler {
	return &BusynessHandler{svc: svc}
}

// Predict handles GET /api/v1/busyness?time=2006-01-02T15:04:05.
func (h *BusynessHandler) Predict(c *gin.Context) {
	at, err := service.ParseBusynessTime(c.Query("time"))
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.svc.Predict(c.Request.Context(), at)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveModel) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
