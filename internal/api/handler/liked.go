package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/savorly/recommender/internal/service"
)

// LikedRestaurantHandler serves a user's liked restaurants.
type LikedRestaurantHandler struct {
	svc *service.LikedRestaurantService
}

// NewLikedRestaurantHandler creates a new liked restaurant handler.
func NewLikedRestaurantHandler(svc *service.LikedRestaurantService) *LikedRestaurantHandler {
	return &LikedRestaurantHandler{svc: svc}
}

type addLikeRequest struct {
	RestaurantID uint `json:"restaurant_id" binding:"required"`
}

// List handles GET /api/v1/liked-restaurants.
func (h *LikedRestaurantHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	likes, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": likes, "total": len(likes)})
}

// Add handles POST /api/v1/liked-restaurants.
func (h *LikedRestaurantHandler) Add(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req addLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	like, err := h.svc.Add(c.Request.Context(), userID, req.RestaurantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, like)
}

// Remove handles DELETE /api/v1/liked-restaurants/:restaurant_id.
func (h *LikedRestaurantHandler) Remove(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	restaurantID, ok := pathID(c, "restaurant_id")
	if !ok {
		return
	}

	if err := h.svc.Remove(c.Request.Context(), userID, restaurantID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
