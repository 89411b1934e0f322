package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/savorly/recommender/internal/service"
)

// RestaurantHandler serves the restaurant catalogue.
type RestaurantHandler struct {
	svc *service.RestaurantService
}

// NewRestaurantHandler creates a new restaurant handler.
func NewRestaurantHandler(svc *service.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{svc: svc}
}

// List handles GET /api/v1/restaurants?restaurant_name=
func (h *RestaurantHandler) List(c *gin.Context) {
	restaurants, err := h.svc.List(c.Request.Context(), c.Query("restaurant_name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": restaurants, "total": len(restaurants)})
}

// Search handles GET /api/v1/restaurants/search?query=
func (h *RestaurantHandler) Search(c *gin.Context) {
	restaurants, err := h.svc.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": restaurants, "total": len(restaurants)})
}
