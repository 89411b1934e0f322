package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/savorly/recommender/internal/service"
)

// RecommendationHandler serves similar users and restaurant recommendations.
type RecommendationHandler struct {
	svc *service.RecommendationService
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(svc *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

// SimilarUsers handles GET /api/v1/users/similar.
func (h *RecommendationHandler) SimilarUsers(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	similar, err := h.svc.FindSimilarUsers(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": similar, "total": len(similar)})
}

// Recommendations handles GET /api/v1/recommendations.
func (h *RecommendationHandler) Recommendations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	recs, err := h.svc.RecommendRestaurants(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": recs, "total": len(recs)})
}
