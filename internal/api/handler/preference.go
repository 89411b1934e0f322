package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/savorly/recommender/internal/service"
)

// PreferenceHandler serves the preference catalogue and a user's selections.
type PreferenceHandler struct {
	svc *service.PreferenceService
}

// NewPreferenceHandler creates a new preference handler.
func NewPreferenceHandler(svc *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{svc: svc}
}

type addPreferenceRequest struct {
	PreferenceID uint `json:"preference_id" binding:"required"`
}

// Catalogue handles GET /api/v1/preferences.
func (h *PreferenceHandler) Catalogue(c *gin.Context) {
	prefs, err := h.svc.ListCatalogue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": prefs, "total": len(prefs)})
}

// List handles GET /api/v1/user-preferences.
func (h *PreferenceHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	links, err := h.svc.ListUserPreferences(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": links, "total": len(links)})
}

// Add handles POST /api/v1/user-preferences.
func (h *PreferenceHandler) Add(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req addPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	link, err := h.svc.AddUserPreference(c.Request.Context(), userID, req.PreferenceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

// Remove handles DELETE /api/v1/user-preferences/:preference_id.
func (h *PreferenceHandler) Remove(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	prefID, ok := pathID(c, "preference_id")
	if !ok {
		return
	}

	if err := h.svc.RemoveUserPreference(c.Request.Context(), userID, prefID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
