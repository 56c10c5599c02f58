package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"salesloop/crm/internal/config"
	"salesloop/crm/internal/models"
	"salesloop/crm/internal/services"
)

// AdminHandler handles the administrator profile card.
type AdminHandler struct {
	adminService services.IAdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService services.IAdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Upsert handles POST /api/admin. The profile is keyed by email: posting
// the same email again updates the existing card.
func (h *AdminHandler) Upsert(c *gin.Context) {
	var profile models.AdminProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile payload"})
		return
	}
	if strings.TrimSpace(profile.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	saved, err := h.adminService.UpsertByEmail(c.Request.Context(), profile)
	if err != nil {
		config.Logger().WithError(err).WithField("email", profile.Email).Error("saving admin profile failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}
	c.JSON(http.StatusOK, saved)
}

// Get handles GET /api/admin/:email.
func (h *AdminHandler) Get(c *gin.Context) {
	email := strings.TrimSpace(c.Param("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	profile, err := h.adminService.FindByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		config.Logger().WithError(err).WithField("email", email).Error("finding admin profile failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}
