package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"salesloop/crm/internal/config"
	"salesloop/crm/internal/models"
	"salesloop/crm/internal/services"
)

// LeadHandler handles REST requests for leads.
type LeadHandler struct {
	leadService services.ILeadService
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(leadService services.ILeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// idsRequest is the body of the bulk-delete and merge endpoints.
type idsRequest struct {
	IDs []string `json:"ids"`
}

// parseIDs converts hex ids to ObjectIDs, skipping blanks.
func parseIDs(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// List handles GET /leads.
func (h *LeadHandler) List(c *gin.Context) {
	leads, err := h.leadService.FindAll(c.Request.Context())
	if err != nil {
		config.Logger().WithError(err).Error("listing leads failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve leads"})
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	c.JSON(http.StatusOK, leads)
}

// Create handles POST /leads.
func (h *LeadHandler) Create(c *gin.Context) {
	var lead models.Lead
	if err := c.ShouldBindJSON(&lead); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead payload"})
		return
	}
	if strings.TrimSpace(lead.Email) == "" || strings.TrimSpace(lead.ProductName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and product name are required"})
		return
	}

	created, err := h.leadService.Create(c.Request.Context(), &lead)
	if err != nil {
		config.Logger().WithError(err).Error("creating lead failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lead"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update handles PUT /leads/:id.
func (h *LeadHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead ID format"})
		return
	}

	var update services.LeadUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update payload"})
		return
	}

	lead, err := h.leadService.Update(c.Request.Context(), id, update)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
			return
		}
		config.Logger().WithError(err).WithField("lead_id", id.Hex()).Error("updating lead failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lead"})
		return
	}
	c.JSON(http.StatusOK, lead)
}

// Delete handles DELETE /leads/:id.
func (h *LeadHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead ID format"})
		return
	}

	if err := h.leadService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
			return
		}
		config.Logger().WithError(err).WithField("lead_id", id.Hex()).Error("deleting lead failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete lead"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": 1})
}

// BulkDelete handles POST /leads/bulk-delete. Deletes are per item and
// best-effort; the response reports both counts.
func (h *LeadHandler) BulkDelete(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A non-empty ids list is required"})
		return
	}

	ids, err := parseIDs(req.IDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead ID format"})
		return
	}

	deleted, failed := h.leadService.BulkDelete(c.Request.Context(), ids)
	c.JSON(http.StatusOK, gin.H{"deleted": deleted, "failed": failed})
}
