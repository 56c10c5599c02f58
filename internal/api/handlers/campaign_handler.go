package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"salesloop/crm/internal/config"
	"salesloop/crm/internal/services"
)

// CampaignHandler handles outreach campaigns over the lead base.
type CampaignHandler struct {
	campaignService services.ICampaignService
}

// NewCampaignHandler creates a new CampaignHandler.
func NewCampaignHandler(campaignService services.ICampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// Recipients handles GET /campaigns/recipients: the deduplicated email
// addresses and phone numbers across all leads.
func (h *CampaignHandler) Recipients(c *gin.Context) {
	recipients, err := h.campaignService.GetRecipients(c.Request.Context())
	if err != nil {
		config.Logger().WithError(err).Error("collecting campaign recipients failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to collect recipients"})
		return
	}
	c.JSON(http.StatusOK, recipients)
}

type emailCampaignRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendEmail handles POST /campaigns/email. One delivery task is queued per
// unique recipient; delivery itself happens on the background workers.
func (h *CampaignHandler) SendEmail(c *gin.Context) {
	var req emailCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Subject) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A subject is required"})
		return
	}

	queued, err := h.campaignService.LaunchEmailCampaign(c.Request.Context(), req.Subject, req.Body)
	if err != nil {
		config.Logger().WithError(err).Error("launching email campaign failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to launch campaign"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": queued})
}
