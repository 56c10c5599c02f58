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

// MemberHandler handles the team roster.
type MemberHandler struct {
	memberService services.IMemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberService services.IMemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// List handles GET /api/members. With ?active=true only members without a
// relieved date are returned; import uploads use this to label rows.
func (h *MemberHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	members, err := h.memberService.FindAll(c.Request.Context(), activeOnly)
	if err != nil {
		config.Logger().WithError(err).Error("listing members failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}
	if members == nil {
		members = []models.Member{}
	}
	c.JSON(http.StatusOK, members)
}

// Create handles POST /api/members.
func (h *MemberHandler) Create(c *gin.Context) {
	var member models.Member
	if err := c.ShouldBindJSON(&member); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member payload"})
		return
	}
	if strings.TrimSpace(member.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Member name is required"})
		return
	}

	created, err := h.memberService.Create(c.Request.Context(), &member)
	if err != nil {
		config.Logger().WithError(err).Error("creating member failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create member"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/members/:id. Setting relievedDate marks the
// member inactive; omitting it reactivates them.
func (h *MemberHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID format"})
		return
	}

	var member models.Member
	if err := c.ShouldBindJSON(&member); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member payload"})
		return
	}

	updated, err := h.memberService.Update(c.Request.Context(), id, member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		config.Logger().WithError(err).WithField("member_id", id.Hex()).Error("updating member failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/members/:id.
func (h *MemberHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID format"})
		return
	}

	if err := h.memberService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		config.Logger().WithError(err).WithField("member_id", id.Hex()).Error("deleting member failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete member"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": 1})
}
