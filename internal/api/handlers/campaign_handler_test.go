package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"salesloop/crm/internal/api/handlers"
	"salesloop/crm/internal/services"
)

func newCampaignRouter(campaignSvc *MockCampaignService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewCampaignHandler(campaignSvc)

	r := gin.New()
	r.GET("/campaigns/recipients", handler.Recipients)
	r.POST("/campaigns/email", handler.SendEmail)
	return r
}

func TestCampaignHandler_Recipients(t *testing.T) {
	campaignSvc := new(MockCampaignService)
	r := newCampaignRouter(campaignSvc)

	campaignSvc.On("GetRecipients", mock.Anything).Return(&services.Recipients{
		Emails: []string{"a@b.com", "c@d.com"},
		Phones: []string{"9876543210"},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/campaigns/recipients", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@b.com")
	assert.Contains(t, w.Body.String(), "9876543210")
	campaignSvc.AssertExpectations(t)
}

func TestCampaignHandler_SendEmail(t *testing.T) {
	campaignSvc := new(MockCampaignService)
	r := newCampaignRouter(campaignSvc)

	campaignSvc.On("LaunchEmailCampaign", mock.Anything, "Diwali offer", "Flat 20% off").Return(42, nil)

	w := postJSON(r, "/campaigns/email", gin.H{"subject": "Diwali offer", "body": "Flat 20% off"})

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"queued":42`)
	campaignSvc.AssertExpectations(t)
}

func TestCampaignHandler_SendEmail_MissingSubject(t *testing.T) {
	campaignSvc := new(MockCampaignService)
	r := newCampaignRouter(campaignSvc)

	w := postJSON(r, "/campaigns/email", gin.H{"body": "Flat 20% off"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	campaignSvc.AssertNotCalled(t, "LaunchEmailCampaign")
}
