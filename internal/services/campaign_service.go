package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/hibiken/asynq"

	"salesloop/crm/internal/config"
)

// TaskEnqueuer is the slice of the asynq client the campaign service needs.
// Kept as an interface for mocking in handler and service tests.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TypeCampaignEmail is the asynq task type for one campaign email delivery.
const TypeCampaignEmail = "campaign:email"

// CampaignEmailPayload is the JSON payload of a TypeCampaignEmail task.
type CampaignEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Recipients lists the distinct campaign targets found in the lead book.
type Recipients struct {
	Emails []string `json:"emails"`
	Phones []string `json:"phones"`
}

// ICampaignService extracts campaign recipients from leads and launches
// email campaigns via the background task queue.
type ICampaignService interface {
	GetRecipients(ctx context.Context) (*Recipients, error)
	LaunchEmailCampaign(ctx context.Context, subject, body string) (queued int, err error)
}

type campaignService struct {
	leads    ILeadService
	enqueuer TaskEnqueuer
}

// NewCampaignService creates a new CampaignService.
func NewCampaignService(leads ILeadService, enqueuer TaskEnqueuer) ICampaignService {
	return &campaignService{leads: leads, enqueuer: enqueuer}
}

// GetRecipients returns the unique, sorted email addresses and phone
// numbers present in the lead book.
func (s *campaignService) GetRecipients(ctx context.Context) (*Recipients, error) {
	leads, err := s.leads.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("campaign: loading leads: %w", err)
	}

	emailSet := make(map[string]struct{})
	phoneSet := make(map[string]struct{})
	for _, lead := range leads {
		if e := strings.ToLower(strings.TrimSpace(lead.Email)); e != "" {
			emailSet[e] = struct{}{}
		}
		if p := strings.TrimSpace(lead.ContactNumber); p != "" {
			phoneSet[p] = struct{}{}
		}
	}

	r := &Recipients{
		Emails: make([]string, 0, len(emailSet)),
		Phones: make([]string, 0, len(phoneSet)),
	}
	for e := range emailSet {
		r.Emails = append(r.Emails, e)
	}
	for p := range phoneSet {
		r.Phones = append(r.Phones, p)
	}
	sort.Strings(r.Emails)
	sort.Strings(r.Phones)
	return r, nil
}

// LaunchEmailCampaign enqueues one delivery task per unique lead email.
// Enqueue failures are logged and skipped; the returned count is the number
// of tasks actually queued.
func (s *campaignService) LaunchEmailCampaign(ctx context.Context, subject, body string) (int, error) {
	if s.enqueuer == nil {
		return 0, fmt.Errorf("campaign: task queue is not configured")
	}

	recipients, err := s.GetRecipients(ctx)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, to := range recipients.Emails {
		payload, err := json.Marshal(CampaignEmailPayload{To: to, Subject: subject, Body: body})
		if err != nil {
			return queued, fmt.Errorf("campaign: marshaling payload for %s: %w", to, err)
		}
		task := asynq.NewTask(TypeCampaignEmail, payload, asynq.Queue("default"), asynq.MaxRetry(3))
		if _, err := s.enqueuer.EnqueueContext(ctx, task); err != nil {
			config.Logger().WithError(err).WithField("to", to).Warn("campaign: enqueue failed")
			continue
		}
		queued++
	}
	return queued, nil
}
