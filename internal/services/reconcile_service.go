package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"salesloop/crm/internal/config"
	"salesloop/crm/internal/models"
)

// MergeResult summarizes one reconciliation run.
type MergeResult struct {
	Matched int `json:"matched"` // existing leads updated in place
	Created int `json:"created"` // new leads created from unmatched rows
	Skipped int `json:"skipped"` // unmatched rows dropped (creation disabled) or unusable rows
	Failed  int `json:"failed"`  // per-item datastore failures
}

// IReconcileService merges imported records into leads.
type IReconcileService interface {
	MergeRecords(ctx context.Context, recordIDs []primitive.ObjectID) (MergeResult, error)
}

type reconcileService struct {
	cfg     *config.Config
	records IRecordService
	leads   ILeadService
}

// NewReconcileService creates a new ReconcileService.
func NewReconcileService(cfg *config.Config, records IRecordService, leads ILeadService) IReconcileService {
	return &reconcileService{cfg: cfg, records: records, leads: leads}
}

// MergeRecords reconciles the selected records against existing leads.
// Each record is matched by (case-insensitive trimmed email, trimmed product
// name). A match updates that lead's status and payment status in place, so
// merging the same record twice never creates a second lead. A non-match
// creates a new lead only when MERGE_CREATE_MISSING is enabled; otherwise
// the row is skipped. Items are processed independently with no batch
// atomicity; per-item failures are logged and counted.
func (s *reconcileService) MergeRecords(ctx context.Context, recordIDs []primitive.ObjectID) (MergeResult, error) {
	var result MergeResult

	records, err := s.records.FindByIDs(ctx, recordIDs)
	if err != nil {
		return result, fmt.Errorf("reconciliation: loading records: %w", err)
	}

	for _, record := range records {
		r := record.Normalize()
		if r.Email == "" || r.ProductName == "" {
			result.Skipped++
			continue
		}

		lead, err := s.leads.FindByEmailAndProduct(ctx, r.Email, r.ProductName)
		switch {
		case err == nil:
			status := r.Status
			payment := r.Payment
			if _, err := s.leads.Update(ctx, lead.ID, LeadUpdate{
				Status:        &status,
				PaymentStatus: &payment,
			}); err != nil {
				result.Failed++
				config.Logger().WithError(err).WithField("record_id", record.ID.Hex()).Warn("reconciliation: lead update failed")
				continue
			}
			result.Matched++

		case errors.Is(err, mongo.ErrNoDocuments):
			if !s.cfg.MergeCreateMissing {
				result.Skipped++
				continue
			}
			if _, err := s.leads.Create(ctx, leadFromRecord(r)); err != nil {
				result.Failed++
				config.Logger().WithError(err).WithField("record_id", record.ID.Hex()).Warn("reconciliation: lead create failed")
				continue
			}
			result.Created++

		default:
			result.Failed++
			config.Logger().WithError(err).WithField("record_id", record.ID.Hex()).Warn("reconciliation: lead lookup failed")
		}
	}

	return result, nil
}

// leadFromRecord builds a new lead from a normalized imported row, applying
// the same fallbacks the manual add path uses for blank cells.
func leadFromRecord(r models.Record) *models.Lead {
	qty, err := strconv.Atoi(r.Qty)
	if err != nil || qty <= 0 {
		qty = 1
	}
	value := r.Price
	if value == "" {
		value = "0"
	}

	return &models.Lead{
		Company:       orDash(r.Company),
		Contact:       orDash(r.Contact),
		ContactNumber: r.ContactNumber,
		Email:         r.Email,
		ProductName:   r.ProductName,
		Quantity:      qty,
		Value:         value,
		Address:       orDash(r.Address),
		Status:        models.NormalizeStatus(r.Status),
		PaymentStatus: models.NormalizePayment(r.Payment),
		Source:        "Excel",
		CreatedAt:     time.Now().UTC(),
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
