package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"salesloop/crm/internal/config"
	"salesloop/crm/internal/models"
)

// KPIs are the dashboard headline numbers derived from the lead book.
// Rates are percentages rounded to one decimal place.
type KPIs struct {
	TotalLeads     int     `json:"totalLeads"`
	Completed      int     `json:"completed"`
	Canceled       int     `json:"canceled"`
	ConversionRate float64 `json:"conversionRate"`
	ChurnRate      float64 `json:"churnRate"`
	RevenueMonth   float64 `json:"revenueThisMonth"`
	AvgDealSize    float64 `json:"avgDealSize"`
	GeneratedAt    string  `json:"generatedAt"`
}

// IDashboardService computes dashboard KPIs.
type IDashboardService interface {
	GetKPIs(ctx context.Context) (*KPIs, error)
}

const kpiCacheKey = "dashboard:kpis"

type dashboardService struct {
	cfg   *config.Config
	leads ILeadService
	rdb   *redis.Client
}

// NewDashboardService creates a new DashboardService. rdb may be nil, in
// which case KPIs are computed fresh on every call.
func NewDashboardService(cfg *config.Config, leads ILeadService, rdb *redis.Client) IDashboardService {
	return &dashboardService{cfg: cfg, leads: leads, rdb: rdb}
}

// GetKPIs returns the dashboard numbers, served from the Redis cache when a
// fresh entry exists.
func (s *dashboardService) GetKPIs(ctx context.Context) (*KPIs, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, kpiCacheKey).Result()
		if err == nil {
			var kpis KPIs
			if err := json.Unmarshal([]byte(cached), &kpis); err == nil {
				return &kpis, nil
			}
			// Corrupt cache entry: fall through and recompute.
		} else if !errors.Is(err, redis.Nil) {
			config.Logger().WithError(err).Warn("KPI cache read failed")
		}
	}

	leads, err := s.leads.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: loading leads: %w", err)
	}

	kpis := ComputeKPIs(leads, time.Now().UTC())

	if s.rdb != nil {
		if payload, err := json.Marshal(kpis); err == nil {
			if err := s.rdb.Set(ctx, kpiCacheKey, payload, s.cfg.KpiCacheTTL).Err(); err != nil {
				config.Logger().WithError(err).Warn("KPI cache write failed")
			}
		}
	}

	return kpis, nil
}

// ComputeKPIs derives the dashboard numbers from the full lead book.
// now anchors the "this month" revenue window.
func ComputeKPIs(leads []models.Lead, now time.Time) *KPIs {
	kpis := &KPIs{
		TotalLeads:  len(leads),
		GeneratedAt: now.Format(time.RFC3339),
	}

	var completedValue, monthValue float64
	for _, lead := range leads {
		value, _ := strconv.ParseFloat(lead.Value, 64)
		switch lead.Status {
		case models.StatusCompleted:
			kpis.Completed++
			completedValue += value
		case models.StatusCanceled:
			kpis.Canceled++
		}
		if lead.CreatedAt.Year() == now.Year() && lead.CreatedAt.Month() == now.Month() {
			monthValue += value
		}
	}

	total := kpis.TotalLeads
	if total == 0 {
		total = 1 // avoid division by zero; rates read as 0
	}
	kpis.ConversionRate = roundRate(float64(kpis.Completed) / float64(total) * 100)
	kpis.ChurnRate = roundRate(float64(kpis.Canceled) / float64(total) * 100)
	kpis.RevenueMonth = monthValue
	if kpis.Completed > 0 {
		kpis.AvgDealSize = completedValue / float64(kpis.Completed)
	}

	return kpis
}

func roundRate(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}
