package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gemvault/gemvault-backend/internal/analytics"
	"github.com/gemvault/gemvault-backend/pkg/logger"
)

const (
	analyticsRefreshJobName = "analytics-auto-refresh"
	cronTrigger             = "cron"
)

type analyticsRefresher interface {
	LastSuccessfulRefresh(ctx context.Context) (*time.Time, error)
	IsStale(lastRefreshAt *time.Time) bool
	RefreshAllAnalytics(ctx context.Context, triggeredBy string) (*analytics.RefreshResult, error)
}

// AnalyticsRefreshJob recomputes the analytics cache once it has gone stale.
type AnalyticsRefreshJob struct {
	logg      *logger.Logger
	refresher analyticsRefresher
}

func NewAnalyticsRefreshJob(logg *logger.Logger, refresher analyticsRefresher) (*AnalyticsRefreshJob, error) {
	if logg == nil {
		return nil, errors.New("logger required")
	}
	if refresher == nil {
		return nil, errors.New("analytics refresher required")
	}
	return &AnalyticsRefreshJob{logg: logg, refresher: refresher}, nil
}

func (j *AnalyticsRefreshJob) Name() string { return analyticsRefreshJobName }

func (j *AnalyticsRefreshJob) Run(ctx context.Context) error {
	last, err := j.refresher.LastSuccessfulRefresh(ctx)
	if err != nil {
		return fmt.Errorf("load last refresh: %w", err)
	}
	if !j.refresher.IsStale(last) {
		j.logg.Info(ctx, "cron.analytics.fresh")
		return nil
	}

	result, err := j.refresher.RefreshAllAnalytics(ctx, cronTrigger)
	if err != nil {
		return err
	}
	if !result.Success {
		// another refresh won the cooldown window
		ctx = j.logg.WithField(ctx, "cooldown_remaining_ms", result.CooldownRemaining)
		j.logg.Info(ctx, "cron.analytics.cooldown")
		return nil
	}
	j.logg.Info(ctx, "cron.analytics.refreshed")
	return nil
}
