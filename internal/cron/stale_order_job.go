package cron

import (
	"context"
	"errors"

	"github.com/gemvault/gemvault-backend/internal/orders"
	"github.com/gemvault/gemvault-backend/pkg/logger"
)

const staleOrderJobName = "stale-order-sweep"

type staleOrderSweeper interface {
	DeleteStaleOrders(ctx context.Context) (*orders.StaleSweepResult, error)
}

// StaleOrderJob removes unpaid orders that outlived the abandonment threshold.
type StaleOrderJob struct {
	logg    *logger.Logger
	sweeper staleOrderSweeper
}

func NewStaleOrderJob(logg *logger.Logger, sweeper staleOrderSweeper) (*StaleOrderJob, error) {
	if logg == nil {
		return nil, errors.New("logger required")
	}
	if sweeper == nil {
		return nil, errors.New("order sweeper required")
	}
	return &StaleOrderJob{logg: logg, sweeper: sweeper}, nil
}

func (j *StaleOrderJob) Name() string { return staleOrderJobName }

func (j *StaleOrderJob) Run(ctx context.Context) error {
	result, err := j.sweeper.DeleteStaleOrders(ctx)
	if err != nil {
		return err
	}
	ctx = j.logg.WithFields(ctx, map[string]any{
		"deleted": result.Deleted,
		"cutoff":  result.Cutoff,
	})
	j.logg.Info(ctx, "cron.stale_orders.swept")
	return nil
}
