package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/gemvault/gemvault-backend/pkg/db"
	"github.com/gemvault/gemvault-backend/pkg/db/models"
	"github.com/gemvault/gemvault-backend/pkg/enums"
	pkgerrors "github.com/gemvault/gemvault-backend/pkg/errors"
	"github.com/gemvault/gemvault-backend/pkg/logger"
	"github.com/gemvault/gemvault-backend/pkg/metrics"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// HistoryExporter ships committed history rows to an external sink.
type HistoryExporter interface {
	ExportHistory(ctx context.Context, rows []models.AnalyticsHistory) error
}

// Service computes, caches and reports the dashboard analytics.
type Service interface {
	// GetCachedAnalytics maps every cached metric to its payload; empty when never refreshed.
	GetCachedAnalytics(ctx context.Context) (map[enums.MetricType]json.RawMessage, error)
	// GetRefreshMetadata returns the newest refresh attempt or nil.
	GetRefreshMetadata(ctx context.Context) (*RefreshMetadata, error)
	// LastSuccessfulRefresh is the time of the newest completed refresh, nil when none completed.
	LastSuccessfulRefresh(ctx context.Context) (*time.Time, error)
	IsStale(lastRefreshAt *time.Time) bool
	GetCooldownStatus(ctx context.Context) (map[enums.MetricType]CooldownStatus, error)
	RefreshAllAnalytics(ctx context.Context, triggeredBy string) (*RefreshResult, error)
	Status(ctx context.Context) (*Status, error)
	History(ctx context.Context, metric *enums.MetricType, limit int) ([]HistoryEntry, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
}

// Config holds the analytics tunables.
type Config struct {
	StalenessThreshold time.Duration
	RefreshCooldown    time.Duration
	TopProductsLimit   int
	MonthlyTrendMonths int
}

// ServiceParams wires the analytics service dependencies.
type ServiceParams struct {
	Repo      Repository
	Tx        db.TxRunner
	Snapshots SnapshotCache
	Exporter  HistoryExporter
	Metrics   *metrics.AnalyticsMetrics
	Logger    *logger.Logger
	Config    Config
	Now       func() time.Time
}

type service struct {
	repo      Repository
	tx        db.TxRunner
	snapshots SnapshotCache
	exporter  HistoryExporter
	metrics   *metrics.AnalyticsMetrics
	logg      *logger.Logger
	cfg       Config
	now       func() time.Time
}

// NewService validates params and builds the analytics service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Config.StalenessThreshold <= 0 {
		return nil, fmt.Errorf("staleness threshold must be positive")
	}
	if params.Config.RefreshCooldown <= 0 {
		return nil, fmt.Errorf("refresh cooldown must be positive")
	}
	if params.Config.TopProductsLimit <= 0 {
		params.Config.TopProductsLimit = 10
	}
	if params.Config.MonthlyTrendMonths <= 0 {
		params.Config.MonthlyTrendMonths = 12
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		repo:      params.Repo,
		tx:        params.Tx,
		snapshots: params.Snapshots,
		exporter:  params.Exporter,
		metrics:   params.Metrics,
		logg:      logg,
		cfg:       params.Config,
		now:       now,
	}, nil
}

func (s *service) GetCachedAnalytics(ctx context.Context) (map[enums.MetricType]json.RawMessage, error) {
	var (
		version  int64
		storable bool
	)
	if s.snapshots != nil {
		cached, v, ok, err := s.snapshots.Load(ctx)
		if err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "analytics.snapshot.load_failed")
		} else if ok {
			return cached, nil
		} else {
			version, storable = v, true
		}
	}

	entries, err := s.repo.ListCache(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load analytics cache")
	}
	out := make(map[enums.MetricType]json.RawMessage, len(entries))
	for _, entry := range entries {
		out[entry.MetricType] = entry.CalculatedData
	}

	if storable && len(out) > 0 {
		if err := s.snapshots.Store(ctx, version, out); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "analytics.snapshot.store_failed")
		}
	}
	return out, nil
}

func (s *service) GetRefreshMetadata(ctx context.Context) (*RefreshMetadata, error) {
	meta, err := s.repo.LatestMetadata(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load analytics metadata")
	}
	if meta == nil {
		return nil, nil
	}
	return toRefreshMetadata(meta), nil
}

func (s *service) LastSuccessfulRefresh(ctx context.Context) (*time.Time, error) {
	meta, err := s.repo.LatestSuccessfulMetadata(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load analytics metadata")
	}
	if meta == nil {
		return nil, nil
	}
	at := meta.LastRefreshAt
	return &at, nil
}

// IsStale is true when nothing was ever refreshed or the refresh is older than the threshold.
func (s *service) IsStale(lastRefreshAt *time.Time) bool {
	return IsStale(s.now(), lastRefreshAt, s.cfg.StalenessThreshold)
}

// IsStale reports whether lastRefreshAt is missing or more than threshold before now.
func IsStale(now time.Time, lastRefreshAt *time.Time, threshold time.Duration) bool {
	if lastRefreshAt == nil {
		return true
	}
	return now.Sub(*lastRefreshAt) > threshold
}

func (s *service) GetCooldownStatus(ctx context.Context) (map[enums.MetricType]CooldownStatus, error) {
	entries, err := s.repo.ListCache(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load analytics cache")
	}
	return s.cooldownFor(entries, s.now()), nil
}

func (s *service) cooldownFor(entries []models.AnalyticsCacheEntry, now time.Time) map[enums.MetricType]CooldownStatus {
	updated := make(map[enums.MetricType]time.Time, len(entries))
	for _, entry := range entries {
		updated[entry.MetricType] = entry.UpdatedAt
	}

	out := make(map[enums.MetricType]CooldownStatus, len(enums.MetricTypes()))
	for _, metric := range enums.MetricTypes() {
		at, ok := updated[metric]
		if !ok {
			out[metric] = CooldownStatus{CanRefresh: true}
			continue
		}
		remaining := s.remaining(now, at)
		out[metric] = CooldownStatus{CanRefresh: remaining <= 0, RemainingMs: remaining.Milliseconds()}
	}
	return out
}

func (s *service) remaining(now, since time.Time) time.Duration {
	left := s.cfg.RefreshCooldown - now.Sub(since)
	if left < 0 {
		return 0
	}
	return left
}

func (s *service) RefreshAllAnalytics(ctx context.Context, triggeredBy string) (*RefreshResult, error) {
	if triggeredBy == "" {
		triggeredBy = "unknown"
	}
	ctx = s.logg.WithField(ctx, "triggered_by", triggeredBy)
	started := s.now()

	entries, err := s.repo.ListCache(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load analytics cache")
	}
	guard, err := s.repo.Guard(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load refresh guard")
	}

	var wait time.Duration
	for _, status := range s.cooldownFor(entries, started) {
		if left := time.Duration(status.RemainingMs) * time.Millisecond; left > wait {
			wait = left
		}
	}
	if guard.ClaimedAt != nil {
		if left := s.remaining(started, *guard.ClaimedAt); left > wait {
			wait = left
		}
	}
	if wait > 0 {
		return s.cooldownResult(ctx, triggeredBy, wait), nil
	}

	claimed, err := s.repo.ClaimGuard(ctx, guard.Generation, started, triggeredBy)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "claim refresh guard")
	}
	if !claimed {
		return s.cooldownResult(ctx, triggeredBy, s.cfg.RefreshCooldown), nil
	}
	claimedGeneration := guard.Generation + 1

	snapshot, totals, err := s.compute(ctx, started)
	if err != nil {
		return nil, s.fail(ctx, triggeredBy, started, guard, claimedGeneration, err)
	}

	finished := s.now()
	elapsed := finished.Sub(started)
	cacheRows, historyRows, err := s.buildRows(snapshot, started, finished, elapsed)
	if err != nil {
		return nil, s.fail(ctx, triggeredBy, started, guard, claimedGeneration, err)
	}

	meta := &models.AnalyticsMetadata{
		LastRefreshAt:          finished,
		RefreshDurationMs:      elapsed.Milliseconds(),
		TotalOrdersProcessed:   totals.orders,
		TotalExpensesProcessed: totals.expenses,
		TriggeredBy:            triggeredBy,
		Status:                 enums.RefreshStatusCompleted,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpsertCache(ctx, cacheRows); err != nil {
			return fmt.Errorf("upsert cache: %w", err)
		}
		if err := repo.InsertHistory(ctx, historyRows); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
		if err := repo.InsertMetadata(ctx, meta); err != nil {
			return fmt.Errorf("insert metadata: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, triggeredBy, started, guard, claimedGeneration, err)
	}

	if s.snapshots != nil {
		if err := s.snapshots.Invalidate(ctx); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "analytics.snapshot.invalidate_failed")
		}
	}
	if s.exporter != nil {
		if err := s.exporter.ExportHistory(ctx, historyRows); err != nil {
			s.logg.Error(ctx, "analytics.history.export_failed", err)
		}
	}

	s.metrics.ObserveMetric("all", elapsed)
	s.metrics.IncOutcome(metrics.RefreshOutcomeCompleted, triggeredBy)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"duration_ms":    elapsed.Milliseconds(),
		"orders_count":   totals.orders,
		"expenses_count": totals.expenses,
	}), "analytics.refresh.completed")

	return &RefreshResult{
		Success: true,
		Data: &RefreshData{
			Snapshot:          *snapshot,
			ComputationTimeMs: elapsed.Milliseconds(),
			RefreshedAt:       finished,
		},
	}, nil
}

func (s *service) cooldownResult(ctx context.Context, triggeredBy string, wait time.Duration) *RefreshResult {
	s.metrics.IncOutcome(metrics.RefreshOutcomeCooldown, triggeredBy)
	s.logg.Info(s.logg.WithField(ctx, "cooldown_remaining_ms", wait.Milliseconds()), "analytics.refresh.cooldown")
	return &RefreshResult{
		Success:           false,
		Error:             "analytics were refreshed recently; try again later",
		CooldownRemaining: wait.Milliseconds(),
	}
}

// fail releases the guard claim and records a failed attempt. The cache is untouched.
func (s *service) fail(ctx context.Context, triggeredBy string, started time.Time, prev *models.AnalyticsRefreshGuard, generation int64, cause error) error {
	if err := s.repo.RestoreGuard(ctx, generation, prev.ClaimedAt, prev.ClaimedBy); err != nil {
		s.logg.Error(ctx, "analytics.refresh.guard_restore_failed", err)
	}

	msg := cause.Error()
	failed := &models.AnalyticsMetadata{
		LastRefreshAt:     s.now(),
		RefreshDurationMs: s.now().Sub(started).Milliseconds(),
		TriggeredBy:       triggeredBy,
		Status:            enums.RefreshStatusFailed,
		ErrorMessage:      &msg,
	}
	if err := s.repo.InsertMetadata(ctx, failed); err != nil {
		s.logg.Error(ctx, "analytics.refresh.metadata_failed", err)
	}

	s.metrics.IncOutcome(metrics.RefreshOutcomeFailed, triggeredBy)
	s.logg.Error(ctx, "analytics.refresh.failed", cause)
	return pkgerrors.Wrap(pkgerrors.CodeInternal, cause, "refresh analytics")
}

type refreshTotals struct {
	orders   int64
	expenses int64
}

// compute runs the four aggregate groups concurrently. Nothing is written here.
func (s *service) compute(ctx context.Context, now time.Time) (*Snapshot, refreshTotals, error) {
	var (
		snapshot        Snapshot
		revenue, spend  TotalsRow
		monthlyRevenue  []MonthRow
		monthlyExpenses []MonthRow
		categories      []CategoryRow
		products        []ProductRow
	)
	since := TrendWindowStart(now, s.cfg.MonthlyTrendMonths)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer s.observe(enums.MetricNetRevenue, time.Now())
		var err error
		if revenue, err = s.repo.RevenueTotals(gctx); err != nil {
			return fmt.Errorf("net revenue: %w", err)
		}
		if spend, err = s.repo.ExpenseTotals(gctx); err != nil {
			return fmt.Errorf("net revenue: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		defer s.observe(enums.MetricMonthlyTrends, time.Now())
		var err error
		if monthlyRevenue, err = s.repo.MonthlyRevenue(gctx, since); err != nil {
			return fmt.Errorf("monthly trends: %w", err)
		}
		if monthlyExpenses, err = s.repo.MonthlyExpenses(gctx, since); err != nil {
			return fmt.Errorf("monthly trends: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		defer s.observe(enums.MetricExpenseBreakdown, time.Now())
		var err error
		if categories, err = s.repo.ExpensesByCategory(gctx); err != nil {
			return fmt.Errorf("expense breakdown: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		defer s.observe(enums.MetricTopProducts, time.Now())
		var err error
		if products, err = s.repo.TopProducts(gctx, s.cfg.TopProductsLimit); err != nil {
			return fmt.Errorf("top products: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, refreshTotals{}, err
	}

	snapshot.NetRevenue = BuildNetRevenue(revenue, spend)
	snapshot.MonthlyTrends = BuildMonthlyTrends(now, s.cfg.MonthlyTrendMonths, monthlyRevenue, monthlyExpenses)
	snapshot.ExpenseBreakdown = BuildExpenseBreakdown(categories)
	snapshot.TopProducts = BuildTopProducts(products, s.cfg.TopProductsLimit)

	return &snapshot, refreshTotals{orders: revenue.Count, expenses: spend.Count}, nil
}

func (s *service) observe(metric enums.MetricType, start time.Time) {
	s.metrics.ObserveMetric(metric.String(), time.Since(start))
}

func (s *service) buildRows(snapshot *Snapshot, started, finished time.Time, elapsed time.Duration) ([]models.AnalyticsCacheEntry, []models.AnalyticsHistory, error) {
	payloads := map[enums.MetricType]any{
		enums.MetricNetRevenue:       snapshot.NetRevenue,
		enums.MetricMonthlyTrends:    snapshot.MonthlyTrends,
		enums.MetricExpenseBreakdown: snapshot.ExpenseBreakdown,
		enums.MetricTopProducts:      snapshot.TopProducts,
	}
	trendStart := TrendWindowStart(started, s.cfg.MonthlyTrendMonths)
	periodEnd := started

	cacheRows := make([]models.AnalyticsCacheEntry, 0, len(payloads))
	historyRows := make([]models.AnalyticsHistory, 0, len(payloads))
	for _, metric := range enums.MetricTypes() {
		raw, err := json.Marshal(payloads[metric])
		if err != nil {
			return nil, nil, fmt.Errorf("encode %s: %w", metric, err)
		}
		entry := models.AnalyticsCacheEntry{
			MetricType:        metric,
			CalculatedData:    raw,
			ComputationTimeMs: elapsed.Milliseconds(),
			DataPeriodEnd:     &periodEnd,
			UpdatedAt:         finished,
		}
		if metric == enums.MetricMonthlyTrends {
			entry.DataPeriodStart = &trendStart
		}
		cacheRows = append(cacheRows, entry)
		historyRows = append(historyRows, models.AnalyticsHistory{
			MetricType:     metric,
			CalculatedData: raw,
			SnapshotDate:   finished,
		})
	}
	return cacheRows, historyRows, nil
}

func (s *service) Status(ctx context.Context) (*Status, error) {
	meta, err := s.GetRefreshMetadata(ctx)
	if err != nil {
		return nil, err
	}
	cooldown, err := s.GetCooldownStatus(ctx)
	if err != nil {
		return nil, err
	}
	last, err := s.LastSuccessfulRefresh(ctx)
	if err != nil {
		return nil, err
	}
	out := &Status{Metadata: meta, CooldownStatus: cooldown, LastRefreshed: last}
	out.IsStale = s.IsStale(out.LastRefreshed)
	return out, nil
}

func (s *service) History(ctx context.Context, metric *enums.MetricType, limit int) ([]HistoryEntry, error) {
	if metric != nil && !metric.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid metric type %q", *metric)
	}
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}
	rows, err := s.repo.ListHistory(ctx, metric, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load analytics history")
	}
	out := make([]HistoryEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, HistoryEntry{
			ID:             row.ID,
			MetricType:     row.MetricType,
			CalculatedData: row.CalculatedData,
			SnapshotDate:   row.SnapshotDate,
		})
	}
	return out, nil
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	cached, err := s.GetCachedAnalytics(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.OrderCountsByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count orders")
	}
	last, err := s.LastSuccessfulRefresh(ctx)
	if err != nil {
		return nil, err
	}

	out := &Dashboard{OrdersByStatus: map[enums.OrderStatus]int64{}, LastRefreshed: last}
	if raw, ok := cached[enums.MetricNetRevenue]; ok {
		var net NetRevenue
		if err := json.Unmarshal(raw, &net); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode net revenue")
		}
		out.NetRevenue = &net
	}
	for _, row := range counts {
		status := row.Status.Canonical()
		out.OrdersByStatus[status] += row.Count
		if status == enums.OrderStatusPaymentPending {
			out.PaymentsPending += row.Count
		}
	}
	out.IsStale = s.IsStale(out.LastRefreshed)
	return out, nil
}

func toRefreshMetadata(meta *models.AnalyticsMetadata) *RefreshMetadata {
	return &RefreshMetadata{
		LastRefreshAt:          meta.LastRefreshAt,
		RefreshDurationMs:      meta.RefreshDurationMs,
		TotalOrdersProcessed:   meta.TotalOrdersProcessed,
		TotalExpensesProcessed: meta.TotalExpensesProcessed,
		TriggeredBy:            meta.TriggeredBy,
		Status:                 meta.Status,
		ErrorMessage:           meta.ErrorMessage,
	}
}
