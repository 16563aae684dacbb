package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gemvault/gemvault-backend/pkg/db"
	"github.com/gemvault/gemvault-backend/pkg/db/models"
	"github.com/gemvault/gemvault-backend/pkg/enums"
)

const guardRowID = 1

// Repository is the persistence surface of the analytics service.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListCache(ctx context.Context) ([]models.AnalyticsCacheEntry, error)
	UpsertCache(ctx context.Context, entries []models.AnalyticsCacheEntry) error
	LatestMetadata(ctx context.Context) (*models.AnalyticsMetadata, error)
	LatestSuccessfulMetadata(ctx context.Context) (*models.AnalyticsMetadata, error)
	InsertMetadata(ctx context.Context, meta *models.AnalyticsMetadata) error
	InsertHistory(ctx context.Context, rows []models.AnalyticsHistory) error
	ListHistory(ctx context.Context, metric *enums.MetricType, limit int) ([]models.AnalyticsHistory, error)

	Guard(ctx context.Context) (*models.AnalyticsRefreshGuard, error)
	ClaimGuard(ctx context.Context, generation int64, at time.Time, by string) (bool, error)
	RestoreGuard(ctx context.Context, generation int64, claimedAt *time.Time, claimedBy *string) error

	RevenueTotals(ctx context.Context) (TotalsRow, error)
	ExpenseTotals(ctx context.Context) (TotalsRow, error)
	MonthlyRevenue(ctx context.Context, since time.Time) ([]MonthRow, error)
	MonthlyExpenses(ctx context.Context, since time.Time) ([]MonthRow, error)
	ExpensesByCategory(ctx context.Context) ([]CategoryRow, error)
	TopProducts(ctx context.Context, limit int) ([]ProductRow, error)
	OrderCountsByStatus(ctx context.Context) ([]StatusCountRow, error)
}

// TotalsRow is a raw sum/count aggregate.
type TotalsRow struct {
	Total decimal.Decimal
	Count int64
}

type MonthRow struct {
	Month string
	Total decimal.Decimal
	Count int64
}

type CategoryRow struct {
	CategoryID   uuid.UUID
	CategoryName string
	Color        *string
	Total        decimal.Decimal
	Count        int64
}

type ProductRow struct {
	ProductID    *uuid.UUID
	ProductName  string
	SKU          string
	QuantitySold int64
	Revenue      decimal.Decimal
	OrderCount   int64
}

type StatusCountRow struct {
	Status enums.OrderStatus
	Count  int64
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an analytics repository bound to the provided DB.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListCache(ctx context.Context) ([]models.AnalyticsCacheEntry, error) {
	var entries []models.AnalyticsCacheEntry
	if err := r.db.WithContext(ctx).Order("metric_type ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) UpsertCache(ctx context.Context, entries []models.AnalyticsCacheEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "metric_type"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"calculated_data",
				"computation_time_ms",
				"data_period_start",
				"data_period_end",
				"updated_at",
			}),
		}).
		Create(&entries).Error
}

// LatestMetadata returns nil when no refresh has ever been recorded.
func (r *repository) LatestMetadata(ctx context.Context) (*models.AnalyticsMetadata, error) {
	return r.latestMetadata(r.db.WithContext(ctx))
}

// LatestSuccessfulMetadata ignores failed attempts; nil when no refresh ever completed.
func (r *repository) LatestSuccessfulMetadata(ctx context.Context) (*models.AnalyticsMetadata, error) {
	return r.latestMetadata(r.db.WithContext(ctx).Where("status = ?", enums.RefreshStatusCompleted))
}

func (r *repository) latestMetadata(query *gorm.DB) (*models.AnalyticsMetadata, error) {
	var meta models.AnalyticsMetadata
	err := query.
		Order("last_refresh_at DESC").
		Order("created_at DESC").
		First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

func (r *repository) InsertMetadata(ctx context.Context, meta *models.AnalyticsMetadata) error {
	return r.db.WithContext(ctx).Create(meta).Error
}

func (r *repository) InsertHistory(ctx context.Context, rows []models.AnalyticsHistory) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) ListHistory(ctx context.Context, metric *enums.MetricType, limit int) ([]models.AnalyticsHistory, error) {
	query := r.db.WithContext(ctx).Model(&models.AnalyticsHistory{})
	if metric != nil {
		query = query.Where("metric_type = ?", *metric)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []models.AnalyticsHistory
	if err := query.Order("snapshot_date DESC").Order("metric_type ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Guard(ctx context.Context) (*models.AnalyticsRefreshGuard, error) {
	var guard models.AnalyticsRefreshGuard
	if err := r.db.WithContext(ctx).Where("id = ?", guardRowID).First(&guard).Error; err != nil {
		return nil, err
	}
	return &guard, nil
}

// ClaimGuard bumps the guard generation only if it still equals generation.
// It reports false when another caller claimed the guard first.
func (r *repository) ClaimGuard(ctx context.Context, generation int64, at time.Time, by string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.AnalyticsRefreshGuard{}).
		Where("id = ? AND generation = ?", guardRowID, generation).
		Updates(map[string]any{
			"generation": gorm.Expr("generation + 1"),
			"claimed_at": at,
			"claimed_by": by,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RestoreGuard puts back the previous claim, provided nobody claimed since generation.
func (r *repository) RestoreGuard(ctx context.Context, generation int64, claimedAt *time.Time, claimedBy *string) error {
	return r.db.WithContext(ctx).
		Model(&models.AnalyticsRefreshGuard{}).
		Where("id = ? AND generation = ?", guardRowID, generation).
		Updates(map[string]any{
			"claimed_at": claimedAt,
			"claimed_by": claimedBy,
		}).Error
}

func (r *repository) RevenueTotals(ctx context.Context) (TotalsRow, error) {
	var row TotalsRow
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Where("status IN ?", enums.RevenueOrderStatuses).
		Scan(&row).Error
	return row, err
}

func (r *repository) ExpenseTotals(ctx context.Context) (TotalsRow, error) {
	var row TotalsRow
	err := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Scan(&row).Error
	return row, err
}

func (r *repository) MonthlyRevenue(ctx context.Context, since time.Time) ([]MonthRow, error) {
	bucket := db.MonthBucket(r.db, "created_at")
	var rows []MonthRow
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select(bucket+" AS month, COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Where("status IN ? AND created_at >= ?", enums.RevenueOrderStatuses, since).
		Group(bucket).
		Order("month ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) MonthlyExpenses(ctx context.Context, since time.Time) ([]MonthRow, error) {
	bucket := db.MonthBucket(r.db, "expense_date")
	var rows []MonthRow
	err := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Select(bucket+" AS month, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("expense_date >= ?", since).
		Group(bucket).
		Order("month ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) ExpensesByCategory(ctx context.Context) ([]CategoryRow, error) {
	var rows []CategoryRow
	err := r.db.WithContext(ctx).
		Table("expenses AS e").
		Select(`c.id AS category_id, c.name AS category_name, c.color AS color,
			COALESCE(SUM(e.amount), 0) AS total, COUNT(e.id) AS count`).
		Joins("JOIN expense_categories AS c ON c.id = e.category_id").
		Group("c.id, c.name, c.color").
		Order("total DESC").
		Order("c.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) TopProducts(ctx context.Context, limit int) ([]ProductRow, error) {
	query := r.db.WithContext(ctx).
		Table("order_items AS oi").
		Select(`oi.product_id AS product_id, MAX(oi.product_name) AS product_name, oi.product_sku AS sku,
			COALESCE(SUM(oi.quantity), 0) AS quantity_sold, COALESCE(SUM(oi.line_total), 0) AS revenue,
			COUNT(DISTINCT oi.order_id) AS order_count`).
		Joins("JOIN orders AS o ON o.id = oi.order_id").
		Where("o.status IN ?", enums.RevenueOrderStatuses).
		Group("oi.product_id, oi.product_sku").
		Order("quantity_sold DESC").
		Order("revenue DESC").
		Order("sku ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []ProductRow
	err := query.Scan(&rows).Error
	return rows, err
}

func (r *repository) OrderCountsByStatus(ctx context.Context) ([]StatusCountRow, error) {
	var rows []StatusCountRow
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}
