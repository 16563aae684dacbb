package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gemvault/gemvault-backend/pkg/enums"
)

// AnalyticsCacheEntry holds the latest computed payload for one metric type.
// There is exactly one row per metric type; refreshes overwrite it.
type AnalyticsCacheEntry struct {
	MetricType        enums.MetricType `gorm:"column:metric_type;type:text;primaryKey"`
	CalculatedData    json.RawMessage  `gorm:"column:calculated_data;type:jsonb;serializer:json;not null"`
	ComputationTimeMs int64            `gorm:"column:computation_time_ms;not null;default:0"`
	DataPeriodStart   *time.Time       `gorm:"column:data_period_start"`
	DataPeriodEnd     *time.Time       `gorm:"column:data_period_end"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (AnalyticsCacheEntry) TableName() string { return "analytics_cache" }

// AnalyticsMetadata records one refresh attempt. Only the newest row drives staleness.
type AnalyticsMetadata struct {
	ID                     uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	LastRefreshAt          time.Time           `gorm:"column:last_refresh_at;not null;index"`
	RefreshDurationMs      int64               `gorm:"column:refresh_duration_ms;not null"`
	TotalOrdersProcessed   int64               `gorm:"column:total_orders_processed;not null"`
	TotalExpensesProcessed int64               `gorm:"column:total_expenses_processed;not null"`
	TriggeredBy            string              `gorm:"column:triggered_by;not null"`
	Status                 enums.RefreshStatus `gorm:"column:status;type:text;not null"`
	ErrorMessage           *string             `gorm:"column:error_message"`
	CreatedAt              time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (AnalyticsMetadata) TableName() string { return "analytics_metadata" }

func (m *AnalyticsMetadata) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// AnalyticsHistory is the append-only trail of computed snapshots.
type AnalyticsHistory struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	MetricType     enums.MetricType `gorm:"column:metric_type;type:text;not null;index"`
	CalculatedData json.RawMessage  `gorm:"column:calculated_data;type:jsonb;serializer:json;not null"`
	SnapshotDate   time.Time        `gorm:"column:snapshot_date;not null"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
}

func (AnalyticsHistory) TableName() string { return "analytics_history" }

func (h *AnalyticsHistory) BeforeCreate(*gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// AnalyticsRefreshGuard is the single row refreshes claim by compare-and-swap on Generation.
type AnalyticsRefreshGuard struct {
	ID         int        `gorm:"column:id;primaryKey"`
	Generation int64      `gorm:"column:generation;not null"`
	ClaimedAt  *time.Time `gorm:"column:claimed_at"`
	ClaimedBy  *string    `gorm:"column:claimed_by"`
}

func (AnalyticsRefreshGuard) TableName() string { return "analytics_refresh_guard" }
