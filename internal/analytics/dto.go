package analytics

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gemvault/gemvault-backend/pkg/enums"
)

// NetRevenue is the calculated payload cached under net_revenue.
type NetRevenue struct {
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	NetRevenue        decimal.Decimal `json:"netRevenue"`
	ProfitMargin      float64         `json:"profitMargin"`
	OrderCount        int64           `json:"orderCount"`
	ExpenseCount      int64           `json:"expenseCount"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

// MonthlyTrend is one calendar month of the monthly_trends payload.
type MonthlyTrend struct {
	Month      string          `json:"month"`
	Revenue    decimal.Decimal `json:"revenue"`
	Expenses   decimal.Decimal `json:"expenses"`
	Net        decimal.Decimal `json:"net"`
	OrderCount int64           `json:"orderCount"`
}

// MonthlyTrends is the calculated payload cached under monthly_trends.
type MonthlyTrends struct {
	Months []MonthlyTrend `json:"months"`
}

type CategoryBreakdown struct {
	CategoryID   uuid.UUID       `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Color        *string         `json:"color,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Count        int64           `json:"count"`
	Percentage   float64         `json:"percentage"`
}

// ExpenseBreakdown is the calculated payload cached under expense_breakdown.
type ExpenseBreakdown struct {
	Categories []CategoryBreakdown `json:"categories"`
	GrandTotal decimal.Decimal     `json:"grandTotal"`
}

type ProductPerformance struct {
	ProductID    *uuid.UUID      `json:"productId,omitempty"`
	ProductName  string          `json:"productName"`
	SKU          string          `json:"sku"`
	QuantitySold int64           `json:"quantitySold"`
	Revenue      decimal.Decimal `json:"revenue"`
	OrderCount   int64           `json:"orderCount"`
}

// TopProducts is the calculated payload cached under top_products.
type TopProducts struct {
	Products []ProductPerformance `json:"products"`
}

// Snapshot bundles one full computation of every metric.
type Snapshot struct {
	NetRevenue       NetRevenue       `json:"netRevenue"`
	MonthlyTrends    MonthlyTrends    `json:"monthlyTrends"`
	ExpenseBreakdown ExpenseBreakdown `json:"expenseBreakdown"`
	TopProducts      TopProducts      `json:"topProducts"`
}

// CooldownStatus reports whether a metric may be recomputed yet.
type CooldownStatus struct {
	CanRefresh  bool  `json:"canRefresh"`
	RemainingMs int64 `json:"remainingMs"`
}

// RefreshData is returned by a successful refresh.
type RefreshData struct {
	Snapshot
	ComputationTimeMs int64     `json:"computationTimeMs"`
	RefreshedAt       time.Time `json:"refreshedAt"`
}

// RefreshResult is the outcome of RefreshAllAnalytics. A refresh rejected by
// the cooldown has Success=false and CooldownRemaining in milliseconds.
type RefreshResult struct {
	Success           bool         `json:"success"`
	Data              *RefreshData `json:"data,omitempty"`
	Error             string       `json:"error,omitempty"`
	CooldownRemaining int64        `json:"cooldownRemaining,omitempty"`
}

// RefreshMetadata is the public view of the latest refresh attempt.
type RefreshMetadata struct {
	LastRefreshAt          time.Time           `json:"lastRefreshAt"`
	RefreshDurationMs      int64               `json:"refreshDurationMs"`
	TotalOrdersProcessed   int64               `json:"totalOrdersProcessed"`
	TotalExpensesProcessed int64               `json:"totalExpensesProcessed"`
	TriggeredBy            string              `json:"triggeredBy"`
	Status                 enums.RefreshStatus `json:"status"`
	ErrorMessage           *string             `json:"errorMessage,omitempty"`
}

// Status combines refresh metadata and cooldown without recomputing anything.
type Status struct {
	Metadata       *RefreshMetadata                    `json:"metadata"`
	IsStale        bool                                `json:"isStale"`
	LastRefreshed  *time.Time                          `json:"lastRefreshed"`
	CooldownStatus map[enums.MetricType]CooldownStatus `json:"cooldownStatus"`
}

// HistoryEntry is one row of the snapshot audit trail.
type HistoryEntry struct {
	ID             uuid.UUID        `json:"id"`
	MetricType     enums.MetricType `json:"metricType"`
	CalculatedData json.RawMessage  `json:"calculatedData"`
	SnapshotDate   time.Time        `json:"snapshotDate"`
}

// Dashboard is the summary card set for the admin landing page.
type Dashboard struct {
	NetRevenue      *NetRevenue                 `json:"netRevenue"`
	OrdersByStatus  map[enums.OrderStatus]int64 `json:"ordersByStatus"`
	PaymentsPending int64                       `json:"paymentsPending"`
	LastRefreshed   *time.Time                  `json:"lastRefreshed"`
	IsStale         bool                        `json:"isStale"`
}
