package enums

import "fmt"

// MetricType names one of the cached analytics aggregates.
type MetricType string

const (
	MetricNetRevenue       MetricType = "net_revenue"
	MetricMonthlyTrends    MetricType = "monthly_trends"
	MetricExpenseBreakdown MetricType = "expense_breakdown"
	MetricTopProducts      MetricType = "top_products"
)

var validMetricTypes = []MetricType{
	MetricNetRevenue,
	MetricMonthlyTrends,
	MetricExpenseBreakdown,
	MetricTopProducts,
}

// MetricTypes returns every metric in refresh order.
func MetricTypes() []MetricType {
	out := make([]MetricType, len(validMetricTypes))
	copy(out, validMetricTypes)
	return out
}

func (m MetricType) String() string {
	return string(m)
}

func (m MetricType) IsValid() bool {
	for _, candidate := range validMetricTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

func ParseMetricType(value string) (MetricType, error) {
	for _, candidate := range validMetricTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid metric type %q", value)
}
