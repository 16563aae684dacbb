package analytics

import (
	"net/http"
	"strings"

	"github.com/gemvault/gemvault-backend/api/middleware"
	"github.com/gemvault/gemvault-backend/pkg/enums"
	pkgerrors "github.com/gemvault/gemvault-backend/pkg/errors"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

func parseMetricType(r *http.Request) (*enums.MetricType, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("metricType"))
	if raw == "" {
		return nil, nil
	}
	metric, err := enums.ParseMetricType(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid metricType").WithDetails(map[string]any{"field": "metricType"})
	}
	return &metric, nil
}

// triggeredBy attributes a manual refresh to the authenticated admin.
func triggeredBy(r *http.Request) string {
	if id := middleware.AdminIDFromContext(r.Context()); id != "" {
		return "admin:" + id
	}
	return "admin"
}

// remainingMinutes rounds a cooldown up so a client never retries too early.
func remainingMinutes(ms int64) int64 {
	if ms <= 0 {
		return 0
	}
	return (ms + 59999) / 60000
}
