package analytics

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gemvault/gemvault-backend/api/responses"
	"github.com/gemvault/gemvault-backend/api/validators"
	internalanalytics "github.com/gemvault/gemvault-backend/internal/analytics"
	"github.com/gemvault/gemvault-backend/pkg/enums"
	pkgerrors "github.com/gemvault/gemvault-backend/pkg/errors"
	"github.com/gemvault/gemvault-backend/pkg/logger"
	"github.com/gemvault/gemvault-backend/pkg/types"
)

type cachedAnalyticsResponse struct {
	NetRevenue       json.RawMessage                                       `json:"netRevenue"`
	MonthlyTrends    json.RawMessage                                       `json:"monthlyTrends"`
	ExpenseBreakdown json.RawMessage                                       `json:"expenseBreakdown"`
	TopProducts      json.RawMessage                                       `json:"topProducts"`
	IsStale          bool                                                  `json:"isStale"`
	LastRefreshed    *time.Time                                            `json:"lastRefreshed"`
	CooldownStatus   map[enums.MetricType]internalanalytics.CooldownStatus `json:"cooldownStatus"`
}

func rawOrNull(payload json.RawMessage) json.RawMessage {
	if len(payload) == 0 {
		return json.RawMessage("null")
	}
	return payload
}

// Get returns the cached metrics without recomputing, plus freshness and cooldown state.
func Get(svc internalanalytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		cached, err := svc.GetCachedAnalytics(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := svc.Status(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := cachedAnalyticsResponse{
			NetRevenue:       rawOrNull(cached[enums.MetricNetRevenue]),
			MonthlyTrends:    rawOrNull(cached[enums.MetricMonthlyTrends]),
			ExpenseBreakdown: rawOrNull(cached[enums.MetricExpenseBreakdown]),
			TopProducts:      rawOrNull(cached[enums.MetricTopProducts]),
			IsStale:          status.IsStale,
			LastRefreshed:    status.LastRefreshed,
			CooldownStatus:   status.CooldownStatus,
		}
		responses.WriteSuccess(w, resp)
	}
}

// Refresh recomputes every metric. A refresh inside the cooldown window answers
// 429 with the time left instead of an error code body.
func Refresh(svc internalanalytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		result, err := svc.RefreshAllAnalytics(r.Context(), triggeredBy(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !result.Success {
			responses.WriteJSON(w, http.StatusTooManyRequests, types.CooldownEnvelope{
				Success:           false,
				Error:             result.Error,
				Code:              string(pkgerrors.CodeRateLimit),
				CooldownRemaining: result.CooldownRemaining,
				RemainingMinutes:  remainingMinutes(result.CooldownRemaining),
			})
			return
		}
		responses.WriteMessage(w, http.StatusOK, "analytics refreshed", result.Data)
	}
}

// Status reports refresh metadata and cooldowns without recomputation.
func Status(svc internalanalytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}
		status, err := svc.Status(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// History lists snapshot rows, newest first, optionally narrowed to one metric.
func History(svc internalanalytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}
		metric, err := parseMetricType(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", defaultHistoryLimit, 1, maxHistoryLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries, err := svc.History(r.Context(), metric, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

func Dashboard(svc internalanalytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}
		dashboard, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}
