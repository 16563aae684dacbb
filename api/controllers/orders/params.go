package orders

import (
	"net/http"
	"strings"

	"github.com/gemvault/gemvault-backend/api/validators"
	internalorders "github.com/gemvault/gemvault-backend/internal/orders"
	"github.com/gemvault/gemvault-backend/pkg/enums"
	pkgerrors "github.com/gemvault/gemvault-backend/pkg/errors"
	"github.com/gemvault/gemvault-backend/pkg/pagination"
)

const maxSearchLen = 120

func parseListInput(r *http.Request) (internalorders.ListOrdersInput, error) {
	var input internalorders.ListOrdersInput

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return input, err
	}
	input.Pagination = pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status := enums.OrderStatus(strings.ToLower(raw))
		if !status.IsValid() {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "invalid status").WithDetails(map[string]any{"field": "status"})
		}
		input.Status = &status
	}

	paid, err := validators.ParseQueryBool(r, "paymentReceived")
	if err != nil {
		return input, err
	}
	input.PaymentReceived = paid
	input.Query = validators.SanitizeString(r.URL.Query().Get("q"), maxSearchLen)
	return input, nil
}

// decodeOptionalBody validates dest as-is when the request carries no body.
func decodeOptionalBody(r *http.Request, dest any) error {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return validators.Struct(dest)
	}
	return validators.DecodeJSONBody(r, dest)
}
