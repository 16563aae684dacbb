package orders

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/gemvault/gemvault-backend/api/responses"
	"github.com/gemvault/gemvault-backend/api/validators"
	internalorders "github.com/gemvault/gemvault-backend/internal/orders"
	pkgerrors "github.com/gemvault/gemvault-backend/pkg/errors"
	"github.com/gemvault/gemvault-backend/pkg/logger"
)

func unavailable(r *http.Request, w http.ResponseWriter, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
}

// List returns a page of orders filtered by status, payment state and search text.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(r, w, logg)
			return
		}
		input, err := parseListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListOrders(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func Get(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(r, w, logg)
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Create records an order on behalf of a customer; fees and discounts may be set.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(r, w, logg)
			return
		}
		var input internalorders.CreateOrderInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.CreateOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func Update(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(r, w, logg)
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input internalorders.UpdateOrderInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.UpdateOrder(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func Delete(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(r, w, logg)
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteOrder(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "order deleted", nil)
	}
}

// action adapts a lifecycle operation with an optional JSON body into a handler.
func action[T any](svc internalorders.Service, logg *logger.Logger, message string, run func(ctx context.Context, id uuid.UUID, input T) (*internalorders.ActionResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(r, w, logg)
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input T
		if err := decodeOptionalBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, id.String())
		}
		result, err := run(ctx, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, message, result)
	}
}

type noInput struct{}

func Approve(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return action(svc, logg, "order approved", func(ctx context.Context, id uuid.UUID, input internalorders.ApproveInput) (*internalorders.ActionResult, error) {
		return svc.Approve(ctx, id, input)
	})
}

// SendPaymentQR builds the payment request link for a confirmed, unpaid order.
func SendPaymentQR(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return action(svc, logg, "payment request ready", func(ctx context.Context, id uuid.UUID, _ noInput) (*internalorders.ActionResult, error) {
		return svc.RequestPayment(ctx, id)
	})
}

func ConfirmPayment(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return action(svc, logg, "payment confirmed", func(ctx context.Context, id uuid.UUID, _ noInput) (*internalorders.ActionResult, error) {
		return svc.ConfirmPayment(ctx, id)
	})
}

func Ship(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return action(svc, logg, "order shipped", func(ctx context.Context, id uuid.UUID, input internalorders.ShipInput) (*internalorders.ActionResult, error) {
		return svc.Ship(ctx, id, input)
	})
}

func Deliver(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return action(svc, logg, "order delivered", func(ctx context.Context, id uuid.UUID, _ noInput) (*internalorders.ActionResult, error) {
		return svc.Deliver(ctx, id)
	})
}

func Cancel(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return action(svc, logg, "order cancelled", func(ctx context.Context, id uuid.UUID, input internalorders.CancelInput) (*internalorders.ActionResult, error) {
		return svc.Cancel(ctx, id, input)
	})
}

// SendWhatsApp returns a wa.me link carrying a custom or status-derived message.
func SendWhatsApp(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(r, w, logg)
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input internalorders.WhatsAppInput
		if err := decodeOptionalBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		msg, err := svc.WhatsAppMessage(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, msg)
	}
}

// CleanupStale deletes unpaid orders older than the configured threshold.
func CleanupStale(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(r, w, logg)
			return
		}
		result, err := svc.DeleteStaleOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "stale orders removed", result)
	}
}
