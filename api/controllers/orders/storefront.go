package orders

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gemvault/gemvault-backend/api/responses"
	"github.com/gemvault/gemvault-backend/api/validators"
	internalorders "github.com/gemvault/gemvault-backend/internal/orders"
	pkgerrors "github.com/gemvault/gemvault-backend/pkg/errors"
	"github.com/gemvault/gemvault-backend/pkg/logger"
)

type placeOrderRequest struct {
	CustomerName    string                          `json:"customerName" validate:"required,max=120"`
	CustomerPhone   string                          `json:"customerPhone" validate:"required,phone"`
	CustomerEmail   *string                         `json:"customerEmail" validate:"omitempty,email,max=254"`
	ShippingAddress string                          `json:"shippingAddress" validate:"required,max=500"`
	Notes           *string                         `json:"notes" validate:"omitempty,max=2000"`
	Items           []internalorders.OrderItemInput `json:"items" validate:"required,min=1,max=50,dive"`
}

func (p placeOrderRequest) toInput() internalorders.CreateOrderInput {
	return internalorders.CreateOrderInput{
		CustomerName:    validators.SanitizeString(p.CustomerName, 120),
		CustomerPhone:   strings.TrimSpace(p.CustomerPhone),
		CustomerEmail:   p.CustomerEmail,
		ShippingAddress: validators.SanitizeString(p.ShippingAddress, 500),
		Notes:           p.Notes,
		Items:           p.Items,
	}
}

// Place is storefront checkout. It responds with the order and a WhatsApp link
// the customer opens to send the confirmation to the store.
func Place(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(r, w, logg)
			return
		}
		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		placed, err := svc.PlaceOrder(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "order placed", placed)
	}
}

// Track exposes order progress when the phone matches the one on the order.
func Track(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(r, w, logg)
			return
		}
		number := strings.TrimSpace(chi.URLParam(r, "orderNumber"))
		phone := strings.TrimSpace(r.URL.Query().Get("phone"))
		if number == "" || phone == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number and phone are required"))
			return
		}
		tracking, err := svc.TrackOrder(r.Context(), number, phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tracking)
	}
}
