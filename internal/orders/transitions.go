package orders

import (
	"github.com/gemvault/gemvault-backend/pkg/db/models"
	"github.com/gemvault/gemvault-backend/pkg/enums"
	pkgerrors "github.com/gemvault/gemvault-backend/pkg/errors"
)

type transitionKey struct {
	from   enums.OrderStatus
	action enums.OrderAction
}

// transition is one allowed move. guard, when set, must hold for the move to apply.
type transition struct {
	to    enums.OrderStatus
	guard func(order *models.Order) bool
}

func paymentOutstanding(order *models.Order) bool {
	return !order.PaymentReceived
}

// transitions is keyed on canonical statuses; legacy "pending" rows are looked up as payment_pending.
var transitions = map[transitionKey]transition{
	{enums.OrderStatusPaymentPending, enums.OrderActionApprove}:        {to: enums.OrderStatusConfirmed},
	{enums.OrderStatusConfirmed, enums.OrderActionRequestPayment}:      {to: enums.OrderStatusConfirmed, guard: paymentOutstanding},
	{enums.OrderStatusPaymentPending, enums.OrderActionConfirmPayment}: {to: enums.OrderStatusProcessing, guard: paymentOutstanding},
	{enums.OrderStatusConfirmed, enums.OrderActionConfirmPayment}:      {to: enums.OrderStatusProcessing, guard: paymentOutstanding},
	{enums.OrderStatusProcessing, enums.OrderActionShip}:               {to: enums.OrderStatusShipped},
	{enums.OrderStatusShipped, enums.OrderActionDeliver}:               {to: enums.OrderStatusDelivered},
	{enums.OrderStatusPaymentPending, enums.OrderActionCancel}:         {to: enums.OrderStatusCancelled},
	{enums.OrderStatusConfirmed, enums.OrderActionCancel}:              {to: enums.OrderStatusCancelled},
	{enums.OrderStatusProcessing, enums.OrderActionCancel}:             {to: enums.OrderStatusCancelled},
	{enums.OrderStatusShipped, enums.OrderActionCancel}:                {to: enums.OrderStatusCancelled},
}

// NextStatus resolves the status order moves to under action, or a STATE_CONFLICT error.
func NextStatus(order *models.Order, action enums.OrderAction) (enums.OrderStatus, error) {
	if order == nil {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if !action.IsValid() {
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "unknown order action %q", action)
	}
	current := order.Status.Canonical()
	rule, ok := transitions[transitionKey{from: current, action: action}]
	if !ok || (rule.guard != nil && !rule.guard(order)) {
		return "", transitionRejected(order, action)
	}
	return rule.to, nil
}

// AllowedActions lists the actions that would currently succeed on order, in declaration order.
func AllowedActions(order *models.Order) []enums.OrderAction {
	out := []enums.OrderAction{}
	for _, action := range enums.OrderActions() {
		if _, err := NextStatus(order, action); err == nil {
			out = append(out, action)
		}
	}
	return out
}

func transitionRejected(order *models.Order, action enums.OrderAction) error {
	msg := "cannot " + humanAction(action) + " an order that is " + string(order.Status.Canonical())
	if order.PaymentReceived && (action == enums.OrderActionConfirmPayment || action == enums.OrderActionRequestPayment) {
		msg = "payment already received for this order"
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, msg).WithDetails(map[string]any{
		"status":          order.Status.Canonical(),
		"action":          action,
		"paymentReceived": order.PaymentReceived,
	})
}

func humanAction(action enums.OrderAction) string {
	switch action {
	case enums.OrderActionRequestPayment:
		return "request payment for"
	case enums.OrderActionConfirmPayment:
		return "confirm payment for"
	default:
		return string(action)
	}
}
