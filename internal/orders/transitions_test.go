package orders

import (
	"testing"

	"github.com/gemvault/gemvault-backend/pkg/db/models"
	"github.com/gemvault/gemvault-backend/pkg/enums"
	pkgerrors "github.com/gemvault/gemvault-backend/pkg/errors"
)

func TestNextStatusAllowedMoves(t *testing.T) {
	cases := []struct {
		name    string
		status  enums.OrderStatus
		paid    bool
		action  enums.OrderAction
		expects enums.OrderStatus
	}{
		{"approve payment pending", enums.OrderStatusPaymentPending, false, enums.OrderActionApprove, enums.OrderStatusConfirmed},
		{"approve legacy pending", enums.OrderStatusPending, false, enums.OrderActionApprove, enums.OrderStatusConfirmed},
		{"request payment", enums.OrderStatusConfirmed, false, enums.OrderActionRequestPayment, enums.OrderStatusConfirmed},
		{"confirm from pending", enums.OrderStatusPending, false, enums.OrderActionConfirmPayment, enums.OrderStatusProcessing},
		{"confirm from confirmed", enums.OrderStatusConfirmed, false, enums.OrderActionConfirmPayment, enums.OrderStatusProcessing},
		{"ship", enums.OrderStatusProcessing, true, enums.OrderActionShip, enums.OrderStatusShipped},
		{"deliver", enums.OrderStatusShipped, true, enums.OrderActionDeliver, enums.OrderStatusDelivered},
		{"cancel shipped", enums.OrderStatusShipped, true, enums.OrderActionCancel, enums.OrderStatusCancelled},
		{"cancel pending", enums.OrderStatusPending, false, enums.OrderActionCancel, enums.OrderStatusCancelled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := &models.Order{Status: tc.status, PaymentReceived: tc.paid}
			next, err := NextStatus(order, tc.action)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if next != tc.expects {
				t.Fatalf("expected %s got %s", tc.expects, next)
			}
		})
	}
}

func TestNextStatusRejectsUnlistedPairs(t *testing.T) {
	allowed := map[transitionKey]bool{}
	for key := range transitions {
		allowed[key] = true
	}
	statuses := []enums.OrderStatus{
		enums.OrderStatusPaymentPending,
		enums.OrderStatusConfirmed,
		enums.OrderStatusProcessing,
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
		enums.OrderStatusCancelled,
	}
	for _, status := range statuses {
		for _, action := range enums.OrderActions() {
			if allowed[transitionKey{from: status, action: action}] {
				continue
			}
			_, err := NextStatus(&models.Order{Status: status}, action)
			if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
				t.Fatalf("%s/%s: expected state conflict, got %v", status, action, err)
			}
		}
	}
}

func TestNextStatusGuardsOnPaymentReceived(t *testing.T) {
	order := &models.Order{Status: enums.OrderStatusConfirmed, PaymentReceived: true}
	for _, action := range []enums.OrderAction{enums.OrderActionConfirmPayment, enums.OrderActionRequestPayment} {
		_, err := NextStatus(order, action)
		if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
			t.Fatalf("%s: expected state conflict, got %v", action, err)
		}
	}
}

func TestNextStatusUnknownAction(t *testing.T) {
	_, err := NextStatus(&models.Order{Status: enums.OrderStatusConfirmed}, "refund")
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAllowedActions(t *testing.T) {
	got := AllowedActions(&models.Order{Status: enums.OrderStatusConfirmed})
	want := []enums.OrderAction{enums.OrderActionRequestPayment, enums.OrderActionConfirmPayment, enums.OrderActionCancel}
	if len(got) != len(want) {
		t.Fatalf("expected %v got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v got %v", want, got)
		}
	}

	if len(AllowedActions(&models.Order{Status: enums.OrderStatusDelivered})) != 0 {
		t.Fatalf("delivered orders accept no actions")
	}
}
