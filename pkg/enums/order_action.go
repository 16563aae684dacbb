package enums

import (
	"fmt"
	"strings"
)

// OrderAction is an admin operation that may move an order between statuses.
type OrderAction string

const (
	OrderActionApprove        OrderAction = "approve"
	OrderActionRequestPayment OrderAction = "request_payment"
	OrderActionConfirmPayment OrderAction = "confirm_payment"
	OrderActionShip           OrderAction = "ship"
	OrderActionDeliver        OrderAction = "deliver"
	OrderActionCancel         OrderAction = "cancel"
)

var validOrderActions = []OrderAction{
	OrderActionApprove,
	OrderActionRequestPayment,
	OrderActionConfirmPayment,
	OrderActionShip,
	OrderActionDeliver,
	OrderActionCancel,
}

func (a OrderAction) String() string {
	return string(a)
}

func (a OrderAction) IsValid() bool {
	for _, candidate := range validOrderActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// OrderActions lists every action in declaration order.
func OrderActions() []OrderAction {
	out := make([]OrderAction, len(validOrderActions))
	copy(out, validOrderActions)
	return out
}

func ParseOrderAction(value string) (OrderAction, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validOrderActions {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order action %q", value)
}
