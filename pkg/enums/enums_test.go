package enums

import "testing"

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus(" Payment_Pending ")
	if err != nil || status != OrderStatusPaymentPending {
		t.Fatalf("expected payment_pending, got %q err=%v", status, err)
	}
	if _, err := ParseOrderStatus("lost"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestOrderStatusCanonical(t *testing.T) {
	if OrderStatusPending.Canonical() != OrderStatusPaymentPending {
		t.Fatalf("pending should fold into payment_pending")
	}
	if OrderStatusShipped.Canonical() != OrderStatusShipped {
		t.Fatalf("other statuses are unchanged")
	}
	if !OrderStatusDelivered.IsTerminal() || !OrderStatusCancelled.IsTerminal() || OrderStatusShipped.IsTerminal() {
		t.Fatalf("unexpected terminal classification")
	}
}

func TestMetricTypesAreStable(t *testing.T) {
	got := MetricTypes()
	want := []MetricType{MetricNetRevenue, MetricMonthlyTrends, MetricExpenseBreakdown, MetricTopProducts}
	if len(got) != len(want) {
		t.Fatalf("expected %d metric types, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] || !got[i].IsValid() {
			t.Fatalf("metric %d: expected %s got %s", i, want[i], got[i])
		}
	}
	got[0] = "mutated"
	if MetricTypes()[0] != MetricNetRevenue {
		t.Fatalf("MetricTypes must return a copy")
	}
}

func TestParseProductCategory(t *testing.T) {
	if c, err := ParseProductCategory("RINGS"); err != nil || c != ProductCategoryRings {
		t.Fatalf("expected rings, got %q err=%v", c, err)
	}
	if _, err := ParseProductCategory("watches"); err == nil {
		t.Fatalf("expected error")
	}
}
