package instance

import "testing"

func TestGetIDPrefersEnv(t *testing.T) {
	t.Setenv("GEMVAULT_INSTANCE_ID", "api-7")
	if got := GetID(); got != "api-7" {
		t.Fatalf("expected api-7 got %q", got)
	}
}

func TestGetIDFallsBack(t *testing.T) {
	t.Setenv("GEMVAULT_INSTANCE_ID", "")
	if got := GetID(); got == "" {
		t.Fatalf("expected non-empty fallback id")
	}
}
