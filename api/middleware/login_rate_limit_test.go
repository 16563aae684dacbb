package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/gemvault/gemvault-backend/pkg/errors"
	redisclient "github.com/gemvault/gemvault-backend/pkg/redis"
)

func newLimiterStore(t *testing.T) (*redisclient.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	return redisclient.Wrap(raw, "test"), mr
}

func loginRequest(email, ip string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", strings.NewReader(`{"email":"`+email+`","password":"secret"}`))
	req.RemoteAddr = ip + ":5678"
	return req
}

func TestLoginRateLimitPreservesBody(t *testing.T) {
	store, _ := newLimiterStore(t)
	policy := LoginRateLimitPolicy{Window: time.Minute, IPLimit: 5, EmailLimit: 5}
	handler := LoginRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Contains(t, string(body), `"email":"owner@gemvault.test"`)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("owner@gemvault.test", "1.2.3.4"))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRateLimitBlocksAfterEmailLimit(t *testing.T) {
	store, mr := newLimiterStore(t)
	policy := LoginRateLimitPolicy{Window: time.Minute, EmailLimit: 2}
	handler := LoginRateLimit(policy, store, nil)(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		// case and whitespace variations count against the same address
		handler.ServeHTTP(rec, loginRequest(" Owner@GemVault.test", "10.0.0."+string(rune('1'+i))))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("owner@gemvault.test", "10.0.0.9"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "60", rec.Header().Get("Retry-After"))

	var payload struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.False(t, payload.Success)
	require.Equal(t, string(pkgerrors.CodeRateLimit), payload.Code)

	mr.FastForward(2 * time.Minute)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("owner@gemvault.test", "10.0.0.9"))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRateLimitBlocksAfterIPLimit(t *testing.T) {
	store, _ := newLimiterStore(t)
	policy := LoginRateLimitPolicy{Window: time.Minute, IPLimit: 1}
	handler := LoginRateLimit(policy, store, nil)(okHandler())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, loginRequest("a@gemvault.test", "5.6.7.8"))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, loginRequest("b@gemvault.test", "5.6.7.8"))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestLoginRateLimitDisabledPassesThrough(t *testing.T) {
	handler := LoginRateLimit(LoginRateLimitPolicy{}, nil, nil)(okHandler())
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("a@gemvault.test", "5.6.7.8"))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitByIP(t *testing.T) {
	handler := RateLimitByIP(2, nil)(okHandler())
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = "9.9.9.9:1000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
