package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "bizsuite/pkg/domain"
	"bizsuite/pkg/platform/httputil"
	"bizsuite/pkg/testutil"
)

func TestMemoryStore_SlidingWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	for i := range 3 {
		res, err := store.Allow(ctx, "k", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
		now = now.Add(10 * time.Second)
	}

	res, err := store.Allow(ctx, "k", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 30, res.RetryAfter, "oldest request leaves the window at +60s")

	other, err := store.Allow(ctx, "other", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, other.Allowed, "keys are independent")

	now = now.Add(31 * time.Second)
	res, err = store.Allow(ctx, "k", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
}

type stubLimiter struct {
	result Result
	err    error
	keys   []string
}

func (s *stubLimiter) Allow(_ context.Context, key string, _ int, _ time.Duration) (Result, error) {
	s.keys = append(s.keys, key)
	return s.result, s.err
}

func serve(t *testing.T, limiter Limiter, limit int, tenant id.TenantID) *httptest.ResponseRecorder {
	t.Helper()
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := PerTenant(limiter, limit, time.Minute, discard)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	req := testutil.WithTenant(testutil.NewJSONRequest(t, http.MethodPost, "/internal/events", nil), tenant)
	return testutil.DoRequest(h, req)
}

func TestPerTenant(t *testing.T) {
	tenant := id.TenantID(uuid.New())

	t.Run("allowed sets headers", func(t *testing.T) {
		limiter := &stubLimiter{result: Result{Allowed: true, Limit: 10, Remaining: 9, ResetAt: time.Unix(1700000000, 0)}}
		rec := serve(t, limiter, 10, tenant)
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "9", rec.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, "1700000000", rec.Header().Get("X-RateLimit-Reset"))
		assert.Equal(t, []string{"tenant:" + tenant.String()}, limiter.keys)
	})

	t.Run("denied", func(t *testing.T) {
		limiter := &stubLimiter{result: Result{Allowed: false, Limit: 10, RetryAfter: 12}}
		rec := serve(t, limiter, 10, tenant)
		testutil.AssertStatusAndError(t, rec, http.StatusTooManyRequests, httputil.CodeRateLimited)
		assert.Equal(t, "12", rec.Header().Get("Retry-After"))
	})

	t.Run("limiter error fails open", func(t *testing.T) {
		rec := serve(t, &stubLimiter{err: errors.New("redis: connection refused")}, 10, tenant)
		assert.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("zero limit disables", func(t *testing.T) {
		limiter := &stubLimiter{}
		rec := serve(t, limiter, 0, tenant)
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Empty(t, limiter.keys)
	})
}
