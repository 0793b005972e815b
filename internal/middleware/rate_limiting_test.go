package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/vibefit/internal/session"
	"github.com/2beens/vibefit/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRateLimiter struct {
	allowed map[string]int
	err     error
	keys    []string
}

func (l *testRateLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	l.keys = append(l.keys, key)
	if l.err != nil {
		return nil, l.err
	}
	if l.allowed[key] >= limit.Rate {
		return &redis_rate.Result{Limit: limit, Allowed: 0, RetryAfter: 1500 * time.Millisecond}, nil
	}
	l.allowed[key]++
	return &redis_rate.Result{Limit: limit, Allowed: 1, Remaining: limit.Rate - l.allowed[key]}, nil
}

func TestRateLimit(t *testing.T) {
	limiter := &testRateLimiter{allowed: map[string]int{}}
	metricsManager := metrics.NewTestManager()
	handler := RateLimit(limiter, metricsManager, "coach", 2)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	request := func(sessionID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/chat", nil)
		if sessionID != "" {
			req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sessionID})
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusNoContent, request("s1").Code)
	assert.Equal(t, http.StatusNoContent, request("s1").Code)

	limited := request("s1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "2", limited.Header().Get("Retry-After"))

	// other sessions have their own bucket
	assert.Equal(t, http.StatusNoContent, request("s2").Code)
	assert.Equal(t, http.StatusNoContent, request("").Code)

	require.Len(t, limiter.keys, 5)
	assert.Equal(t, "coach||s1", limiter.keys[0])
	assert.Equal(t, "coach||s2", limiter.keys[3])
	assert.Equal(t, "coach", limiter.keys[4])
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))
}

func TestRateLimit_LimiterError(t *testing.T) {
	limiter := &testRateLimiter{err: errors.New("redis down")}
	called := false
	handler := RateLimit(limiter, metrics.NewTestManager(), "coach", 10)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/chat", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.False(t, called)
}
