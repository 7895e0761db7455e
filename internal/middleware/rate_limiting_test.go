package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/blogfront/internal/session"
	"github.com/2beens/blogfront/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type testRequestRateLimiter struct {
	Limits map[string]int
	Err    error
}

func (l *testRequestRateLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	if l.Err != nil {
		return nil, l.Err
	}
	allowed := l.Limits[key]
	if allowed > 0 {
		l.Limits[key]--
	}
	return &redis_rate.Result{
		Limit:      limit,
		Allowed:    allowed,
		RetryAfter: time.Second,
	}, nil
}

func TestRateLimit(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	limiter := &testRequestRateLimiter{
		Limits: map[string]int{
			"comments||10.0.0.1": 2,
			"comments||10.0.0.3": 1,
		},
	}

	calls := 0
	handler := RateLimit(limiter, "comments", 10, false, metricsManager)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
		}),
	)

	doReq := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/reader/1/blog/1/article/1/comment", nil)
		req.RemoteAddr = remoteAddr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, doReq("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, doReq("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooEarly, doReq("10.0.0.1:5002"))
	// other addresses have their own budget
	assert.Equal(t, http.StatusTooEarly, doReq("10.0.0.2:5000"))
	assert.Equal(t, http.StatusOK, doReq("10.0.0.3:5000"))
	assert.Equal(t, http.StatusTooEarly, doReq("10.0.0.3:5000"))

	assert.Equal(t, 3, calls)
	assert.Equal(t, float64(3), testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))
}

func TestRateLimit_TrustedProxyHeaders(t *testing.T) {
	limiter := &testRequestRateLimiter{
		Limits: map[string]int{"comments||1.2.3.4": 1},
	}
	handler := RateLimit(limiter, "comments", 10, true, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "127.0.0.1:4000"
	req.Header.Set("X-Real-Ip", "1.2.3.4")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooEarly, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	assert.Equal(t, "retry after 1.0 seconds", rr.Body.String())
}

func TestRateLimit_NewSessionPerRequestStillLimited(t *testing.T) {
	manager := session.NewManager(session.NewMemoryRepo(time.Hour, 1), time.Hour, false, nil)
	limiter := &testRequestRateLimiter{
		Limits: map[string]int{"comments||10.0.0.9": 1},
	}

	calls := 0
	handler := Session(manager)(RateLimit(limiter, "comments", 1, false, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
		}),
	))

	var codes []int
	tokens := map[string]bool{}
	for i := 0; i < 5; i++ {
		// no cookie: every request gets a brand new session
		req := httptest.NewRequest(http.MethodPost, "/reader/1/blog/1/article/1/comment", nil)
		req.RemoteAddr = "10.0.0.9:6000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
		for _, c := range rr.Result().Cookies() {
			if c.Name == session.CookieName {
				tokens[c.Value] = true
			}
		}
	}

	assert.Len(t, tokens, 5)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []int{
		http.StatusOK,
		http.StatusTooEarly,
		http.StatusTooEarly,
		http.StatusTooEarly,
		http.StatusTooEarly,
	}, codes)
}

func TestRateLimit_LimiterError(t *testing.T) {
	limiter := &testRequestRateLimiter{Err: errors.New("redis down")}
	handler := RateLimit(limiter, "comments", 10, false, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler must not be called")
		}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRateLimit_NilLimiter(t *testing.T) {
	called := false
	handler := RateLimit(nil, "comments", 10, false, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rr.Code)
}
