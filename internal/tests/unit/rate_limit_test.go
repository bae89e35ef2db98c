package unit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/teamform/wellboard/internal/middleware"
)

func TestRateLimiterBasicFunctionality(t *testing.T) {
	// Allow 2 requests per second with burst of 2
	rl := middleware.NewRateLimiter(2.0, 2)
	defer rl.Close()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	limited := rl.RateLimit(handler)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	// Burst exhausted; next request is rejected
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	w := httptest.NewRecorder()
	limited.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Rate limit exceeded")
}

func TestRateLimiterDifferentIPs(t *testing.T) {
	rl := middleware.NewRateLimiter(1.0, 1)
	defer rl.Close()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	limited := rl.RateLimit(handler)

	first := httptest.NewRequest(http.MethodGet, "/test", nil)
	first.RemoteAddr = "192.168.1.1:12345"
	w := httptest.NewRecorder()
	limited.ServeHTTP(w, first)
	assert.Equal(t, http.StatusOK, w.Code)

	// A different IP has its own bucket
	second := httptest.NewRequest(http.MethodGet, "/test", nil)
	second.RemoteAddr = "192.168.1.2:12345"
	w = httptest.NewRecorder()
	limited.ServeHTTP(w, second)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterCloseStopsCleanup(t *testing.T) {
	rl := middleware.NewRateLimiter(10.0, 10)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	limited := rl.RateLimit(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	limited.ServeHTTP(httptest.NewRecorder(), req)

	// Close waits for the cleanup goroutine, so it only returns once
	// that goroutine has exited
	closed := make(chan struct{})
	go func() {
		rl.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return; cleanup goroutine still running")
	}
}
