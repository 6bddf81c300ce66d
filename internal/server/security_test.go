package server

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthMiddleware(t *testing.T) {
	const apiKey = "s3cret"
	h := AuthMiddleware(apiKey, nil, NewActivityDetector(0))(okHandler)

	tests := []struct {
		name   string
		path   string
		key    string
		status int
	}{
		{"valid key", "/api/v1/tournaments", apiKey, http.StatusOK},
		{"missing key", "/api/v1/tournaments", "", http.StatusUnauthorized},
		{"wrong key", "/api/v1/tournaments", "nope", http.StatusUnauthorized},
		{"health bypass", "/healthz", "", http.StatusOK},
		{"metrics bypass", "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.key != "" {
				req.Header.Set(HeaderAPIKey, tt.key)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAuthMiddleware_EmptyConfiguredKeyRejectsEverything(t *testing.T) {
	h := AuthMiddleware("", nil, nil)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tournaments", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestActivityDetector_LimitsPerIP(t *testing.T) {
	d := NewActivityDetector(3)

	for i := 0; i < 3; i++ {
		assert.True(t, d.Allow("10.0.0.1"))
	}
	assert.False(t, d.Allow("10.0.0.1"))
	assert.True(t, d.Allow("10.0.0.2"), "limits are per client")
}

func TestActivityDetector_WindowResets(t *testing.T) {
	d := NewActivityDetector(1)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }
	d.windowStart = now

	assert.True(t, d.Allow("10.0.0.1"))
	assert.False(t, d.Allow("10.0.0.1"))

	now = now.Add(RateWindow + time.Second)
	assert.True(t, d.Allow("10.0.0.1"))
}

func TestActivityDetector_Concurrent(t *testing.T) {
	d := NewActivityDetector(1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				d.Allow("10.0.0.1")
				d.RecordFailedAuth("10.0.0.1")
			}
		}()
	}
	wg.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	assert.Equal(t, 500, d.requests["10.0.0.1"])
	assert.Equal(t, 500, d.failedAuth["10.0.0.1"])
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimitMiddleware(nil, NewActivityDetector(2))(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tournaments", nil)
		req.RemoteAddr = "192.0.2.7:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.1.1:4000"
	req.Header.Set(HeaderForwardedFor, "203.0.113.9, 198.51.100.4")

	assert.Equal(t, "10.1.1.1", clientIP(req, nil), "untrusted peer cannot spoof")
	assert.Equal(t, "198.51.100.4", clientIP(req, []string{"10.1.1.1"}))
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeadersMiddleware()(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
	assert.Equal(t, HeaderValueDeny, rec.Header().Get(HeaderFrameOptions))
	assert.Equal(t, HeaderValueReferrerNoReferrer, rec.Header().Get(HeaderReferrerPolicy))
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	var readErr error
	h := RequestSizeLimitMiddleware(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		for readErr == nil {
			_, readErr = r.Body.Read(buf)
		}
	}))

	req := httptest.NewRequest(http.MethodPost, "/", stringsReader("this body is longer than eight bytes"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Error(t, readErr)
	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, readErr, &maxErr)
}
