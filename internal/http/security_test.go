package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiterWindow(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()
	metrics := &securityMetrics{}

	for i := 0; i < writesPerWindow; i++ {
		if !rl.allow("10.0.0.1", metrics) {
			t.Fatalf("request %d blocked below the limit", i+1)
		}
	}
	if rl.allow("10.0.0.1", metrics) {
		t.Fatal("request over the limit was allowed")
	}
	if metrics.rateLimitHits != 1 {
		t.Errorf("rateLimitHits = %d, want 1", metrics.rateLimitHits)
	}

	// Other clients keep their own budget.
	if !rl.allow("10.0.0.2", metrics) {
		t.Error("fresh client blocked")
	}
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	rl := newRateLimiter()
	rl.stop()
	rl.stop()
}

func TestDetectSuspiciousRequest(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		userAgent  string
		suspicious bool
	}{
		{"plain api call", "/expenses", "curl/8.5.0", false},
		{"script client", "/analytics/monthly", "python-requests/2.31", false},
		{"path traversal", "/expenses/../../etc/passwd", "curl/8.5.0", true},
		{"php probe", "/wp-admin/admin.php", "Mozilla/5.0", true},
		{"sql injection in query", "/expenses?q=union%20select", "Mozilla/5.0", true},
		{"scanner agent", "/expenses", "sqlmap/1.7", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := &securityMetrics{}
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			r.Header.Set("User-Agent", tt.userAgent)
			if got := detectSuspiciousRequest(r, metrics); got != tt.suspicious {
				t.Errorf("detectSuspiciousRequest(%q, %q) = %v, want %v", tt.target, tt.userAgent, got, tt.suspicious)
			}
		})
	}
}

func TestExtractClientIPHonorsTrustedProxiesOnly(t *testing.T) {
	trusted := httptest.NewRequest(http.MethodGet, "/expenses", nil)
	trusted.RemoteAddr = "127.0.0.1:4321"
	trusted.Header.Set("X-Forwarded-For", "203.0.113.7")
	if got := extractClientIP(trusted); got != "203.0.113.7" {
		t.Errorf("trusted proxy: got %q, want forwarded IP", got)
	}

	untrusted := httptest.NewRequest(http.MethodGet, "/expenses", nil)
	untrusted.RemoteAddr = "203.0.113.9:4321"
	untrusted.Header.Set("X-Forwarded-For", "10.1.2.3")
	if got := extractClientIP(untrusted); got != "203.0.113.9" {
		t.Errorf("untrusted peer: got %q, want direct IP", got)
	}
}
