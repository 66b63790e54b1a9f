package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLimiterManagerAllow(t *testing.T) {
	m := NewLimiterManager(60, 2, nil)
	defer m.Close()

	if !m.Allow("ip:10.0.0.1") {
		t.Error("first request should be allowed")
	}
	if !m.Allow("ip:10.0.0.1") {
		t.Error("second request within burst should be allowed")
	}
	if m.Allow("ip:10.0.0.1") {
		t.Error("third request should exceed burst capacity")
	}

	// Independent keys get independent buckets
	if !m.Allow("ip:10.0.0.2") {
		t.Error("request from a different key should be allowed")
	}
}

func TestLimiterManagerStats(t *testing.T) {
	m := NewLimiterManager(120, 5, nil)
	defer m.Close()

	m.Allow("ip:10.0.0.1")
	m.Allow("api:abc")

	stats := m.GetStats()
	if stats["active_limiters"] != 2 {
		t.Errorf("active_limiters = %v, want 2", stats["active_limiters"])
	}
	if stats["rate_per_minute"] != 120.0 {
		t.Errorf("rate_per_minute = %v, want 120", stats["rate_per_minute"])
	}
	if stats["burst_capacity"] != 5 {
		t.Errorf("burst_capacity = %v, want 5", stats["burst_capacity"])
	}
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		header   map[string]string
		byAPIKey bool
		byIP     bool
		want     string
	}{
		{
			name:     "api key header preferred",
			header:   map[string]string{"X-API-Key": "abc123"},
			byAPIKey: true,
			byIP:     true,
			want:     "api:abc123",
		},
		{
			name:     "bearer token fallback",
			header:   map[string]string{"Authorization": "Bearer tok456"},
			byAPIKey: true,
			want:     "api:tok456",
		},
		{
			name: "ip fallback when no key",
			byIP: true,
			want: "ip:192.0.2.1",
		},
		{
			name: "empty when nothing enabled",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			if got := getRateLimitKey(r, tt.byAPIKey, tt.byIP); got != tt.want {
				t.Errorf("getRateLimitKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "x-forwarded-for first IP",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"},
			remoteAddr: "192.0.2.1:1234",
			want:       "203.0.113.9",
		},
		{
			name:       "invalid forwarded entries skipped",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip, 203.0.113.9"},
			remoteAddr: "192.0.2.1:1234",
			want:       "203.0.113.9",
		},
		{
			name:       "x-real-ip",
			headers:    map[string]string{"X-Real-IP": "198.51.100.7"},
			remoteAddr: "192.0.2.1:1234",
			want:       "198.51.100.7",
		},
		{
			name:       "remote addr fallback",
			remoteAddr: "192.0.2.1:1234",
			want:       "192.0.2.1",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "192.0.2.1",
			want:       "192.0.2.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := getClientIP(r); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
