package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"matchfit/internal/config"
	"matchfit/internal/errors"
	"matchfit/internal/observability"
	"matchfit/internal/types"
)

func testConfig() *config.Config {
	return &config.Config{
		Scoring: config.ScoringConfig{
			ResumeMatchWeight: 0.3,
			CoverLetterWeight: 0.2,
			SectionWeight:     0.5,
			BasicBlendWeight:  0.3,
			AIBlendWeight:     0.7,
			DefaultConfidence: 60,
		},
	}
}

func testMux(t *testing.T, apiKeys []string, rateLimit *config.RateLimitConfig) *http.ServeMux {
	t.Helper()

	cfg := testConfig()
	srv, err := NewServer(cfg, ServerConfig{
		Host:           "localhost",
		Port:           "0",
		Version:        "test",
		APIKeys:        apiKeys,
		MaxRequestSize: 1 << 20,
		RateLimit:      rateLimit,
	}, errors.NewLogger(slog.LevelError))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	t.Cleanup(func() {
		if srv.RateLimiter != nil {
			srv.RateLimiter.Close()
		}
	})

	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, cfg)
	if err != nil {
		t.Fatalf("NewObservabilityManager() error = %v", err)
	}

	return srv.setupRoutes(om)
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for key, values := range header {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpoint(t *testing.T) {
	mux := testMux(t, nil, nil)

	rec := postJSON(t, mux, "/analyze", AnalyzeRequest{
		JobDescription: "Looking for a Go engineer with Docker and Kubernetes experience.",
		ResumeText:     "jane@example.com\nExperience\nSenior Engineer using Go and Docker since 2019.\nSkills\nGo, Docker",
	}, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result types.CombinedAnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.AnalysisType != types.AnalysisBasicEnhanced {
		t.Errorf("AnalysisType = %q, want %q", result.AnalysisType, types.AnalysisBasicEnhanced)
	}
	if result.OverallScore < 0 || result.OverallScore > 100 {
		t.Errorf("OverallScore = %v, want within [0,100]", result.OverallScore)
	}
	if len(result.SectionScores) != 6 {
		t.Errorf("SectionScores has %d entries, want 6", len(result.SectionScores))
	}
}

func TestAnalyzeValidation(t *testing.T) {
	mux := testMux(t, nil, nil)

	tests := []struct {
		name string
		req  AnalyzeRequest
	}{
		{
			name: "missing job description",
			req:  AnalyzeRequest{ResumeText: "some resume"},
		},
		{
			name: "missing resume text",
			req:  AnalyzeRequest{JobDescription: "some job"},
		},
		{
			name: "whitespace only resume",
			req:  AnalyzeRequest{JobDescription: "some job", ResumeText: "   \n\t "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, mux, "/analyze", tt.req, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}

			var errResp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Error == "" {
				t.Error("error response has empty error field")
			}
		})
	}
}

func TestAnalyzeRejectsWrongContentType(t *testing.T) {
	mux := testMux(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "text/plain")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestKeywordsEndpoint(t *testing.T) {
	mux := testMux(t, nil, nil)

	rec := postJSON(t, mux, "/keywords", KeywordsRequest{
		JobDescription: "We need strong Go and Docker expertise plus communication skills.",
	}, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var keywords types.JobKeywordSet
	if err := json.Unmarshal(rec.Body.Bytes(), &keywords); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if keywords.Total() == 0 {
		t.Error("keywords.Total() = 0, want extracted keywords")
	}
	found := false
	for _, kw := range keywords.Technologies {
		if kw == "go" {
			found = true
		}
	}
	if !found {
		t.Errorf("Technologies = %v, want to contain %q", keywords.Technologies, "go")
	}
}

func TestAuthMiddleware(t *testing.T) {
	mux := testMux(t, []string{"secret-key-12345"}, nil)

	validReq := KeywordsRequest{JobDescription: "Go developer needed"}

	t.Run("missing key rejected", func(t *testing.T) {
		rec := postJSON(t, mux, "/keywords", validReq, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("invalid key rejected", func(t *testing.T) {
		header := http.Header{}
		header.Set("X-API-Key", "wrong-key")
		rec := postJSON(t, mux, "/keywords", validReq, header)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("valid key accepted", func(t *testing.T) {
		header := http.Header{}
		header.Set("X-API-Key", "secret-key-12345")
		rec := postJSON(t, mux, "/keywords", validReq, header)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("bearer token accepted", func(t *testing.T) {
		header := http.Header{}
		header.Set("Authorization", "Bearer secret-key-12345")
		rec := postJSON(t, mux, "/keywords", validReq, header)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("health check skips auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})
}

func TestHealthEndpoint(t *testing.T) {
	mux := testMux(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var health map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if health["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", health["status"])
	}

	aiStatus, ok := health["ai"].(map[string]any)
	if !ok {
		t.Fatalf("ai status missing from health response: %v", health)
	}
	if enabled, _ := aiStatus["enabled"].(bool); enabled {
		t.Error("ai.enabled = true, want false when no AI service configured")
	}
}

func TestHealthRejectsPost(t *testing.T) {
	mux := testMux(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestStatsEndpoint(t *testing.T) {
	rateLimit := &config.RateLimitConfig{
		Enabled:        true,
		RequestsPerMin: 60,
		BurstCapacity:  10,
		ByIP:           true,
	}
	mux := testMux(t, nil, rateLimit)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var stats map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stats["service"] != "matchfit" {
		t.Errorf("service = %v, want matchfit", stats["service"])
	}

	limiting, ok := stats["rate_limiting"].(map[string]any)
	if !ok {
		t.Fatalf("rate_limiting missing from stats: %v", stats)
	}
	if limiting["burst_capacity"] != float64(10) {
		t.Errorf("burst_capacity = %v, want 10", limiting["burst_capacity"])
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rateLimit := &config.RateLimitConfig{
		Enabled:        true,
		RequestsPerMin: 60,
		BurstCapacity:  1,
		ByIP:           true,
	}
	mux := testMux(t, nil, rateLimit)

	validReq := KeywordsRequest{JobDescription: "Go developer needed"}

	first := postJSON(t, mux, "/keywords", validReq, nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want %d", first.Code, http.StatusOK)
	}

	second := postJSON(t, mux, "/keywords", validReq, nil)
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want %d", second.Code, http.StatusTooManyRequests)
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"short", "****"},
		{"12345678", "****"},
		{"123456789abcdef", "12345678****"},
	}

	for _, tt := range tests {
		if got := maskAPIKey(tt.key); got != tt.want {
			t.Errorf("maskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
