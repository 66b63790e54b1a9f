package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"matchfit/internal/config"
	"matchfit/internal/types"
)

func remoteConfig(endpoint string) *config.AIConfig {
	return &config.AIConfig{
		Enabled:    true,
		Provider:   "remote",
		Endpoint:   endpoint,
		APIKey:     "test-key",
		Timeout:    5 * time.Second,
		MaxRetries: 2,
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled: false,
		},
	}
}

func TestRemoteProviderAnalyzeMatch(t *testing.T) {
	var gotAuth string
	var gotInput types.AnalyzeInput

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/analyze" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotInput); err != nil {
			t.Errorf("decode request: %v", err)
		}

		_ = json.NewEncoder(w).Encode(analyzeResponse{
			Success: true,
			Analysis: &types.AIAnalysisResult{
				OverallScore:     88,
				ResumeMatchScore: 80,
			},
			Usage: &remoteUsage{InputTokens: 100, OutputTokens: 50, TotalTokens: 150},
		})
	}))
	defer server.Close()

	provider, err := NewRemoteProvider(remoteConfig(server.URL), nil)
	if err != nil {
		t.Fatalf("NewRemoteProvider: %v", err)
	}

	input := types.AnalyzeInput{
		JobDescription: "Go developer",
		ResumeText:     "Go engineer since 2019",
	}
	result, usage, err := provider.AnalyzeMatch(context.Background(), input)
	if err != nil {
		t.Fatalf("AnalyzeMatch: %v", err)
	}

	if result.OverallScore != 88 {
		t.Errorf("overall score = %v, want 88", result.OverallScore)
	}
	if usage == nil || usage.TotalTokens != 150 {
		t.Errorf("usage = %+v, want total 150", usage)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotInput.JobDescription != input.JobDescription || gotInput.ResumeText != input.ResumeText {
		t.Errorf("request body = %+v", gotInput)
	}
}

func TestRemoteProviderRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(analyzeResponse{
			Success:  true,
			Analysis: &types.AIAnalysisResult{OverallScore: 70},
		})
	}))
	defer server.Close()

	provider, err := NewRemoteProvider(remoteConfig(server.URL), nil)
	if err != nil {
		t.Fatalf("NewRemoteProvider: %v", err)
	}

	result, _, err := provider.AnalyzeMatch(context.Background(), types.AnalyzeInput{})
	if err != nil {
		t.Fatalf("AnalyzeMatch: %v", err)
	}
	if result.OverallScore != 70 {
		t.Errorf("overall score = %v, want 70", result.OverallScore)
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
}

func TestRemoteProviderDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	provider, err := NewRemoteProvider(remoteConfig(server.URL), nil)
	if err != nil {
		t.Fatalf("NewRemoteProvider: %v", err)
	}

	if _, _, err := provider.AnalyzeMatch(context.Background(), types.AnalyzeInput{}); err == nil {
		t.Fatal("expected error for 400 response")
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1", calls.Load())
	}
}

func TestRemoteProviderUnsuccessfulAnalysis(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(analyzeResponse{
			Success: false,
			Error:   "model overloaded",
		})
	}))
	defer server.Close()

	provider, err := NewRemoteProvider(remoteConfig(server.URL), nil)
	if err != nil {
		t.Fatalf("NewRemoteProvider: %v", err)
	}

	if _, _, err := provider.AnalyzeMatch(context.Background(), types.AnalyzeInput{}); err == nil {
		t.Fatal("expected error for unsuccessful analysis")
	}
}

func TestRemoteProviderHealth(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	provider, err := NewRemoteProvider(remoteConfig(healthy.URL), nil)
	if err != nil {
		t.Fatalf("NewRemoteProvider: %v", err)
	}

	status := provider.GetProviderStatus(context.Background())
	if !status.Available {
		t.Errorf("status = %+v, want available", status)
	}

	broken, err := NewRemoteProvider(remoteConfig("http://127.0.0.1:1"), nil)
	if err != nil {
		t.Fatalf("NewRemoteProvider: %v", err)
	}
	status = broken.GetProviderStatus(context.Background())
	if status.Available {
		t.Error("unreachable endpoint must not report available")
	}
	if status.Error == "" {
		t.Error("unreachable endpoint must report an error")
	}
}

func TestRemoteProviderRequiresEndpoint(t *testing.T) {
	cfg := remoteConfig("")
	if _, err := NewRemoteProvider(cfg, nil); err == nil {
		t.Fatal("expected error for missing endpoint")
	}
}
