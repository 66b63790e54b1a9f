package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"matchfit/internal/config"
	matchfitErrors "matchfit/internal/errors"
	"matchfit/internal/types"
)

// RemoteProvider implements AIProvider against an external analysis service
// speaking the JSON protocol below. The service receives the raw document
// texts and returns a full AIAnalysisResult.
type RemoteProvider struct {
	endpoint       string
	apiKey         string
	httpClient     *http.Client
	config         *config.AIConfig
	circuitBreaker *AICircuitBreaker
	logger         *matchfitErrors.Logger
}

// Ensure RemoteProvider implements AIProvider
var _ AIProvider = (*RemoteProvider)(nil)

// analyzeResponse is the remote service's wire format.
type analyzeResponse struct {
	Success  bool                    `json:"success"`
	Error    string                  `json:"error,omitempty"`
	Analysis *types.AIAnalysisResult `json:"analysis,omitempty"`
	Usage    *remoteUsage            `json:"usage,omitempty"`
}

type remoteUsage struct {
	InputTokens  int64 `json:"inputTokens"`
	OutputTokens int64 `json:"outputTokens"`
	TotalTokens  int64 `json:"totalTokens"`
}

// NewRemoteProvider creates a provider for the configured remote endpoint
func NewRemoteProvider(cfg *config.AIConfig, logger *matchfitErrors.Logger) (*RemoteProvider, error) {
	if cfg.Endpoint == "" {
		return nil, matchfitErrors.NewConfigError(matchfitErrors.ErrCodeInvalidConfig,
			"Remote AI provider requires an endpoint", nil)
	}

	return &RemoteProvider{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		config:         cfg,
		circuitBreaker: NewAICircuitBreaker("remote", cfg, logger),
		logger:         logger,
	}, nil
}

// AnalyzeMatch implements AIProvider by delegating to the remote service
func (r *RemoteProvider) AnalyzeMatch(ctx context.Context, input types.AnalyzeInput) (*types.AIAnalysisResult, *TokenUsage, error) {
	tracer := otel.Tracer("matchfit.ai.remote")
	ctx, span := tracer.Start(ctx, "remote.analyze_match")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "remote"),
		attribute.String("ai.endpoint", r.endpoint),
		attribute.Int("input.job_length", len(input.JobDescription)),
		attribute.Int("input.resume_length", len(input.ResumeText)),
		attribute.Int("input.cover_letter_length", len(input.CoverLetterText)),
	)

	var usage *TokenUsage
	result, err := r.circuitBreaker.Execute(func() (*types.AIAnalysisResult, error) {
		return executeWithRetry(ctx, r.logger, r.config.MaxRetries, "analyze_match", func() (*types.AIAnalysisResult, error) {
			analysis, u, err := r.postAnalyze(ctx, input)
			if err != nil {
				return nil, err
			}
			usage = u
			return analysis, nil
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, nil, matchfitErrors.NewAIError(matchfitErrors.ErrCodeAIServiceFailed,
			"Remote AI analysis failed", err)
	}

	span.SetAttributes(attribute.Bool("success", true))
	if usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}
	return result, usage, nil
}

// postAnalyze performs one POST /analyze exchange
func (r *RemoteProvider) postAnalyze(ctx context.Context, input types.AnalyzeInput) (*types.AIAnalysisResult, *TokenUsage, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil && r.logger != nil {
			r.logger.Warn("Failed to close response body", "error", err)
		}
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read analysis response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, nil, &httpStatusError{status: resp.StatusCode, body: truncateBody(respBody)}
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, nil, matchfitErrors.NewAIError(matchfitErrors.ErrCodeAIResponseInvalid,
			"Failed to parse remote analysis response", err)
	}

	if !parsed.Success || parsed.Analysis == nil {
		return nil, nil, matchfitErrors.NewAIError(matchfitErrors.ErrCodeAIUnsuccessful,
			fmt.Sprintf("Remote analysis unsuccessful: %s", parsed.Error), nil)
	}

	var usage *TokenUsage
	if parsed.Usage != nil {
		usage = &TokenUsage{
			InputTokens:  parsed.Usage.InputTokens,
			OutputTokens: parsed.Usage.OutputTokens,
			TotalTokens:  parsed.Usage.TotalTokens,
		}
	}
	return parsed.Analysis, usage, nil
}

// GetProviderStatus checks remote service health via GET /health
func (r *RemoteProvider) GetProviderStatus(ctx context.Context) *ProviderStatus {
	status := &ProviderStatus{
		Provider: "remote",
		Target:   r.endpoint,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"/health", nil)
	if err != nil {
		status.Error = fmt.Sprintf("failed to build health request: %v", err)
		return status
	}
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		status.Error = fmt.Sprintf("health check failed: %v", err)
		if r.logger != nil {
			r.logger.Warn("Remote AI health check failed",
				"endpoint", r.endpoint,
				"error", err.Error())
		}
		return status
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		status.Error = fmt.Sprintf("health endpoint returned status %d", resp.StatusCode)
		return status
	}

	status.Available = true
	return status
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (r *RemoteProvider) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"ai_operations": r.circuitBreaker.GetStats(),
	}
	stats["overall_healthy"] = r.circuitBreaker.IsHealthy()
	return stats
}

// Close implements AIProvider
func (r *RemoteProvider) Close() error {
	r.httpClient.CloseIdleConnections()
	return nil
}

// truncateBody keeps error messages readable for large bodies
func truncateBody(body []byte) string {
	const limit = 256
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
