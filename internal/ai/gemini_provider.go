package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"

	"matchfit/internal/config"
	matchfitErrors "matchfit/internal/errors"
	"matchfit/internal/types"
)

// GeminiProvider implements AIProvider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	httpClient     *http.Client
	config         *config.AIConfig
	circuitBreaker *AICircuitBreaker
	logger         *matchfitErrors.Logger
}

// Ensure GeminiProvider implements AIProvider
var _ AIProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance
func NewGeminiProvider(cfg *config.AIConfig, logger *matchfitErrors.Logger) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, matchfitErrors.NewAIError(matchfitErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client: client,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config:         cfg,
		circuitBreaker: NewAICircuitBreaker("gemini", cfg, logger),
		logger:         logger,
	}, nil
}

// AnalyzeMatch implements AIProvider for match analysis
func (g *GeminiProvider) AnalyzeMatch(ctx context.Context, input types.AnalyzeInput) (*types.AIAnalysisResult, *TokenUsage, error) {
	tracer := otel.Tracer("matchfit.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini.analyze_match")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(g.config.Temperature)),
		attribute.Int("input.job_length", len(input.JobDescription)),
		attribute.Int("input.resume_length", len(input.ResumeText)),
	)

	genaiConfig := g.buildAnalyzeSchema()
	if g.config.UseSystemPrompts {
		genaiConfig.SystemInstruction = genai.NewContentFromText(DefaultSystemPrompt, genai.RoleUser)
	}
	userPrompt := fmt.Sprintf(DefaultUserPromptTemplate,
		input.JobDescription, input.ResumeText, input.CoverLetterText)

	var usage *TokenUsage
	result, err := g.circuitBreaker.Execute(func() (*types.AIAnalysisResult, error) {
		return executeWithRetry(ctx, g.logger, g.config.MaxRetries, "analyze_match", func() (*types.AIAnalysisResult, error) {
			resp, err := g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
			if err != nil {
				return nil, err
			}

			var output types.AIAnalysisResult
			if err := json.Unmarshal([]byte(resp.Text()), &output); err != nil {
				return nil, matchfitErrors.NewAIError(matchfitErrors.ErrCodeAIResponseInvalid,
					"Failed to parse Gemini response", err)
			}
			usage = extractTokenUsage(resp)
			return &output, nil
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, nil, matchfitErrors.NewAIError(matchfitErrors.ErrCodeAIServiceFailed,
			"Gemini match analysis failed", err)
	}

	span.SetAttributes(attribute.Bool("success", true))
	span.SetAttributes(attribute.Float64("output.overall_score", result.OverallScore))
	if usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}

	return result, usage, nil
}

// GetProviderStatus checks the readiness and availability of the configured model
func (g *GeminiProvider) GetProviderStatus(ctx context.Context) *ProviderStatus {
	status := &ProviderStatus{
		Provider: "gemini",
		Target:   g.config.Model,
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	model, err := g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	if err != nil {
		status.Error = fmt.Sprintf("failed to get model info: %v", err)
		if g.logger != nil {
			g.logger.Warn("Model availability check failed",
				"model", g.config.Model,
				"error", err.Error())
		}
		return status
	}

	status.Available = true
	if model.DisplayName != "" {
		status.Target = fmt.Sprintf("%s (%s)", g.config.Model, model.DisplayName)
	}
	return status
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"ai_operations": g.circuitBreaker.GetStats(),
	}
	stats["overall_healthy"] = g.circuitBreaker.IsHealthy()
	return stats
}

// Close implements AIProvider
func (g *GeminiProvider) Close() error {
	// Gemini client doesn't have a Close method in current single-shot usage
	return nil
}

// buildAnalyzeSchema creates the structured output schema for match analysis.
// Field names mirror types.AIAnalysisResult's JSON tags.
func (g *GeminiProvider) buildAnalyzeSchema() *genai.GenerateContentConfig {
	sectionScore := func() *genai.Schema {
		return &genai.Schema{Type: genai.TypeNumber}
	}
	stringArray := &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"overallScore":          {Type: genai.TypeNumber},
				"atsScore":              {Type: genai.TypeNumber},
				"resumeMatchScore":      {Type: genai.TypeNumber},
				"coverLetterMatchScore": {Type: genai.TypeNumber},
				"sectionScores": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"contact_info": sectionScore(),
						"summary":      sectionScore(),
						"experience":   sectionScore(),
						"education":    sectionScore(),
						"skills":       sectionScore(),
						"achievements": sectionScore(),
					},
				},
				"keywordAnalysis": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"matching":  stringArray,
						"missing":   stringArray,
						"suggested": stringArray,
						"density":   {Type: genai.TypeNumber},
					},
					Required: []string{"matching", "missing"},
				},
				"recommendations":        stringArray,
				"interviewProbability":   {Type: genai.TypeNumber},
				"jobSecuringProbability": {Type: genai.TypeNumber},
				"goodnessOfFitScore":     {Type: genai.TypeNumber},
				"aiRecommendation": {
					Type: genai.TypeString,
					Enum: []string{"not_recommended", "poor_match", "fair_match", "good_match", "excellent_match"},
				},
				"aiConfidenceLevel": {Type: genai.TypeNumber},
				"gaps": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"skillGaps":      stringArray,
						"experienceGaps": stringArray,
						"educationGaps":  stringArray,
					},
				},
			},
			Required: []string{"overallScore", "resumeMatchScore", "recommendations"},
		},
	}

	// Apply temperature configuration if set
	if g.config.Temperature > 0 {
		temp := g.config.Temperature
		cfg.Temperature = &temp
	}

	return cfg
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
