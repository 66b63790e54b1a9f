package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"matchfit/internal/observability"
	"matchfit/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createAnalyzeHandler wraps the analyze handler with observability
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("matchfit.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		// Parse request
		var req AnalyzeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Validation
		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}

		// Size validation
		if len(req.ResumeText) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("resume text too large: %d chars", len(req.ResumeText))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Resume text too large", fmt.Sprintf("resumeText exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}
		if len(req.JobDescription) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("job description too large: %d chars", len(req.JobDescription))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Job description too large", fmt.Sprintf("jobDescription exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		useAI := req.UseAI && s.AIService != nil

		// Add request attributes to span
		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.Bool("request.use_ai", useAI),
			attribute.String("operation", "analyze"),
		)

		input := types.AnalyzeInput{
			JobDescription:  req.JobDescription,
			ResumeText:      req.ResumeText,
			CoverLetterText: req.CoverLetterText,
		}

		metrics := om.GetMetrics()
		analyzer := &instrumentedAnalyzer{server: s, om: om}
		result, err := s.Orchestrator.Analyze(ctx, input, useAI, analyzer)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "analysis"))
			metrics.RecordBusinessMetric(ctx, "analysis_completed", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to analyze documents", err.Error(), http.StatusInternalServerError)
			return
		}

		// Record success metrics
		metrics.RecordBusinessMetric(ctx, "analysis_completed", true, om,
			attribute.String("analysis_type", string(result.AnalysisType)),
			attribute.Float64("overall_score", result.OverallScore))
		if useAI && result.AnalysisType == types.AnalysisBasicEnhanced {
			metrics.RecordBusinessMetric(ctx, "ai_fallback", true, om,
				attribute.String("endpoint", r.URL.Path))
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("analysis_type", string(result.AnalysisType)),
			attribute.Float64("overall_score", result.OverallScore),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createKeywordsHandler wraps the keywords handler with observability
func (s *Server) createKeywordsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("matchfit.api")
		ctx, span := tracer.Start(ctx, "api.keywords")
		defer span.End()

		var req KeywordsRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "keywords"),
		)

		keywords := s.Orchestrator.ExtractKeywords(req.JobDescription)

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "keyword_extraction", true, om,
			attribute.Int("keyword_count", keywords.Total()))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("keyword_count", keywords.Total()),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(keywords); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// instrumentedAnalyzer adapts the AI service into the orchestrator's analyzer
// interface, tracking each AI call with tracing, metrics, and token usage.
type instrumentedAnalyzer struct {
	server *Server
	om     *observability.ObservabilityManager
}

func (a *instrumentedAnalyzer) AnalyzeMatch(ctx context.Context, input types.AnalyzeInput) (*types.AIAnalysisResult, error) {
	if a.server.AIService == nil {
		return nil, fmt.Errorf("AI service not configured")
	}

	metrics := a.om.GetMetrics()
	var result *types.AIAnalysisResult
	err := metrics.TrackAIOperation(ctx, "analyze_match", func(ctx context.Context) *observability.AIOperationResult {
		output, tokenUsage, aiErr := a.server.AIService.Provider.AnalyzeMatch(ctx, input)
		result = output
		return &observability.AIOperationResult{
			Error:      aiErr,
			TokenUsage: (*observability.TokenUsage)(tokenUsage),
		}
	}, a.om)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		limited := originalMiddleware(next)
		return func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			limited(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		}
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
