package analysis

import (
	"context"

	"matchfit/internal/errors"
	"matchfit/internal/types"
)

// PipelineState tracks the orchestrator's progress through one analysis run.
type PipelineState string

const (
	StateNotStarted     PipelineState = "not_started"
	StateExtractingText PipelineState = "extracting_text"
	StateScoringBasic   PipelineState = "scoring_basic"
	StateAttemptingAI   PipelineState = "attempting_ai"
	StateSkippingAI     PipelineState = "skipping_ai"
	StateAggregating    PipelineState = "aggregating"
	StateCompleted      PipelineState = "completed"
	StateFailed         PipelineState = "failed"
)

// AIAnalyzer is the external AI collaborator the orchestrator may consult.
// Implementations live in the ai package; the orchestrator only sees the
// result-or-error outcome and never a partially-filled value.
type AIAnalyzer interface {
	AnalyzeMatch(ctx context.Context, input types.AnalyzeInput) (*types.AIAnalysisResult, error)
}

// Orchestrator owns the end-to-end analysis pipeline. Each invocation is
// stateless with respect to the others; use one orchestrator per run or share
// one freely, both are safe because state lives on the stack.
type Orchestrator struct {
	engine  *Engine
	blender *Blender
	logger  *errors.Logger
}

// NewOrchestrator creates a pipeline orchestrator.
func NewOrchestrator(params ScoringParams, logger *errors.Logger) *Orchestrator {
	return &Orchestrator{
		engine:  NewEngine(params),
		blender: NewBlender(params),
		logger:  logger,
	}
}

// Analyze runs the full pipeline. The aiClient is consulted only when
// aiEnabled is true and the client is non-nil; an AI failure is logged as a
// warning and degrades to the basic_enhanced result, never to an error.
// Only text-extraction level failures (already surfaced by the caller who
// produced the input text) make an analysis fail.
func (o *Orchestrator) Analyze(ctx context.Context, input types.AnalyzeInput, aiEnabled bool, aiClient AIAnalyzer) (types.CombinedAnalysisResult, error) {
	state := StateNotStarted
	o.transition(&state, StateExtractingText,
		"job_chars", len(input.JobDescription),
		"resume_chars", len(input.ResumeText),
		"cover_letter_chars", len(input.CoverLetterText))

	// Text arrives pre-extracted; an empty resume is permitted and scores 0.
	o.transition(&state, StateScoringBasic)
	basic := o.engine.Analyze(input)

	var result types.CombinedAnalysisResult
	if aiEnabled && aiClient != nil {
		o.transition(&state, StateAttemptingAI)
		aiResult, err := aiClient.AnalyzeMatch(ctx, input)
		if err != nil {
			// Non-fatal: fall back to enhanced basic scoring.
			if o.logger != nil {
				o.logger.Warn("AI analysis failed, falling back to basic scoring",
					"state", string(state),
					"error", err.Error())
			}
			o.transition(&state, StateAggregating, "ai_applied", false)
			result = o.engine.Aggregator().EnhanceBasic(basic)
		} else {
			o.transition(&state, StateAggregating, "ai_applied", true)
			result = o.blender.Blend(basic, *aiResult)
		}
	} else {
		o.transition(&state, StateSkippingAI)
		o.transition(&state, StateAggregating, "ai_applied", false)
		result = o.engine.Aggregator().EnhanceBasic(basic)
	}

	o.transition(&state, StateCompleted,
		"overall_score", result.OverallScore,
		"analysis_type", string(result.AnalysisType))
	return result, nil
}

// AnalyzeBasic runs only the local engine, for callers that never want AI.
func (o *Orchestrator) AnalyzeBasic(input types.AnalyzeInput) types.BasicAnalysisResult {
	return o.engine.Analyze(input)
}

// ExtractKeywords exposes keyword extraction for the keywords endpoint.
func (o *Orchestrator) ExtractKeywords(jobDescription string) types.JobKeywordSet {
	return o.engine.ExtractKeywords(jobDescription)
}

// transition advances the pipeline state and records a structured log event.
func (o *Orchestrator) transition(state *PipelineState, next PipelineState, args ...any) {
	logArgs := append([]any{"from", string(*state), "to", string(next)}, args...)
	*state = next
	if o.logger != nil {
		o.logger.Info("Analysis pipeline transition", logArgs...)
	}
}
