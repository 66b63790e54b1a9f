package analysis

import (
	"context"
	"log/slog"
	"testing"

	"matchfit/internal/errors"
	"matchfit/internal/types"
)

type stubAnalyzer struct {
	result *types.AIAnalysisResult
	err    error
	calls  int
}

func (s *stubAnalyzer) AnalyzeMatch(ctx context.Context, input types.AnalyzeInput) (*types.AIAnalysisResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

var sampleInput = types.AnalyzeInput{
	JobDescription: "Looking for a Go developer with Docker and PostgreSQL experience",
	ResumeText: "Summary: Go developer. Experience: software engineer 2019-2024 " +
		"building Docker services. Education: bachelor degree. Skills: Go, Docker. " +
		"Improved deploy times by 60%. jane@example.com",
	CoverLetterText: "I have extensive Go and PostgreSQL experience.",
}

func TestAnalyzeWithSuccessfulAI(t *testing.T) {
	orch := NewOrchestrator(DefaultScoringParams(), nil)
	stub := &stubAnalyzer{
		result: &types.AIAnalysisResult{
			OverallScore:     90,
			ResumeMatchScore: 85,
		},
	}

	result, err := orch.Analyze(context.Background(), sampleInput, true, stub)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if stub.calls != 1 {
		t.Errorf("AI analyzer called %d times, want 1", stub.calls)
	}
	if result.AnalysisType != types.AnalysisCombined {
		t.Errorf("analysis type = %s, want %s", result.AnalysisType, types.AnalysisCombined)
	}
}

func TestAnalyzeAIFailureFallsBack(t *testing.T) {
	orch := NewOrchestrator(DefaultScoringParams(), errors.NewLogger(slog.LevelError))
	stub := &stubAnalyzer{
		err: errors.NewAIError("AI_TIMEOUT", "analysis request timed out", context.DeadlineExceeded),
	}

	result, err := orch.Analyze(context.Background(), sampleInput, true, stub)
	if err != nil {
		t.Fatalf("AI failure must not propagate, got %v", err)
	}
	if result.AnalysisType != types.AnalysisBasicEnhanced {
		t.Errorf("analysis type = %s, want %s", result.AnalysisType, types.AnalysisBasicEnhanced)
	}

	// Fallback equals the enhanced basic result, byte for byte.
	basic := orch.AnalyzeBasic(sampleInput)
	want := NewScoreAggregator(DefaultScoringParams()).EnhanceBasic(basic)
	if result.OverallScore != want.OverallScore {
		t.Errorf("fallback score = %v, want %v", result.OverallScore, want.OverallScore)
	}
	if result.InterviewProbability != want.InterviewProbability {
		t.Errorf("fallback interview probability = %v, want %v", result.InterviewProbability, want.InterviewProbability)
	}
}

func TestAnalyzeAIDisabled(t *testing.T) {
	orch := NewOrchestrator(DefaultScoringParams(), nil)
	stub := &stubAnalyzer{result: &types.AIAnalysisResult{OverallScore: 99}}

	result, err := orch.Analyze(context.Background(), sampleInput, false, stub)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if stub.calls != 0 {
		t.Errorf("AI analyzer called %d times with AI disabled, want 0", stub.calls)
	}
	if result.AnalysisType != types.AnalysisBasicEnhanced {
		t.Errorf("analysis type = %s, want %s", result.AnalysisType, types.AnalysisBasicEnhanced)
	}
}

func TestAnalyzeNilClientSkipsAI(t *testing.T) {
	orch := NewOrchestrator(DefaultScoringParams(), nil)

	result, err := orch.Analyze(context.Background(), sampleInput, true, nil)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if result.AnalysisType != types.AnalysisBasicEnhanced {
		t.Errorf("analysis type = %s, want %s", result.AnalysisType, types.AnalysisBasicEnhanced)
	}
}

func TestAnalyzeEmptyResume(t *testing.T) {
	orch := NewOrchestrator(DefaultScoringParams(), nil)
	input := types.AnalyzeInput{
		JobDescription: "Python developer with Django experience",
	}

	result, err := orch.Analyze(context.Background(), input, false, nil)
	if err != nil {
		t.Fatalf("empty resume must not error, got %v", err)
	}
	if result.ResumeMatchScore != 0 {
		t.Errorf("resume match = %v, want 0", result.ResumeMatchScore)
	}
	for section, score := range result.SectionScores {
		if score != 0 {
			t.Errorf("section %s = %v, want 0 for empty resume", section, score)
		}
	}
	if len(result.KeywordAnalysis.Matching) != 0 {
		t.Errorf("matching = %v, want empty", result.KeywordAnalysis.Matching)
	}
}

func TestAnalyzeBasicType(t *testing.T) {
	orch := NewOrchestrator(DefaultScoringParams(), nil)

	basic := orch.AnalyzeBasic(sampleInput)
	if basic.AnalysisType != types.AnalysisBasic {
		t.Errorf("analysis type = %s, want %s", basic.AnalysisType, types.AnalysisBasic)
	}
	if basic.OverallScore < 0 || basic.OverallScore > 100 {
		t.Errorf("overall score %v out of [0,100]", basic.OverallScore)
	}
}

func TestOrchestratorExtractKeywords(t *testing.T) {
	orch := NewOrchestrator(DefaultScoringParams(), nil)

	keywords := orch.ExtractKeywords("We need Go and Docker plus Jira")
	assertStrings(t, "technologies", keywords.Technologies, []string{"go", "docker"})
	assertStrings(t, "tools", keywords.Tools, []string{"jira"})
}
