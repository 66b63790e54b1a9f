package formatters

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"matchfit/internal/types"
)

func sampleResult() types.CombinedAnalysisResult {
	scores := types.NewSectionScores()
	scores[types.SectionContactInfo] = 70
	scores[types.SectionSkills] = 85

	return types.CombinedAnalysisResult{
		OverallScore:     72.5,
		ATSScore:         85,
		ResumeMatchScore: 66.7,
		CoverLetterMatch: 50,
		SectionScores:    scores,
		KeywordAnalysis: types.KeywordAnalysis{
			Matching:  []string{"go", "docker"},
			Missing:   []string{"kubernetes"},
			Suggested: []string{"kubernetes"},
			Density:   66.7,
		},
		Recommendations:        []string{"Add more quantified achievements"},
		InterviewProbability:   55,
		JobSecuringProbability: 41,
		GoodnessOfFitScore:     72,
		AIRecommendation:       types.GoodMatch,
		AIConfidenceLevel:      60,
		Gaps: types.GapAnalysis{
			SkillGaps: []string{"kubernetes operations"},
		},
		AnalysisType: types.AnalysisBasicEnhanced,
	}
}

func sampleKeywords() types.JobKeywordSet {
	return types.JobKeywordSet{
		Technologies: []string{"go", "postgresql"},
		Skills:       []string{"communication"},
		Tools:        []string{"docker"},
	}
}

func TestRegistrySupportedFormats(t *testing.T) {
	registry := NewFormatterRegistry()

	formats := registry.GetSupportedFormats()
	for _, want := range []string{"json", "text", "markdown"} {
		if !slices.Contains(formats, want) {
			t.Errorf("GetSupportedFormats() = %v, missing %q", formats, want)
		}
	}
}

func TestRegistryUnknownFormat(t *testing.T) {
	registry := NewFormatterRegistry()

	if _, err := registry.Format(sampleResult(), "yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestJSONFormatterRoundTrip(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(sampleResult(), "json")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded types.CombinedAnalysisResult
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.OverallScore != 72.5 {
		t.Errorf("OverallScore = %v, want 72.5", decoded.OverallScore)
	}
	if decoded.AnalysisType != types.AnalysisBasicEnhanced {
		t.Errorf("AnalysisType = %q, want %q", decoded.AnalysisType, types.AnalysisBasicEnhanced)
	}
}

func TestAnalysisTextFormatter(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(sampleResult(), "text")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	for _, want := range []string{
		"Overall Score: 72.5/100",
		"Verdict: Good Match",
		"Contact Info:",
		"Matched: go, docker",
		"Suggested Additions: kubernetes",
		"Interview Probability:    55%",
		"1. Add more quantified achievements",
		"Skill Gaps:",
		"- kubernetes operations",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q\noutput:\n%s", want, out)
		}
	}
}

func TestAnalysisMarkdownFormatter(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(sampleResult(), "markdown")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	for _, want := range []string{
		"# Match Analysis",
		"**Overall Score:** 72.5/100",
		"**Verdict:** Good Match",
		"| Skills | 85.0/100 |",
		"### Missing Keywords",
		"## Gap Analysis",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q\noutput:\n%s", want, out)
		}
	}
}

func TestKeywordsFormatters(t *testing.T) {
	registry := NewFormatterRegistry()

	text, err := registry.Format(sampleKeywords(), "text")
	if err != nil {
		t.Fatalf("Format(text) error = %v", err)
	}
	for _, want := range []string{"Total: 4 keywords", "Technologies:", "- postgresql", "- communication"} {
		if !strings.Contains(text, want) {
			t.Errorf("text output missing %q\noutput:\n%s", want, text)
		}
	}

	md, err := registry.Format(sampleKeywords(), "markdown")
	if err != nil {
		t.Fatalf("Format(markdown) error = %v", err)
	}
	for _, want := range []string{"# Job Keywords", "## Tools", "- docker"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown output missing %q\noutput:\n%s", want, md)
		}
	}
}

func TestKeywordsTextFormatterEmptyCategory(t *testing.T) {
	out, err := (&KeywordsTextFormatter{}).Format(types.JobKeywordSet{Technologies: []string{"go"}})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(out, "(none detected)") {
		t.Errorf("output missing empty-category marker:\n%s", out)
	}
}

func TestFormatterTypeMismatch(t *testing.T) {
	if _, err := (&AnalysisTextFormatter{}).Format("not a result"); err == nil {
		t.Error("expected error for wrong input type")
	}
	if _, err := (&KeywordsMarkdownFormatter{}).Format(42); err == nil {
		t.Error("expected error for wrong input type")
	}
}
