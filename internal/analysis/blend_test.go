package analysis

import (
	"math"
	"math/rand"
	"testing"

	"matchfit/internal/types"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestBlendScoreWeighting(t *testing.T) {
	blender := NewBlender(DefaultScoringParams())
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 500; i++ {
		basicScore := rng.Float64() * 100
		aiScore := rng.Float64() * 100

		basic := types.BasicAnalysisResult{
			OverallScore:  basicScore,
			SectionScores: types.NewSectionScores(),
		}
		ai := types.AIAnalysisResult{OverallScore: aiScore}

		combined := blender.Blend(basic, ai)

		want := math.Round(basicScore*0.3 + aiScore*0.7)
		if combined.OverallScore != want {
			t.Fatalf("Blend(%v, %v).OverallScore = %v, want %v", basicScore, aiScore, combined.OverallScore, want)
		}
		if combined.OverallScore < 0 || combined.OverallScore > 100 {
			t.Fatalf("blended score %v out of [0,100]", combined.OverallScore)
		}
	}
}

func TestBlendATSPrecedence(t *testing.T) {
	blender := NewBlender(DefaultScoringParams())
	basic := types.BasicAnalysisResult{
		ATSScore:      80,
		SectionScores: types.NewSectionScores(),
	}

	withAI := blender.Blend(basic, types.AIAnalysisResult{ATSScore: floatPtr(65)})
	if withAI.ATSScore != 65 {
		t.Errorf("ATS with AI value = %v, want 65", withAI.ATSScore)
	}

	withoutAI := blender.Blend(basic, types.AIAnalysisResult{})
	if withoutAI.ATSScore != 80 {
		t.Errorf("ATS without AI value = %v, want 80", withoutAI.ATSScore)
	}
}

func TestBlendSectionFallback(t *testing.T) {
	blender := NewBlender(DefaultScoringParams())

	sections := types.NewSectionScores()
	sections[types.SectionSkills] = 50
	sections[types.SectionSummary] = 90
	basic := types.BasicAnalysisResult{SectionScores: sections}

	ai := types.AIAnalysisResult{
		SectionScores: map[types.Section]float64{
			types.SectionSkills: 80,
		},
	}

	combined := blender.Blend(basic, ai)

	// 0.3*50 + 0.7*80 = 71
	if combined.SectionScores[types.SectionSkills] != 71 {
		t.Errorf("skills = %v, want 71", combined.SectionScores[types.SectionSkills])
	}
	// Omitted by the AI: basic score carries over unblended.
	if combined.SectionScores[types.SectionSummary] != 90 {
		t.Errorf("summary = %v, want 90", combined.SectionScores[types.SectionSummary])
	}
	if len(combined.SectionScores) != 6 {
		t.Errorf("section count = %d, want 6", len(combined.SectionScores))
	}
}

func TestBlendKeywordMerge(t *testing.T) {
	blender := NewBlender(DefaultScoringParams())
	basic := types.BasicAnalysisResult{
		SectionScores: types.NewSectionScores(),
		KeywordAnalysis: types.KeywordAnalysis{
			Matching: []string{"go", "docker"},
			Missing:  []string{"python", "jira"},
		},
	}
	ai := types.AIAnalysisResult{
		KeywordAnalysis: &types.KeywordAnalysis{
			Matching: []string{"docker", "python"},
			Missing:  []string{"jira", "terraform"},
		},
	}

	combined := blender.Blend(basic, ai)

	// AI found python; the union promotes it out of missing.
	assertStrings(t, "matching", combined.KeywordAnalysis.Matching, []string{"go", "docker", "python"})
	assertStrings(t, "missing", combined.KeywordAnalysis.Missing, []string{"jira", "terraform"})

	// Density recomputed from the merged counts: 3/(3+2)*100.
	if combined.KeywordAnalysis.Density != 60 {
		t.Errorf("density = %v, want 60", combined.KeywordAnalysis.Density)
	}
}

func TestBlendKeywordMergeWithoutAIKeywords(t *testing.T) {
	blender := NewBlender(DefaultScoringParams())
	basic := types.BasicAnalysisResult{
		SectionScores: types.NewSectionScores(),
		KeywordAnalysis: types.KeywordAnalysis{
			Matching: []string{"go"},
			Missing:  []string{"rust"},
			Density:  50,
		},
	}

	combined := blender.Blend(basic, types.AIAnalysisResult{})

	assertStrings(t, "matching", combined.KeywordAnalysis.Matching, []string{"go"})
	assertStrings(t, "missing", combined.KeywordAnalysis.Missing, []string{"rust"})
	if combined.KeywordAnalysis.Density != 50 {
		t.Errorf("density = %v, want 50", combined.KeywordAnalysis.Density)
	}
}

func TestBlendRecommendations(t *testing.T) {
	blender := NewBlender(DefaultScoringParams())
	basic := types.BasicAnalysisResult{
		SectionScores:   types.NewSectionScores(),
		Recommendations: []string{"b1", "b2", "b3", "b4", "b5"},
	}
	ai := types.AIAnalysisResult{
		Recommendations: []string{"a1", "a2"},
	}

	combined := blender.Blend(basic, ai)

	// All AI recommendations, then at most three basic ones.
	assertStrings(t, "recommendations", combined.Recommendations, []string{"a1", "a2", "b1", "b2", "b3"})
}

func TestBlendDerivedFieldFallbacks(t *testing.T) {
	blender := NewBlender(DefaultScoringParams())
	agg := NewScoreAggregator(DefaultScoringParams())
	basic := types.BasicAnalysisResult{
		OverallScore:  70,
		SectionScores: types.NewSectionScores(),
	}

	rec := types.GoodMatch
	full := blender.Blend(basic, types.AIAnalysisResult{
		InterviewProbability:   floatPtr(88),
		JobSecuringProbability: floatPtr(64),
		GoodnessOfFitScore:     floatPtr(77),
		AIRecommendation:       &rec,
		AIConfidenceLevel:      floatPtr(90),
	})
	if full.InterviewProbability != 88 || full.JobSecuringProbability != 64 ||
		full.GoodnessOfFitScore != 77 || full.AIConfidenceLevel != 90 {
		t.Errorf("AI-provided fields not used: %+v", full)
	}
	if full.AIRecommendation != types.GoodMatch {
		t.Errorf("recommendation = %s, want %s", full.AIRecommendation, types.GoodMatch)
	}

	sparse := blender.Blend(basic, types.AIAnalysisResult{})
	if sparse.InterviewProbability != agg.InterviewProbability(70) {
		t.Errorf("derived interview = %v, want %v", sparse.InterviewProbability, agg.InterviewProbability(70))
	}
	if sparse.JobSecuringProbability != agg.JobProbability(70) {
		t.Errorf("derived job = %v, want %v", sparse.JobSecuringProbability, agg.JobProbability(70))
	}
	if sparse.GoodnessOfFitScore != 70 {
		t.Errorf("derived fit = %v, want 70", sparse.GoodnessOfFitScore)
	}
	if sparse.AIConfidenceLevel != 60 {
		t.Errorf("derived confidence = %v, want 60", sparse.AIConfidenceLevel)
	}
	if sparse.AnalysisType != types.AnalysisCombined {
		t.Errorf("analysis type = %s, want %s", sparse.AnalysisType, types.AnalysisCombined)
	}
}
