package analysis

import (
	"math/rand"
	"testing"

	"matchfit/internal/types"
)

func uniformSections(v float64) types.SectionScores {
	scores := types.NewSectionScores()
	for _, section := range types.Sections() {
		scores[section] = v
	}
	return scores
}

func TestAggregateWeighting(t *testing.T) {
	agg := NewScoreAggregator(DefaultScoringParams())

	tests := []struct {
		name             string
		sections         types.SectionScores
		resumeMatch      float64
		coverLetterMatch float64
		want             float64
	}{
		{
			name:             "all perfect",
			sections:         uniformSections(100),
			resumeMatch:      100,
			coverLetterMatch: 100,
			want:             100,
		},
		{
			name:             "all zero",
			sections:         uniformSections(0),
			resumeMatch:      0,
			coverLetterMatch: 0,
			want:             0,
		},
		{
			name: "mixed inputs rounded to one decimal",
			// 0.3*70 + 0.2*50 + 0.5*61 = 21 + 10 + 30.5 = 61.5
			sections:         uniformSections(61),
			resumeMatch:      70,
			coverLetterMatch: 50,
			want:             61.5,
		},
		{
			name: "missing cover letter contributes zero",
			// 0.3*80 + 0.2*0 + 0.5*40 = 44
			sections:         uniformSections(40),
			resumeMatch:      80,
			coverLetterMatch: 0,
			want:             44,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := agg.Aggregate(tt.sections, tt.resumeMatch, tt.coverLetterMatch)
			if got != tt.want {
				t.Errorf("Aggregate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAggregateStaysInRange(t *testing.T) {
	agg := NewScoreAggregator(DefaultScoringParams())
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		sections := types.NewSectionScores()
		for _, section := range types.Sections() {
			sections[section] = rng.Float64() * 100
		}
		got := agg.Aggregate(sections, rng.Float64()*100, rng.Float64()*100)
		if got < 0 || got > 100 {
			t.Fatalf("Aggregate = %v out of [0,100]", got)
		}
	}
}

func TestRecommendationBoundaries(t *testing.T) {
	agg := NewScoreAggregator(DefaultScoringParams())

	tests := []struct {
		score float64
		want  types.RecommendationCategory
	}{
		{100, types.ExcellentMatch},
		{85, types.ExcellentMatch},
		{84.9, types.GoodMatch},
		{70, types.GoodMatch},
		{69.9, types.FairMatch},
		{55, types.FairMatch},
		{54.9, types.PoorMatch},
		{40, types.PoorMatch},
		{39.9, types.NotRecommended},
		{0, types.NotRecommended},
	}

	for _, tt := range tests {
		if got := agg.Recommendation(tt.score); got != tt.want {
			t.Errorf("Recommendation(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestProbabilityFormulas(t *testing.T) {
	agg := NewScoreAggregator(DefaultScoringParams())

	tests := []struct {
		score         float64
		wantInterview float64
		wantJob       float64
	}{
		{0, 0, 0},
		{20, 0, 0},
		{30, 12, 0},
		{50, 36, 20},
		{100, 96, 70},
		{105, 100, 75}, // interview clamps at 100
	}

	for _, tt := range tests {
		if got := agg.InterviewProbability(tt.score); got != tt.wantInterview {
			t.Errorf("InterviewProbability(%v) = %v, want %v", tt.score, got, tt.wantInterview)
		}
		if got := agg.JobProbability(tt.score); got != tt.wantJob {
			t.Errorf("JobProbability(%v) = %v, want %v", tt.score, got, tt.wantJob)
		}
	}
}

func TestProbabilitiesMonotonic(t *testing.T) {
	agg := NewScoreAggregator(DefaultScoringParams())

	for score := 1.0; score <= 100; score++ {
		if agg.InterviewProbability(score) < agg.InterviewProbability(score-1) {
			t.Fatalf("InterviewProbability decreased at %v", score)
		}
		if agg.JobProbability(score) < agg.JobProbability(score-1) {
			t.Fatalf("JobProbability decreased at %v", score)
		}
	}
}

func TestRecommendationsOrderingAndCap(t *testing.T) {
	agg := NewScoreAggregator(DefaultScoringParams())

	// Every trigger fires: six weak sections, big keyword gap, low matches.
	sections := uniformSections(10)
	keywords := types.KeywordAnalysis{
		Missing: []string{"a", "b", "c", "d", "e", "f"},
	}

	recs := agg.Recommendations(sections, keywords, 10, 10)

	if len(recs) != 5 {
		t.Fatalf("recommendations length = %d, want 5", len(recs))
	}
	// Weak section hints come first, in fixed section order.
	wantPrefixes := []string{
		"Strengthen the contact information",
		"Strengthen the summary",
		"Strengthen the experience",
		"Strengthen the education",
		"Strengthen the skills",
	}
	for i, prefix := range wantPrefixes {
		if len(recs[i]) < len(prefix) || recs[i][:len(prefix)] != prefix {
			t.Errorf("recs[%d] = %q, want prefix %q", i, recs[i], prefix)
		}
	}
}

func TestRecommendationsStrongProfile(t *testing.T) {
	agg := NewScoreAggregator(DefaultScoringParams())

	recs := agg.Recommendations(uniformSections(90), types.KeywordAnalysis{}, 95, 90)
	if len(recs) != 0 {
		t.Errorf("recommendations = %v, want none for a strong profile", recs)
	}
}

func TestEnhanceBasic(t *testing.T) {
	agg := NewScoreAggregator(DefaultScoringParams())
	basic := types.BasicAnalysisResult{
		OverallScore:     60,
		ATSScore:         85,
		ResumeMatchScore: 70,
		CoverLetterMatch: 0,
		SectionScores:    uniformSections(55),
		Recommendations:  []string{"hint"},
	}

	combined := agg.EnhanceBasic(basic)

	if combined.AnalysisType != types.AnalysisBasicEnhanced {
		t.Errorf("analysis type = %s, want %s", combined.AnalysisType, types.AnalysisBasicEnhanced)
	}
	if combined.OverallScore != 60 || combined.ATSScore != 85 {
		t.Errorf("scores changed: overall %v ats %v", combined.OverallScore, combined.ATSScore)
	}
	if combined.InterviewProbability != 48 {
		t.Errorf("interview probability = %v, want 48", combined.InterviewProbability)
	}
	if combined.JobSecuringProbability != 30 {
		t.Errorf("job probability = %v, want 30", combined.JobSecuringProbability)
	}
	if combined.GoodnessOfFitScore != 60 {
		t.Errorf("goodness of fit = %v, want 60", combined.GoodnessOfFitScore)
	}
	if combined.AIRecommendation != types.FairMatch {
		t.Errorf("recommendation = %s, want %s", combined.AIRecommendation, types.FairMatch)
	}
	if combined.AIConfidenceLevel != 60 {
		t.Errorf("confidence = %v, want 60", combined.AIConfidenceLevel)
	}
}
