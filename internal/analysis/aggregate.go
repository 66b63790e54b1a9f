package analysis

import (
	"fmt"
	"math"

	"matchfit/internal/types"
)

// ScoringParams holds the heuristic constants used for aggregation and
// probability derivation. The values are not statistically calibrated; they
// are kept configurable rather than inferred.
type ScoringParams struct {
	ResumeMatchWeight  float64 // weight of the resume match score
	CoverLetterWeight  float64 // weight of the cover letter match score
	SectionWeight      float64 // weight of the section score average
	InterviewOffset    float64 // interview probability = (score-offset)*slope
	InterviewSlope     float64
	JobOffset          float64 // job probability = score - offset
	DefaultConfidence  float64 // confidence reported when no AI ran
	BasicBlendWeight   float64 // basic share in the basic/AI blend
	AIBlendWeight      float64 // AI share in the basic/AI blend
}

// DefaultScoringParams returns the standard weighting scheme.
func DefaultScoringParams() ScoringParams {
	return ScoringParams{
		ResumeMatchWeight: 0.3,
		CoverLetterWeight: 0.2,
		SectionWeight:     0.5,
		InterviewOffset:   20,
		InterviewSlope:    1.2,
		JobOffset:         30,
		DefaultConfidence: 60,
		BasicBlendWeight:  0.3,
		AIBlendWeight:     0.7,
	}
}

// Recommendation thresholds, inclusive lower bounds.
const (
	excellentThreshold = 85
	goodThreshold      = 70
	fairThreshold      = 55
	poorThreshold      = 40
)

// ScoreAggregator combines section, match, and ATS scores into the overall
// score and derives the probability and recommendation fields from it.
type ScoreAggregator struct {
	params ScoringParams
}

// NewScoreAggregator creates an aggregator with the given parameters.
func NewScoreAggregator(params ScoringParams) *ScoreAggregator {
	return &ScoreAggregator{params: params}
}

// Aggregate computes the weighted overall score, rounded to one decimal.
func (a *ScoreAggregator) Aggregate(sections types.SectionScores, resumeMatch, coverLetterMatch float64) float64 {
	overall := resumeMatch*a.params.ResumeMatchWeight +
		coverLetterMatch*a.params.CoverLetterWeight +
		sections.Average()*a.params.SectionWeight
	return types.ClampScore(roundTo(overall, 1))
}

// Recommendation maps an overall score onto the categorical verdict.
// Boundaries are inclusive: exactly 85 is excellent_match.
func (a *ScoreAggregator) Recommendation(overallScore float64) types.RecommendationCategory {
	switch {
	case overallScore >= excellentThreshold:
		return types.ExcellentMatch
	case overallScore >= goodThreshold:
		return types.GoodMatch
	case overallScore >= fairThreshold:
		return types.FairMatch
	case overallScore >= poorThreshold:
		return types.PoorMatch
	default:
		return types.NotRecommended
	}
}

// InterviewProbability is a monotonic heuristic, not a calibrated model.
func (a *ScoreAggregator) InterviewProbability(overallScore float64) float64 {
	return types.ClampScore((overallScore - a.params.InterviewOffset) * a.params.InterviewSlope)
}

// JobProbability is a monotonic heuristic, not a calibrated model.
func (a *ScoreAggregator) JobProbability(overallScore float64) float64 {
	return types.ClampScore(overallScore - a.params.JobOffset)
}

// Recommendations emits up to five improvement hints: weak sections first in
// fixed section order, then the keyword gap, then low match warnings.
func (a *ScoreAggregator) Recommendations(sections types.SectionScores, keywords types.KeywordAnalysis, resumeMatch, coverLetterMatch float64) []string {
	var recs []string

	for _, section := range types.Sections() {
		if sections[section] < 50 {
			recs = append(recs, fmt.Sprintf("Strengthen the %s section of your resume (scored %.0f/100)", sectionLabel(section), sections[section]))
		}
	}

	if len(keywords.Missing) > 5 {
		recs = append(recs, fmt.Sprintf("Add more of the job's keywords to your documents; %d relevant terms are missing", len(keywords.Missing)))
	}

	if resumeMatch < 60 {
		recs = append(recs, fmt.Sprintf("Your resume matches only %.1f%% of the job's keywords; tailor it to the posting", resumeMatch))
	}
	if coverLetterMatch > 0 && coverLetterMatch < 60 {
		recs = append(recs, fmt.Sprintf("Your cover letter matches only %.1f%% of the job's keywords; align it with the posting", coverLetterMatch))
	}

	if len(recs) > 5 {
		recs = recs[:5]
	}
	return recs
}

// EnhanceBasic augments a basic result with the derived probability,
// recommendation, and confidence fields used when no AI analysis ran.
func (a *ScoreAggregator) EnhanceBasic(basic types.BasicAnalysisResult) types.CombinedAnalysisResult {
	return types.CombinedAnalysisResult{
		OverallScore:     basic.OverallScore,
		ATSScore:         basic.ATSScore,
		ResumeMatchScore: basic.ResumeMatchScore,
		CoverLetterMatch: basic.CoverLetterMatch,
		SectionScores:    basic.SectionScores,
		KeywordAnalysis:  basic.KeywordAnalysis,
		Recommendations:  basic.Recommendations,

		InterviewProbability:   a.InterviewProbability(basic.OverallScore),
		JobSecuringProbability: a.JobProbability(basic.OverallScore),
		GoodnessOfFitScore:     basic.OverallScore,
		AIRecommendation:       a.Recommendation(basic.OverallScore),
		AIConfidenceLevel:      a.params.DefaultConfidence,

		AnalysisType: types.AnalysisBasicEnhanced,
	}
}

func sectionLabel(s types.Section) string {
	switch s {
	case types.SectionContactInfo:
		return "contact information"
	case types.SectionSummary:
		return "summary"
	case types.SectionExperience:
		return "experience"
	case types.SectionEducation:
		return "education"
	case types.SectionSkills:
		return "skills"
	case types.SectionAchievements:
		return "achievements"
	}
	return string(s)
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
