package analysis

import (
	"math"

	"matchfit/internal/types"
)

// Blender merges the local basic result with an external AI result using a
// fixed weighting: 30% basic, 70% AI. It is only invoked when the AI call
// succeeded; the fallback path goes through ScoreAggregator.EnhanceBasic.
type Blender struct {
	params     ScoringParams
	aggregator *ScoreAggregator
}

// NewBlender creates a blender sharing the aggregator's scoring parameters.
func NewBlender(params ScoringParams) *Blender {
	return &Blender{
		params:     params,
		aggregator: NewScoreAggregator(params),
	}
}

// Blend produces the combined result from a successful AI analysis.
func (b *Blender) Blend(basic types.BasicAnalysisResult, ai types.AIAnalysisResult) types.CombinedAnalysisResult {
	combined := types.CombinedAnalysisResult{
		OverallScore:     b.blendScore(basic.OverallScore, ai.OverallScore),
		ResumeMatchScore: b.blendScore(basic.ResumeMatchScore, ai.ResumeMatchScore),
		CoverLetterMatch: b.blendScore(basic.CoverLetterMatch, ai.CoverLetterMatch),
		SectionScores:    b.blendSections(basic.SectionScores, ai.SectionScores),
		KeywordAnalysis:  mergeKeywordAnalyses(basic.KeywordAnalysis, ai.KeywordAnalysis),
		Recommendations:  mergeRecommendations(ai.Recommendations, basic.Recommendations),
		Gaps:             ai.Gaps,
		AnalysisType:     types.AnalysisCombined,
	}

	// The AI's ATS judgment takes full precedence for this one field.
	if ai.ATSScore != nil {
		combined.ATSScore = types.ClampScore(*ai.ATSScore)
	} else {
		combined.ATSScore = basic.ATSScore
	}

	combined.InterviewProbability = b.floatOrDerived(ai.InterviewProbability, b.aggregator.InterviewProbability(basic.OverallScore))
	combined.JobSecuringProbability = b.floatOrDerived(ai.JobSecuringProbability, b.aggregator.JobProbability(basic.OverallScore))
	combined.GoodnessOfFitScore = b.floatOrDerived(ai.GoodnessOfFitScore, basic.OverallScore)
	combined.AIConfidenceLevel = b.floatOrDerived(ai.AIConfidenceLevel, b.params.DefaultConfidence)

	if ai.AIRecommendation != nil {
		combined.AIRecommendation = *ai.AIRecommendation
	} else {
		combined.AIRecommendation = b.aggregator.Recommendation(basic.OverallScore)
	}

	return combined
}

// blendScore applies the basic/AI weighting, rounded to the nearest integer.
func (b *Blender) blendScore(basic, ai float64) float64 {
	return types.ClampScore(math.Round(basic*b.params.BasicBlendWeight + ai*b.params.AIBlendWeight))
}

// blendSections blends each section at the same ratio, keeping the basic
// score for any section the AI response omitted.
func (b *Blender) blendSections(basic types.SectionScores, ai map[types.Section]float64) types.SectionScores {
	blended := types.NewSectionScores()
	for _, section := range types.Sections() {
		if aiScore, ok := ai[section]; ok {
			blended[section] = b.blendScore(basic[section], aiScore)
		} else {
			blended[section] = basic[section]
		}
	}
	return blended
}

// mergeKeywordAnalyses unions the basic and AI keyword sets. A keyword
// reported matching by either source counts as matching; missing keywords
// that neither source matched stay missing. Density is recomputed from the
// merged counts so it stays consistent with them.
func mergeKeywordAnalyses(basic types.KeywordAnalysis, ai *types.KeywordAnalysis) types.KeywordAnalysis {
	if ai == nil {
		return basic
	}

	matching := unionOrdered(basic.Matching, ai.Matching)
	matched := make(map[string]bool, len(matching))
	for _, kw := range matching {
		matched[kw] = true
	}

	var missing []string
	for _, kw := range unionOrdered(basic.Missing, ai.Missing) {
		if !matched[kw] {
			missing = append(missing, kw)
		}
	}

	suggested := unionOrdered(ai.Suggested, basic.Suggested)
	if len(suggested) > 10 {
		suggested = suggested[:10]
	}

	return types.KeywordAnalysis{
		Matching:  matching,
		Missing:   missing,
		Suggested: suggested,
		Density:   KeywordDensity(len(matching), len(missing)),
	}
}

// mergeRecommendations concatenates AI recommendations with up to three of
// the basic engine's. Duplicates are tolerated.
func mergeRecommendations(ai, basic []string) []string {
	merged := make([]string, 0, len(ai)+3)
	merged = append(merged, ai...)
	merged = append(merged, basic[:min(len(basic), 3)]...)
	return merged
}

// unionOrdered joins two keyword lists preserving first-seen order.
func unionOrdered(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, kw := range list {
			if !seen[kw] {
				seen[kw] = true
				out = append(out, kw)
			}
		}
	}
	return out
}

func (b *Blender) floatOrDerived(v *float64, derived float64) float64 {
	if v != nil {
		return types.ClampScore(*v)
	}
	return derived
}
