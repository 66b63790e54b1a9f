package analysis

import (
	"strings"

	"matchfit/internal/types"
)

// MatchCalculator compares extracted job keywords against document text.
// Pure and stateless; keyword iteration order follows JobKeywordSet.Flatten.
type MatchCalculator struct{}

// NewMatchCalculator creates a match calculator.
func NewMatchCalculator() *MatchCalculator {
	return &MatchCalculator{}
}

// MatchPercentage returns the percentage of all keywords (flattened across
// categories) found as substrings in the text. Empty keyword sets score 0
// rather than dividing by zero.
func (m *MatchCalculator) MatchPercentage(keywords types.JobKeywordSet, text string) float64 {
	all := keywords.Flatten()
	if len(all) == 0 {
		return 0
	}
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	matched := 0
	for _, kw := range all {
		if strings.Contains(lower, kw) {
			matched++
		}
	}
	return types.ClampScore(float64(matched) / float64(len(all)) * 100)
}

// AnalyzeKeywords partitions the keyword set into matching and missing
// against the resume and cover letter combined. A keyword counts as matching
// when it appears in either document. Suggested keywords are the first 10
// missing ones in stable flattened order.
func (m *MatchCalculator) AnalyzeKeywords(keywords types.JobKeywordSet, resumeText, coverLetterText string) types.KeywordAnalysis {
	resume := strings.ToLower(resumeText)
	cover := strings.ToLower(coverLetterText)

	analysis := types.KeywordAnalysis{
		Matching: []string{},
		Missing:  []string{},
	}
	for _, kw := range keywords.Flatten() {
		if strings.Contains(resume, kw) || (cover != "" && strings.Contains(cover, kw)) {
			analysis.Matching = append(analysis.Matching, kw)
		} else {
			analysis.Missing = append(analysis.Missing, kw)
		}
	}

	analysis.Suggested = suggestFromMissing(analysis.Missing)
	analysis.Density = KeywordDensity(len(analysis.Matching), len(analysis.Missing))
	return analysis
}

// suggestFromMissing takes up to 10 missing keywords preserving order.
func suggestFromMissing(missing []string) []string {
	limit := min(len(missing), 10)
	suggested := make([]string, limit)
	copy(suggested, missing[:limit])
	return suggested
}

// KeywordDensity is matching/(matching+missing)*100, or 0 when both are
// empty. Always derived from the counts, never stored independently.
func KeywordDensity(matching, missing int) float64 {
	total := matching + missing
	if total == 0 {
		return 0
	}
	return float64(matching) / float64(total) * 100
}
