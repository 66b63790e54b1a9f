package analysis

import (
	"strings"

	"matchfit/internal/types"
)

// requiredSectionKeywords are the section markers an ATS parser expects to
// find. Each missing one costs 15 points.
var requiredSectionKeywords = []string{"experience", "education", "skills"}

const (
	encodingPenalty    = 20
	missingSectionCost = 15
	shortResumePenalty = 25
	longResumePenalty  = 10
	minWordCount       = 200
	maxWordCount       = 1000
)

// ATSScorer estimates how reliably an applicant tracking system would parse
// the resume. It models parsing risk from formatting and structure, not
// content quality, and is independent of any job description.
type ATSScorer struct{}

// NewATSScorer creates an ATS scorer.
func NewATSScorer() *ATSScorer {
	return &ATSScorer{}
}

// Score starts at 100 and deducts for encoding damage, missing section
// keywords, and word counts outside the 200-1000 range. Floor at 0.
func (a *ATSScorer) Score(resumeText string) float64 {
	score := 100.0
	text := strings.ToLower(resumeText)

	if strings.ContainsRune(text, '�') {
		score -= encodingPenalty
	}

	for _, keyword := range requiredSectionKeywords {
		if !strings.Contains(text, keyword) {
			score -= missingSectionCost
		}
	}

	words := len(strings.Fields(text))
	if words < minWordCount {
		score -= shortResumePenalty
	}
	if words > maxWordCount {
		score -= longResumePenalty
	}

	return types.ClampScore(score)
}
