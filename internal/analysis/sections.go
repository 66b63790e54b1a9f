package analysis

import (
	"regexp"
	"strings"

	"matchfit/internal/types"
)

// Marker vocabularies for the section heuristics. Each list is immutable
// configuration data; the scorer never mutates them.
var (
	emailPattern   = regexp.MustCompile(`[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	phonePattern   = regexp.MustCompile(`(\+?\d[\d\-\s().]{7,}\d)`)
	yearPattern    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	numericPattern = regexp.MustCompile(`(\d+(\.\d+)?%|\$\s?\d[\d,]*|\b\d{4,}\b)`)

	addressMarkers = []string{
		"address", "street", "city", "state", "zip", "location", "linkedin",
	}

	summaryHeadings = []string{
		"summary", "professional summary", "profile", "objective",
		"about me", "career objective",
	}

	experienceHeadings = []string{
		"experience", "work history", "employment", "professional experience",
		"career history",
	}

	jobTitleWords = []string{
		"engineer", "developer", "manager", "analyst", "consultant",
		"architect", "specialist", "coordinator", "director", "lead",
		"administrator", "designer",
	}

	educationTerms = []string{
		"bachelor", "master", "phd", "doctorate", "diploma", "degree",
		"university", "college", "institute", "certification", "gpa",
		"bsc", "msc", "mba",
	}

	skillsHeadings = []string{
		"skills", "technical skills", "core competencies", "technologies",
		"proficiencies",
	}

	achievementTerms = []string{
		"achieved", "improved", "increased", "reduced", "delivered", "led",
		"launched", "award", "awarded", "recognized", "exceeded", "saved",
		"optimized", "grew",
	}
)

// SectionScorer evaluates the six structural resume sections with
// independent presence/frequency heuristics. Deterministic and pure.
type SectionScorer struct{}

// NewSectionScorer creates a section scorer.
func NewSectionScorer() *SectionScorer {
	return &SectionScorer{}
}

// ScoreSections computes all six section scores for lowercased resume text.
// Every key is always present; empty input scores 0 everywhere.
func (s *SectionScorer) ScoreSections(resumeText string) types.SectionScores {
	scores := types.NewSectionScores()
	if strings.TrimSpace(resumeText) == "" {
		return scores
	}

	text := strings.ToLower(resumeText)
	scores[types.SectionContactInfo] = scoreContactInfo(text)
	scores[types.SectionSummary] = scoreSummary(text)
	scores[types.SectionExperience] = scoreExperience(text)
	scores[types.SectionEducation] = scoreEducation(text)
	scores[types.SectionSkills] = scoreSkills(text)
	scores[types.SectionAchievements] = scoreAchievements(text)
	return scores
}

// scoreContactInfo: +40 email, +30 phone, +30 address marker, capped at 100.
func scoreContactInfo(text string) float64 {
	var score float64
	if emailPattern.MatchString(text) {
		score += 40
	}
	if phonePattern.MatchString(text) {
		score += 30
	}
	for _, marker := range addressMarkers {
		if strings.Contains(text, marker) {
			score += 30
			break
		}
	}
	return types.ClampScore(score)
}

// scoreSummary is binary: 85 when any summary heading synonym appears.
func scoreSummary(text string) float64 {
	for _, heading := range summaryHeadings {
		if strings.Contains(text, heading) {
			return 85
		}
	}
	return 0
}

// scoreExperience: +20 for a heading, +10 per job-title word (max 40),
// +5 per 4-digit year token (max 40), capped at 100.
func scoreExperience(text string) float64 {
	var score float64
	for _, heading := range experienceHeadings {
		if strings.Contains(text, heading) {
			score += 20
			break
		}
	}

	var titleScore float64
	for _, word := range jobTitleWords {
		if strings.Contains(text, word) {
			titleScore += 10
		}
	}
	score += min(titleScore, 40)

	yearScore := float64(len(yearPattern.FindAllString(text, -1))) * 5
	score += min(yearScore, 40)

	return types.ClampScore(score)
}

// scoreEducation: +15 per matched education term, capped at 100.
func scoreEducation(text string) float64 {
	var score float64
	for _, term := range educationTerms {
		if strings.Contains(text, term) {
			score += 15
		}
	}
	return types.ClampScore(score)
}

// scoreSkills: +20 per matched skills heading synonym, capped at 100.
func scoreSkills(text string) float64 {
	var score float64
	for _, heading := range skillsHeadings {
		if strings.Contains(text, heading) {
			score += 20
		}
	}
	return types.ClampScore(score)
}

// scoreAchievements: +10 per achievement term occurrence plus +15 per
// quantified token (percentages, currency, large numbers), capped at 100.
func scoreAchievements(text string) float64 {
	var score float64
	for _, term := range achievementTerms {
		score += float64(strings.Count(text, term)) * 10
	}
	score += float64(len(numericPattern.FindAllString(text, -1))) * 15
	return types.ClampScore(score)
}
