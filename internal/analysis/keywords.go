package analysis

import (
	"strings"

	"matchfit/internal/types"
)

// keywordVocabulary is the curated term list for one keyword category. Terms
// are matched case-insensitively on token boundaries and reported lowercase in
// vocabulary order, which keeps flattened keyword iteration stable.
type keywordVocabulary struct {
	category types.KeywordCategory
	terms    []string
}

// Technology terms cover languages, frameworks, databases, and platforms.
var technologyTerms = []string{
	"php", "python", "java", "javascript", "typescript", "golang", "ruby",
	"c++", "c#", "swift", "kotlin", "rust", "scala", "perl", "sql",
	"html", "css", "react", "angular", "vue", "node.js", "django", "flask",
	"laravel", "symfony", "spring", "rails", ".net", "express",
	"mysql", "postgresql", "mongodb", "redis", "elasticsearch", "oracle",
	"sqlite", "cassandra", "dynamodb",
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "linux",
	"graphql", "rest", "grpc", "kafka", "rabbitmq",
}

// Skill terms are the fixed soft-skill vocabulary.
var skillTerms = []string{
	"leadership", "communication", "teamwork", "problem solving",
	"analytical", "project management", "agile", "scrum", "mentoring",
	"collaboration", "time management", "critical thinking", "adaptability",
	"negotiation", "presentation", "stakeholder management",
}

// Tool terms are the fixed tool vocabulary.
var toolTerms = []string{
	"git", "jira", "confluence", "jenkins", "gitlab", "github", "bitbucket",
	"slack", "trello", "figma", "postman", "tableau", "excel", "powerpoint",
	"visual studio", "intellij", "vim", "ansible", "grafana", "prometheus",
}

// KeywordExtractor scans job description text for known technology, skill,
// and tool terms. It is a pure component: no I/O and no failure modes.
type KeywordExtractor struct {
	vocabularies []keywordVocabulary
}

// NewKeywordExtractor builds an extractor over the embedded vocabularies.
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{
		vocabularies: []keywordVocabulary{
			{category: types.CategoryTechnologies, terms: technologyTerms},
			{category: types.CategorySkills, terms: skillTerms},
			{category: types.CategoryTools, terms: toolTerms},
		},
	}
}

// matches reports which vocabulary terms appear in the text, in vocabulary
// order, deduplicated and lowercased.
func (v keywordVocabulary) matches(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var found []string
	for _, term := range v.terms {
		if containsTerm(lower, term) {
			found = append(found, term)
		}
	}
	return found
}

// containsTerm checks a single lowercase term against lowercase text with
// token boundaries on both sides, so "java" does not match inside
// "javascript".
func containsTerm(text, term string) bool {
	start := 0
	for {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(term)
		leftOK := idx == 0 || !isTermRune(rune(text[idx-1]))
		rightOK := end == len(text) || !isTermRune(rune(text[end]))
		if leftOK && rightOK {
			return true
		}
		start = idx + 1
	}
}

// isTermRune reports runes that would extend a keyword into a longer token.
// "+" and "#" stay inside terms like "c++" and "c#".
func isTermRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '+' || r == '#':
		return true
	}
	return false
}

// Extract returns the categorized keyword set for a job description.
// An empty description yields empty sets, never an error.
func (e *KeywordExtractor) Extract(jobDescription string) types.JobKeywordSet {
	var set types.JobKeywordSet
	for _, vocab := range e.vocabularies {
		found := vocab.matches(jobDescription)
		switch vocab.category {
		case types.CategoryTechnologies:
			set.Technologies = found
		case types.CategorySkills:
			set.Skills = found
		case types.CategoryTools:
			set.Tools = found
		}
	}
	return set
}
