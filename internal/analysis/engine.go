package analysis

import "matchfit/internal/types"

// Engine runs the local heuristic scoring pipeline: keyword extraction,
// section scoring, match calculation, ATS scoring, and aggregation. It is
// stateless and safe for concurrent use.
type Engine struct {
	keywords   *KeywordExtractor
	sections   *SectionScorer
	matcher    *MatchCalculator
	ats        *ATSScorer
	aggregator *ScoreAggregator
}

// NewEngine wires the scoring components with the given parameters.
func NewEngine(params ScoringParams) *Engine {
	return &Engine{
		keywords:   NewKeywordExtractor(),
		sections:   NewSectionScorer(),
		matcher:    NewMatchCalculator(),
		ats:        NewATSScorer(),
		aggregator: NewScoreAggregator(params),
	}
}

// Analyze produces the basic analysis result for one input. All structures
// are created fresh per invocation; nothing is shared or mutated.
func (e *Engine) Analyze(input types.AnalyzeInput) types.BasicAnalysisResult {
	keywords := e.keywords.Extract(input.JobDescription)
	sections := e.sections.ScoreSections(input.ResumeText)

	resumeMatch := e.matcher.MatchPercentage(keywords, input.ResumeText)
	coverMatch := 0.0
	if input.CoverLetterText != "" {
		coverMatch = e.matcher.MatchPercentage(keywords, input.CoverLetterText)
	}

	keywordAnalysis := e.matcher.AnalyzeKeywords(keywords, input.ResumeText, input.CoverLetterText)
	overall := e.aggregator.Aggregate(sections, resumeMatch, coverMatch)

	return types.BasicAnalysisResult{
		OverallScore:     overall,
		ATSScore:         e.ats.Score(input.ResumeText),
		ResumeMatchScore: resumeMatch,
		CoverLetterMatch: coverMatch,
		SectionScores:    sections,
		KeywordAnalysis:  keywordAnalysis,
		Recommendations:  e.aggregator.Recommendations(sections, keywordAnalysis, resumeMatch, coverMatch),
		AnalysisType:     types.AnalysisBasic,
	}
}

// ExtractKeywords exposes the keyword extractor for callers that only need
// the categorized keyword set of a job description.
func (e *Engine) ExtractKeywords(jobDescription string) types.JobKeywordSet {
	return e.keywords.Extract(jobDescription)
}

// Aggregator exposes the score aggregator for derived-field computation.
func (e *Engine) Aggregator() *ScoreAggregator {
	return e.aggregator
}
