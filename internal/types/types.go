package types

import "math"

// Section identifies one of the six fixed resume sections scored by the engine.
// It is a closed enumeration: only the constants below are valid values.
type Section string

const (
	SectionContactInfo  Section = "contact_info"
	SectionSummary      Section = "summary"
	SectionExperience   Section = "experience"
	SectionEducation    Section = "education"
	SectionSkills       Section = "skills"
	SectionAchievements Section = "achievements"
)

// Sections returns all sections in their fixed evaluation order.
func Sections() []Section {
	return []Section{
		SectionContactInfo,
		SectionSummary,
		SectionExperience,
		SectionEducation,
		SectionSkills,
		SectionAchievements,
	}
}

// SectionScores maps every section to a score in [0,100].
// All six keys are always present; NewSectionScores initializes them to 0.
type SectionScores map[Section]float64

// NewSectionScores returns a score map with all six sections set to 0.
func NewSectionScores() SectionScores {
	scores := make(SectionScores, len(Sections()))
	for _, s := range Sections() {
		scores[s] = 0
	}
	return scores
}

// Average returns the mean of all six section scores.
func (s SectionScores) Average() float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, section := range Sections() {
		sum += s[section]
	}
	return sum / float64(len(Sections()))
}

// KeywordCategory identifies one of the three fixed keyword categories.
type KeywordCategory string

const (
	CategoryTechnologies KeywordCategory = "technologies"
	CategorySkills       KeywordCategory = "skills"
	CategoryTools        KeywordCategory = "tools"
)

// KeywordCategories returns the categories in their fixed iteration order.
func KeywordCategories() []KeywordCategory {
	return []KeywordCategory{CategoryTechnologies, CategorySkills, CategoryTools}
}

// JobKeywordSet holds the lowercase keywords extracted from a job description,
// grouped by category. Slices are deduplicated and keep vocabulary order so
// flattened iteration is stable across runs. Treated as immutable once built.
type JobKeywordSet struct {
	Technologies []string `json:"technologies"`
	Skills       []string `json:"skills"`
	Tools        []string `json:"tools"`
}

// Category returns the keywords for one category.
func (k JobKeywordSet) Category(c KeywordCategory) []string {
	switch c {
	case CategoryTechnologies:
		return k.Technologies
	case CategorySkills:
		return k.Skills
	case CategoryTools:
		return k.Tools
	}
	return nil
}

// Flatten returns all keywords in stable category-then-vocabulary order.
func (k JobKeywordSet) Flatten() []string {
	out := make([]string, 0, k.Total())
	for _, c := range KeywordCategories() {
		out = append(out, k.Category(c)...)
	}
	return out
}

// Total returns the number of keywords across all categories.
func (k JobKeywordSet) Total() int {
	return len(k.Technologies) + len(k.Skills) + len(k.Tools)
}

// KeywordAnalysis partitions a JobKeywordSet into keywords found in the
// submitted documents and keywords absent from them.
type KeywordAnalysis struct {
	Matching  []string `json:"matching"`
	Missing   []string `json:"missing"`
	Suggested []string `json:"suggested"` // first 10 missing keywords, stable order
	Density   float64  `json:"density"`   // matching/(matching+missing)*100, 0 when empty
}

// RecommendationCategory is the categorical verdict derived from the overall
// score. The constants form a total order by ascending score threshold.
type RecommendationCategory string

const (
	NotRecommended RecommendationCategory = "not_recommended"
	PoorMatch      RecommendationCategory = "poor_match"
	FairMatch      RecommendationCategory = "fair_match"
	GoodMatch      RecommendationCategory = "good_match"
	ExcellentMatch RecommendationCategory = "excellent_match"
)

// AnalysisType records which scoring path produced a result.
type AnalysisType string

const (
	// AnalysisBasic is the local heuristic engine alone.
	AnalysisBasic AnalysisType = "basic"
	// AnalysisCombined is the 30/70 blend of basic and AI scores.
	AnalysisCombined AnalysisType = "combined"
	// AnalysisBasicEnhanced is the basic result augmented with derived
	// probability and recommendation fields when no AI result was available.
	AnalysisBasicEnhanced AnalysisType = "basic_enhanced"
)

// BasicAnalysisResult is the output of the local heuristic scoring engine.
type BasicAnalysisResult struct {
	OverallScore     float64         `json:"overallScore"`
	ATSScore         float64         `json:"atsScore"`
	ResumeMatchScore float64         `json:"resumeMatchScore"`
	CoverLetterMatch float64         `json:"coverLetterMatchScore"`
	SectionScores    SectionScores   `json:"sectionScores"`
	KeywordAnalysis  KeywordAnalysis `json:"keywordAnalysis"`
	Recommendations  []string        `json:"recommendations"`
	AnalysisType     AnalysisType    `json:"analysisType"`
}

// GapAnalysis describes skill, experience, and education gaps reported by the
// AI service. The engine passes these through untouched.
type GapAnalysis struct {
	SkillGaps      []string `json:"skillGaps,omitempty"`
	ExperienceGaps []string `json:"experienceGaps,omitempty"`
	EducationGaps  []string `json:"educationGaps,omitempty"`
}

// AIAnalysisResult is the score set returned by an external AI analyzer.
// Pointer fields distinguish "omitted by the AI" from a reported zero.
type AIAnalysisResult struct {
	OverallScore     float64             `json:"overallScore"`
	ATSScore         *float64            `json:"atsScore,omitempty"`
	ResumeMatchScore float64             `json:"resumeMatchScore"`
	CoverLetterMatch float64             `json:"coverLetterMatchScore"`
	SectionScores    map[Section]float64 `json:"sectionScores,omitempty"`
	KeywordAnalysis  *KeywordAnalysis    `json:"keywordAnalysis,omitempty"`
	Recommendations  []string            `json:"recommendations,omitempty"`

	InterviewProbability   *float64                `json:"interviewProbability,omitempty"`
	JobSecuringProbability *float64                `json:"jobSecuringProbability,omitempty"`
	GoodnessOfFitScore     *float64                `json:"goodnessOfFitScore,omitempty"`
	AIRecommendation       *RecommendationCategory `json:"aiRecommendation,omitempty"`
	AIConfidenceLevel      *float64                `json:"aiConfidenceLevel,omitempty"`
	Gaps                   GapAnalysis             `json:"gaps,omitempty"`
}

// CombinedAnalysisResult is the final pipeline output: either the weighted
// merge of basic and AI scores, or the enhanced basic result when no AI ran.
type CombinedAnalysisResult struct {
	OverallScore     float64         `json:"overallScore"`
	ATSScore         float64         `json:"atsScore"`
	ResumeMatchScore float64         `json:"resumeMatchScore"`
	CoverLetterMatch float64         `json:"coverLetterMatchScore"`
	SectionScores    SectionScores   `json:"sectionScores"`
	KeywordAnalysis  KeywordAnalysis `json:"keywordAnalysis"`
	Recommendations  []string        `json:"recommendations"`

	InterviewProbability   float64                `json:"interviewProbability"`
	JobSecuringProbability float64                `json:"jobSecuringProbability"`
	GoodnessOfFitScore     float64                `json:"goodnessOfFitScore"`
	AIRecommendation       RecommendationCategory `json:"aiRecommendation"`
	AIConfidenceLevel      float64                `json:"aiConfidenceLevel"`
	Gaps                   GapAnalysis            `json:"gaps,omitempty"`

	AnalysisType AnalysisType `json:"analysisType"`
}

// AnalyzeInput carries the raw text inputs for one analysis run. Text is
// expected to be already extracted; empty cover letter text is permitted.
type AnalyzeInput struct {
	JobDescription  string `json:"jobDescription"`
	ResumeText      string `json:"resumeText"`
	CoverLetterText string `json:"coverLetterText,omitempty"`
}

// ClampScore bounds a score to [0,100].
func ClampScore(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}
