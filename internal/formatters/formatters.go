package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"matchfit/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "CombinedAnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "CombinedAnalysisResult", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "JobKeywordSet", &KeywordsTextFormatter{})
	registry.RegisterFormatter("markdown", "JobKeywordSet", &KeywordsMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.CombinedAnalysisResult:
		return "CombinedAnalysisResult"
	case types.JobKeywordSet:
		return "JobKeywordSet"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// sectionLabels maps section identifiers to display names
var sectionLabels = map[types.Section]string{
	types.SectionContactInfo:  "Contact Info",
	types.SectionSummary:      "Summary",
	types.SectionExperience:   "Experience",
	types.SectionEducation:    "Education",
	types.SectionSkills:       "Skills",
	types.SectionAchievements: "Achievements",
}

// recommendationLabels maps verdict categories to display names
var recommendationLabels = map[types.RecommendationCategory]string{
	types.ExcellentMatch: "Excellent Match",
	types.GoodMatch:      "Good Match",
	types.FairMatch:      "Fair Match",
	types.PoorMatch:      "Poor Match",
	types.NotRecommended: "Not Recommended",
}

// AnalysisTextFormatter handles text formatting for analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CombinedAnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected CombinedAnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== MATCH ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %.1f/100\n", result.OverallScore))
	output.WriteString(fmt.Sprintf("Verdict: %s\n", recommendationLabels[result.AIRecommendation]))
	output.WriteString(fmt.Sprintf("Analysis Type: %s\n\n", result.AnalysisType))

	output.WriteString("=== SCORES ===\n")
	output.WriteString(fmt.Sprintf("ATS Compatibility:  %.1f/100\n", result.ATSScore))
	output.WriteString(fmt.Sprintf("Resume Match:       %.1f/100\n", result.ResumeMatchScore))
	output.WriteString(fmt.Sprintf("Cover Letter Match: %.1f/100\n\n", result.CoverLetterMatch))

	output.WriteString("=== SECTION SCORES ===\n")
	for _, section := range types.Sections() {
		output.WriteString(fmt.Sprintf("%-14s %.1f/100\n", sectionLabels[section]+":", result.SectionScores[section]))
	}
	output.WriteString("\n")

	output.WriteString("=== KEYWORD ANALYSIS ===\n")
	output.WriteString(fmt.Sprintf("Keyword Density: %.1f%%\n", result.KeywordAnalysis.Density))
	if len(result.KeywordAnalysis.Matching) > 0 {
		output.WriteString(fmt.Sprintf("Matched: %s\n", strings.Join(result.KeywordAnalysis.Matching, ", ")))
	}
	if len(result.KeywordAnalysis.Missing) > 0 {
		output.WriteString(fmt.Sprintf("Missing: %s\n", strings.Join(result.KeywordAnalysis.Missing, ", ")))
	}
	if len(result.KeywordAnalysis.Suggested) > 0 {
		output.WriteString(fmt.Sprintf("Suggested Additions: %s\n", strings.Join(result.KeywordAnalysis.Suggested, ", ")))
	}
	output.WriteString("\n")

	output.WriteString("=== OUTLOOK ===\n")
	output.WriteString(fmt.Sprintf("Interview Probability:    %.0f%%\n", result.InterviewProbability))
	output.WriteString(fmt.Sprintf("Job Securing Probability: %.0f%%\n", result.JobSecuringProbability))
	output.WriteString(fmt.Sprintf("Goodness of Fit:          %.0f/100\n", result.GoodnessOfFitScore))
	output.WriteString(fmt.Sprintf("Confidence Level:         %.0f%%\n\n", result.AIConfidenceLevel))

	if len(result.Recommendations) > 0 {
		output.WriteString("=== RECOMMENDATIONS ===\n")
		for i, recommendation := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, recommendation))
		}
		output.WriteString("\n")
	}

	writeGapsText(&output, result.Gaps)

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "CombinedAnalysisResult"
}

func writeGapsText(output *strings.Builder, gaps types.GapAnalysis) {
	if len(gaps.SkillGaps) == 0 && len(gaps.ExperienceGaps) == 0 && len(gaps.EducationGaps) == 0 {
		return
	}

	output.WriteString("=== GAP ANALYSIS ===\n")
	if len(gaps.SkillGaps) > 0 {
		output.WriteString("Skill Gaps:\n")
		for _, gap := range gaps.SkillGaps {
			output.WriteString(fmt.Sprintf("- %s\n", gap))
		}
	}
	if len(gaps.ExperienceGaps) > 0 {
		output.WriteString("Experience Gaps:\n")
		for _, gap := range gaps.ExperienceGaps {
			output.WriteString(fmt.Sprintf("- %s\n", gap))
		}
	}
	if len(gaps.EducationGaps) > 0 {
		output.WriteString("Education Gaps:\n")
		for _, gap := range gaps.EducationGaps {
			output.WriteString(fmt.Sprintf("- %s\n", gap))
		}
	}
}

// AnalysisMarkdownFormatter handles markdown formatting for analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CombinedAnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected CombinedAnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Match Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %.1f/100\n\n", result.OverallScore))
	output.WriteString(fmt.Sprintf("**Verdict:** %s\n\n", recommendationLabels[result.AIRecommendation]))
	output.WriteString(fmt.Sprintf("**Analysis Type:** %s\n\n", result.AnalysisType))

	output.WriteString("## Scores\n\n")
	output.WriteString("| Score | Value |\n")
	output.WriteString("|-------|-------|\n")
	output.WriteString(fmt.Sprintf("| ATS Compatibility | %.1f/100 |\n", result.ATSScore))
	output.WriteString(fmt.Sprintf("| Resume Match | %.1f/100 |\n", result.ResumeMatchScore))
	output.WriteString(fmt.Sprintf("| Cover Letter Match | %.1f/100 |\n\n", result.CoverLetterMatch))

	output.WriteString("## Section Scores\n\n")
	output.WriteString("| Section | Score |\n")
	output.WriteString("|---------|-------|\n")
	for _, section := range types.Sections() {
		output.WriteString(fmt.Sprintf("| %s | %.1f/100 |\n", sectionLabels[section], result.SectionScores[section]))
	}
	output.WriteString("\n")

	output.WriteString("## Keyword Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Keyword Density:** %.1f%%\n\n", result.KeywordAnalysis.Density))
	if len(result.KeywordAnalysis.Matching) > 0 {
		output.WriteString("### Matched Keywords\n")
		for _, kw := range result.KeywordAnalysis.Matching {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}
	if len(result.KeywordAnalysis.Missing) > 0 {
		output.WriteString("### Missing Keywords\n")
		for _, kw := range result.KeywordAnalysis.Missing {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}
	if len(result.KeywordAnalysis.Suggested) > 0 {
		output.WriteString("### Suggested Additions\n")
		for _, kw := range result.KeywordAnalysis.Suggested {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}

	output.WriteString("## Outlook\n\n")
	output.WriteString(fmt.Sprintf("- **Interview Probability:** %.0f%%\n", result.InterviewProbability))
	output.WriteString(fmt.Sprintf("- **Job Securing Probability:** %.0f%%\n", result.JobSecuringProbability))
	output.WriteString(fmt.Sprintf("- **Goodness of Fit:** %.0f/100\n", result.GoodnessOfFitScore))
	output.WriteString(fmt.Sprintf("- **Confidence Level:** %.0f%%\n\n", result.AIConfidenceLevel))

	if len(result.Recommendations) > 0 {
		output.WriteString("## Recommendations\n\n")
		for i, recommendation := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, recommendation))
		}
		output.WriteString("\n")
	}

	writeGapsMarkdown(&output, result.Gaps)

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "CombinedAnalysisResult"
}

func writeGapsMarkdown(output *strings.Builder, gaps types.GapAnalysis) {
	if len(gaps.SkillGaps) == 0 && len(gaps.ExperienceGaps) == 0 && len(gaps.EducationGaps) == 0 {
		return
	}

	output.WriteString("## Gap Analysis\n\n")
	if len(gaps.SkillGaps) > 0 {
		output.WriteString("### Skill Gaps\n")
		for _, gap := range gaps.SkillGaps {
			output.WriteString(fmt.Sprintf("- %s\n", gap))
		}
		output.WriteString("\n")
	}
	if len(gaps.ExperienceGaps) > 0 {
		output.WriteString("### Experience Gaps\n")
		for _, gap := range gaps.ExperienceGaps {
			output.WriteString(fmt.Sprintf("- %s\n", gap))
		}
		output.WriteString("\n")
	}
	if len(gaps.EducationGaps) > 0 {
		output.WriteString("### Education Gaps\n")
		for _, gap := range gaps.EducationGaps {
			output.WriteString(fmt.Sprintf("- %s\n", gap))
		}
		output.WriteString("\n")
	}
}

// KeywordsTextFormatter handles text formatting for extracted job keywords
type KeywordsTextFormatter struct{}

func (ktf *KeywordsTextFormatter) Format(data any) (string, error) {
	keywords, ok := data.(types.JobKeywordSet)
	if !ok {
		return "", fmt.Errorf("expected JobKeywordSet, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== JOB KEYWORDS ===\n\n")
	output.WriteString(fmt.Sprintf("Total: %d keywords\n\n", keywords.Total()))

	writeKeywordCategoryText(&output, "Technologies", keywords.Technologies)
	writeKeywordCategoryText(&output, "Skills", keywords.Skills)
	writeKeywordCategoryText(&output, "Tools", keywords.Tools)

	return output.String(), nil
}

func (ktf *KeywordsTextFormatter) SupportedType() string {
	return "JobKeywordSet"
}

func writeKeywordCategoryText(output *strings.Builder, label string, keywords []string) {
	output.WriteString(label + ":\n")
	if len(keywords) == 0 {
		output.WriteString("  (none detected)\n\n")
		return
	}
	for _, kw := range keywords {
		output.WriteString(fmt.Sprintf("  - %s\n", kw))
	}
	output.WriteString("\n")
}

// KeywordsMarkdownFormatter handles markdown formatting for extracted job keywords
type KeywordsMarkdownFormatter struct{}

func (kmf *KeywordsMarkdownFormatter) Format(data any) (string, error) {
	keywords, ok := data.(types.JobKeywordSet)
	if !ok {
		return "", fmt.Errorf("expected JobKeywordSet, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Job Keywords\n\n")
	output.WriteString(fmt.Sprintf("**Total:** %d keywords\n\n", keywords.Total()))

	writeKeywordCategoryMarkdown(&output, "Technologies", keywords.Technologies)
	writeKeywordCategoryMarkdown(&output, "Skills", keywords.Skills)
	writeKeywordCategoryMarkdown(&output, "Tools", keywords.Tools)

	return output.String(), nil
}

func (kmf *KeywordsMarkdownFormatter) SupportedType() string {
	return "JobKeywordSet"
}

func writeKeywordCategoryMarkdown(output *strings.Builder, label string, keywords []string) {
	output.WriteString("## " + label + "\n\n")
	if len(keywords) == 0 {
		output.WriteString("_None detected._\n\n")
		return
	}
	for _, kw := range keywords {
		output.WriteString(fmt.Sprintf("- %s\n", kw))
	}
	output.WriteString("\n")
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
