package cli

import (
	"context"
	"fmt"

	"matchfit/internal/ai"
	"matchfit/internal/analysis"
	"matchfit/internal/common"
	"matchfit/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file] [job-description-file]",
	Short: "Score a resume against a job description",
	Long: `Analyze how well a resume matches a job description.
The command takes two arguments: the path to the resume file and the path to
the job description file. PDF and DOCX files are supported alongside plain
text. An optional cover letter can be included with --cover-letter.

The analysis includes:
- Overall weighted match score and verdict
- Keyword match and density breakdown
- Resume section scoring
- ATS compatibility checks
- Interview probability and job-offer outlook

By default only the built-in heuristics run. Pass --ai to blend in an AI
assessment; when the AI provider is unavailable the heuristic result is
returned with enhanced recommendations instead.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var (
	analyzeConfig      common.CommandConfig
	analyzeCoverLetter string
	analyzeUseAI       bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().StringVar(&analyzeCoverLetter, "cover-letter", "", "Cover letter file path (optional)")
	analyzeCmd.Flags().BoolVar(&analyzeUseAI, "ai", false, "Blend in an AI assessment (requires ai.enabled in config)")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	useAI := analyzeUseAI && cfg.AI.Enabled
	if analyzeUseAI && !cfg.AI.Enabled {
		logger.Warn("--ai requested but AI is disabled in configuration, running heuristics only")
	}

	var aiService *ai.Service
	if useAI {
		var err error
		aiService, err = ai.NewService(&cfg.AI, logger)
		if err != nil {
			return fmt.Errorf("failed to create AI service: %w", err)
		}
		defer func() {
			if err := aiService.Close(); err != nil {
				logger.Warn("Failed to close AI service", "error", err)
			}
		}()
	}

	orchestrator := analysis.NewOrchestrator(cfg.Scoring.ToScoringParams(), logger)

	if analyzeCoverLetter != "" {
		args = append(args, analyzeCoverLetter)
	}

	createInput := func(contents []string) (types.AnalyzeInput, error) {
		if len(contents) < 2 || len(contents) > 3 {
			return types.AnalyzeInput{}, fmt.Errorf("expected 2 or 3 file paths, got %d", len(contents))
		}
		input := types.AnalyzeInput{
			ResumeText:     contents[0],
			JobDescription: contents[1],
		}
		if len(contents) == 3 {
			input.CoverLetterText = contents[2]
		}
		return input, nil
	}

	logDetails := func(input types.AnalyzeInput, cfg common.CommandConfig) {
		logger.Info("Starting match analysis",
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobDescription),
			"cover_letter_chars", len(input.CoverLetterText),
			"ai_enabled", useAI,
			"output_format", cfg.OutputFormat)
	}

	analyzeOperation := func(ctx context.Context, input types.AnalyzeInput) (types.CombinedAnalysisResult, error) {
		var client analysis.AIAnalyzer
		if aiService != nil {
			client = aiService
		}
		return orchestrator.Analyze(ctx, input, useAI, client)
	}

	err := common.RunCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args,
		createInput,
		analyzeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze match: %w", err)
	}
	logger.Info("Match analysis completed successfully")
	return nil
}
