package ai

import (
	"context"
	"fmt"

	"matchfit/internal/config"
	"matchfit/internal/errors"
	"matchfit/internal/types"
)

// Service handles external AI match analysis. It adapts the configured
// provider to the analysis pipeline's AIAnalyzer contract.
type Service struct {
	Provider AIProvider // Exported for access from server package
	config   *config.AIConfig
	logger   *errors.Logger
}

// NewService creates a new AI service instance for the configured provider
func NewService(cfg *config.AIConfig, logger *errors.Logger) (*Service, error) {
	var provider AIProvider
	var err error

	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"endpoint", cfg.Endpoint,
		"model", cfg.Model,
		"timeout", cfg.Timeout,
		"max_retries", cfg.MaxRetries)

	switch cfg.Provider {
	case "remote":
		provider, err = NewRemoteProvider(cfg, logger)
	case "gemini":
		provider, err = NewGeminiProvider(cfg, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create AI provider", err)
	}

	return &Service{
		Provider: provider,
		config:   cfg,
		logger:   logger,
	}, nil
}

// AnalyzeMatch satisfies the pipeline's AIAnalyzer interface. Token usage is
// logged here; pipeline callers only see the analysis result.
func (s *Service) AnalyzeMatch(ctx context.Context, input types.AnalyzeInput) (*types.AIAnalysisResult, error) {
	result, usage, err := s.Provider.AnalyzeMatch(ctx, input)
	if err != nil {
		return nil, err
	}

	if usage != nil {
		s.logger.Debug("AI analysis token usage",
			"provider", s.config.Provider,
			"input_tokens", usage.InputTokens,
			"output_tokens", usage.OutputTokens,
			"total_tokens", usage.TotalTokens)
	}
	return result, nil
}

// GetProviderStatus returns provider readiness for health checks
func (s *Service) GetProviderStatus(ctx context.Context) *ProviderStatus {
	return s.Provider.GetProviderStatus(ctx)
}

// Close releases provider resources
func (s *Service) Close() error {
	return s.Provider.Close()
}
