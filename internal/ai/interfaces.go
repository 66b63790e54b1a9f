package ai

import (
	"context"

	"matchfit/internal/types"
)

// AIProvider interface for different AI implementations
// All methods return token usage information - callers can ignore it if not needed
type AIProvider interface {
	AnalyzeMatch(ctx context.Context, input types.AnalyzeInput) (*types.AIAnalysisResult, *TokenUsage, error)
	GetProviderStatus(ctx context.Context) *ProviderStatus
	Close() error
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ProviderStatus reports provider readiness for health checks
type ProviderStatus struct {
	Provider  string `json:"provider"`
	Target    string `json:"target"` // model name or endpoint
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}
