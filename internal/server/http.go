package server

import (
	"time"

	"matchfit/internal/ai"
	"matchfit/internal/analysis"
	"matchfit/internal/config"
	matchfitErrors "matchfit/internal/errors"
)

// AnalyzeRequest represents the request body for the analyze endpoint
type AnalyzeRequest struct {
	JobDescription  string `json:"jobDescription"`
	ResumeText      string `json:"resumeText"`
	CoverLetterText string `json:"coverLetterText,omitempty"`
	UseAI           bool   `json:"useAI,omitempty"`
}

// KeywordsRequest represents the request body for the keywords endpoint
type KeywordsRequest struct {
	JobDescription string `json:"jobDescription"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Certificate auto-reload
	CertWatcher *CertWatcher

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *LimiterManager

	// Analysis pipeline
	Orchestrator *analysis.Orchestrator
	AIService    *ai.Service

	// Logger
	Logger *matchfitErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *matchfitErrors.Logger) (*Server, error) {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *LimiterManager
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewLimiterManager(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	orchestrator := analysis.NewOrchestrator(appCfg.Scoring.ToScoringParams(), logger)

	// The AI service is created once and shared across requests. When AI is
	// disabled every analysis takes the basic_enhanced path.
	var aiService *ai.Service
	if appCfg.AI.Enabled {
		svc, err := ai.NewService(&appCfg.AI, logger)
		if err != nil {
			return nil, err
		}
		aiService = svc
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Orchestrator:   orchestrator,
		AIService:      aiService,
		Logger:         logger,
	}, nil
}
