package llm

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config selects and configures a provider.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

var defaultModels = map[string]string{
	providerGemini: "gemini-2.5-flash-lite",
	providerOpenAI: "gpt-4o-mini",
	providerOllama: "llama3.1",
}

// New returns the Completer for cfg.Provider. An empty provider means Gemini.
func New(cfg Config, logger *zap.Logger) (Completer, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = providerGemini
	}
	if cfg.Model == "" {
		cfg.Model = defaultModels[provider]
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	logger.Info("using AI provider", zap.String("provider", provider), zap.String("model", cfg.Model))

	switch provider {
	case providerGemini:
		return NewGemini(cfg, logger), nil
	case providerOpenAI:
		return NewOpenAI(cfg, logger), nil
	case providerOllama:
		return NewOllama(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
