package llm

import (
	"context"
	"fmt"

	"github.com/avelichko/tg-digest/internal/config"
)

// Provider is an LLM completion service. Implementations take the fully
// built prompt and return the raw text reply; parsing and validation happen
// downstream.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// New creates a provider based on the configuration.
func New(cfg *config.Config) (Provider, error) {
	switch cfg.LLM.Provider {
	case "openai":
		return NewOpenAI(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model), nil
	case "ollama":
		return NewOllama(cfg.LLM.Ollama), nil
	case "anthropic":
		return NewAnthropic(cfg.LLM.Anthropic), nil
	default:
		return nil, fmt.Errorf("llm: unsupported provider %q", cfg.LLM.Provider)
	}
}
