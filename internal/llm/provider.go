package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Options tune a single generation call.
type Options struct {
	// JSON asks the model for a bare JSON object.
	JSON bool
	// Temperature overrides the provider default when non-nil.
	Temperature *float64
}

// Provider is a text-in/text-out model backend.
type Provider interface {
	Generate(ctx context.Context, system, prompt string, opts Options) (string, error)
	Name() string
}

// ProviderFunc adapts a function to Provider. Handy in tests.
type ProviderFunc func(ctx context.Context, system, prompt string, opts Options) (string, error)

func (f ProviderFunc) Generate(ctx context.Context, system, prompt string, opts Options) (string, error) {
	return f(ctx, system, prompt, opts)
}

func (f ProviderFunc) Name() string { return "func" }

// ErrNotConfigured is returned when the selected provider has no API key.
var ErrNotConfigured = errors.New("llm provider not configured")

// Config selects and configures a provider.
type Config struct {
	Provider        string // "gemini" (default) or "anthropic"
	Model           string
	GeminiAPIKey    string
	AnthropicAPIKey string
}

// New builds the provider named by cfg.Provider.
func New(ctx context.Context, cfg Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gemini":
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY: %w", ErrNotConfigured)
		}
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.Model)
	case "anthropic":
		if strings.TrimSpace(cfg.AnthropicAPIKey) == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY: %w", ErrNotConfigured)
		}
		return NewAnthropic(cfg.AnthropicAPIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// Float is a convenience for Options.Temperature.
func Float(v float64) *float64 { return &v }
