package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"devopsgen/app/config"
	"devopsgen/internal/domain/repository"
)

const defaultMaxTokens = 1000

// Options are the generation parameters shared by every provider.
type Options struct {
	HTTPClient  *http.Client
	MaxTokens   int
	Temperature float64
}

func (o Options) withDefaults() Options {
	if o.HTTPClient == nil {
		// Backstop only; the generation client bounds each call with its own deadline.
		o.HTTPClient = &http.Client{Timeout: 2 * time.Minute}
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = defaultMaxTokens
	}
	return o
}

// NewProvider builds the provider named by cfg.Provider. It returns a
// missing_credentials GenerationError when the provider has no credential.
func NewProvider(ctx context.Context, cfg config.LLMConfig) (repository.GenerationProvider, error) {
	opts := Options{MaxTokens: cfg.MaxTokens, Temperature: cfg.Temperature}

	var (
		provider repository.GenerationProvider
		err      error
	)
	switch cfg.Provider {
	case "", "bedrock":
		var g *BedrockGenerator
		if g, err = NewBedrockGenerator(ctx, cfg.Bedrock, cfg.Model, opts); err == nil {
			provider = g
		}
	case "openai":
		var g *OpenAIGenerator
		if g, err = NewOpenAIGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.Model, opts); err == nil {
			provider = g
		}
	case "gemini":
		var g *GeminiGenerator
		if g, err = NewGeminiGenerator(ctx, cfg.Gemini, cfg.Model, opts); err == nil {
			provider = g
		}
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return provider, nil
}
