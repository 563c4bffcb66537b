package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests can avoid the process environment.
func FromEnv(getenv func(string) string) (*Config, error) {
	e := envReader{get: getenv}

	mode := strings.ToLower(e.str("APP_ENV", e.str("NODE_ENV", ModeDevelopment)))
	if mode != ModeProduction {
		mode = ModeDevelopment
	}

	cfg := &Config{
		Mode:     mode,
		LogLevel: strings.ToLower(e.str("LOG_LEVEL", "info")),
		Server: HTTPServerConfig{
			Host:         e.str("SERVER_HOST", "0.0.0.0"),
			Port:         e.int("PORT", 3001),
			ReadTimeout:  e.duration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: e.duration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			FrontendURL:  e.str("FRONTEND_URL", ""),
			MetricsAddr:  e.str("METRICS_ADDR", ":2112"),
			MaxBodyBytes: int64(e.int("MAX_BODY_BYTES", 10<<20)),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(e.str("LLM_PROVIDER", "bedrock")),
			Model:       e.str("LLM_MODEL", ""),
			MaxTokens:   e.int("LLM_MAX_TOKENS", 1000),
			Temperature: e.float("LLM_TEMPERATURE", 0.3),
			Timeout:     e.duration("LLM_TIMEOUT", 30*time.Second),
			Bedrock: BedrockConfig{
				Region:          e.str("AWS_REGION", "us-east-1"),
				AccessKeyID:     e.str("AWS_ACCESS_KEY_ID", ""),
				SecretAccessKey: e.str("AWS_SECRET_ACCESS_KEY", ""),
				SessionToken:    e.str("AWS_SESSION_TOKEN", ""),
				Endpoint:        e.str("BEDROCK_ENDPOINT", ""),
			},
			OpenAI: OpenAIConfig{
				APIKey:  e.str("OPENAI_API_KEY", ""),
				BaseURL: e.str("OPENAI_BASE_URL", "https://api.openai.com/v1/chat/completions"),
			},
			Gemini: GeminiConfig{
				APIKey:  e.str("GEMINI_API_KEY", ""),
				BaseURL: e.str("GEMINI_BASE_URL", ""),
			},
		},
		Pricing: PricingConfig{
			InputPerMillion:  e.float("PRICE_INPUT_PER_MILLION", 0.25),
			OutputPerMillion: e.float("PRICE_OUTPUT_PER_MILLION", 1.25),
		},
		Mongo: MongoConfig{
			URI:      e.str("MONGO_URI", ""),
			Database: e.str("MONGO_DB", "devopsgen"),
		},
		RateLimit: RateLimitConfig{
			RPS:   e.float("RATE_LIMIT_RPS", 0),
			Burst: e.int("RATE_LIMIT_BURST", 5),
		},
		Static: StaticConfig{
			Dir: e.str("STATIC_DIR", "client/dist"),
		},
	}

	if e.err != nil {
		return nil, e.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges. Missing credentials are not a config error: the
// server still starts and reports them per request.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "bedrock", "openai", "gemini":
	default:
		return fmt.Errorf("LLM_PROVIDER: unsupported provider %q", c.LLM.Provider)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT: out of range: %d", c.Server.Port)
	}
	if c.LLM.MaxTokens <= 0 || c.LLM.MaxTokens > 4096 {
		return fmt.Errorf("LLM_MAX_TOKENS: must be in 1..4096, got %d", c.LLM.MaxTokens)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		return fmt.Errorf("LLM_TEMPERATURE: must be in 0..1, got %v", c.LLM.Temperature)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT: must be positive")
	}
	if c.Pricing.InputPerMillion < 0 || c.Pricing.OutputPerMillion < 0 {
		return fmt.Errorf("pricing rates must not be negative")
	}
	return nil
}

type envReader struct {
	get func(string) string
	err error
}

func (e *envReader) str(key, def string) string {
	if v := strings.TrimSpace(e.get(key)); v != "" {
		return v
	}
	return def
}

func (e *envReader) int(key string, def int) int {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, err)
		return def
	}
	return n
}

func (e *envReader) float(key string, def float64) float64 {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, err)
		return def
	}
	return f
}

func (e *envReader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, err)
		return def
	}
	return d
}

func (e *envReader) fail(key string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("%s: %w", key, err)
	}
}
