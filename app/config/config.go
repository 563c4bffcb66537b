package config

import "time"

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

type Config struct {
	Mode      string           `json:"mode" default:"development"`
	LogLevel  string           `json:"log_level" default:"info"`
	Server    HTTPServerConfig `json:"server"`
	LLM       LLMConfig        `json:"llm"`
	Pricing   PricingConfig    `json:"pricing"`
	Mongo     MongoConfig      `json:"mongo"`
	RateLimit RateLimitConfig  `json:"rate_limit"`
	Static    StaticConfig     `json:"static"`
}

func (c *Config) IsProduction() bool { return c.Mode == ModeProduction }

type HTTPServerConfig struct {
	Host         string        `json:"host" default:"0.0.0.0"`
	Port         int           `json:"port" default:"3001"`
	ReadTimeout  time.Duration `json:"read_timeout" default:"15s"`
	WriteTimeout time.Duration `json:"write_timeout" default:"60s"`
	FrontendURL  string        `json:"frontend_url"`
	MetricsAddr  string        `json:"metrics_addr" default:":2112"`
	MaxBodyBytes int64         `json:"max_body_bytes" default:"10485760"`
}

type LLMConfig struct {
	Provider    string        `json:"provider" default:"bedrock"`
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens" default:"1000"`
	Temperature float64       `json:"temperature" default:"0.3"`
	Timeout     time.Duration `json:"timeout" default:"30s"`

	Bedrock BedrockConfig `json:"bedrock"`
	OpenAI  OpenAIConfig  `json:"openai"`
	Gemini  GeminiConfig  `json:"gemini"`
}

type BedrockConfig struct {
	Region          string `json:"region" default:"us-east-1"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	SessionToken    string `json:"session_token"`
	Endpoint        string `json:"endpoint"`
}

type OpenAIConfig struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url" default:"https://api.openai.com/v1/chat/completions"`
}

type GeminiConfig struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

// PricingConfig holds USD per million tokens used by the usage estimator.
type PricingConfig struct {
	InputPerMillion  float64 `json:"input_per_million" default:"0.25"`
	OutputPerMillion float64 `json:"output_per_million" default:"1.25"`
}

type MongoConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database" default:"devopsgen"`
}

func (m MongoConfig) Enabled() bool { return m.URI != "" }

type RateLimitConfig struct {
	RPS   float64 `json:"rps" default:"0"`
	Burst int     `json:"burst" default:"5"`
}

func (r RateLimitConfig) Enabled() bool { return r.RPS > 0 }

type StaticConfig struct {
	Dir string `json:"dir" default:"client/dist"`
}
