package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"devopsgen/app/config"
	"devopsgen/internal/domain/entity"
	"devopsgen/internal/domain/repository"
	"devopsgen/internal/infrastructure/metrics"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiGenerator is a thin wrapper around the official genai client.
type GeminiGenerator struct {
	cli         *genai.Client
	model       string
	maxTokens   int
	temperature float64
}

var _ repository.GenerationProvider = (*GeminiGenerator)(nil)

func NewGeminiGenerator(ctx context.Context, cfg config.GeminiConfig, model string, opts Options) (*GeminiGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, entity.Errorf(entity.KindMissingCredentials, "gemini", "GEMINI_API_KEY is not set")
	}
	opts = opts.withDefaults()

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiGenerator{
		cli:         cli,
		model:       model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}, nil
}

func (g *GeminiGenerator) Name() string { return "gemini:" + g.model }

func (g *GeminiGenerator) Complete(ctx context.Context, systemPrompt, userPrompt string) (entity.Completion, error) {
	metrics.IncLLMRequest("gemini")

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: userPrompt}}}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
			Temperature:       genai.Ptr(float32(g.temperature)),
			MaxOutputTokens:   int32(g.maxTokens),
		},
	)
	if err != nil {
		return entity.Completion{}, classifyGeminiError(ctx, err)
	}
	return parseGeminiResponse(resp)
}

func parseGeminiResponse(resp *genai.GenerateContentResponse) (entity.Completion, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return entity.Completion{}, contractError("gemini", "invalid response format: no candidates")
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			sb.WriteString(p.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return entity.Completion{}, contractError("gemini", "invalid response format: no text parts")
	}

	completion := entity.Completion{Text: text}
	if u := resp.UsageMetadata; u != nil {
		completion.InputTokens = int(u.PromptTokenCount)
		completion.OutputTokens = int(u.CandidatesTokenCount)
	}
	return completion, nil
}

func classifyGeminiError(ctx context.Context, err error) error {
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		code = apiErrPtr.Code
	default:
		return transportError(ctx, "gemini", err)
	}
	metrics.IncError("llm", fmt.Sprintf("api_error_%d", code))
	return entity.NewError(statusKind(code), "gemini", err)
}
