package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"devopsgen/internal/domain/entity"
	"devopsgen/internal/domain/repository"
	"devopsgen/internal/infrastructure/metrics"
)

const (
	defaultOpenAIURL   = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel = "gpt-4o-mini"
)

// OpenAIGenerator talks to any OpenAI-compatible chat completions endpoint.
type OpenAIGenerator struct {
	apiKey      string
	baseURL     string
	model       string
	client      *http.Client
	maxTokens   int
	temperature float64
}

var _ repository.GenerationProvider = (*OpenAIGenerator)(nil)

func NewOpenAIGenerator(apiKey, baseURL, model string, opts Options) (*OpenAIGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, entity.Errorf(entity.KindMissingCredentials, "openai", "OPENAI_API_KEY is not set")
	}
	if baseURL == "" {
		baseURL = defaultOpenAIURL
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	opts = opts.withDefaults()
	return &OpenAIGenerator{
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		client:      opts.HTTPClient,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}, nil
}

func (g *OpenAIGenerator) Name() string { return "openai:" + g.model }

func (g *OpenAIGenerator) Complete(ctx context.Context, systemPrompt, userPrompt string) (entity.Completion, error) {
	metrics.IncLLMRequest("openai")

	request := map[string]interface{}{
		"model": g.model,
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": systemPrompt,
			},
			{
				"role":    "user",
				"content": userPrompt,
			},
		},
		"temperature": g.temperature,
		"max_tokens":  g.maxTokens,
	}

	response, err := g.makeRequest(ctx, request)
	if err != nil {
		return entity.Completion{}, err
	}

	return g.parseResponse(response)
}

func (g *OpenAIGenerator) makeRequest(ctx context.Context, request map[string]interface{}) (map[string]interface{}, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		metrics.IncError("llm", "marshal_request")
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		metrics.IncError("llm", "create_request")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, transportError(ctx, "openai", err)
	}
	defer func() {
		err := resp.Body.Close()
		if err != nil {
			log.Printf("close body err: %s", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, statusError("openai", resp.StatusCode, string(body))
	}

	var response map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		if ctx.Err() != nil {
			return nil, transportError(ctx, "openai", err)
		}
		return nil, contractError("openai", "failed to decode response: %v", err)
	}

	return response, nil
}

func (g *OpenAIGenerator) parseResponse(response map[string]interface{}) (entity.Completion, error) {
	choices, ok := response["choices"].([]interface{})
	if !ok || len(choices) == 0 {
		return entity.Completion{}, contractError("openai", "invalid response format: no choices")
	}

	choice, ok := choices[0].(map[string]interface{})
	if !ok {
		return entity.Completion{}, contractError("openai", "invalid response format: invalid choice")
	}

	message, ok := choice["message"].(map[string]interface{})
	if !ok {
		return entity.Completion{}, contractError("openai", "invalid response format: no message")
	}

	content, ok := message["content"].(string)
	if !ok {
		return entity.Completion{}, contractError("openai", "invalid response format: no content")
	}

	completion := entity.Completion{Text: strings.TrimSpace(content)}
	if usage, ok := response["usage"].(map[string]interface{}); ok {
		completion.InputTokens = intField(usage, "prompt_tokens")
		completion.OutputTokens = intField(usage, "completion_tokens")
	}
	return completion, nil
}

func intField(m map[string]interface{}, key string) int {
	if v, ok := m[key].(float64); ok && v > 0 {
		return int(v)
	}
	return 0
}
