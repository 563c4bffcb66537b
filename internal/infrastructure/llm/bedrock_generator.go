package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"

	"devopsgen/app/config"
	"devopsgen/internal/domain/entity"
	"devopsgen/internal/domain/repository"
	"devopsgen/internal/infrastructure/metrics"
)

const (
	defaultBedrockModel     = "anthropic.claude-3-haiku-20240307-v1:0"
	bedrockAnthropicVersion = "bedrock-2023-05-31"
	credentialCheckTimeout  = 5 * time.Second
)

type bedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockGenerator calls an Anthropic model hosted on AWS Bedrock.
type BedrockGenerator struct {
	client      bedrockInvoker
	model       string
	maxTokens   int
	temperature float64
}

var _ repository.GenerationProvider = (*BedrockGenerator)(nil)

// NewBedrockGenerator resolves AWS credentials up front. Static keys from
// config win; otherwise the default chain is resolved once with a short deadline.
func NewBedrockGenerator(ctx context.Context, cfg config.BedrockConfig, model string, opts Options) (*BedrockGenerator, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	credCtx, cancel := context.WithTimeout(ctx, credentialCheckTimeout)
	defer cancel()
	creds, err := awsCfg.Credentials.Retrieve(credCtx)
	if err != nil || !creds.HasKeys() {
		return nil, entity.Errorf(entity.KindMissingCredentials, "bedrock", "aws credentials not found: %v", err)
	}

	client := bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
		o.Retryer = aws.NopRetryer{}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newBedrockGenerator(client, model, opts), nil
}

func newBedrockGenerator(client bedrockInvoker, model string, opts Options) *BedrockGenerator {
	if model == "" {
		model = defaultBedrockModel
	}
	opts = opts.withDefaults()
	return &BedrockGenerator{
		client:      client,
		model:       model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}
}

func (g *BedrockGenerator) Name() string { return "bedrock:" + g.model }

type bedrockContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type bedrockMessage struct {
	Role    string           `json:"role"`
	Content []bedrockContent `json:"content"`
}

type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	System           string           `json:"system"`
	Messages         []bedrockMessage `json:"messages"`
	Temperature      float64          `json:"temperature"`
}

type bedrockResponse struct {
	Content []bedrockContent `json:"content"`
	Usage   *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (g *BedrockGenerator) buildBody(systemPrompt, userPrompt string) ([]byte, error) {
	return json.Marshal(bedrockRequest{
		AnthropicVersion: bedrockAnthropicVersion,
		MaxTokens:        g.maxTokens,
		System:           systemPrompt,
		Messages: []bedrockMessage{{
			Role:    "user",
			Content: []bedrockContent{{Type: "text", Text: userPrompt}},
		}},
		Temperature: g.temperature,
	})
}

func (g *BedrockGenerator) Complete(ctx context.Context, systemPrompt, userPrompt string) (entity.Completion, error) {
	metrics.IncLLMRequest("bedrock")

	body, err := g.buildBody(systemPrompt, userPrompt)
	if err != nil {
		metrics.IncError("llm", "marshal_request")
		return entity.Completion{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	out, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return entity.Completion{}, classifyBedrockError(ctx, err)
	}

	return parseBedrockBody(out.Body)
}

func parseBedrockBody(body []byte) (entity.Completion, error) {
	var resp bedrockResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return entity.Completion{}, contractError("bedrock", "failed to decode response: %v", err)
	}
	if len(resp.Content) == 0 {
		return entity.Completion{}, contractError("bedrock", "invalid response format: no content")
	}

	var sb strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	if sb.Len() == 0 {
		return entity.Completion{}, contractError("bedrock", "invalid response format: no text content")
	}

	completion := entity.Completion{Text: strings.TrimSpace(sb.String())}
	if resp.Usage != nil {
		completion.InputTokens = resp.Usage.InputTokens
		completion.OutputTokens = resp.Usage.OutputTokens
	}
	return completion, nil
}

// classifyBedrockError maps AWS error codes onto the failure taxonomy.
func classifyBedrockError(ctx context.Context, err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return transportError(ctx, "bedrock", err)
	}

	code := apiErr.ErrorCode()
	metrics.IncError("llm", "bedrock_"+code)

	var kind entity.ErrorKind
	switch code {
	case "ThrottlingException", "TooManyRequestsException", "ServiceQuotaExceededException":
		kind = entity.KindRateLimited
	case "AccessDeniedException", "UnrecognizedClientException", "ExpiredTokenException":
		kind = entity.KindUnauthorized
	case "InternalServerException", "ServiceUnavailableException", "ModelNotReadyException", "ModelErrorException":
		kind = entity.KindUpstreamServerError
	case "ModelTimeoutException":
		kind = entity.KindTimeout
	default:
		if apiErr.ErrorFault() == smithy.FaultServer {
			kind = entity.KindUpstreamServerError
		} else {
			kind = entity.KindUnknown
		}
	}
	return entity.NewError(kind, "bedrock", fmt.Errorf("%s: %s", code, apiErr.ErrorMessage()))
}
