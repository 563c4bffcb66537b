package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"devopsgen/internal/domain/entity"
	"devopsgen/internal/domain/repository"
	"devopsgen/internal/infrastructure/metrics"
	"devopsgen/internal/infrastructure/validator"
)

// Generator is what the HTTP layer and the CLI session depend on.
type Generator interface {
	Generate(ctx context.Context, prompt, useCase string) (entity.GenerationResult, error)
}

type Pricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// GenerateService drives one attempt through
// received -> validated -> generating -> succeeded | failed.
// It keeps no per-request state between calls.
type GenerateService struct {
	client   *GenerationClient
	exporter *ArtifactExporter
	linter   *validator.Linter
	attempts repository.AttemptRepository
	pricing  Pricing
	logger   *slog.Logger

	recordTimeout time.Duration
}

var _ Generator = (*GenerateService)(nil)

func NewGenerateService(
	client *GenerationClient,
	exporter *ArtifactExporter,
	linter *validator.Linter,
	attempts repository.AttemptRepository,
	pricing Pricing,
	logger *slog.Logger,
) *GenerateService {
	return &GenerateService{
		client:        client,
		exporter:      exporter,
		linter:        linter,
		attempts:      attempts,
		pricing:       pricing,
		logger:        logger,
		recordTimeout: 5 * time.Second,
	}
}

func (s *GenerateService) Ready() bool { return s.client.Ready() }

func (s *GenerateService) Generate(ctx context.Context, prompt, useCase string) (result entity.GenerationResult, err error) {
	attempt := entity.NewAttempt(useCase, prompt)
	attempt.Provider = s.client.ProviderName()
	defer func() { s.finish(ctx, attempt, err) }()

	if strings.TrimSpace(prompt) == "" || strings.TrimSpace(useCase) == "" {
		return result, entity.Errorf(entity.KindInvalidInput, "generate", "prompt and useCase are required")
	}
	if err := attempt.Transition(entity.AttemptValidated); err != nil {
		return result, err
	}

	if !s.client.Ready() {
		return result, entity.Errorf(entity.KindMissingCredentials, "generate", "no provider credentials configured")
	}
	if err := attempt.Transition(entity.AttemptGenerating); err != nil {
		return result, err
	}

	completion, err := s.client.Generate(ctx, prompt, useCase)
	if err != nil {
		return result, err
	}

	usage := entity.UsageFromCompletion(prompt, completion, s.pricing.InputPerMillion, s.pricing.OutputPerMillion)
	metrics.AddTokens(usage.Source, usage.InputTokens, usage.OutputTokens)
	metrics.AddEstimatedCost(usage.EstimatedCostUSD)

	result = entity.GenerationResult{
		RequestID: attempt.ID,
		Text:      completion.Text,
		Usage:     &usage,
		Provider:  attempt.Provider,
		CreatedAt: time.Now().UTC(),
	}
	if s.linter != nil {
		filename := s.exporter.BuildFilename(useCase)
		result.Diagnostics = s.linter.Lint(filename, s.exporter.Extension(useCase), completion.Text)
	}

	if err := attempt.Transition(entity.AttemptSucceeded); err != nil {
		return entity.GenerationResult{}, err
	}
	return result, nil
}

// finish emits the per-attempt log line and metrics and stores the audit record.
func (s *GenerateService) finish(ctx context.Context, attempt *entity.Attempt, err error) {
	outcome := string(entity.AttemptSucceeded)
	if err != nil {
		attempt.Fail(err)
		outcome = string(attempt.ErrorKind)
	}
	metrics.IncGeneration(attempt.UseCase, outcome)

	attrs := []any{
		"request_id", attempt.ID,
		"use_case", attempt.UseCase,
		"prompt_preview", attempt.PromptPreview,
		"provider", attempt.Provider,
		"outcome", outcome,
		"duration", attempt.Duration(),
	}
	if err != nil {
		s.logger.Error("generation attempt failed", append(attrs, "err", err)...)
	} else {
		s.logger.Info("generation attempt", attrs...)
	}

	if s.attempts == nil {
		return
	}
	recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.recordTimeout)
	defer cancel()
	if err := s.attempts.Save(recCtx, attempt); err != nil {
		s.logger.Warn("save attempt failed", "request_id", attempt.ID, "err", err)
	}
}

// AttemptStats counts stored attempts per terminal status. It returns nil
// when no attempt store is configured.
func (s *GenerateService) AttemptStats(ctx context.Context) (map[entity.AttemptStatus]int, error) {
	if s.attempts == nil {
		return nil, nil
	}
	stats := make(map[entity.AttemptStatus]int, 2)
	for _, status := range []entity.AttemptStatus{entity.AttemptSucceeded, entity.AttemptFailed} {
		n, err := s.attempts.CountByStatus(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("count %s attempts: %w", status, err)
		}
		stats[status] = n
	}
	return stats, nil
}

// ComposePrompt validates a structured request against the registry and
// renders its prompt.
func ComposePrompt(registry *entity.Registry, req entity.GenerationRequest) (string, error) {
	if _, err := registry.Lookup(req.UseCase); err != nil {
		return "", entity.NewError(entity.KindInvalidInput, "compose prompt", err)
	}
	prompt, err := entity.BuildPrompt(req)
	if err != nil {
		return "", fmt.Errorf("compose prompt: %w", err)
	}
	return prompt, nil
}
