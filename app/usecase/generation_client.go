package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"devopsgen/internal/domain/entity"
	"devopsgen/internal/domain/repository"
	"devopsgen/internal/infrastructure/metrics"
)

const DefaultGenerationTimeout = 30 * time.Second

// GenerationClient sends one prompt to the configured provider and bounds the
// call with a deadline. It never retries.
type GenerationClient struct {
	provider repository.GenerationProvider
	timeout  time.Duration
	system   string
}

// NewGenerationClient accepts a nil provider; every call then fails with
// missing_credentials without touching the network.
func NewGenerationClient(provider repository.GenerationProvider, timeout time.Duration) *GenerationClient {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &GenerationClient{
		provider: provider,
		timeout:  timeout,
		system:   entity.SystemInstruction,
	}
}

func (c *GenerationClient) Ready() bool { return c.provider != nil }

func (c *GenerationClient) ProviderName() string {
	if c.provider == nil {
		return "none"
	}
	return c.provider.Name()
}

type completionResult struct {
	completion entity.Completion
	err        error
}

func (c *GenerationClient) Generate(ctx context.Context, prompt, useCase string) (entity.Completion, error) {
	if c.provider == nil {
		return entity.Completion{}, entity.Errorf(entity.KindMissingCredentials, "generate", "no provider credentials configured")
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	metrics.IncActiveGenerations()
	defer metrics.DecActiveGenerations()

	start := time.Now()
	done := make(chan completionResult, 1)
	go func() {
		completion, err := c.provider.Complete(callCtx, c.system, prompt)
		done <- completionResult{completion: completion, err: err}
	}()

	var res completionResult
	select {
	case res = <-done:
	case <-callCtx.Done():
		// A provider that ignores its context must not hold the caller.
		res.err = callCtx.Err()
	}
	metrics.ObserveLLMDuration(c.ProviderName(), time.Since(start))

	if res.err != nil {
		return entity.Completion{}, c.classify(callCtx, useCase, res.err)
	}
	if strings.TrimSpace(res.completion.Text) == "" {
		return entity.Completion{}, entity.Errorf(entity.KindProviderContractViolation, c.ProviderName(), "empty completion for %s", useCase)
	}
	return res.completion, nil
}

func (c *GenerationClient) classify(callCtx context.Context, useCase string, err error) error {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return entity.NewError(entity.KindTimeout, c.ProviderName(),
			fmt.Errorf("no response for %s within %s: %w", useCase, c.timeout, err))
	}
	var ge *entity.GenerationError
	if errors.As(err, &ge) {
		return err
	}
	return entity.NewError(entity.KindOf(err), c.ProviderName(), err)
}
