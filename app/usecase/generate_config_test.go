package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devopsgen/internal/domain/entity"
	"devopsgen/internal/domain/repository"
	"devopsgen/internal/infrastructure/validator"
)

func newTestService(p *stubProvider, attempts *memAttempts) *GenerateService {
	client := NewGenerationClient(nil, time.Second)
	if p != nil {
		client = NewGenerationClient(p, time.Second)
	}
	var repo repository.AttemptRepository
	if attempts != nil {
		repo = attempts
	}
	logger := discardLogger()
	return NewGenerateService(
		client,
		NewArtifactExporter(nil),
		validator.NewLinter(logger),
		repo,
		Pricing{InputPerMillion: 0.25, OutputPerMillion: 1.25},
		logger,
	)
}

func TestGenerateService_Success(t *testing.T) {
	p := textProvider(strings.Repeat("b", 800))
	attempts := &memAttempts{}
	svc := newTestService(p, attempts)

	res, err := svc.Generate(context.Background(), strings.Repeat("a", 400), "Dockerfile")
	require.NoError(t, err)

	assert.Equal(t, strings.Repeat("b", 800), res.Text)
	assert.NotEmpty(t, res.RequestID)
	require.NotNil(t, res.Usage)
	assert.Equal(t, 300, res.Usage.TotalTokens)
	assert.Equal(t, "0.000275", res.Usage.EstimatedCostUSD)
	assert.Empty(t, res.Diagnostics)

	require.Len(t, attempts.saved, 1)
	saved := attempts.saved[0]
	assert.Equal(t, res.RequestID, saved.ID)
	assert.Equal(t, entity.AttemptSucceeded, saved.Status)
	assert.Equal(t, strings.Repeat("a", 50)+"...", saved.PromptPreview)
}

func TestGenerateService_MissingFieldsNeverCallProvider(t *testing.T) {
	p := textProvider("unused")
	attempts := &memAttempts{}
	svc := newTestService(p, attempts)

	for _, in := range [][2]string{{"", "Dockerfile"}, {"prompt", ""}, {"  ", " "}} {
		_, err := svc.Generate(context.Background(), in[0], in[1])
		assert.ErrorIs(t, err, entity.ErrInvalidInput)
	}
	assert.Equal(t, int32(0), p.calls.Load())

	n, err := attempts.CountByStatus(context.Background(), entity.AttemptFailed)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestGenerateService_MissingCredentials(t *testing.T) {
	svc := newTestService(nil, nil)
	assert.False(t, svc.Ready())

	_, err := svc.Generate(context.Background(), "prompt", "Dockerfile")
	assert.ErrorIs(t, err, entity.ErrMissingCredentials)
	assert.Equal(t, MsgMissingCredentials, UserMessage(err))
}

func TestGenerateService_ProviderFailureRecorded(t *testing.T) {
	p := errProvider(entity.Errorf(entity.KindUnauthorized, "stub", "AccessDeniedException"))
	attempts := &memAttempts{}
	svc := newTestService(p, attempts)

	_, err := svc.Generate(context.Background(), "prompt", "Dockerfile")
	assert.ErrorIs(t, err, entity.ErrUnauthorized)

	require.Len(t, attempts.saved, 1)
	assert.Equal(t, entity.AttemptFailed, attempts.saved[0].Status)
	assert.Equal(t, entity.KindUnauthorized, attempts.saved[0].ErrorKind)
}

func TestGenerateService_LintsTerraform(t *testing.T) {
	p := textProvider("```hcl\nresource \"aws_s3_bucket\" \"logs\" {\n  bucket = \"logs\"\n}\n```")
	svc := newTestService(p, nil)

	res, err := svc.Generate(context.Background(), "prompt", "Terraform Infrastructure")
	require.NoError(t, err)
	require.NotEmpty(t, res.Diagnostics)
	assert.Contains(t, res.Diagnostics[0].Message, "missing tags")
	assert.Equal(t, "terraform_infrastructure.tf", res.Diagnostics[0].File)
}

func TestGenerateService_AttemptStats(t *testing.T) {
	attempts := &memAttempts{}
	ok := newTestService(textProvider("FROM alpine"), attempts)
	bad := newTestService(errProvider(entity.Errorf(entity.KindRateLimited, "stub", "429")), attempts)

	for i := 0; i < 3; i++ {
		_, err := ok.Generate(context.Background(), "prompt", "Dockerfile")
		require.NoError(t, err)
	}
	_, err := bad.Generate(context.Background(), "prompt", "Dockerfile")
	require.Error(t, err)

	stats, err := ok.AttemptStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[entity.AttemptStatus]int{
		entity.AttemptSucceeded: 3,
		entity.AttemptFailed:    1,
	}, stats)

	stats, err = newTestService(nil, nil).AttemptStats(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestComposePrompt(t *testing.T) {
	reg := entity.DefaultRegistry()

	p, err := ComposePrompt(reg, entity.GenerationRequest{UseCase: "Dockerfile", TechStack: "Go"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "Write a complete Dockerfile"))

	_, err = ComposePrompt(reg, entity.GenerationRequest{UseCase: "Helm Chart", TechStack: "Go"})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
	assert.ErrorIs(t, err, entity.ErrUseCaseNotFound)

	_, err = ComposePrompt(reg, entity.GenerationRequest{UseCase: "Dockerfile", TechStack: " "})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
	assert.NotErrorIs(t, err, entity.ErrUseCaseNotFound)
}
