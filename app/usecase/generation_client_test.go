package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devopsgen/internal/domain/entity"
)

func TestGenerationClient_Success(t *testing.T) {
	var gotSystem, gotUser string
	p := &stubProvider{fn: func(_ context.Context, system, user string) (entity.Completion, error) {
		gotSystem, gotUser = system, user
		return entity.Completion{Text: "FROM alpine"}, nil
	}}
	c := NewGenerationClient(p, time.Second)

	out, err := c.Generate(context.Background(), "Write a Dockerfile", "Dockerfile")
	require.NoError(t, err)
	assert.Equal(t, "FROM alpine", out.Text)
	assert.Equal(t, entity.SystemInstruction, gotSystem)
	assert.Equal(t, "Write a Dockerfile", gotUser)
}

func TestGenerationClient_MissingCredentials(t *testing.T) {
	c := NewGenerationClient(nil, time.Second)
	assert.False(t, c.Ready())
	assert.Equal(t, "none", c.ProviderName())

	_, err := c.Generate(context.Background(), "p", "Dockerfile")
	assert.ErrorIs(t, err, entity.ErrMissingCredentials)
}

func TestGenerationClient_TimeoutWithUnresponsiveProvider(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	// ignores its context entirely
	p := &stubProvider{fn: func(context.Context, string, string) (entity.Completion, error) {
		<-release
		return entity.Completion{Text: "late"}, nil
	}}
	c := NewGenerationClient(p, 50*time.Millisecond)

	start := time.Now()
	_, err := c.Generate(context.Background(), "p", "Dockerfile")
	require.Error(t, err)
	assert.Equal(t, entity.KindTimeout, entity.KindOf(err))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGenerationClient_EmptyText(t *testing.T) {
	c := NewGenerationClient(textProvider("  \n "), time.Second)
	_, err := c.Generate(context.Background(), "p", "Dockerfile")
	assert.ErrorIs(t, err, entity.ErrProviderContractViolation)
}

func TestGenerationClient_PassesKindThrough(t *testing.T) {
	p := errProvider(entity.Errorf(entity.KindRateLimited, "stub", "ThrottlingException: slow down"))
	c := NewGenerationClient(p, time.Second)

	_, err := c.Generate(context.Background(), "p", "Dockerfile")
	assert.ErrorIs(t, err, entity.ErrRateLimited)
	assert.Equal(t, int32(1), p.calls.Load(), "no retry")
}

func TestGenerationClient_UnclassifiedError(t *testing.T) {
	c := NewGenerationClient(errProvider(errors.New("socket closed")), time.Second)
	_, err := c.Generate(context.Background(), "p", "Dockerfile")
	assert.Equal(t, entity.KindUnknown, entity.KindOf(err))
}
