package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devopsgen/internal/domain/entity"
)

type blockingGenerator struct {
	started chan struct{}
	release chan struct{}
}

func (g *blockingGenerator) Generate(ctx context.Context, prompt, useCase string) (entity.GenerationResult, error) {
	close(g.started)
	<-g.release
	return entity.GenerationResult{Text: "done"}, nil
}

func TestSession_Success(t *testing.T) {
	svc := newTestService(textProvider("FROM alpine"), nil)
	s := NewSession(svc, nil)
	assert.Equal(t, SessionIdle, s.Snapshot().State)

	res, err := s.Submit(context.Background(), entity.GenerationRequest{UseCase: "Dockerfile", TechStack: "Go"})
	require.NoError(t, err)
	assert.Equal(t, "FROM alpine", res.Text)

	snap := s.Snapshot()
	assert.Equal(t, SessionSuccess, snap.State)
	assert.Contains(t, snap.Prompt, "Go")

	s.Reset()
	assert.Equal(t, SessionIdle, s.Snapshot().State)
}

func TestSession_EmptyStack(t *testing.T) {
	p := textProvider("unused")
	s := NewSession(newTestService(p, nil), nil)

	_, err := s.Submit(context.Background(), entity.GenerationRequest{UseCase: "Dockerfile"})
	require.Error(t, err)

	snap := s.Snapshot()
	assert.Equal(t, SessionFailure, snap.State)
	assert.Equal(t, MsgEmptyTechStack, snap.Message)
	assert.Equal(t, int32(0), p.calls.Load())
}

func TestSession_ProviderFailureShowsMappedSentence(t *testing.T) {
	p := errProvider(entity.Errorf(entity.KindRateLimited, "stub", "ThrottlingException: Rate exceeded"))
	s := NewSession(newTestService(p, nil), nil)

	_, err := s.Submit(context.Background(), entity.GenerationRequest{UseCase: "Dockerfile", TechStack: "Go"})
	require.Error(t, err)

	snap := s.Snapshot()
	assert.Equal(t, SessionFailure, snap.State)
	assert.Equal(t, MsgRateLimited, snap.Message)
	assert.NotContains(t, snap.Message, "Throttling")
	assert.ErrorIs(t, s.Err(), entity.ErrRateLimited)
}

func TestSession_Busy(t *testing.T) {
	g := &blockingGenerator{started: make(chan struct{}), release: make(chan struct{})}
	s := NewSession(g, nil)
	req := entity.GenerationRequest{UseCase: "Dockerfile", TechStack: "Go"}

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), req)
		done <- err
	}()

	select {
	case <-g.started:
	case <-time.After(2 * time.Second):
		t.Fatal("generator never started")
	}
	assert.Equal(t, SessionSubmitting, s.Snapshot().State)

	_, err := s.Submit(context.Background(), req)
	assert.ErrorIs(t, err, ErrBusy)

	close(g.release)
	require.NoError(t, <-done)
	assert.Equal(t, SessionSuccess, s.Snapshot().State)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		kind entity.ErrorKind
		want string
	}{
		{entity.KindUnauthorized, MsgUnauthorized},
		{entity.KindRateLimited, MsgRateLimited},
		{entity.KindTimeout, MsgTimeout},
		{entity.KindMissingCredentials, MsgMissingCredentials},
		{entity.KindUpstreamServerError, MsgGenerationFailed},
		{entity.KindProviderContractViolation, MsgGenerationFailed},
		{entity.KindUnknown, MsgGenerationFailed},
	}
	for _, tt := range tests {
		err := entity.Errorf(tt.kind, "stub", "raw provider detail")
		assert.Equal(t, tt.want, UserMessage(err), string(tt.kind))
	}
}
