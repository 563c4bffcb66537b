package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"devopsgen/internal/domain/entity"
)

type stubProvider struct {
	name  string
	calls atomic.Int32
	fn    func(ctx context.Context, system, user string) (entity.Completion, error)
}

func (p *stubProvider) Name() string {
	if p.name == "" {
		return "stub"
	}
	return p.name
}

func (p *stubProvider) Complete(ctx context.Context, system, user string) (entity.Completion, error) {
	p.calls.Add(1)
	return p.fn(ctx, system, user)
}

func textProvider(text string) *stubProvider {
	return &stubProvider{fn: func(context.Context, string, string) (entity.Completion, error) {
		return entity.Completion{Text: text}, nil
	}}
}

func errProvider(err error) *stubProvider {
	return &stubProvider{fn: func(context.Context, string, string) (entity.Completion, error) {
		return entity.Completion{}, err
	}}
}

type memAttempts struct {
	mu    sync.Mutex
	saved []entity.Attempt
}

func (m *memAttempts) Save(_ context.Context, a *entity.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, *a)
	return nil
}

func (m *memAttempts) CountByStatus(_ context.Context, status entity.AttemptStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.saved {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
