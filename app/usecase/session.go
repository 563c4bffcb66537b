package usecase

import (
	"context"
	"errors"
	"sync"

	"devopsgen/internal/domain/entity"
)

type SessionState string

const (
	SessionIdle       SessionState = "idle"
	SessionSubmitting SessionState = "submitting"
	SessionSuccess    SessionState = "success"
	SessionFailure    SessionState = "failure"
)

var ErrBusy = errors.New("a generation is already in progress")

// SessionSnapshot is what a renderer reads; it never sees raw provider errors.
type SessionSnapshot struct {
	State   SessionState
	Prompt  string
	Result  entity.GenerationResult
	Message string
}

// Session is the client-side view of generation: Idle -> Submitting ->
// Success | Failure, with at most one submission in flight.
type Session struct {
	gen      Generator
	registry *entity.Registry

	mu    sync.Mutex
	state SessionSnapshot
	err   error
}

func NewSession(gen Generator, registry *entity.Registry) *Session {
	if registry == nil {
		registry = entity.DefaultRegistry()
	}
	return &Session{
		gen:      gen,
		registry: registry,
		state:    SessionSnapshot{State: SessionIdle},
	}
}

func (s *Session) Submit(ctx context.Context, req entity.GenerationRequest) (entity.GenerationResult, error) {
	s.mu.Lock()
	if s.state.State == SessionSubmitting {
		s.mu.Unlock()
		return entity.GenerationResult{}, ErrBusy
	}

	prompt, err := ComposePrompt(s.registry, req)
	if err != nil {
		msg := UserMessage(err)
		if errors.Is(err, entity.ErrInvalidInput) && !errors.Is(err, entity.ErrUseCaseNotFound) {
			msg = MsgEmptyTechStack
		}
		s.state = SessionSnapshot{State: SessionFailure, Message: msg}
		s.err = err
		s.mu.Unlock()
		return entity.GenerationResult{}, err
	}
	s.state = SessionSnapshot{State: SessionSubmitting, Prompt: prompt}
	s.err = nil
	s.mu.Unlock()

	result, err := s.gen.Generate(ctx, prompt, req.UseCase)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = SessionSnapshot{State: SessionFailure, Prompt: prompt, Message: UserMessage(err)}
		s.err = err
		return entity.GenerationResult{}, err
	}
	s.state = SessionSnapshot{State: SessionSuccess, Prompt: prompt, Result: result}
	return result, nil
}

func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err is the internal error behind a Failure state, for operator output only.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Reset returns a settled session to Idle.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.State != SessionSubmitting {
		s.state = SessionSnapshot{State: SessionIdle}
		s.err = nil
	}
}
