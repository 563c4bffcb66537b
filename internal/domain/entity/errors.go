package entity

import (
	"context"
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindInvalidInput              ErrorKind = "invalid_input"
	KindMissingCredentials        ErrorKind = "missing_credentials"
	KindRateLimited               ErrorKind = "rate_limited"
	KindUnauthorized              ErrorKind = "unauthorized"
	KindUpstreamServerError       ErrorKind = "upstream_server_error"
	KindTimeout                   ErrorKind = "timeout"
	KindProviderContractViolation ErrorKind = "provider_contract_violation"
	KindUnknown                   ErrorKind = "unknown"
)

// Sentinels for errors.Is checks against a GenerationError of the same kind.
var (
	ErrInvalidInput              = &GenerationError{Kind: KindInvalidInput}
	ErrMissingCredentials        = &GenerationError{Kind: KindMissingCredentials}
	ErrRateLimited               = &GenerationError{Kind: KindRateLimited}
	ErrUnauthorized              = &GenerationError{Kind: KindUnauthorized}
	ErrUpstreamServerError       = &GenerationError{Kind: KindUpstreamServerError}
	ErrTimeout                   = &GenerationError{Kind: KindTimeout}
	ErrProviderContractViolation = &GenerationError{Kind: KindProviderContractViolation}
)

// GenerationError is the failure type shared by the prompt builder, the
// generation client and the providers.
type GenerationError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func NewError(kind ErrorKind, op string, err error) *GenerationError {
	return &GenerationError{Kind: kind, Op: op, Err: err}
}

func Errorf(kind ErrorKind, op, format string, args ...any) *GenerationError {
	return &GenerationError{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *GenerationError) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return string(e.Kind)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is matches any GenerationError with the same kind, so callers can write
// errors.Is(err, entity.ErrRateLimited).
func (e *GenerationError) Is(target error) bool {
	t, ok := target.(*GenerationError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf reports the taxonomy kind of err. Deadline errors that escaped
// classification count as timeouts.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindUnknown
}
