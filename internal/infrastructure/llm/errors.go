package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"devopsgen/internal/domain/entity"
	"devopsgen/internal/infrastructure/metrics"
)

// statusKind maps an upstream HTTP status to the failure taxonomy.
func statusKind(status int) entity.ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return entity.KindUnauthorized
	case status == http.StatusTooManyRequests:
		return entity.KindRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return entity.KindTimeout
	case status >= 500:
		return entity.KindUpstreamServerError
	}
	return entity.KindUnknown
}

func statusError(provider string, status int, body string) error {
	kind := statusKind(status)
	metrics.IncError("llm", fmt.Sprintf("api_error_%d", status))
	return entity.Errorf(kind, provider, "api error: %d - %s", status, truncate(body, 512))
}

// transportError classifies failures that happened before a status was read.
func transportError(ctx context.Context, provider string, err error) error {
	var ge *entity.GenerationError
	if errors.As(err, &ge) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		metrics.IncError("llm", "timeout")
		return entity.NewError(entity.KindTimeout, provider, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		metrics.IncError("llm", "timeout")
		return entity.NewError(entity.KindTimeout, provider, err)
	}
	metrics.IncError("llm", "http_do")
	return entity.NewError(entity.KindUnknown, provider, err)
}

func contractError(provider, format string, args ...any) error {
	metrics.IncError("llm", "parse_response")
	return entity.Errorf(entity.KindProviderContractViolation, provider, format, args...)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
