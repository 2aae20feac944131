package logtrace

import (
	"context"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// WithRequestID returns a context carrying a fresh time-ordered request id,
// unless ctx already carries one.
func WithRequestID(ctx context.Context) context.Context {
	if RequestIdFromContext(ctx) != "" {
		return ctx
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return context.WithValue(ctx, requestIDKey{}, id.String())
}

// RequestIdFromContext extracts the request ID from the context.
// Returns an empty string if the context is nil or if no request ID is found.
func RequestIdFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	r, ok := ctx.Value(requestIDKey{}).(string)
	if !ok {
		return ""
	}
	return r
}
