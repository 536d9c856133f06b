package trace

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// New returns a fresh trace id.
func New() string { return uuid.NewString() }

// WithTraceID attaches a trace id to ctx.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the trace id attached to ctx, if any.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok
}

// Ensure returns ctx with a trace id attached, generating one when absent.
func Ensure(ctx context.Context) (context.Context, string) {
	if id, ok := FromContext(ctx); ok {
		return ctx, id
	}
	id := New()
	return WithTraceID(ctx, id), id
}
