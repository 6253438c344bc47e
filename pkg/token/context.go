package token

import "context"

// ContextKey is the context key for the token codec.
var ContextKey = &struct{ string }{"token"}

// FromContext returns the codec from the context.
func FromContext(ctx context.Context) *Codec {
	if c, ok := ctx.Value(ContextKey).(*Codec); ok {
		return c
	}

	return nil
}

// WithContext returns a new context with the codec.
func WithContext(ctx context.Context, c *Codec) context.Context {
	return context.WithValue(ctx, ContextKey, c)
}
