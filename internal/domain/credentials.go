package domain

import "context"

type bearerTokenKey struct{}

// ContextWithBearerToken stores the caller's bearer token so outbound backend
// requests can forward it unchanged.
func ContextWithBearerToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, bearerTokenKey{}, token)
}

// BearerTokenFromContext returns the forwarded token, or "" if none was set.
func BearerTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(bearerTokenKey{}).(string)
	return t
}
