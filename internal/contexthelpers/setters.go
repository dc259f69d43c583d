package contexthelpers

import (
	"context"
	"net/http"
)

// WithUserID scopes ctx to userID. Per-user storage reads the id back with AuthenticatedUserID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, AuthenticatedUserIDContextKey, userID)
}

func AuthenticateRequest(r *http.Request, userID string) *http.Request {
	return r.WithContext(WithUserID(r.Context(), userID))
}

func SetTraceID(r *http.Request, traceID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), TraceIDContextKey, traceID))
}
