package contexthelpers

type contextKey string

const AuthenticatedUserIDContextKey = contextKey("authenticatedUserID")
const TraceIDContextKey = contextKey("traceID")
