package middleware

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// --- Logger Keys ---
	RequestFileLoggerKey     ContextKey = "requestFileLogger"
	RequestActivityLoggerKey ContextKey = "requestActivityLogger"
	RequestIDHeader                     = "X-Request-ID"

	// --- Session Keys ---
	SessionCookieName              = "gallery_session"
	AuthorizationHeader            = "Authorization"
	BearerPrefix                   = "Bearer "
	IdentityKey         ContextKey = "identity"

	// --- Request ID Key ---
	RequestIDKey ContextKey = "requestID"
)
