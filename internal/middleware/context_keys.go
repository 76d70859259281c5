package middleware

// contextKey is a private type for context keys set by middleware.
// Using a custom type prevents collisions with other packages.
type contextKey string

const (
	loggerKey contextKey = "logger"
	actorKey  contextKey = "actor"
)
