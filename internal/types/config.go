package types

type RunMode string

const (
	// ModeLocal is the mode for running the API server against local services
	ModeLocal RunMode = "local"
	// ModeAPI is the mode for running the API server
	ModeAPI RunMode = "api"
	// ModeMigrate runs pending migrations and exits
	ModeMigrate RunMode = "migrate"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
