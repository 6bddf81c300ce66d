package logger

import "time"

const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"

	LogFormatJSON = "json"
	LogFormatText = "text"
)

const (
	DefaultServiceName    = "prize-arena"
	DefaultVersion        = "dev"
	EnvironmentDev        = "dev"
	EnvironmentProduction = "prod"
)

const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
)

// ConsoleTimeFormat is the timestamp layout for the colored text handler.
const ConsoleTimeFormat = time.TimeOnly
