package logger

import (
	"log/slog"
	"strings"
)

// Config selects the handler, level and base attributes of the process logger.
type Config struct {
	Level       string
	Format      string
	ServiceName string
	Version     string
	Environment string
	AddSource   bool
	NoColor     bool
}

// NewConfig normalizes the values read from the environment. An empty
// format becomes JSON in production and colored text elsewhere; production
// output never carries ANSI colors.
func NewConfig(level, format, serviceName, version, environment string, addSource bool) Config {
	cfg := Config{
		Level:       strings.ToLower(strings.TrimSpace(level)),
		Format:      strings.ToLower(strings.TrimSpace(format)),
		ServiceName: serviceName,
		Version:     version,
		Environment: strings.ToLower(strings.TrimSpace(environment)),
		AddSource:   addSource,
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.Environment == "" {
		cfg.Environment = EnvironmentDev
	}
	if cfg.Format == "" {
		cfg.Format = LogFormatText
		if cfg.IsProduction() {
			cfg.Format = LogFormatJSON
		}
	}
	cfg.NoColor = cfg.IsProduction()
	return cfg
}

// LogLevel maps Level onto slog, defaulting to info.
func (c Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn, LogLevelWarning:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) IsJSON() bool {
	return strings.EqualFold(c.Format, LogFormatJSON)
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvironmentProduction)
}

// BaseAttributes are attached to every record.
func (c Config) BaseAttributes() []slog.Attr {
	return []slog.Attr{
		slog.String(AttrKeyService, c.ServiceName),
		slog.String(AttrKeyVersion, c.Version),
		slog.String(AttrKeyEnvironment, c.Environment),
	}
}
