package reqforge

import (
	"log/slog"
	"os"

	"github.com/joeshaw/envdecode"
)

// Config configures a Builder. It can be loaded from the environment with
// ConfigFromEnv.
type Config struct {
	// BaseURL is the absolute URL endpoints are joined to. ENV: REQFORGE_BASE_URL
	BaseURL string `env:"REQFORGE_BASE_URL,required"`
	// Validate enables `validate` tag checks in TryBuild. ENV: REQFORGE_VALIDATE
	Validate bool `env:"REQFORGE_VALIDATE,default=false"`
	// LogLevel is the slog level for the builder's logger. ENV: REQFORGE_LOG_LEVEL
	LogLevel string `env:"REQFORGE_LOG_LEVEL,default=info"`
}

// ConfigFromEnv loads a Config from environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, Errorf(CodeInvalidRequest, "load config: %w", err)
	}
	return cfg, nil
}

// NewBuilderFromConfig creates a Builder from cfg. The builder logs to
// stderr at cfg.LogLevel.
func NewBuilderFromConfig(cfg Config) (*Builder, error) {
	b, err := NewBuilder(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	var level slog.Level
	if cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, Errorf(CodeInvalidRequest, "invalid log level %q: %w", cfg.LogLevel, err)
		}
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return b.WithLogger(logger).WithValidation(cfg.Validate), nil
}
