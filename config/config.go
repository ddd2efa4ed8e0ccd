package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultQueryEndpoint is the NL-to-SQL backend the chat talks to when
// QUERY_ENDPOINT is not set.
const DefaultQueryEndpoint = "http://10.202.100.207:5000/query"

type Config struct {
	Port            string        `env:"PORT" envDefault:"9090"`
	QueryEndpoint   string        `env:"QUERY_ENDPOINT" envDefault:"http://10.202.100.207:5000/query"`
	QueryTimeout    time.Duration `env:"QUERY_TIMEOUT" envDefault:"60s"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SessionCleanup  time.Duration `env:"SESSION_CLEANUP" envDefault:"10m"`
	MaxPromptLength int           `env:"MAX_PROMPT_LENGTH" envDefault:"10000"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"` // "console" or "json"
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
}

// Load reads an optional .env file from the working directory and then
// parses the environment into a Config.
func Load() (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	return Config{
		Port:            "9090",
		QueryEndpoint:   DefaultQueryEndpoint,
		QueryTimeout:    60 * time.Second,
		SessionTTL:      30 * time.Minute,
		SessionCleanup:  10 * time.Minute,
		MaxPromptLength: 10000,
		CORSOrigins:     []string{"*"},
		LogLevel:        "info",
		LogFormat:       "console",
		GinMode:         "release",
	}
}

func (c Config) Validate() error {
	if c.QueryEndpoint == "" {
		return fmt.Errorf("QUERY_ENDPOINT must not be empty")
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("QUERY_TIMEOUT must be positive, got %s", c.QueryTimeout)
	}
	if c.MaxPromptLength <= 0 {
		return fmt.Errorf("MAX_PROMPT_LENGTH must be positive, got %d", c.MaxPromptLength)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}
