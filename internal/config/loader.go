package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envFileVar names the env var that overrides the settings file path.
const envFileVar = "GAVEL_ENV_FILE"

// defaultEnvFile is the settings file loaded when present. Absence is non-fatal.
const defaultEnvFile = ".env"

// Load builds a Config by layering defaults, an optional settings file, and
// env vars. Order of precedence (low -> high):
//  1. defaults (New())
//  2. .env-style file (GAVEL_ENV_FILE, default ".env") if it exists
//  3. process env (DB_HOST, DB_NAME, DB_USER, DB_PASSWORD, PORT, ...)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Settings file keys are uppercase (DB_HOST=...); lowercase them to
	// match the koanf tags on the struct.
	path := os.Getenv(envFileVar)
	if path == "" {
		path = defaultEnvFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), dotenv.ParserEnv("", ".", strings.ToLower)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Process env wins over the file. No prefix: the external contract names
	// the variables DB_HOST, DB_NAME, DB_USER, DB_PASSWORD, PORT.
	envProvider := env.Provider("", ".", strings.ToLower)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, cfg.Port)
	}
	if cfg.DBHost == "" || cfg.DBName == "" || cfg.DBUser == "" {
		return nil, fmt.Errorf("%w: database host, name, and user must not be empty", ErrInvalidConfig)
	}
	if cfg.DBQueryTimeoutMS < 1 {
		return nil, fmt.Errorf("%w: db_query_timeout_ms must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
