package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Personal Finance Copilot"`
	}

	API struct {
		// Base URL of the finance API. Defaults to the local development server.
		BaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:8000"`
		Timeout time.Duration `envconfig:"API_TIMEOUT" default:"10s"`
	}

	Session struct {
		// Path of the persisted session record. Empty means the default
		// location under the user config directory.
		File string `envconfig:"SESSION_FILE"`
	}

	Log struct {
		// The TUI owns the terminal, so logs go to a file.
		File  string `envconfig:"LOG_FILE" default:"pfcopilot.log"`
		Level string `envconfig:"LOG_LEVEL" default:"info"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
