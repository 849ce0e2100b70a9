package config

import (
	"fmt"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Ollama   OllamaConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Path string
}

type OllamaConfig struct {
	BaseURL string
	Model   string
	Enabled bool
	Timeout string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 8000,
		},
		Database: DatabaseConfig{
			Path: "data/db/processed_apple_health_data.db",
		},
		Ollama: OllamaConfig{
			BaseURL: "http://localhost:11434",
			Model:   "llama3.2",
			Enabled: true,
			Timeout: "15s",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON file backend at
// $XDG_CONFIG_HOME/fittrack/config.json, then applies FITTRACK_*
// environment variable overrides.
func Load() (Config, error) {
	return loadWith(newFileBackend())
}

func loadWith(b Backend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if _, err := time.ParseDuration(cfg.Ollama.Timeout); err != nil {
		return Config{}, fmt.Errorf("invalid ollama.timeout %q: %w", cfg.Ollama.Timeout, err)
	}
	if cfg.Database.Path == "" {
		return Config{}, fmt.Errorf("missing required config: database.path. Set it via FITTRACK_DATABASE_PATH or `fittrack config set database.path <path>`")
	}

	return cfg, nil
}

// LLMTimeout returns the parsed Ollama request timeout. Load validates the
// duration, so this only falls back for zero-value configs in tests.
func (c Config) LLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.Ollama.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}
