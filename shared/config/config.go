package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	YouTube YouTubeConfig `yaml:"youtube"`
	AI      AIConfig      `yaml:"ai"`
	Server  ServerConfig  `yaml:"server"`
}

type YouTubeConfig struct {
	APIKey      string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	MaxComments int64  `yaml:"max_comments"`
}

type AIConfig struct {
	// GeminiAPIKey is optional: when empty the service runs in local-only
	// mode and never calls the remote classifier.
	GeminiAPIKey      string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model             string `yaml:"model"`
	BatchSize         int    `yaml:"batch_size"`
	BatchConcurrency  int    `yaml:"batch_concurrency"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(configFile)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}
	// A missing config file is fine; everything required can come from env.

	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}

	if cfg.YouTube.MaxComments <= 0 {
		cfg.YouTube.MaxComments = 500
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.0-flash"
	}
	if cfg.AI.BatchSize <= 0 {
		cfg.AI.BatchSize = 100
	}
	if cfg.AI.BatchConcurrency <= 0 {
		cfg.AI.BatchConcurrency = 3
	}
	if cfg.AI.RequestsPerMinute <= 0 {
		cfg.AI.RequestsPerMinute = 60
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.YouTube.APIKey == "" {
		return fmt.Errorf("YouTube API key is required (set YOUTUBE_API_KEY or youtube.api_key)")
	}
	return nil
}

// RemoteEnabled reports whether the Gemini classification path is configured.
func (c *Config) RemoteEnabled() bool {
	return c.AI.GeminiAPIKey != ""
}
