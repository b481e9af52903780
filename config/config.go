// Package config loads server configuration from config.toml plus API
// keys from the environment (optionally seeded from a .env file).
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig locates the sales dataset.
type DataConfig struct {
	Path string `toml:"path"`
}

// PlannerConfig selects the LLM model and endpoint.
type PlannerConfig struct {
	Model    string `toml:"model"`
	Endpoint string `toml:"endpoint"`
}

// ReportConfig configures PDF rendering.
type ReportConfig struct {
	FontPath string `toml:"font_path"`
}

// SlackConfig names the delivery channel; the bot token stays in the
// environment.
type SlackConfig struct {
	ChannelID string `toml:"channel_id"`
}

// Config is the full application configuration. Secrets never live in
// the TOML file: they come from the environment.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Planner PlannerConfig `toml:"planner"`
	Report  ReportConfig  `toml:"report"`
	Slack   SlackConfig   `toml:"slack"`

	GeminiAPIKey  string `toml:"-"`
	SarvamAPIKey  string `toml:"-"`
	SlackBotToken string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8000},
		Data:   DataConfig{Path: "data/anandhaas_sales.csv"},
		Report: ReportConfig{FontPath: "assets/DejaVuSans.ttf"},
	}
}

// Load reads path (missing file is fine, defaults apply), then overlays
// environment variables. A .env file in the working directory is loaded
// first, best-effort.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Printf("✅ config: loaded .env")
	}

	cfg := Default()
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		log.Printf("✅ config: loaded %s", path)
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.SarvamAPIKey = os.Getenv("SARVAM_API_KEY")
	cfg.SlackBotToken = os.Getenv("SLACK_BOT_TOKEN")
	if v := os.Getenv("SLACK_CHANNEL_ID"); v != "" {
		cfg.Slack.ChannelID = v
	}
	if v := os.Getenv("DATA_PATH"); v != "" {
		cfg.Data.Path = v
	}

	return cfg, nil
}
