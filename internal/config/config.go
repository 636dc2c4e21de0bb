// Package config loads bridge configuration from the environment.
// Configuration is read once at startup; there is no reload.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment variable names.
const (
	EnvBotToken  = "SLACK_BOT_TOKEN"
	EnvChannelID = "SLACK_CHANNEL_ID"
	EnvLogLevel  = "SLACKBRIDGE_LOG_LEVEL"
)

// Config holds everything the bridge needs at runtime.
type Config struct {
	// BotToken is the xoxb- Bot User OAuth Token. Required.
	BotToken string
	// ChannelID is the default channel used when a tool call does not
	// name one. Optional; tools that need a channel fail per-call when
	// both this and the explicit argument are empty.
	ChannelID string
	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		BotToken:  os.Getenv(EnvBotToken),
		ChannelID: os.Getenv(EnvChannelID),
		LogLevel:  strings.ToLower(os.Getenv(EnvLogLevel)),
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required fields are present.
func validate(cfg *Config) error {
	var errs []string

	if cfg.BotToken == "" {
		errs = append(errs, EnvBotToken+" is required (xoxb- bot token)")
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("%s: unknown level %q (valid: debug, info, warn, error)", EnvLogLevel, cfg.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("missing or invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
