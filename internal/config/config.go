// Package config loads application configuration from an optional JSON
// file with environment variable overrides. The result is built once at
// startup and passed by reference into the components that need it.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// DefaultWindow is the trailing interval that counts as recent activity.
const DefaultWindow = 7 * 24 * time.Hour

// EmailJS holds the identifiers for the transactional-email provider.
type EmailJS struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
}

// Config aggregates runtime configuration. Credentials are always
// externally supplied; nothing here has a built-in default key.
type Config struct {
	GeminiAPIKey string
	EmailJS      EmailJS
	GitHubToken  string
	Window       time.Duration
}

// fileConfig mirrors the JSON config file shape.
type fileConfig struct {
	GeminiAPIKey string `json:"GEMINI_API_KEY"`
	EmailJS      struct {
		ServiceID  string `json:"SERVICE_ID"`
		TemplateID string `json:"TEMPLATE_ID"`
		PublicKey  string `json:"PUBLIC_KEY"`
	} `json:"EMAIL_JS"`
}

// Load reads the JSON file at path (skipped when path is empty) and then
// applies environment variable overrides.
func Load(path string) (Config, error) {
	cfg := Config{Window: DefaultWindow}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		var fc fileConfig
		if err := json.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.GeminiAPIKey = fc.GeminiAPIKey
		cfg.EmailJS = EmailJS{
			ServiceID:  fc.EmailJS.ServiceID,
			TemplateID: fc.EmailJS.TemplateID,
			PublicKey:  fc.EmailJS.PublicKey,
		}
	}

	cfg.GeminiAPIKey = envDefault("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.EmailJS.ServiceID = envDefault("EMAILJS_SERVICE_ID", cfg.EmailJS.ServiceID)
	cfg.EmailJS.TemplateID = envDefault("EMAILJS_TEMPLATE_ID", cfg.EmailJS.TemplateID)
	cfg.EmailJS.PublicKey = envDefault("EMAILJS_PUBLIC_KEY", cfg.EmailJS.PublicKey)
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")

	var err error
	cfg.Window, err = envDuration("WINDOW", cfg.Window)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}
