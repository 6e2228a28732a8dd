// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel slog.Level

	// Template files
	TemplatesDir       string
	TemplatesHotReload bool

	// Message bundles; an empty MessagesDir disables localization.
	MessagesDir       string
	MessagesPrefix    string
	FallbackToEnglish bool

	// Locale resolution
	DefaultLocale    language.Tag // language.Und when unset
	SupportedLocales []language.Tag

	// Compiler
	CompilerCommand string
	CompilerArgs    string

	// Compiled template responses
	CacheControl string
	Debug        bool

	// Valkey (Redis-compatible) shared store; empty host disables it.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ScriptTTL      time.Duration
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Malformed values are errors, as is
// debug mode in production.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		TemplatesDir:   envOrDefault("SOY_TEMPLATES_DIR", "templates"),
		MessagesDir:    os.Getenv("SOY_MESSAGES_DIR"),
		MessagesPrefix: envOrDefault("SOY_MESSAGES_PREFIX", "messages"),

		CompilerCommand: envOrDefault("SOY_COMPILER", "java -jar SoyToJsSrcCompiler.jar"),
		CompilerArgs:    os.Getenv("SOY_COMPILER_ARGS"),

		CacheControl: envOrDefault("SOY_CACHE_CONTROL", "public, max-age=3600"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
	}

	var err error
	defaultLevel := "info"
	if cfg.IsDev() {
		defaultLevel = "debug"
	}
	if cfg.LogLevel, err = parseLevel(envOrDefault("LOG_LEVEL", defaultLevel)); err != nil {
		return nil, err
	}
	if cfg.TemplatesHotReload, err = envBool("SOY_TEMPLATES_HOT_RELOAD", false); err != nil {
		return nil, err
	}
	if cfg.FallbackToEnglish, err = envBool("SOY_FALLBACK_TO_ENGLISH", true); err != nil {
		return nil, err
	}
	if cfg.Debug, err = envBool("SOY_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.ScriptTTL, err = envDuration("SOY_L2_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	cfg.DefaultLocale = language.Und
	if v := os.Getenv("SOY_DEFAULT_LOCALE"); v != "" {
		if cfg.DefaultLocale, err = parseLocale(v); err != nil {
			return nil, fmt.Errorf("SOY_DEFAULT_LOCALE: %w", err)
		}
	}
	for _, v := range strings.Split(os.Getenv("SOY_SUPPORTED_LOCALES"), ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		tag, err := parseLocale(v)
		if err != nil {
			return nil, fmt.Errorf("SOY_SUPPORTED_LOCALES: %w", err)
		}
		cfg.SupportedLocales = append(cfg.SupportedLocales, tag)
	}

	if cfg.Env == "production" && cfg.Debug {
		return nil, fmt.Errorf("SOY_DEBUG must not be enabled in production")
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ValkeyEnabled reports whether a shared compiled-template store is configured.
func (c *Config) ValkeyEnabled() bool {
	return c.ValkeyHost != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func parseLevel(v string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: invalid level %q", v)
	}
	return level, nil
}

// parseLocale accepts both BCP 47 ("pt-BR") and underscore ("pt_BR") forms.
func parseLocale(v string) (language.Tag, error) {
	tag, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q", v)
	}
	return tag, nil
}
