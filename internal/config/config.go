package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aryannaik/joke-teller/internal/jokeapi"
)

// Speech engine names accepted in SPEECH_ENGINE.
const (
	SpeechCommand = "command"
	SpeechConsole = "console"
	SpeechNone    = "none"
)

type Config struct {
	JokeAPI JokeAPIConfig
	Speech  SpeechConfig
	Server  ServerConfig
	Logging LoggingConfig
}

// JokeAPIConfig holds the upstream joke API settings.
type JokeAPIConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
	Category          jokeapi.Category
}

// SpeechConfig selects the text-to-speech backend. An empty Locale means
// "use the system locale".
type SpeechConfig struct {
	Engine  string
	Command string
	Locale  string
}

type ServerConfig struct {
	Port      string
	StaticDir string
}

// LoggingConfig controls the slog handler and optional file rotation.
type LoggingConfig struct {
	Level      string
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	HTTPBodies bool
}

// Load reads configuration from the environment, after loading .env when
// present. All problems are reported together.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs []error
	cfg := &Config{}

	cfg.JokeAPI = JokeAPIConfig{
		BaseURL:           envOrDefault("JOKE_API_BASE_URL", jokeapi.DefaultBaseURL),
		Timeout:           envDuration("JOKE_API_TIMEOUT", jokeapi.DefaultTimeout, &errs),
		RequestsPerMinute: envInt("JOKE_API_RATE_PER_MINUTE", jokeapi.DefaultRequestsPerMinute, &errs),
	}
	category, err := jokeapi.ParseCategory(envOrDefault("JOKE_CATEGORY", string(jokeapi.DefaultCategory)))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid JOKE_CATEGORY: %w", err))
	}
	cfg.JokeAPI.Category = category

	cfg.Speech = SpeechConfig{
		Engine:  strings.ToLower(envOrDefault("SPEECH_ENGINE", SpeechConsole)),
		Command: envOrDefault("SPEECH_COMMAND", "espeak-ng"),
		Locale:  os.Getenv("SPEECH_LOCALE"),
	}

	cfg.Server = ServerConfig{
		Port:      envOrDefault("PORT", "8991"),
		StaticDir: os.Getenv("STATIC_DIR"),
	}

	cfg.Logging = LoggingConfig{
		Level:      envOrDefault("LOG_LEVEL", "info"),
		Dir:        os.Getenv("LOG_DIR"),
		MaxSizeMB:  envInt("LOG_MAX_SIZE_MB", 10, &errs),
		MaxBackups: envInt("LOG_MAX_BACKUPS", 3, &errs),
		MaxAgeDays: envInt("LOG_MAX_AGE_DAYS", 7, &errs),
		Compress:   envBool("LOG_COMPRESS", true, &errs),
		HTTPBodies: envBool("LOG_HTTP_BODIES", true, &errs),
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed:\n%w", errors.Join(errs...))
	}
	return cfg, nil
}

func (c *Config) validate() []error {
	var errs []error

	if !strings.HasPrefix(c.JokeAPI.BaseURL, "http://") && !strings.HasPrefix(c.JokeAPI.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("JOKE_API_BASE_URL must be an http(s) URL (got: %s)", c.JokeAPI.BaseURL))
	}
	if c.JokeAPI.Timeout <= 0 {
		errs = append(errs, errors.New("JOKE_API_TIMEOUT must be positive"))
	}
	if c.JokeAPI.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("JOKE_API_RATE_PER_MINUTE must not be negative"))
	}

	switch c.Speech.Engine {
	case SpeechCommand, SpeechConsole, SpeechNone:
	default:
		errs = append(errs, fmt.Errorf("SPEECH_ENGINE must be one of: command, console, none (got: %s)", c.Speech.Engine))
	}

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a TCP port (got: %s)", c.Server.Port))
	}

	if c.Logging.Dir != "" && (c.Logging.MaxSizeMB <= 0 || c.Logging.MaxBackups <= 0 || c.Logging.MaxAgeDays <= 0) {
		errs = append(errs, errors.New("LOG_MAX_SIZE_MB, LOG_MAX_BACKUPS and LOG_MAX_AGE_DAYS must be positive when LOG_DIR is set"))
	}

	return errs
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return n
}

func envBool(key string, def bool, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return b
}

func envDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return d
}
