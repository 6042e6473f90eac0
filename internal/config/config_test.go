package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aryannaik/joke-teller/internal/jokeapi"
)

var configKeys = []string{
	"JOKE_API_BASE_URL", "JOKE_API_TIMEOUT", "JOKE_API_RATE_PER_MINUTE", "JOKE_CATEGORY",
	"SPEECH_ENGINE", "SPEECH_COMMAND", "SPEECH_LOCALE",
	"PORT", "STATIC_DIR",
	"LOG_LEVEL", "LOG_DIR", "LOG_MAX_SIZE_MB", "LOG_MAX_BACKUPS", "LOG_MAX_AGE_DAYS", "LOG_COMPRESS", "LOG_HTTP_BODIES",
}

func clearEnv(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JokeAPI.BaseURL != jokeapi.DefaultBaseURL {
		t.Fatalf("unexpected base url %q", cfg.JokeAPI.BaseURL)
	}
	if cfg.JokeAPI.Timeout != 10*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.JokeAPI.Timeout)
	}
	if cfg.JokeAPI.Category != jokeapi.Any {
		t.Fatalf("unexpected category %s", cfg.JokeAPI.Category)
	}
	if cfg.Speech.Engine != SpeechConsole || cfg.Speech.Command != "espeak-ng" {
		t.Fatalf("unexpected speech config %+v", cfg.Speech)
	}
	if cfg.Server.Port != "8991" {
		t.Fatalf("unexpected port %q", cfg.Server.Port)
	}
	if !cfg.Logging.HTTPBodies || !cfg.Logging.Compress {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JOKE_API_BASE_URL", "http://localhost:9000")
	t.Setenv("JOKE_API_TIMEOUT", "3s")
	t.Setenv("JOKE_API_RATE_PER_MINUTE", "0")
	t.Setenv("JOKE_CATEGORY", "Spooky")
	t.Setenv("SPEECH_ENGINE", "Command")
	t.Setenv("LOG_HTTP_BODIES", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JokeAPI.Timeout != 3*time.Second || cfg.JokeAPI.RequestsPerMinute != 0 {
		t.Fatalf("unexpected api config %+v", cfg.JokeAPI)
	}
	if cfg.JokeAPI.Category != jokeapi.Spooky {
		t.Fatalf("unexpected category %s", cfg.JokeAPI.Category)
	}
	if cfg.Speech.Engine != SpeechCommand {
		t.Fatalf("unexpected engine %q", cfg.Speech.Engine)
	}
	if cfg.Logging.HTTPBodies {
		t.Fatalf("expected body logging disabled")
	}
}

func TestLoadReportsAllProblems(t *testing.T) {
	clearEnv(t)
	t.Setenv("JOKE_API_BASE_URL", "ftp://example.com")
	t.Setenv("JOKE_API_TIMEOUT", "soon")
	t.Setenv("JOKE_CATEGORY", "knock-knock")
	t.Setenv("SPEECH_ENGINE", "parrot")
	t.Setenv("PORT", "http")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"JOKE_API_BASE_URL", "JOKE_API_TIMEOUT", "JOKE_CATEGORY", "SPEECH_ENGINE", "PORT"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in error, got %v", want, err)
		}
	}
}

func TestLoadRequiresRotationLimitsWithLogDir(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_DIR", t.TempDir())
	t.Setenv("LOG_MAX_BACKUPS", "0")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "LOG_DIR") {
		t.Fatalf("expected rotation error, got %v", err)
	}
}

func TestLoadAcceptsEverySpeechEngine(t *testing.T) {
	for _, engine := range []string{"command", "console", "none"} {
		clearEnv(t)
		t.Setenv("SPEECH_ENGINE", engine)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", engine, err)
		}
		if cfg.Speech.Engine != engine {
			t.Fatalf("expected %s, got %s", engine, cfg.Speech.Engine)
		}
	}

	clearEnv(t)
	t.Setenv("SPEECH_ENGINE", "espeak")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SPEECH_ENGINE") {
		t.Fatalf("expected espeak to be rejected, got %v", err)
	}
}
