package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration for the desktop client.
type Config struct {
	Backend BackendConfig
	Poll    PollConfig
	Voice   VoiceConfig
	Log     LogConfig
}

type BackendConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	StreamAnswers  bool
}

type PollConfig struct {
	Interval time.Duration
}

type VoiceConfig struct {
	Enabled bool
}

type LogConfig struct {
	Path    string
	Console bool
}

// Load resolves configuration from a .env file (when present), environment
// variables, and sensible defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	logPath, err := defaultLogPath()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Backend: BackendConfig{
			BaseURL:        envOrDefault("JARVISDESK_BACKEND_URL", "http://127.0.0.1:8000"),
			RequestTimeout: time.Duration(envOrDefaultInt("JARVISDESK_REQUEST_TIMEOUT_MS", 20000)) * time.Millisecond,
			StreamAnswers:  envOrDefaultBool("JARVISDESK_STREAM_ANSWERS", true),
		},
		Poll: PollConfig{
			Interval: time.Duration(envOrDefaultInt("JARVISDESK_POLL_INTERVAL_MS", 300)) * time.Millisecond,
		},
		Voice: VoiceConfig{
			Enabled: envOrDefaultBool("JARVISDESK_VOICE", true),
		},
		Log: LogConfig{
			Path:    envOrDefault("JARVISDESK_LOG_FILE", logPath),
			Console: envOrDefaultBool("JARVISDESK_LOG_CONSOLE", false),
		},
	}

	if cfg.Backend.RequestTimeout <= 0 {
		cfg.Backend.RequestTimeout = 20 * time.Second
	}
	if cfg.Poll.Interval < 100*time.Millisecond {
		cfg.Poll.Interval = 300 * time.Millisecond
	}

	return cfg, nil
}

// defaultLogPath selects XDG_STATE_HOME when available, otherwise ~/.local/state.
func defaultLogPath() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return filepath.Join(xdg, "jarvisdesk", "log.jsonl"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("could not determine home directory")
	}
	return filepath.Join(home, ".local", "state", "jarvisdesk", "log.jsonl"), nil
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultBool(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
