package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("JARVISDESK_BACKEND_URL", "")
	t.Setenv("JARVISDESK_REQUEST_TIMEOUT_MS", "")
	t.Setenv("JARVISDESK_POLL_INTERVAL_MS", "")
	t.Setenv("JARVISDESK_STREAM_ANSWERS", "")
	t.Setenv("JARVISDESK_VOICE", "")
	t.Setenv("JARVISDESK_LOG_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Backend.BaseURL != "http://127.0.0.1:8000" {
		t.Fatalf("unexpected base url: %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.RequestTimeout != 20*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Backend.RequestTimeout)
	}
	if !cfg.Backend.StreamAnswers {
		t.Fatalf("expected streaming enabled by default")
	}
	if cfg.Poll.Interval != 300*time.Millisecond {
		t.Fatalf("unexpected poll interval: %v", cfg.Poll.Interval)
	}
	if !cfg.Voice.Enabled {
		t.Fatalf("expected voice enabled by default")
	}
	want := filepath.Join(home, ".local", "state", "jarvisdesk", "log.jsonl")
	if cfg.Log.Path != want {
		t.Fatalf("unexpected log path: %q", cfg.Log.Path)
	}
}

func TestLoadRespectsOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("JARVISDESK_BACKEND_URL", "http://assistant.lan:9000")
	t.Setenv("JARVISDESK_REQUEST_TIMEOUT_MS", "5000")
	t.Setenv("JARVISDESK_POLL_INTERVAL_MS", "250")
	t.Setenv("JARVISDESK_STREAM_ANSWERS", "off")
	t.Setenv("JARVISDESK_VOICE", "false")
	t.Setenv("JARVISDESK_LOG_FILE", "/tmp/jd.jsonl")
	t.Setenv("XDG_STATE_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Backend.BaseURL != "http://assistant.lan:9000" {
		t.Fatalf("unexpected base url: %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.RequestTimeout != 5*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Backend.RequestTimeout)
	}
	if cfg.Backend.StreamAnswers {
		t.Fatalf("expected streaming disabled")
	}
	if cfg.Poll.Interval != 250*time.Millisecond {
		t.Fatalf("unexpected poll interval: %v", cfg.Poll.Interval)
	}
	if cfg.Voice.Enabled {
		t.Fatalf("expected voice disabled")
	}
	if cfg.Log.Path != "/tmp/jd.jsonl" {
		t.Fatalf("unexpected log path: %q", cfg.Log.Path)
	}
}

func TestLoadClampsBadValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("JARVISDESK_REQUEST_TIMEOUT_MS", "-1")
	t.Setenv("JARVISDESK_POLL_INTERVAL_MS", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Backend.RequestTimeout != 20*time.Second {
		t.Fatalf("expected timeout clamp, got %v", cfg.Backend.RequestTimeout)
	}
	if cfg.Poll.Interval != 300*time.Millisecond {
		t.Fatalf("expected interval clamp, got %v", cfg.Poll.Interval)
	}
}
