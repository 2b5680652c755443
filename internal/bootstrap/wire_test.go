package bootstrap

import (
	"testing"

	"jarvisdesk/internal/domain"
)

func TestBuildSuccess(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("JARVISDESK_BACKEND_URL", "http://127.0.0.1:8000")

	services, err := Build(noopEventSink{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if services.Controller == nil || services.Poller == nil || services.Microphone == nil {
		t.Fatalf("incomplete service graph: %+v", services)
	}
	if services.Controller.SessionID() == "" {
		t.Fatalf("expected a session id at startup")
	}
}

func TestBuildFailsOnInvalidBackendURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("JARVISDESK_BACKEND_URL", "ftp://not-http")

	if _, err := Build(noopEventSink{}); err == nil {
		t.Fatalf("expected build error for invalid backend URL")
	}
}

type noopEventSink struct{}

func (noopEventSink) StateChanged(_ domain.InteractionState, _ domain.StateReason) {}
func (noopEventSink) MessageAppended(_ domain.ChatMessage)                         {}
func (noopEventSink) PartialAnswer(_ string)                                       {}
func (noopEventSink) HistoryCleared(_ string)                                      {}
func (noopEventSink) InteractionError(_ domain.ErrorCode, _ string)                {}
