package main

import (
	"errors"
	"testing"

	"jarvisdesk/internal/domain"
)

func TestStateMessage(t *testing.T) {
	t.Parallel()

	cases := map[domain.StateReason]string{
		domain.ReasonStartup:           "Ready",
		domain.ReasonHandshakeDetected: "Wake word detected",
		domain.ReasonHandshakePlayed:   "Listening...",
		domain.ReasonQuestionAccepted:  "Thinking...",
		domain.ReasonAnswerReady:       "Answer ready",
		domain.ReasonSpeakingStarted:   "Speaking...",
		domain.ReasonPlaybackFinished:  "Done speaking",
		domain.ReasonPlaybackFailed:    "Playback failed",
		domain.ReasonAnswerFailed:      "Answer failed",
		domain.ReasonPollFailed:        "Backend unreachable",
		domain.ReasonHistoryCleared:    "History cleared",
	}

	for reason, want := range cases {
		reason := reason
		want := want
		t.Run(string(reason), func(t *testing.T) {
			t.Parallel()
			if got := stateMessage(reason); got != want {
				t.Fatalf("unexpected message: %q", got)
			}
		})
	}

	if got := stateMessage("unknown"); got != "" {
		t.Fatalf("expected empty unknown reason message, got %q", got)
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	cases := map[domain.ErrorCode]string{
		domain.ErrorCodeStartup:  "Startup failed",
		domain.ErrorCodePoll:     "Voice polling error",
		domain.ErrorCodeAnswer:   "Answer request failed",
		domain.ErrorCodeSpeech:   "Speech synthesis failed",
		domain.ErrorCodePlayback: "Audio playback issue",
		domain.ErrorCodeUpload:   "Document upload failed",
		domain.ErrorCodeBusy:     "Hold on, still working on the last request",
	}
	for code, want := range cases {
		code := code
		want := want
		t.Run(string(code), func(t *testing.T) {
			t.Parallel()
			if got := errorMessage(code, "ignored"); got != want {
				t.Fatalf("unexpected message: %q", got)
			}
		})
	}

	if got := errorMessage("unknown", "detail"); got != "detail" {
		t.Fatalf("expected detail fallback, got %q", got)
	}
	if got := errorMessage("unknown", ""); got != "Unknown error" {
		t.Fatalf("expected unknown fallback, got %q", got)
	}
}

func TestRequireReady(t *testing.T) {
	t.Parallel()

	app := &App{}
	if err := app.requireReady(); err == nil {
		t.Fatalf("expected uninitialized error")
	}

	bootErr := errors.New("boot")
	app.bootErr = bootErr
	if err := app.requireReady(); !errors.Is(err, bootErr) {
		t.Fatalf("expected boot error, got %v", err)
	}
}

func TestGetStatusWhenNotInitialized(t *testing.T) {
	t.Parallel()

	app := &App{}
	status := app.GetStatus()
	if status.State != domain.StateIdle || status.InputLocked {
		t.Fatalf("unexpected status: %+v", status)
	}

	app.bootErr = errors.New("boot")
	status = app.GetStatus()
	if status.State != domain.StateIdle || status.Message != "boot" {
		t.Fatalf("unexpected boot status: %+v", status)
	}
}

func TestGetHistoryWhenNotInitialized(t *testing.T) {
	t.Parallel()

	app := &App{}
	if got := app.GetHistory(); got != nil {
		t.Fatalf("expected nil history, got %v", got)
	}
}
