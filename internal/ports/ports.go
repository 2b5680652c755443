package ports

import (
	"context"

	"jarvisdesk/internal/domain"
)

// BackendClient talks to the assistant backend over HTTP.
type BackendClient interface {
	// Ask returns a complete answer for the question.
	Ask(ctx context.Context, question, sessionID string) (string, error)
	// StreamAsk delivers the answer as ordered text chunks through onChunk
	// and returns the full concatenated answer.
	StreamAsk(ctx context.Context, question, sessionID string, onChunk func(chunk string)) (string, error)
	// Speak requests synthesized audio for the text and returns an absolute clip URL.
	Speak(ctx context.Context, text, sessionID string) (string, error)
	// HandshakeReply checks whether a wake-word acknowledgement clip is ready.
	HandshakeReply(ctx context.Context) (domain.HandshakeReply, error)
	// VoiceQuery checks whether a transcribed voice command is ready.
	VoiceQuery(ctx context.Context) (domain.VoiceQuery, error)
	// UploadDocument ingests a local file into the backend knowledge store.
	UploadDocument(ctx context.Context, path, sessionID string) (domain.UploadResult, error)
}

// AudioPlayer plays one clip and returns when playback ends. A playback
// error counts as completion; Play must never hang past ctx.
type AudioPlayer interface {
	Play(ctx context.Context, url string) error
}

// Microphone probes capture availability once at startup.
type Microphone interface {
	Available(ctx context.Context) bool
}

// EventSink emits controller state/events to the UI.
type EventSink interface {
	StateChanged(state domain.InteractionState, reason domain.StateReason)
	MessageAppended(msg domain.ChatMessage)
	PartialAnswer(text string)
	HistoryCleared(sessionID string)
	InteractionError(code domain.ErrorCode, detail string)
}
