package domain

// InteractionState models the assistant interaction lifecycle.
type InteractionState string

const (
	StateIdle      InteractionState = "idle"
	StateHandshake InteractionState = "handshake"
	StateQuerying  InteractionState = "querying"
	StateThinking  InteractionState = "thinking"
	StateSpeaking  InteractionState = "speaking"
)

// Locked reports whether user input must be refused in this state.
func (s InteractionState) Locked() bool {
	return s == StateThinking || s == StateSpeaking
}

// StateReason provides a structured reason for state transitions.
type StateReason string

const (
	ReasonStartup           StateReason = "startup"
	ReasonHandshakeDetected StateReason = "handshake_detected"
	ReasonHandshakePlayed   StateReason = "handshake_played"
	ReasonQuestionAccepted  StateReason = "question_accepted"
	ReasonAnswerReady       StateReason = "answer_ready"
	ReasonSpeakingStarted   StateReason = "speaking_started"
	ReasonPlaybackFinished  StateReason = "playback_finished"
	ReasonPlaybackFailed    StateReason = "playback_failed"
	ReasonAnswerFailed      StateReason = "answer_failed"
	ReasonPollFailed        StateReason = "poll_failed"
	ReasonHistoryCleared    StateReason = "history_cleared"
)

// ErrorCode identifies non-fatal and fatal client errors.
type ErrorCode string

const (
	ErrorCodeStartup  ErrorCode = "startup"
	ErrorCodePoll     ErrorCode = "poll"
	ErrorCodeAnswer   ErrorCode = "answer"
	ErrorCodeSpeech   ErrorCode = "speech"
	ErrorCodePlayback ErrorCode = "playback"
	ErrorCodeUpload   ErrorCode = "upload"
	ErrorCodeBusy     ErrorCode = "busy"
)

// Source identifies where a submitted question came from.
type Source string

const (
	SourceVoice Source = "voice"
	SourceText  Source = "text"
)

// Sender identifies the author of a chat message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ChatMessage is one entry of the displayed transcript.
type ChatMessage struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
	Source Source `json:"source,omitempty"`
}

// HandshakeReply is the poll result for a detected wake word.
type HandshakeReply struct {
	Ready    bool   `json:"ready"`
	AudioURL string `json:"audioUrl,omitempty"`
}

// VoiceQuery is the poll result for a completed transcription.
type VoiceQuery struct {
	Ready bool   `json:"ready"`
	Query string `json:"query,omitempty"`
}

// UploadResult reports the outcome of a document ingestion request.
type UploadResult struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

// Status summarizes the current controller status for the UI.
type Status struct {
	State        InteractionState `json:"state"`
	SessionID    string           `json:"sessionId"`
	InputLocked  bool             `json:"inputLocked"`
	AudioPlaying bool             `json:"audioPlaying"`
	Message      string           `json:"message,omitempty"`
}
