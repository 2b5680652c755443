package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jarvisdesk/internal/domain"
	"jarvisdesk/internal/history"
	"jarvisdesk/internal/ports"
)

var (
	ErrBusy          = errors.New("a request is already in flight")
	ErrEmptyQuestion = errors.New("question is empty")
)

// Config controls interaction behavior.
type Config struct {
	StreamAnswers  bool
	RequestTimeout time.Duration
}

// Controller owns the interaction state machine: the current session, the
// input lock, and the single path by which a question becomes an answer.
// All ambient state lives here; there are no package-level variables.
type Controller struct {
	backend ports.BackendClient
	player  ports.AudioPlayer
	events  ports.EventSink
	history *history.Store
	logger  *zap.Logger
	cfg     Config

	mu           sync.Mutex
	state        domain.InteractionState
	sessionID    string
	pending      bool
	audioPlaying bool
}

func NewController(
	backend ports.BackendClient,
	player ports.AudioPlayer,
	events ports.EventSink,
	store *history.Store,
	logger *zap.Logger,
	cfg Config,
) *Controller {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 20 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = history.NewStore()
	}
	return &Controller{
		backend:   backend,
		player:    player,
		events:    events,
		history:   store,
		logger:    logger,
		cfg:       cfg,
		state:     domain.StateIdle,
		sessionID: newSessionID(),
	}
}

func newSessionID() string {
	return fmt.Sprintf("sess-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Submit runs one question through the pipeline: lock, append the user
// message, fetch the answer, optionally speak it, unlock. It is the single
// entry point for both typed and voice-sourced questions, and the only
// code that releases the input lock.
func (c *Controller) Submit(ctx context.Context, question string, source domain.Source) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return ErrEmptyQuestion
	}

	c.mu.Lock()
	if c.pending || c.state.Locked() {
		c.mu.Unlock()
		c.events.InteractionError(domain.ErrorCodeBusy, "still working on the previous request")
		return ErrBusy
	}
	c.pending = true
	c.state = domain.StateThinking
	sessionID := c.sessionID
	c.mu.Unlock()

	c.events.StateChanged(domain.StateThinking, domain.ReasonQuestionAccepted)

	finalReason := domain.ReasonAnswerReady
	defer func() {
		c.mu.Lock()
		c.pending = false
		c.state = domain.StateIdle
		c.mu.Unlock()
		c.events.StateChanged(domain.StateIdle, finalReason)
	}()

	c.appendMessage(domain.ChatMessage{Sender: domain.SenderUser, Text: question, Source: source})

	answer, answerErr := c.fetchAnswer(ctx, question, sessionID)
	if answerErr != nil {
		finalReason = domain.ReasonAnswerFailed
		c.logger.Warn("answer request failed",
			zap.String("session", sessionID), zap.Error(answerErr))
		c.events.InteractionError(domain.ErrorCodeAnswer, answerErr.Error())
		answer = apology(answerErr)
	}
	reply := domain.ChatMessage{Sender: domain.SenderAssistant, Text: answer, Source: source}

	if source != domain.SourceVoice {
		c.appendMessage(reply)
		return nil
	}

	sctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	audioURL, speakErr := c.backend.Speak(sctx, answer, sessionID)
	cancel()
	if speakErr != nil {
		c.logger.Warn("speech synthesis failed",
			zap.String("session", sessionID), zap.Error(speakErr))
		c.events.InteractionError(domain.ErrorCodeSpeech, speakErr.Error())
		c.appendMessage(reply)
		return nil
	}

	c.setSpeaking(true)
	c.events.StateChanged(domain.StateSpeaking, domain.ReasonSpeakingStarted)
	c.appendMessage(reply)

	playErr := c.player.Play(ctx, audioURL)
	c.setSpeaking(false)
	if playErr != nil {
		finalReason = domain.ReasonPlaybackFailed
		c.events.InteractionError(domain.ErrorCodePlayback, playErr.Error())
	} else {
		finalReason = domain.ReasonPlaybackFinished
	}
	return nil
}

func (c *Controller) fetchAnswer(ctx context.Context, question, sessionID string) (string, error) {
	rctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	if !c.cfg.StreamAnswers {
		return c.backend.Ask(rctx, question, sessionID)
	}

	acc := newAnswerAccumulator()
	return c.backend.StreamAsk(rctx, question, sessionID, func(chunk string) {
		c.events.PartialAnswer(acc.Append(chunk))
	})
}

func apology(err error) string {
	return fmt.Sprintf("Sorry Boss, I couldn't get an answer from the backend (%v).", err)
}

// ClearHistory erases the transcript and starts a fresh session. It is
// refused while input is locked; clearing and session regeneration happen
// under one lock hold.
func (c *Controller) ClearHistory() error {
	c.mu.Lock()
	if c.pending || c.state.Locked() {
		c.mu.Unlock()
		c.logger.Warn("clear refused while locked")
		c.events.InteractionError(domain.ErrorCodeBusy, "cannot clear history while a request is in flight")
		return ErrBusy
	}
	c.history.Clear()
	c.sessionID = newSessionID()
	c.state = domain.StateIdle
	sessionID := c.sessionID
	c.mu.Unlock()

	c.events.HistoryCleared(sessionID)
	c.events.StateChanged(domain.StateIdle, domain.ReasonHistoryCleared)
	return nil
}

// UploadDocument sends a local file to the backend knowledge store for the
// current session.
func (c *Controller) UploadDocument(ctx context.Context, path string) (domain.UploadResult, error) {
	rctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	result, err := c.backend.UploadDocument(rctx, path, c.SessionID())
	if err != nil {
		c.events.InteractionError(domain.ErrorCodeUpload, err.Error())
		return domain.UploadResult{}, err
	}
	return result, nil
}

// Status returns the current controller status.
func (c *Controller) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Status{
		State:        c.state,
		SessionID:    c.sessionID,
		InputLocked:  c.state.Locked(),
		AudioPlaying: c.audioPlaying,
	}
}

// SessionID returns the active session identifier.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Messages returns the displayed transcript.
func (c *Controller) Messages() []domain.ChatMessage {
	return c.history.Messages()
}

func (c *Controller) appendMessage(msg domain.ChatMessage) {
	c.history.Append(msg)
	c.events.MessageAppended(msg)
}

func (c *Controller) setSpeaking(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.audioPlaying = on
	if on {
		c.state = domain.StateSpeaking
	}
}

// pollEligible reports whether the poll loop may issue a backend call right
// now. Audio playback suppresses polling independently of the state value.
func (c *Controller) pollEligible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending || c.audioPlaying {
		return false
	}
	return c.state == domain.StateIdle || c.state == domain.StateQuerying
}

// beginHandshake moves into the handshake state if still eligible.
func (c *Controller) beginHandshake() bool {
	c.mu.Lock()
	if c.pending || c.audioPlaying || (c.state != domain.StateIdle && c.state != domain.StateQuerying) {
		c.mu.Unlock()
		return false
	}
	c.state = domain.StateHandshake
	c.audioPlaying = true
	c.mu.Unlock()

	c.events.StateChanged(domain.StateHandshake, domain.ReasonHandshakeDetected)
	return true
}

// finishHandshake records the end of the acknowledgement clip and starts
// listening for the voice query. A playback error counts as completion.
func (c *Controller) finishHandshake(playErr error) {
	c.mu.Lock()
	c.audioPlaying = false
	c.state = domain.StateQuerying
	c.mu.Unlock()

	if playErr != nil {
		c.events.InteractionError(domain.ErrorCodePlayback, playErr.Error())
	}
	c.events.StateChanged(domain.StateQuerying, domain.ReasonHandshakePlayed)
}

// recoverIdle is the universal poll-failure path: back to idle with a
// visible error.
func (c *Controller) recoverIdle(err error) {
	c.mu.Lock()
	c.state = domain.StateIdle
	c.audioPlaying = false
	c.mu.Unlock()

	c.events.InteractionError(domain.ErrorCodePoll, err.Error())
	c.events.StateChanged(domain.StateIdle, domain.ReasonPollFailed)
}
