package main

import (
	"context"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"jarvisdesk/internal/bootstrap"
	"jarvisdesk/internal/config"
	"jarvisdesk/internal/domain"
	"jarvisdesk/internal/usecase"
)

const (
	eventState   = "jarvisdesk:state"
	eventMessage = "jarvisdesk:message"
	eventPartial = "jarvisdesk:partial"
	eventCleared = "jarvisdesk:cleared"
	eventError   = "jarvisdesk:error"
)

// App is the Wails application root.
type App struct {
	ctx        context.Context
	cancelPoll context.CancelFunc

	controller *usecase.Controller
	cfg        config.Config
	logger     *zap.Logger
	voiceOn    bool
	bootErr    error
}

func NewApp() *App {
	return &App{}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(a)
	if err != nil {
		a.bootErr = err
		a.InteractionError(domain.ErrorCodeStartup, err.Error())
		return
	}

	a.controller = services.Controller
	a.cfg = services.Config
	a.logger = services.Logger

	// Voice polling only starts when capture is actually possible; text
	// mode works either way.
	if services.Config.Voice.Enabled && services.Microphone.Available(ctx) {
		pollCtx, cancel := context.WithCancel(ctx)
		a.cancelPoll = cancel
		a.voiceOn = true
		go services.Poller.Run(pollCtx)
	} else {
		services.Logger.Info("voice polling disabled",
			zap.Bool("configured", services.Config.Voice.Enabled))
	}

	a.StateChanged(domain.StateIdle, domain.ReasonStartup)
}

func (a *App) shutdown(_ context.Context) {
	if a.cancelPoll != nil {
		a.cancelPoll()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// SendQuestion submits typed input through the interaction pipeline. It
// returns once the answer is displayed (and spoken, for voice replies).
func (a *App) SendQuestion(question string) (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	if err := a.controller.Submit(a.ctx, question, domain.SourceText); err != nil {
		return a.controller.Status(), err
	}
	return a.controller.Status(), nil
}

// ClearHistory erases the transcript and starts a fresh session. Refused
// while the assistant is thinking or speaking.
func (a *App) ClearHistory() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	if err := a.controller.ClearHistory(); err != nil {
		return a.controller.Status(), err
	}
	return a.controller.Status(), nil
}

// GetStatus returns the current interaction status.
func (a *App) GetStatus() domain.Status {
	if a.controller == nil {
		if a.bootErr != nil {
			return domain.Status{State: domain.StateIdle, Message: a.bootErr.Error()}
		}
		return domain.Status{State: domain.StateIdle}
	}
	return a.controller.Status()
}

// GetHistory returns the displayed transcript.
func (a *App) GetHistory() []domain.ChatMessage {
	if a.controller == nil {
		return nil
	}
	return a.controller.Messages()
}

// UploadDocument ingests a local file into the backend knowledge store.
func (a *App) UploadDocument(path string) (domain.UploadResult, error) {
	if err := a.requireReady(); err != nil {
		return domain.UploadResult{}, err
	}
	return a.controller.UploadDocument(a.ctx, path)
}

// PickAndUploadDocument opens a file dialog and uploads the selection.
// Cancelling the dialog is not an error.
func (a *App) PickAndUploadDocument() (domain.UploadResult, error) {
	if err := a.requireReady(); err != nil {
		return domain.UploadResult{}, err
	}
	path, err := runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Add a document",
		Filters: []runtime.FileFilter{
			{DisplayName: "Documents (*.pdf;*.txt)", Pattern: "*.pdf;*.txt"},
		},
	})
	if err != nil {
		return domain.UploadResult{}, err
	}
	if path == "" {
		return domain.UploadResult{}, nil
	}
	return a.controller.UploadDocument(a.ctx, path)
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}
	return map[string]string{
		"backend":   a.cfg.Backend.BaseURL,
		"streaming": fmt.Sprintf("%t", a.cfg.Backend.StreamAnswers),
		"voice":     fmt.Sprintf("%t", a.voiceOn),
		"logFile":   a.cfg.Log.Path,
	}
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.controller == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// StateChanged emits interaction lifecycle updates to the frontend.
func (a *App) StateChanged(state domain.InteractionState, reason domain.StateReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventState, map[string]any{
		"state":       string(state),
		"reason":      string(reason),
		"inputLocked": state.Locked(),
		"message":     stateMessage(reason),
	})
}

// MessageAppended emits a new transcript entry.
func (a *App) MessageAppended(msg domain.ChatMessage) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventMessage, msg)
}

// PartialAnswer emits the accumulated text of a streaming answer.
func (a *App) PartialAnswer(text string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventPartial, map[string]string{"text": text})
}

// HistoryCleared tells the frontend to drop the rendered transcript.
func (a *App) HistoryCleared(sessionID string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventCleared, map[string]string{"sessionId": sessionID})
}

// InteractionError emits client errors to the UI.
func (a *App) InteractionError(code domain.ErrorCode, detail string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code, detail),
		"detail":  detail,
	})
}

func stateMessage(reason domain.StateReason) string {
	switch reason {
	case domain.ReasonStartup:
		return "Ready"
	case domain.ReasonHandshakeDetected:
		return "Wake word detected"
	case domain.ReasonHandshakePlayed:
		return "Listening..."
	case domain.ReasonQuestionAccepted:
		return "Thinking..."
	case domain.ReasonAnswerReady:
		return "Answer ready"
	case domain.ReasonSpeakingStarted:
		return "Speaking..."
	case domain.ReasonPlaybackFinished:
		return "Done speaking"
	case domain.ReasonPlaybackFailed:
		return "Playback failed"
	case domain.ReasonAnswerFailed:
		return "Answer failed"
	case domain.ReasonPollFailed:
		return "Backend unreachable"
	case domain.ReasonHistoryCleared:
		return "History cleared"
	default:
		return ""
	}
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodePoll:
		return "Voice polling error"
	case domain.ErrorCodeAnswer:
		return "Answer request failed"
	case domain.ErrorCodeSpeech:
		return "Speech synthesis failed"
	case domain.ErrorCodePlayback:
		return "Audio playback issue"
	case domain.ErrorCodeUpload:
		return "Document upload failed"
	case domain.ErrorCodeBusy:
		return "Hold on, still working on the last request"
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}
