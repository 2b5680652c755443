package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"jarvisdesk/internal/domain"
	"jarvisdesk/internal/ports"
)

// Poller watches the backend for two mutually exclusive voice-pipeline
// signals: a wake-word acknowledgement and a finished transcription. At most
// one poll cycle is in flight at any time; cycles are skipped, never queued.
type Poller struct {
	controller *Controller
	backend    ports.BackendClient
	player     ports.AudioPlayer
	logger     *zap.Logger
	interval   time.Duration
	timeout    time.Duration

	inFlight atomic.Bool
}

func NewPoller(
	controller *Controller,
	backend ports.BackendClient,
	player ports.AudioPlayer,
	logger *zap.Logger,
	interval time.Duration,
	timeout time.Duration,
) *Poller {
	if interval <= 0 {
		interval = 300 * time.Millisecond
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		controller: controller,
		backend:    backend,
		player:     player,
		logger:     logger,
		interval:   interval,
		timeout:    timeout,
	}
}

// Run polls on a fixed cadence until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick runs one poll cycle. It returns immediately when a previous cycle is
// still in flight, when input is locked, or when audio is playing. The
// handshake check takes priority: a ready handshake suppresses this cycle's
// query check entirely.
func (p *Poller) Tick(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer p.inFlight.Store(false)

	if !p.controller.pollEligible() {
		return
	}

	handshake, err := p.checkHandshake(ctx)
	if err != nil {
		p.controller.recoverIdle(err)
		return
	}
	if handshake.Ready {
		if !p.controller.beginHandshake() {
			return
		}
		playErr := p.player.Play(ctx, handshake.AudioURL)
		p.controller.finishHandshake(playErr)
		return
	}

	query, err := p.checkVoiceQuery(ctx)
	if err != nil {
		p.controller.recoverIdle(err)
		return
	}
	if !query.Ready || query.Query == "" {
		return
	}

	if err := p.controller.Submit(ctx, query.Query, domain.SourceVoice); err != nil {
		p.logger.Warn("voice query dropped", zap.String("query", query.Query), zap.Error(err))
	}
}

func (p *Poller) checkHandshake(ctx context.Context) (domain.HandshakeReply, error) {
	pctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.backend.HandshakeReply(pctx)
}

func (p *Poller) checkVoiceQuery(ctx context.Context) (domain.VoiceQuery, error) {
	pctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.backend.VoiceQuery(pctx)
}
