// Package audio plays synthesized clips through PulseAudio and probes
// capture availability.
package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jfreymuth/pulse"
	"go.uber.org/zap"
)

// Clips are short synthesized phrases; anything larger is a bad response.
const maxClipBytes = 32 << 20

// Player fetches a clip URL and plays it to the default sink. Play returns
// when playback ends; a playback error is returned but still counts as
// completion for the caller.
type Player struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func NewPlayer(logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (p *Player) Play(ctx context.Context, url string) error {
	clip, err := p.fetch(ctx, url)
	if err != nil {
		return err
	}
	p.logger.Debug("playing clip",
		zap.String("url", url),
		zap.Int("sampleRate", clip.sampleRate),
		zap.Int("channels", clip.channels))
	return playClip(ctx, clip)
}

func (p *Player) fetch(ctx context.Context, url string) (wavClip, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return wavClip{}, err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return wavClip{}, fmt.Errorf("fetch clip: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return wavClip{}, fmt.Errorf("fetch clip: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxClipBytes))
	if err != nil {
		return wavClip{}, fmt.Errorf("read clip: %w", err)
	}
	return decodeWAV(body)
}

func playClip(ctx context.Context, clip wavClip) error {
	client, err := pulse.NewClient(pulse.ClientApplicationName("jarvisdesk"))
	if err != nil {
		return fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	reader := &sampleReader{data: clip.data, eof: func() error { return pulse.EndOfData }}
	opts := []pulse.PlaybackOption{pulse.PlaybackSampleRate(clip.sampleRate)}
	if clip.channels == 2 {
		opts = append(opts, pulse.PlaybackStereo)
	} else {
		opts = append(opts, pulse.PlaybackMono)
	}

	stream, err := client.NewPlayback(pulse.Int16Reader(reader.Read), opts...)
	if err != nil {
		return fmt.Errorf("open playback stream: %w", err)
	}

	done := make(chan struct{})
	go func() {
		stream.Start()
		stream.Drain()
		close(done)
	}()

	select {
	case <-done:
		err := stream.Error()
		stream.Close()
		return err
	case <-ctx.Done():
		stream.Close()
		return ctx.Err()
	}
}

// Microphone probes whether PulseAudio exposes a capture source. The client
// checks this once at startup; voice polling is only started when capture
// is actually possible.
type Microphone struct {
	logger *zap.Logger
}

func NewMicrophone(logger *zap.Logger) *Microphone {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Microphone{logger: logger}
}

func (m *Microphone) Available(_ context.Context) bool {
	client, err := pulse.NewClient(pulse.ClientApplicationName("jarvisdesk"))
	if err != nil {
		m.logger.Warn("pulse server unreachable", zap.Error(err))
		return false
	}
	defer client.Close()

	if _, err := client.DefaultSource(); err != nil {
		m.logger.Warn("no default capture source", zap.Error(err))
		return false
	}
	return true
}
