package usecase

import (
	"strings"
	"sync"
)

// answerAccumulator concatenates streamed answer chunks. Every snapshot it
// returns is a prefix of every later snapshot, so the renderer can redraw
// the accumulated text on each chunk without ever showing characters out
// of order.
type answerAccumulator struct {
	mu sync.Mutex
	b  strings.Builder
}

func newAnswerAccumulator() *answerAccumulator {
	return &answerAccumulator{}
}

// Append adds one chunk and returns the full accumulated text.
func (a *answerAccumulator) Append(chunk string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.b.WriteString(chunk)
	return a.b.String()
}

// Text returns the accumulated text so far.
func (a *answerAccumulator) Text() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.b.String()
}
