// Package history holds the append-only chat transcript.
package history

import (
	"sync"

	"jarvisdesk/internal/domain"
)

// Store is the displayed-message record. Messages are append-only and are
// only destroyed en masse by Clear.
type Store struct {
	mu       sync.Mutex
	messages []domain.ChatMessage
}

func NewStore() *Store {
	return &Store{}
}

// Append adds one message to the transcript.
func (s *Store) Append(msg domain.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// Messages returns a copy of the transcript in append order.
func (s *Store) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of stored messages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Clear erases the transcript.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}
