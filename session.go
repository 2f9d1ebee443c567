package relay

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session owns the ordered turn history of one conversation and the
// pending user input. It is safe for concurrent use.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu           sync.RWMutex
	turns        []Turn
	systemPrompt string
	pending      string
	updatedAt    time.Time
}

// NewSession creates a session whose history holds a single system turn.
func NewSession(systemPrompt string) *Session {
	now := time.Now()
	s := &Session{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		systemPrompt: systemPrompt,
		updatedAt:    now,
	}
	s.turns = []Turn{SystemTurn(systemPrompt)}
	return s
}

// Turns returns a copy of the history.
func (s *Session) Turns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns in the history.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// UpdatedAt returns the time of the last mutation.
func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Pending returns the text the user has typed but not yet sent.
func (s *Session) Pending() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

// SetPending records the text the user is typing.
func (s *Session) SetPending(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = text
}

// SystemPrompt returns the prompt used by the next Reset.
func (s *Session) SystemPrompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.systemPrompt
}

// SetSystemPrompt changes the prompt used by the next Reset. The current
// history is left untouched.
func (s *Session) SetSystemPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systemPrompt = prompt
}

// AppendUser appends text as a user turn, verbatim, and clears the pending
// input. It returns ErrEmptyInput, leaving the history unchanged, when text
// is blank after trimming.
func (s *Session) AppendUser(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, UserTurn(text))
	s.pending = ""
	s.updatedAt = time.Now()
	return nil
}

// AppendAssistant appends an assistant turn. Empty text is appended as an
// empty-content turn.
func (s *Session) AppendAssistant(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, AssistantTurn(text))
	s.updatedAt = time.Now()
}

// Reset restores the history to a single system turn built from the
// currently configured system prompt.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = []Turn{SystemTurn(s.systemPrompt)}
	s.pending = ""
	s.updatedAt = time.Now()
}
