package model

import "time"

// MaxSessionMessages caps a session's history so prompts stay bounded.
// When the cap is exceeded the oldest messages are dropped first.
const MaxSessionMessages = 10

type Session struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Append adds a message and truncates the history to the newest
// MaxSessionMessages entries.
func (s *Session) Append(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
	if len(s.Messages) > MaxSessionMessages {
		s.Messages = s.Messages[len(s.Messages)-MaxSessionMessages:]
	}
}
