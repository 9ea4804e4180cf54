// Package app composes the classifier, prompt builder, completion client,
// and session store into the single process-a-turn operation the HTTP
// layer exposes.
package app

import (
	"context"
	"log"
	"strings"
	"time"

	"ai-code-reviewer/internal/ai"
	"ai-code-reviewer/internal/apperr"
	"ai-code-reviewer/internal/classifier"
	"ai-code-reviewer/internal/model"
	"ai-code-reviewer/internal/review"
	"ai-code-reviewer/internal/session"
)

// Completer is the sole external dependency of a turn: one completion
// attempt over an ordered message list. Tests substitute a deterministic
// stub.
type Completer interface {
	Complete(ctx context.Context, messages []ai.ChatMessage, opts ai.CompleteOptions) (string, error)
}

// RecordPublisher enqueues completed turns for out-of-band archival.
type RecordPublisher interface {
	Publish(ctx context.Context, record model.ReviewRecord) error
}

type ReviewService struct {
	sessions  *session.Store
	completer Completer
	publisher RecordPublisher // nil disables archiving
	opts      ai.CompleteOptions
}

type ProcessTurnInput struct {
	SessionID string
	Content   string
	Language  string
	Context   string
}

type TurnResult struct {
	SessionID   string          `json:"session_id"`
	Review      string          `json:"review"`
	Severity    review.Severity `json:"severity"`
	Suggestions []string        `json:"suggestions,omitempty"`
	IsCode      bool            `json:"is_code"`
	Timestamp   time.Time       `json:"timestamp"`
}

func NewReviewService(sessions *session.Store, completer Completer, publisher RecordPublisher, opts ai.CompleteOptions) *ReviewService {
	return &ReviewService{
		sessions:  sessions,
		completer: completer,
		publisher: publisher,
		opts:      opts,
	}
}

// ProcessTurn runs one request through the strictly sequential turn
// pipeline: resolve session, classify, prompt, complete, post-process,
// persist. A missing or expired session id is recovered by creating a
// fresh session; every other failure aborts the turn before any history
// is written.
func (s *ReviewService) ProcessTurn(ctx context.Context, input ProcessTurnInput) (*TurnResult, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, apperr.Validation("code must be a non-empty string", nil)
	}

	sess, err := s.resolveSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	sanitized := review.SanitizeCode(content)
	isCode := classifier.IsCode(sanitized)

	messages := s.buildMessages(sess, sanitized, isCode, input)

	raw, err := s.completer.Complete(ctx, messages, s.opts)
	if err != nil {
		return nil, err
	}

	responseText := review.SanitizeResponse(raw)

	severity := review.SeverityInfo
	var suggestions []string
	if isCode {
		severity = review.ExtractSeverity(responseText)
		suggestions = review.ExtractSuggestions(responseText)
	}

	// Exactly two messages per turn, persisted in one write so a failed
	// turn leaves no partial history.
	sess.Append(model.RoleUser, sanitized)
	sess.Append(model.RoleAssistant, responseText)
	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, err
	}

	s.archive(ctx, sess.ID, isCode, input.Language, severity, sanitized, responseText)

	return &TurnResult{
		SessionID:   sess.ID,
		Review:      review.FormatReview(responseText),
		Severity:    severity,
		Suggestions: suggestions,
		IsCode:      isCode,
		Timestamp:   sess.UpdatedAt,
	}, nil
}

// CreateSession starts an empty session.
func (s *ReviewService) CreateSession(ctx context.Context) (*model.Session, error) {
	return s.sessions.Create(ctx)
}

// GetSession surfaces a session error on miss; unlike the review flow,
// direct lookup never auto-creates.
func (s *ReviewService) GetSession(ctx context.Context, id string) (*model.Session, error) {
	return s.sessions.Get(ctx, id)
}

// DeleteSession removes a session, absent ids included.
func (s *ReviewService) DeleteSession(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

func (s *ReviewService) resolveSession(ctx context.Context, id string) (*model.Session, error) {
	if id == "" {
		return s.sessions.Create(ctx)
	}
	sess, err := s.sessions.Get(ctx, id)
	if apperr.IsSession(err) {
		// Unknown or expired id: recovered, not reported.
		return s.sessions.Create(ctx)
	}
	return sess, err
}

func (s *ReviewService) buildMessages(sess *model.Session, content string, isCode bool, input ProcessTurnInput) []ai.ChatMessage {
	var systemPrompt, userPrompt string
	if isCode {
		systemPrompt = review.BuildSystemPrompt(input.Language)
		userPrompt = review.BuildUserPrompt(content, input.Context)
	} else {
		systemPrompt = review.BuildChatSystemPrompt()
		userPrompt = review.BuildChatUserPrompt(content)
	}

	messages := make([]ai.ChatMessage, 0, len(sess.Messages)+2)
	messages = append(messages, ai.ChatMessage{Role: model.RoleSystem, Content: systemPrompt})
	for _, m := range sess.Messages {
		messages = append(messages, ai.ChatMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, ai.ChatMessage{Role: model.RoleUser, Content: userPrompt})
	return messages
}

// archive is best effort: the turn already succeeded, so a broker outage
// only costs the durable copy.
func (s *ReviewService) archive(ctx context.Context, sessionID string, isCode bool, language string, severity review.Severity, input, output string) {
	if s.publisher == nil {
		return
	}
	kind := "chat"
	if isCode {
		kind = "review"
	}
	record := model.ReviewRecord{
		SessionID: sessionID,
		Kind:      kind,
		Language:  language,
		Severity:  string(severity),
		Input:     input,
		Output:    output,
	}
	if err := s.publisher.Publish(ctx, record); err != nil {
		log.Printf("archive publish failed for session %s: %v", sessionID, err)
	}
}
