package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ai-code-reviewer/internal/apperr"
	"ai-code-reviewer/internal/model"
)

// DefaultTTL is the sliding expiry window: one hour from the last write.
const DefaultTTL = time.Hour

const keyPrefix = "review:session:"

// Store owns session lifecycle: opaque ids, ordered message history capped
// at model.MaxSessionMessages, sliding TTL expiry.
type Store struct {
	kv  KV
	ttl time.Duration
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock injects a time source for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(kv KV, ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{kv: kv, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create mints a new session and persists it. Against the stub KV the
// returned session is ephemeral: it exists only in the caller's hands.
func (s *Store) Create(ctx context.Context) (*model.Session, error) {
	now := s.now()
	sess := &model.Session{
		ID:        uuid.NewString(),
		Messages:  []model.Message{},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.persist(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads a session, failing with a session error when the entry is
// missing or expired. Expiry is checked against the stored timestamp as
// well as the backing store's own TTL, so a simulated clock behaves the
// same as Redis expiry.
func (s *Store) Get(ctx context.Context, id string) (*model.Session, error) {
	raw, err := s.kv.Get(ctx, s.key(id))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, apperr.Session("session not found or expired")
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s failed: %w", id, err)
	}

	var sess model.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode session %s failed: %w", id, err)
	}
	if !s.now().Before(sess.ExpiresAt) {
		_ = s.kv.Delete(ctx, s.key(id))
		return nil, apperr.Session("session not found or expired")
	}
	return &sess, nil
}

// Update refreshes updated_at and re-persists with a fresh TTL window.
func (s *Store) Update(ctx context.Context, sess *model.Session) error {
	now := s.now()
	sess.UpdatedAt = now
	sess.ExpiresAt = now.Add(s.ttl)
	return s.persist(ctx, sess)
}

// Delete removes a session. Best effort: absent entries are not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.kv.Delete(ctx, s.key(id)); err != nil && !errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("delete session %s failed: %w", id, err)
	}
	return nil
}

// AddMessage appends one message to the session, creating a fresh session
// when the id is unknown or expired, and persists the truncated history.
func (s *Store) AddMessage(ctx context.Context, id, role, content string) (*model.Session, error) {
	sess, err := s.Get(ctx, id)
	if apperr.IsSession(err) {
		sess, err = s.Create(ctx)
	}
	if err != nil {
		return nil, err
	}

	sess.Append(role, content)
	if err := s.Update(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Store) persist(ctx context.Context, sess *model.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s failed: %w", sess.ID, err)
	}
	if err := s.kv.Set(ctx, s.key(sess.ID), string(payload), s.ttl); err != nil {
		return fmt.Errorf("persist session %s failed: %w", sess.ID, err)
	}
	return nil
}

func (s *Store) key(id string) string {
	return keyPrefix + id
}
