package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"peerprep/interview/internal/models"

	"go.uber.org/zap"
)

// DefaultKey is the durable storage key holding the serialized session.
const DefaultKey = "interview-storage"

var ErrNotFound = errors.New("snapshot not found")

// Backend is the durable storage for one serialized snapshot per key.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// SessionStore owns the Session aggregate and mirrors every mutation to the
// backend before returning.
type SessionStore struct {
	mu      sync.Mutex
	backend Backend
	key     string
	logger  *zap.Logger
	session models.Session
}

func NewSessionStore(backend Backend, key string, logger *zap.Logger) *SessionStore {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStore{
		backend: backend,
		key:     key,
		logger:  logger,
		session: models.DefaultSession(),
	}
}

// Get returns a snapshot of the current session.
func (s *SessionStore) Get() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Clone()
}

// Set applies mutate to the session and writes the full state to the backend.
// The in-memory session keeps the mutation even if the write fails; the error
// is returned so callers can log it and the next Set retries the write.
func (s *SessionStore) Set(ctx context.Context, mutate func(*models.Session)) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mutate(&s.session)
	normalize(&s.session)

	if err := s.persistLocked(ctx); err != nil {
		return s.session.Clone(), err
	}
	return s.session.Clone(), nil
}

// Load replaces the in-memory session with the durable one. A missing or
// unparsable entry yields the default session; only backend failures are
// returned as errors.
func (s *SessionStore) Load(ctx context.Context) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = models.DefaultSession()

	data, err := s.backend.Load(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		s.logger.Info("no persisted session found", zap.String("key", s.key))
		return s.session.Clone(), nil
	}
	if err != nil {
		return s.session.Clone(), fmt.Errorf("load session: %w", err)
	}

	var loaded models.Session
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.logger.Warn("discarding corrupt persisted session", zap.String("key", s.key), zap.Error(err))
		return s.session.Clone(), nil
	}
	normalize(&loaded)
	s.session = loaded
	return s.session.Clone(), nil
}

// ClearAllData resets to the default session and evicts the durable entry.
func (s *SessionStore) ClearAllData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = models.DefaultSession()
	if err := s.backend.Delete(ctx, s.key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

func (s *SessionStore) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.backend.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// normalize repairs nil slices and out-of-range counters left by older or
// hand-edited snapshots.
func normalize(s *models.Session) {
	if s.Candidates == nil {
		s.Candidates = []models.Candidate{}
	}
	if s.Questions == nil {
		s.Questions = []models.Question{}
	}
	if s.Answers == nil {
		s.Answers = []models.Answer{}
	}
	if s.CurrentQuestionIndex < 0 {
		s.CurrentQuestionIndex = 0
	}
	if s.CurrentQuestionIndex > len(s.Questions) {
		s.CurrentQuestionIndex = len(s.Questions)
	}
	if s.RemainingTime < 0 {
		s.RemainingTime = 0
	}
	if q, ok := s.CurrentQuestion(); ok && s.RemainingTime > q.TimeLimit {
		s.RemainingTime = q.TimeLimit
	}
}
