package dataset

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one uploaded table and its bookkeeping.
type Session struct {
	ID         string
	Name       string
	Table      *Table
	CreatedAt  time.Time
	LastAccess time.Time
}

// StoreConfig bounds the store.
type StoreConfig struct {
	TTL         time.Duration
	MaxSessions int
}

// Store keeps tables per session. Idle sessions are swept on Create and Get;
// there is no background goroutine.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cfg      StoreConfig
	now      func() time.Time
	logger   *slog.Logger
}

// NewStore creates an empty store.
func NewStore(cfg StoreConfig, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "session_store")),
	}
}

// Create registers table under a fresh session id.
func (s *Store) Create(name string, table *Table) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		return Session{}, ErrStoreFull
	}

	sess := &Session{
		ID:         uuid.New().String(),
		Name:       name,
		Table:      table,
		CreatedAt:  now,
		LastAccess: now,
	}
	s.sessions[sess.ID] = sess

	s.logger.Debug("session created",
		slog.String("session_id", sess.ID),
		slog.String("name", name),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumCols()))
	return *sess, nil
}

// Get returns the session and refreshes its idle timer.
func (s *Store) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	sess.LastAccess = now
	return *sess, nil
}

// Delete ends a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.logger.Debug("session deleted", slog.String("session_id", id))
	return nil
}

// Len returns the number of sessions currently held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) sweepLocked(now time.Time) {
	if s.cfg.TTL <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if now.Sub(sess.LastAccess) > s.cfg.TTL {
			delete(s.sessions, id)
			s.logger.Info("session expired",
				slog.String("session_id", id),
				slog.Duration("idle", now.Sub(sess.LastAccess)))
		}
	}
}
