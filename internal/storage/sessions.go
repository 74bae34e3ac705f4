// Package storage provides the in-memory session store. Sessions hold one
// immutable workbook snapshot each and are never written to disk — uploads
// do not survive a process restart.
package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/ficopilot/internal/common"
	"github.com/bobmcallan/ficopilot/internal/models"
)

// SessionStore implements interfaces.SessionStore over a mutex-guarded map.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	logger   *common.Logger
	now      func() time.Time
}

// NewSessionStore creates an empty session store.
func NewSessionStore(logger *common.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*models.Session),
		logger:   logger,
		now:      time.Now,
	}
}

// snapshot copies a session record so callers never hold the struct the
// store mutates under its lock. The Workbook pointer is shared; workbooks
// are immutable after load.
func snapshot(session *models.Session) *models.Session {
	snap := *session
	return &snap
}

// Create registers a new session around a workbook snapshot.
func (s *SessionStore) Create(wb *models.Workbook) *models.Session {
	now := s.now().UTC()
	session := &models.Session{
		ID:         uuid.NewString(),
		Workbook:   wb,
		CreatedAt:  now,
		LastActive: now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Info().
		Str("session", session.ID).
		Str("filename", wb.Filename).
		Int("records", len(wb.Actuals)).
		Msg("Session created")

	return snapshot(session)
}

// Get returns a copy of a session by ID and refreshes its activity
// timestamp. A concurrent Replace cannot swap the workbook out from under
// the returned copy.
func (s *SessionStore) Get(id string) (*models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	session.LastActive = s.now().UTC()
	return snapshot(session), true
}

// Replace swaps a session's workbook for a re-uploaded one and returns a
// copy of the updated record. The previous snapshot is discarded.
func (s *SessionStore) Replace(id string, wb *models.Workbook) (*models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	session.Workbook = wb
	session.LastActive = s.now().UTC()

	s.logger.Info().
		Str("session", id).
		Str("filename", wb.Filename).
		Msg("Session workbook replaced")

	return snapshot(session), true
}

// Delete discards a session.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// PruneIdle drops sessions idle longer than ttl and returns how many went.
func (s *SessionStore) PruneIdle(ttl time.Duration) int {
	cutoff := s.now().UTC().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for id, session := range s.sessions {
		if session.LastActive.Before(cutoff) {
			delete(s.sessions, id)
			pruned++
		}
	}
	if pruned > 0 {
		s.logger.Info().Int("pruned", pruned).Msg("Idle sessions discarded")
	}
	return pruned
}

// Count returns the number of live sessions.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
