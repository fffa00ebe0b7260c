// internal/intake/session/store.go
package session

import (
	"sync"
	"time"

	apperrors "eligibility-intake/internal/common/errors"
	"eligibility-intake/internal/common/logger"
	"eligibility-intake/internal/common/metrics"

	"github.com/google/uuid"
)

// Store keeps live sessions in memory. Sessions idle for longer than the TTL
// are dropped on the next sweep; nothing outlives the process.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idleTTL  time.Duration
	now      func() time.Time
	logger   logger.Logger
}

func NewStore(idleTTL time.Duration, log logger.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		now:      time.Now,
		logger:   logger.Component(log, "session-store"),
	}
}

// Add registers s under a fresh id and returns it.
func (st *Store) Add(s *Session) string {
	st.mu.Lock()
	defer st.mu.Unlock()

	s.ID = uuid.New().String()
	st.sessions[s.ID] = s
	metrics.ActiveSessions.Set(float64(len(st.sessions)))
	st.logger.Info("session created", map[string]interface{}{"sessionId": s.ID})
	return s.ID
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok || st.expired(s) {
		return nil, apperrors.NewSessionNotFoundError(id)
	}
	return s, nil
}

func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return apperrors.NewSessionNotFoundError(id)
	}
	s.Reset()
	delete(st.sessions, id)
	metrics.ActiveSessions.Set(float64(len(st.sessions)))
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if st.expired(s) {
			s.Reset()
			delete(st.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		metrics.ActiveSessions.Set(float64(len(st.sessions)))
		st.logger.Info("expired sessions removed", map[string]interface{}{
			"removed":   removed,
			"remaining": len(st.sessions),
		})
	}
	return removed
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *Store) expired(s *Session) bool {
	return st.idleTTL > 0 && st.now().Sub(s.LastActive()) > st.idleTTL
}
