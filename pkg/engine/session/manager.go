package session

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"ai-contentgen-be/internal/pkg/logger"
	"ai-contentgen-be/internal/repository/contract"
	"ai-contentgen-be/pkg/store"
)

const (
	// DefaultTTL is the sliding session expiration window
	DefaultTTL = 30 * time.Minute

	// DefaultSweepInterval is how often the background sweep evicts
	// expired sessions regardless of access patterns
	DefaultSweepInterval = 5 * time.Minute

	// MaxHistoryTurns caps the per-session conversation history
	MaxHistoryTurns = 20

	lockStripes = 64
)

// Manager exclusively owns the session map. Callers go through its
// operations; the raw store is never exposed. A striped per-key lock
// serializes read-modify-write on the same session id while leaving
// different sessions fully concurrent.
type Manager struct {
	repo   contract.ISessionRepository
	ttl    time.Duration
	sweep  time.Duration
	logger logger.ILogger
	locks  [lockStripes]sync.Mutex
}

func NewManager(repo contract.ISessionRepository, ttl, sweepInterval time.Duration, log logger.ILogger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	return &Manager{
		repo:   repo,
		ttl:    ttl,
		sweep:  sweepInterval,
		logger: log,
	}
}

// Lock takes the per-key mutex for a session id and returns the unlock.
// The orchestrator holds it across its read-modify-write.
func (m *Manager) Lock(sessionID string) func() {
	mu := &m.locks[stripeFor(sessionID)]
	mu.Lock()
	return mu.Unlock
}

// LoadOrCreate returns the live session for an id, creating one with
// default constraints on first reference. Callers hold the session's
// per-key lock; the returned pointer is the stored state itself.
func (m *Manager) LoadOrCreate(sessionID, userID string) *store.SessionState {
	if session := m.load(sessionID); session != nil {
		return session
	}

	now := time.Now()
	session := &store.SessionState{
		SessionID:   sessionID,
		UserID:      userID,
		Domain:      store.DomainGeneral,
		Constraints: store.DefaultConstraints(),
		History:     []store.ConversationTurn{},
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(m.ttl),
	}
	return session
}

// load returns the live session without taking the per-key lock; callers
// must hold it. Reading an expired entry deletes it.
func (m *Manager) load(sessionID string) *store.SessionState {
	session, found := m.repo.Get(sessionID)
	if !found {
		return nil
	}
	if time.Now().After(session.ExpiresAt) {
		m.repo.Delete(sessionID)
		return nil
	}
	return session
}

// Get returns a snapshot of the session, or nil when absent or expired.
// The copy is taken under the per-key lock, so readers never observe an
// in-flight mutation and cannot mutate the stored state through the
// returned pointer.
func (m *Manager) Get(sessionID string) *store.SessionState {
	unlock := m.Lock(sessionID)
	defer unlock()

	session := m.load(sessionID)
	if session == nil {
		return nil
	}
	return session.Clone()
}

// Save persists the session, sliding its expiry forward
func (m *Manager) Save(session *store.SessionState) {
	now := time.Now()
	session.UpdatedAt = now
	session.ExpiresAt = now.Add(m.ttl)
	m.repo.Save(session, m.ttl)
}

// Reset deletes a session's memory outright
func (m *Manager) Reset(sessionID string) {
	unlock := m.Lock(sessionID)
	defer unlock()
	m.repo.Delete(sessionID)
}

// AppendTurn appends to the history and front-truncates past the cap
func (m *Manager) AppendTurn(session *store.SessionState, turn store.ConversationTurn) {
	session.History = append(session.History, turn)
	if len(session.History) > MaxHistoryTurns {
		session.History = session.History[len(session.History)-MaxHistoryTurns:]
	}
}

// DetectTopicChange reports whether the newly computed domain abandons
// the stored one. Both must be concrete (non-general) and differ.
func (m *Manager) DetectTopicChange(session *store.SessionState, newDomain string) bool {
	return session.Domain != store.DomainGeneral &&
		newDomain != store.DomainGeneral &&
		session.Domain != newDomain
}

// ResetConstraints drops accumulated constraints after a topic change.
// History is preserved.
func (m *Manager) ResetConstraints(session *store.SessionState, newDomain string) {
	session.Constraints = store.DefaultConstraints()
	session.Domain = newDomain
	m.logger.Info("SESSION", "topic change, constraints reset", map[string]interface{}{
		"session_id": session.SessionID,
		"new_domain": newDomain,
	})
}

// ActiveSessionCount counts sessions not yet evicted
func (m *Manager) ActiveSessionCount() int {
	return m.repo.ActiveCount()
}

// StartSweeper runs the periodic eviction loop until ctx is done
func (m *Manager) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(m.sweep)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.SweepExpired()
			}
		}
	}()
}

// SweepExpired evicts every session past its expiry, taking the same
// per-key exclusivity as in-flight requests.
func (m *Manager) SweepExpired() int {
	expired := m.repo.ExpiredIDs(time.Now())
	for _, id := range expired {
		unlock := m.Lock(id)
		// re-check under the lock: a concurrent write may have slid it
		if session, found := m.repo.Get(id); found && time.Now().After(session.ExpiresAt) {
			m.repo.Delete(id)
		}
		unlock()
	}
	if len(expired) > 0 {
		m.logger.Debug("SESSION", "sweep evicted sessions", map[string]interface{}{
			"count": len(expired),
		})
	}
	return len(expired)
}

func stripeFor(sessionID string) int {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return int(h.Sum32() % lockStripes)
}
