package memory

import (
	"time"

	"ai-contentgen-be/internal/repository/contract"
	"ai-contentgen-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

var _ contract.ISessionRepository = &SessionRepository{}

// NewSessionRepository creates the in-memory store. The cache's own
// janitor acts as a backstop; the session manager's sweep remains the
// authoritative eviction path because it takes per-key locks.
func NewSessionRepository(defaultTTL, cleanupInterval time.Duration) *SessionRepository {
	c := cache.New(defaultTTL, cleanupInterval)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.SessionState, ttl time.Duration) {
	r.cache.Set(session.SessionID, session, ttl)
}

func (r *SessionRepository) Get(sessionID string) (*store.SessionState, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.SessionState), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionRepository) ActiveCount() int {
	return r.cache.ItemCount()
}

func (r *SessionRepository) ExpiredIDs(now time.Time) []string {
	expired := []string{}
	for id, item := range r.cache.Items() {
		session, ok := item.Object.(*store.SessionState)
		if !ok {
			continue
		}
		if now.After(session.ExpiresAt) {
			expired = append(expired, id)
		}
	}
	return expired
}
