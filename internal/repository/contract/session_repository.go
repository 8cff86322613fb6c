package contract

import (
	"time"

	"ai-contentgen-be/pkg/store"
)

// ISessionRepository is the storage boundary for session state. The
// in-memory implementation backs a single instance; the redis one allows
// multi-instance deployments by serializing SessionState verbatim keyed
// by session id.
type ISessionRepository interface {
	Get(sessionID string) (*store.SessionState, bool)
	Save(session *store.SessionState, ttl time.Duration)
	Delete(sessionID string)
	ActiveCount() int

	// ExpiredIDs lists sessions whose ExpiresAt has passed, for the
	// periodic sweep. Stores with native expiry may return nil.
	ExpiredIDs(now time.Time) []string
}
