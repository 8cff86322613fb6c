package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"ai-contentgen-be/internal/repository/contract"
	"ai-contentgen-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// SessionRepository persists SessionState verbatim in redis, keyed by
// session id, for multi-instance deployments. Redis key TTL mirrors the
// sliding session expiry, so the sweep has nothing to do here.
type SessionRepository struct {
	rdb *redis.Client
}

var _ contract.ISessionRepository = &SessionRepository{}

func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

func (r *SessionRepository) Get(sessionID string) (*store.SessionState, bool) {
	ctx, cancel := opContext()
	defer cancel()

	raw, err := r.rdb.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		return nil, false
	}
	var session store.SessionState
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, false
	}
	return &session, true
}

func (r *SessionRepository) Save(session *store.SessionState, ttl time.Duration) {
	ctx, cancel := opContext()
	defer cancel()

	raw, err := json.Marshal(session)
	if err != nil {
		return
	}
	r.rdb.Set(ctx, keyPrefix+session.SessionID, raw, ttl)
}

func (r *SessionRepository) Delete(sessionID string) {
	ctx, cancel := opContext()
	defer cancel()

	r.rdb.Del(ctx, keyPrefix+sessionID)
}

func (r *SessionRepository) ActiveCount() int {
	ctx, cancel := opContext()
	defer cancel()

	count := 0
	iter := r.rdb.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	return count
}

// ExpiredIDs returns nil: redis evicts keys natively via TTL
func (r *SessionRepository) ExpiredIDs(time.Time) []string {
	return nil
}

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 3*time.Second)
}
