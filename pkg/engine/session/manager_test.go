package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"ai-contentgen-be/internal/pkg/logger"
	"ai-contentgen-be/internal/repository/memory"
	"ai-contentgen-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func newTestManager() (*Manager, *memory.SessionRepository) {
	repo := memory.NewSessionRepository(time.Hour, time.Hour)
	return NewManager(repo, 30*time.Minute, 5*time.Minute, logger.Nop{}), repo
}

func TestLoadOrCreateDefaults(t *testing.T) {
	m, _ := newTestManager()

	state := m.LoadOrCreate("s1", "u1")

	assert.Equal(t, "s1", state.SessionID)
	assert.Equal(t, "u1", state.UserID)
	assert.Equal(t, store.DomainGeneral, state.Domain)
	assert.Equal(t, store.DefaultConstraints(), state.Constraints)
	assert.Empty(t, state.History)
	assert.True(t, state.ExpiresAt.After(time.Now()))
}

func TestSaveSlidesExpiry(t *testing.T) {
	m, _ := newTestManager()

	state := m.LoadOrCreate("s1", "u1")
	first := state.ExpiresAt

	time.Sleep(5 * time.Millisecond)
	m.Save(state)

	assert.True(t, state.ExpiresAt.After(first), "Save must slide ExpiresAt forward")
	assert.NotNil(t, m.Get("s1"))
}

func TestGetExpiredDeletes(t *testing.T) {
	m, repo := newTestManager()

	// plant an entry whose logical expiry already passed
	state := m.LoadOrCreate("stale", "u1")
	state.ExpiresAt = time.Now().Add(-time.Minute)
	repo.Save(state, time.Hour)

	assert.Nil(t, m.Get("stale"), "expired session must read as absent")
	_, found := repo.Get("stale")
	assert.False(t, found, "expired session must be deleted on read")
}

func TestAppendTurnCapsHistory(t *testing.T) {
	m, _ := newTestManager()
	state := m.LoadOrCreate("s1", "u1")

	for i := 1; i <= MaxHistoryTurns+5; i++ {
		m.AppendTurn(state, store.ConversationTurn{
			Role:    store.RoleUser,
			Content: fmt.Sprintf("turn %d", i),
		})
	}

	assert.Len(t, state.History, MaxHistoryTurns)
	// oldest turns are dropped from the front
	assert.Equal(t, "turn 6", state.History[0].Content)
	assert.Equal(t, fmt.Sprintf("turn %d", MaxHistoryTurns+5), state.History[len(state.History)-1].Content)
}

func TestDetectTopicChange(t *testing.T) {
	m, _ := newTestManager()

	tests := []struct {
		name     string
		stored   string
		incoming string
		want     bool
	}{
		{"stored general never changes", store.DomainGeneral, store.DomainMarketing, false},
		{"incoming general never changes", store.DomainMarketing, store.DomainGeneral, false},
		{"same domain is stable", store.DomainMarketing, store.DomainMarketing, false},
		{"concrete to different concrete", store.DomainMarketing, store.DomainTechnology, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &store.SessionState{Domain: tt.stored}
			assert.Equal(t, tt.want, m.DetectTopicChange(state, tt.incoming))
		})
	}
}

func TestResetConstraintsKeepsHistory(t *testing.T) {
	m, _ := newTestManager()
	state := m.LoadOrCreate("s1", "u1")
	state.Domain = store.DomainMarketing
	state.Constraints.MustNotUse = []string{"gratis"}
	m.AppendTurn(state, store.ConversationTurn{Role: store.RoleUser, Content: "hola"})

	m.ResetConstraints(state, store.DomainTechnology)

	assert.Equal(t, store.DomainTechnology, state.Domain)
	assert.Equal(t, store.DefaultConstraints(), state.Constraints)
	assert.Len(t, state.History, 1, "topic change must preserve history")
}

func TestResetDeletesSession(t *testing.T) {
	m, _ := newTestManager()
	state := m.LoadOrCreate("s1", "u1")
	m.Save(state)
	assert.NotNil(t, m.Get("s1"))

	m.Reset("s1")
	assert.Nil(t, m.Get("s1"))
}

func TestSweepExpired(t *testing.T) {
	m, repo := newTestManager()

	// two logically expired, one live
	for _, id := range []string{"old1", "old2"} {
		state := m.LoadOrCreate(id, "u1")
		state.ExpiresAt = time.Now().Add(-time.Minute)
		repo.Save(state, time.Hour)
	}
	live := m.LoadOrCreate("live", "u1")
	m.Save(live)

	evicted := m.SweepExpired()

	assert.Equal(t, 2, evicted)
	assert.Nil(t, m.Get("old1"))
	assert.Nil(t, m.Get("old2"))
	assert.NotNil(t, m.Get("live"))
	assert.Equal(t, 1, m.ActiveSessionCount())
}

func TestGetReturnsIsolatedSnapshot(t *testing.T) {
	m, _ := newTestManager()
	state := m.LoadOrCreate("s1", "u1")
	state.Constraints.MustNotUse = []string{"gratis"}
	m.AppendTurn(state, store.ConversationTurn{Role: store.RoleUser, Content: "hola"})
	m.Save(state)

	snapshot := m.Get("s1")
	snapshot.History = append(snapshot.History, store.ConversationTurn{Role: store.RoleAssistant, Content: "extra"})
	snapshot.Constraints.MustNotUse = append(snapshot.Constraints.MustNotUse, "barato")
	snapshot.Domain = store.DomainMarketing

	fresh := m.Get("s1")
	assert.Len(t, fresh.History, 1, "mutating a snapshot must not touch the stored session")
	assert.Equal(t, []string{"gratis"}, fresh.Constraints.MustNotUse)
	assert.Equal(t, store.DomainGeneral, fresh.Domain)
}

func TestConcurrentReadersAndWriter(t *testing.T) {
	m, _ := newTestManager()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			unlock := m.Lock("s1")
			state := m.LoadOrCreate("s1", "u1")
			m.AppendTurn(state, store.ConversationTurn{
				Role:    store.RoleUser,
				Content: fmt.Sprintf("turn %d", i),
			})
			m.Save(state)
			unlock()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if state := m.Get("s1"); state != nil {
				total := 0
				for _, turn := range state.History {
					total += len(turn.Content)
				}
				_ = total
			}
		}
	}()
	wg.Wait()

	final := m.Get("s1")
	if assert.NotNil(t, final) {
		assert.Len(t, final.History, MaxHistoryTurns)
	}
}

func TestPerKeyLockSerializes(t *testing.T) {
	m, _ := newTestManager()

	unlock := m.Lock("s1")
	done := make(chan struct{})
	go func() {
		u := m.Lock("s1")
		u()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second Lock acquired while first still held")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second Lock never acquired after release")
	}
}
