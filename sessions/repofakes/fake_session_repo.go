package sessionrepofakes

import (
	"context"
	"sync"

	"github.com/hookbridge/hookbridge/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory sessions.Repo for tests and local runs.
type FakeSessionRepo struct {
	lock     sync.RWMutex
	sessions map[string]sessions.Session
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{sessions: make(map[string]sessions.Session)}
}

func (sr *FakeSessionRepo) Get(_ context.Context, sessionID string) (sessions.Session, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()
	s, ok := sr.sessions[sessionID]
	if !ok {
		return sessions.Session{}, sessions.ErrNotFound
	}
	return s, nil
}

func (sr *FakeSessionRepo) Put(_ context.Context, sessionID string, session sessions.Session) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	sr.sessions[sessionID] = session
	return nil
}

func (sr *FakeSessionRepo) Delete(_ context.Context, sessionID string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	delete(sr.sessions, sessionID)
	return nil
}
