package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when no state exists for a session id.
var ErrNotFound = errors.New("session: not found")

// Store persists conversation state keyed by session id.
type Store interface {
	Get(ctx context.Context, sessionID string) (*State, error)
	Save(ctx context.Context, state *State) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore is a Store backed by an in-process map. Used in tests and
// single-node development.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]*State
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]*State)}
}

// Get returns a copy of the stored state.
func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return state.Clone(), nil
}

// Save stores a copy of the state.
func (s *MemoryStore) Save(ctx context.Context, state *State) error {
	if state == nil || state.SessionID == "" {
		return errors.New("session: state with session id required")
	}
	s.mu.Lock()
	s.states[state.SessionID] = state.Clone()
	s.mu.Unlock()
	return nil
}

// Delete removes the state if present.
func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.states, sessionID)
	s.mu.Unlock()
	return nil
}
