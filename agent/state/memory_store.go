package state

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps conversation state in process memory. State is lost on
// restart, which only ever drops owners back to Idle.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]ConversationState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]ConversationState)}
}

func (m *MemoryStore) Load(_ context.Context, ownerID string) (*ConversationState, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.states[ownerID]
	if !ok {
		return nil, ErrStateNotFound
	}
	return &st, nil
}

func (m *MemoryStore) Save(_ context.Context, st *ConversationState) error {
	if st == nil {
		return ErrNilConversationState
	}
	if strings.TrimSpace(st.OwnerID) == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[st.OwnerID] = *st
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, strings.TrimSpace(ownerID))
	return nil
}
