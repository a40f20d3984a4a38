package orchestrator

import "sync"

// turnLocks is a keyed mutex. Entries are reference counted and removed once
// no turn holds or waits for them, so idle owners cost nothing.
type turnLocks struct {
	mu     sync.Mutex
	owners map[string]*ownerTurn
}

type ownerTurn struct {
	mu   sync.Mutex
	refs int
}

func newTurnLocks() *turnLocks {
	return &turnLocks{owners: make(map[string]*ownerTurn)}
}

func (t *turnLocks) lock(ownerID string) (unlock func()) {
	t.mu.Lock()
	turn, ok := t.owners[ownerID]
	if !ok {
		turn = &ownerTurn{}
		t.owners[ownerID] = turn
	}
	turn.refs++
	t.mu.Unlock()

	turn.mu.Lock()
	return func() {
		turn.mu.Unlock()

		t.mu.Lock()
		turn.refs--
		if turn.refs == 0 {
			delete(t.owners, ownerID)
		}
		t.mu.Unlock()
	}
}

func (t *turnLocks) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.owners)
}
