package app

import "sync"

// playerLocks hands out one mutex per player id and forgets it once no
// caller holds or waits for it.
type playerLocks struct {
	mu    sync.Mutex
	locks map[string]*playerLock
}

type playerLock struct {
	mu   sync.Mutex
	refs int
}

func newPlayerLocks() *playerLocks {
	return &playerLocks{locks: make(map[string]*playerLock)}
}

// lock blocks until playerID is free and returns its unlock function.
func (l *playerLocks) lock(playerID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[playerID]
	if !ok {
		entry = &playerLock{}
		l.locks[playerID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, playerID)
		}
		l.mu.Unlock()
	}
}

func (l *playerLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
