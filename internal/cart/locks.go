package cart

import "sync"

// buyerLocks serialises load-mutate-save per buyer. Entries are reference
// counted and removed once no goroutine holds or waits on them.
type buyerLocks struct {
	mtx   sync.Mutex
	locks map[string]*buyerLock
}

type buyerLock struct {
	mu   sync.Mutex
	refs int
}

func newBuyerLocks() *buyerLocks {
	return &buyerLocks{locks: make(map[string]*buyerLock)}
}

// Lock blocks until key is free and returns the matching unlock func.
func (l *buyerLocks) Lock(key string) func() {
	l.mtx.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &buyerLock{}
		l.locks[key] = entry
	}
	entry.refs++
	l.mtx.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mtx.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, key)
		}
		l.mtx.Unlock()
	}
}

func (l *buyerLocks) size() int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return len(l.locks)
}
