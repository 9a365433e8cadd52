package ticketing

import "sync"

// nameLocks serialises ticket creation per (guild, derived-name). The
// registry lookup and the channel creation are separate network calls, so
// without this two near-simultaneous open requests could both pass the
// duplicate check before either channel exists. Holding the name's lock
// across check-and-create closes that window: the second request blocks, then
// finds the first request's channel.
type nameLocks struct {
	mu    sync.Mutex
	locks map[string]*nameLock
}

type nameLock struct {
	mu sync.Mutex

	// refs counts holders and waiters, so the entry can be removed from the
	// map once the last one is done.
	refs int
}

func newNameLocks() *nameLocks {
	return &nameLocks{
		locks: make(map[string]*nameLock),
	}
}

// lock acquires the lock for key, blocking while another goroutine holds it.
func (n *nameLocks) lock(key string) {
	n.mu.Lock()
	l, ok := n.locks[key]
	if !ok {
		l = new(nameLock)
		n.locks[key] = l
	}
	l.refs++
	n.mu.Unlock()

	l.mu.Lock()
}

// unlock releases the lock for key.
func (n *nameLocks) unlock(key string) {
	n.mu.Lock()
	l := n.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(n.locks, key)
	}
	n.mu.Unlock()

	l.mu.Unlock()
}
