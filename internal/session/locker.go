package session

import "sync"

// keyedLocker serializes work per session so concurrent submissions for the
// same session can't interleave between the transcript read and the
// completed-write, which would silently drop a fragment.
type keyedLocker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocker() *keyedLocker {
	return &keyedLocker{locks: make(map[string]*lockEntry)}
}

// lock acquires the lock for key and returns its release func. Entries are
// removed once the last holder releases, so the map stays bounded by the
// number of in-flight sessions.
func (k *keyedLocker) lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &lockEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
