package service

import "sync"

type keyLockEntry struct {
	mu   sync.Mutex
	refs int
}

// KeyLock serializes work per key. Entries are dropped once no goroutine
// holds or waits on them.
type KeyLock[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*keyLockEntry
}

func NewKeyLock[K comparable]() *KeyLock[K] {
	return &KeyLock[K]{entries: make(map[K]*keyLockEntry)}
}

// Lock blocks until key is free and returns the matching unlock.
func (l *KeyLock[K]) Lock(key K) func() {
	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &keyLockEntry{}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()
	}
}

func (l *KeyLock[K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
