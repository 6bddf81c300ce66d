package concurrency

import (
	"sync"
)

// LockManager handles named locks. Entries are removed once nobody holds or
// waits for them, so keys such as tournament ids do not accumulate.
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*keyedLock)}
}

// Lock blocks until the lock for key is held and returns its release func.
func (lm *LockManager) Lock(key string) func() {
	l := lm.acquireRef(key)
	l.mu.Lock()
	return lm.releaser(key, l)
}

// TryLock takes the lock for key without waiting. ok is false when another
// caller holds it.
func (lm *LockManager) TryLock(key string) (release func(), ok bool) {
	l := lm.acquireRef(key)
	if !l.mu.TryLock() {
		lm.dropRef(key, l)
		return nil, false
	}
	return lm.releaser(key, l), true
}

// Held reports how many keys currently have a holder or waiter.
func (lm *LockManager) Held() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.locks)
}

func (lm *LockManager) acquireRef(key string) *keyedLock {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	l, ok := lm.locks[key]
	if !ok {
		l = &keyedLock{}
		lm.locks[key] = l
	}
	l.refs++
	return l
}

func (lm *LockManager) dropRef(key string, l *keyedLock) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(lm.locks, key)
	}
}

func (lm *LockManager) releaser(key string, l *keyedLock) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			lm.dropRef(key, l)
		})
	}
}
