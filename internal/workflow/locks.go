package workflow

import (
	"sync"

	"github.com/google/uuid"
)

// appLocks serializes stage mutations per application so a
// read-decide-write cycle never races a concurrent cycle for the same
// application. Locks are never reclaimed; the working set of in-flight
// applications is small.
type appLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newAppLocks() *appLocks {
	return &appLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *appLocks) lock(id uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m
}
