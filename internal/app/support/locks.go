package support

import (
	"sync"

	"stayhub/internal/domain/units"
)

// UnitLocker provides one read-write mutex per unit. Booking conflict checks,
// pricing batches and search snapshots serialize per unit only; operations on
// different units never block each other.
type UnitLocker struct {
	mu    sync.Mutex
	locks map[units.UnitID]*sync.RWMutex
}

func NewUnitLocker() *UnitLocker {
	return &UnitLocker{locks: make(map[units.UnitID]*sync.RWMutex)}
}

func (l *UnitLocker) lockFor(id units.UnitID) *sync.RWMutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.RWMutex{}
		l.locks[id] = lock
	}
	return lock
}

// Lock takes the unit's write lock and returns the release function.
func (l *UnitLocker) Lock(id units.UnitID) func() {
	lock := l.lockFor(id)
	lock.Lock()
	return lock.Unlock
}

// RLock takes the unit's read lock and returns the release function.
func (l *UnitLocker) RLock(id units.UnitID) func() {
	lock := l.lockFor(id)
	lock.RLock()
	return lock.RUnlock
}
