// Package guard provides the thread-safety strategies used by the intrusive
// containers in this module. Containers take a Guard at construction; the
// default is None, leaving synchronization to the caller.
package guard

import (
	"sync"
)

// None returns the no-op strategy: the container performs no locking at all
// and the caller is responsible for synchronization. This is the default for
// every container in this module.
func None() Guard {
	return noneGuard{}
}

// Mutex returns a strategy backed by a single exclusive mutex. Readers
// exclude each other as well as writers; upgrading is free since a reader
// already holds the only lock.
func Mutex() Guard {
	return &mutexGuard{}
}

// RW returns a readers-writer strategy: concurrent readers, exclusive
// writers, and a single upgradable reader slot.
func RW() Guard {
	return &rwGuard{}
}

type noneGuard struct{}

func (noneGuard) ReadLock(bool)    {}
func (noneGuard) ReadUnlock(bool)  {}
func (noneGuard) WriteLock(bool)   {}
func (noneGuard) WriteUnlock(bool) {}

type mutexGuard struct {
	mu sync.Mutex
}

func (g *mutexGuard) ReadLock(bool)   { g.mu.Lock() }
func (g *mutexGuard) ReadUnlock(bool) { g.mu.Unlock() }

func (g *mutexGuard) WriteLock(upgrade bool) {
	if upgrade {
		return // reader already holds the mutex exclusively
	}
	g.mu.Lock()
}

func (g *mutexGuard) WriteUnlock(upgrade bool) {
	if upgrade {
		return
	}
	g.mu.Unlock()
}

type rwGuard struct {
	mu sync.RWMutex

	// upgrade serializes upgradable readers: the holder may escalate to the
	// write lock without racing another upgrader for it.
	upgrade sync.Mutex
}

func (g *rwGuard) ReadLock(upgradable bool) {
	if upgradable {
		g.upgrade.Lock()
	}
	g.mu.RLock()
}

func (g *rwGuard) ReadUnlock(upgradable bool) {
	g.mu.RUnlock()
	if upgradable {
		g.upgrade.Unlock()
	}
}

// WriteLock with upgrade set escalates an upgradable read to exclusive: the
// read side is released and the write side taken while the upgrade slot is
// still held, so no other upgrader can slip in between. Plain readers drain
// before the write lock is granted.
func (g *rwGuard) WriteLock(upgrade bool) {
	if upgrade {
		g.mu.RUnlock()
	}
	g.mu.Lock()
}

// WriteUnlock with upgrade set demotes back to the upgradable read taken
// before escalation.
func (g *rwGuard) WriteUnlock(upgrade bool) {
	g.mu.Unlock()
	if upgrade {
		g.mu.RLock()
	}
}
