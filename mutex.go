// Package relock provides reentrant lock primitives keyed on goroutine
// identity: a recursive Mutex, and a reader-writer RWMutex that allows
// recursive write locking, read locking while holding the write lock,
// and atomic upgrade from a solely-held read lock to a write lock.
//
// The zero value of either lock is ready for use. Unlike sync.Mutex, a
// locked relock lock IS associated with the goroutine that acquired it,
// and must be unlocked by that same goroutine.
package relock

import (
	"sync"
	"sync/atomic"
)

// A Mutex is a reentrant mutual exclusion lock. The goroutine holding
// it may call Lock again any number of times without blocking; the
// lock is released once Unlock has been called the same number of
// times. The zero value is an unlocked Mutex.
type Mutex struct {
	mu    sync.Mutex
	owner int64  // goroutine id of the holder, 0 if unheld
	level uint64 // recursion depth beyond the first Lock
}

var _ sync.Locker = &Mutex{}

// Lock locks m. If the calling goroutine already holds m, the
// recursion level is incremented and Lock returns immediately.
// Otherwise the caller blocks until the mutex is available.
func (m *Mutex) Lock() {
	gid := goroutineID()
	if atomic.LoadInt64(&m.owner) == gid {
		// level is only ever touched by the owner.
		m.level++
		return
	}
	m.mu.Lock()
	atomic.StoreInt64(&m.owner, gid)
}

// Unlock undoes a single Lock call. The mutex is released once the
// calling goroutine has balanced all of its Lock calls.
//
// Calling Unlock from a goroutine that does not hold m is a contract
// violation, reported through Opts.
func (m *Mutex) Unlock() {
	gid := goroutineID()
	if atomic.LoadInt64(&m.owner) != gid {
		report("Unlock", m, gid, atomic.LoadInt64(&m.owner))
		return
	}
	if m.level > 0 {
		m.level--
		return
	}
	atomic.StoreInt64(&m.owner, 0)
	m.mu.Unlock()
}

// IsLockedByCurrentGoroutine reports whether the calling goroutine
// holds m. It never blocks.
func (m *Mutex) IsLockedByCurrentGoroutine() bool {
	return atomic.LoadInt64(&m.owner) == goroutineID()
}
