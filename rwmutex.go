package relock

import (
	"sync"
	"sync/atomic"
)

// An RWMutex is a reader-writer lock built from two plain mutexes,
// after the two-lock design used by lxml's rwlock. The lock can be
// held by any number of readers or a single writer, and extends
// sync.RWMutex semantics in three ways:
//
//   - the writer may call Lock again without blocking (recursive write)
//   - the writer may call RLock without blocking (reads granted
//     through the existing write ownership)
//   - a goroutine that is the sole reader may convert its read lock
//     into the write lock atomically with TryUpgrade
//
// The zero value is an unlocked RWMutex.
//
// writerLock is held whenever the lock is not free: by the writer in
// write mode, or collectively on behalf of all readers in read mode.
// The first reader acquires it and the last reader releases it, so
// readers only ever block when a writer is active, and writers wait
// out readers and writers alike. writer holds the goroutine id of the
// write-mode owner; 0 means unheld or held by readers, told apart by
// whether writerLock is held.
type RWMutex struct {
	readerLock sync.Mutex
	writerLock sync.Mutex
	readers    int32  // active readers, guarded by readerLock
	writer     int64  // goroutine id of the writer, 0 = none (atomic)
	level      uint64 // write recursion depth, plus reads held by the writer
}

var _ sync.Locker = &RWMutex{}

// RLock locks rw for reading.
//
// If the calling goroutine holds rw for writing, the read lock is
// granted through the existing write ownership without blocking and
// without joining the reader count; it still requires a matching
// RUnlock. Otherwise RLock blocks only while a writer holds the lock,
// and only for the first reader to arrive.
func (rw *RWMutex) RLock() {
	gid := goroutineID()
	if atomic.LoadInt64(&rw.writer) == gid {
		rw.level++
		return
	}
	rw.readerLock.Lock()
	rw.readers++
	if rw.readers == 1 {
		// First reader takes the writer gate to shut out writers.
		rw.writerLock.Lock()
		atomic.StoreInt64(&rw.writer, 0)
	}
	rw.readerLock.Unlock()
}

// RUnlock undoes a single RLock call.
//
// Calling RUnlock when the calling goroutine holds no read lock is a
// contract violation, reported through Opts.
func (rw *RWMutex) RUnlock() {
	if rw.level > 0 {
		// A pending nested read means write mode is held, so the only
		// goroutine that may legitimately get here is the writer.
		gid := goroutineID()
		if w := atomic.LoadInt64(&rw.writer); w != gid {
			report("RUnlock", rw, gid, w)
			return
		}
		rw.level--
		return
	}
	rw.readerLock.Lock()
	if rw.readers == 0 {
		rw.readerLock.Unlock()
		report("RUnlock", rw, goroutineID(), atomic.LoadInt64(&rw.writer))
		return
	}
	rw.readers--
	if rw.readers == 0 {
		// Last reader out releases the writer gate.
		atomic.StoreInt64(&rw.writer, 0)
		rw.writerLock.Unlock()
	}
	rw.readerLock.Unlock()
}

// Lock locks rw for writing. If the calling goroutine already holds
// the write lock, the recursion level is incremented and Lock returns
// immediately. Otherwise the caller blocks until every reader and any
// other writer have released the lock.
//
// Lock always contends normally, even if the caller happens to hold a
// read lock; use TryUpgrade to convert a read lock in place. A reader
// calling Lock directly deadlocks against its own read hold, just as
// with sync.RWMutex.
func (rw *RWMutex) Lock() {
	gid := goroutineID()
	if atomic.LoadInt64(&rw.writer) == gid {
		rw.level++
		return
	}
	rw.writerLock.Lock()
	atomic.StoreInt64(&rw.writer, gid)
}

// Unlock undoes a single Lock call, releasing the write lock once the
// calling goroutine has balanced all of its Lock calls.
//
// Calling Unlock from a goroutine that does not hold the write lock is
// a contract violation, reported through Opts.
func (rw *RWMutex) Unlock() {
	gid := goroutineID()
	if w := atomic.LoadInt64(&rw.writer); w != gid {
		report("Unlock", rw, gid, w)
		return
	}
	if rw.level > 0 {
		rw.level--
		return
	}
	atomic.StoreInt64(&rw.writer, 0)
	rw.writerLock.Unlock()
}

// TryUpgrade converts the caller's read lock into the write lock if
// the caller is the sole reader. On success the ownership of the
// writer gate transfers in place, so no other goroutine can observe
// the lock as free in between, and the caller must release with
// Unlock rather than RUnlock. On failure the caller's read lock is
// left intact and unchanged; failure is a normal outcome, and callers
// may fall back to RUnlock followed by Lock, accepting the gap.
//
// The caller must hold exactly one read lock, acquired with RLock
// while not in write mode. Readers are anonymous, so this precondition
// cannot be checked: a recursive read registers as a second reader and
// makes TryUpgrade fail, while calling it with no read lock held at
// all may steal the lock from an unrelated sole reader.
func (rw *RWMutex) TryUpgrade() bool {
	gid := goroutineID()
	rw.readerLock.Lock()
	if rw.readers == 1 && atomic.LoadInt64(&rw.writer) == 0 {
		rw.readers = 0
		atomic.StoreInt64(&rw.writer, gid)
		rw.readerLock.Unlock()
		return true
	}
	rw.readerLock.Unlock()
	return false
}

// IsLockedByCurrentGoroutine reports whether the calling goroutine
// holds rw for writing. Readers are anonymous and are never reported.
// It never blocks.
func (rw *RWMutex) IsLockedByCurrentGoroutine() bool {
	return atomic.LoadInt64(&rw.writer) == goroutineID()
}
