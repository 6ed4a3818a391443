package relock

import (
	"fmt"
)

// A Violation describes a broken locking contract: unlocking a lock
// the caller does not own, or unlocking a lock that is not held.
type Violation struct {
	Op    string      // operation that detected the violation, e.g. "Unlock"
	Lock  interface{} // the lock the operation was called on
	Gid   int64       // goroutine that made the offending call
	Owner int64       // goroutine owning the lock at the time, 0 if none
	Stack []uintptr   // call stack of the offending call
}

func (v *Violation) Error() string {
	if v.Owner == 0 {
		return fmt.Sprintf("relock: %s of %p by goroutine %d, but it is not held", v.Op, v.Lock, v.Gid)
	}
	return fmt.Sprintf("relock: %s of %p by goroutine %d, but it is held by goroutine %d", v.Op, v.Lock, v.Gid, v.Owner)
}

// report writes a violation report to Opts.LogBuf and then hands the
// violation to Opts.OnContractViolation. It returns only if the
// handler does; callers must then back out without touching lock state.
func report(op string, lk interface{}, gid, owner int64) {
	v := &Violation{
		Op:    op,
		Lock:  lk,
		Gid:   gid,
		Owner: owner,
		Stack: callers(2),
	}
	var opts Options
	Opts.ReadLocked(func() { opts = Opts })
	optsLock.Lock()
	fmt.Fprintln(&opts, header, v.Error())
	printStack(&opts, v.Stack)
	opts.Flush()
	optsLock.Unlock()
	if opts.OnContractViolation != nil {
		opts.OnContractViolation(v)
	}
}

const header = "LOCK CONTRACT VIOLATION:"
