package relock

import (
	"bufio"
	"io"
	"os"
	"sync"
)

var optsLock sync.RWMutex

type Options struct {
	// OnContractViolation is called after a violation report has been
	// written to LogBuf. The default handler panics with the Violation.
	// A replacement handler that returns makes the offending call a
	// no-op: the lock state is left exactly as it was.
	OnContractViolation func(v *Violation)
	// Will print contract violation reports to log buffer.
	LogBuf io.Writer
}

// WriteLocked calls the given function with Opts locked for writing.
// Not needed unless you modify options while locks are being used.
func (opts *Options) WriteLocked(fn func()) {
	optsLock.Lock()
	defer optsLock.Unlock()
	fn()
}

// ReadLocked calls the given function with Opts locked for reading.
// Not needed unless you modify options while locks are being used.
func (opts *Options) ReadLocked(fn func()) {
	optsLock.RLock()
	defer optsLock.RUnlock()
	fn()
}

func (opts *Options) Write(b []byte) (int, error) {
	if opts.LogBuf != nil {
		return opts.LogBuf.Write(b)
	}
	return 0, nil
}

func (opts *Options) Flush() error {
	if opts.LogBuf != nil {
		if buf, ok := opts.LogBuf.(*bufio.Writer); ok {
			return buf.Flush()
		}
	}
	return nil
}

// Opts control how lock contract violations are reported.
// Options are supposed to be set once at a startup (say, when parsing flags).
var Opts = Options{
	OnContractViolation: func(v *Violation) { panic(v) },
	LogBuf:              os.Stderr,
}
