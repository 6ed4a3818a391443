package relock

import (
	"runtime"

	"github.com/petermattis/goid"
)

func init() {
	checkGoroutineID(goroutineIDFallback())
}

// goroutineIDFallback parses the goroutine id from the runtime stack
// header. Slow, but works on any Go version.
func goroutineIDFallback() int64 {
	var buf [64]byte
	return goid.ExtractGID(buf[:runtime.Stack(buf[:], false)])
}

func checkGoroutineID(slowID int64) {
	if !goroutineIDMatches(slowID) {
		panic("github.com/petermattis/goid doesn't support this Go version, use '-tags=slowgoid'")
	}
}
