//go:build slowgoid
// +build slowgoid

package relock

// goroutineID returns the id of the calling goroutine. Goroutine ids
// are positive, unique within the process and stable for the lifetime
// of the goroutine; zero is reserved to mean "no owner".
func goroutineID() int64 {
	return goroutineIDFallback()
}

func goroutineIDMatches(slowID int64) bool {
	return goroutineIDFallback() == slowID
}
