package ftime

import (
	"time"
)

// SystemUnixTime returns the elapsed time since the Unix epoch according to
// the real system clock, ignoring any fake-time configuration.  Tests that
// assert on the fallback behavior use it to compute tolerances.
func SystemUnixTime() time.Duration {
	return time.Duration(time.Now().UnixNano())
}
