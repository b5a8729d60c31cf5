//go:build faketime_disable

package ftime

import (
	"context"
	"time"
)

// With the faketime_disable build tag, resolution is a direct call to the
// system clock: no Context inspection, no environment lookup, no file I/O.
// Enable and Disable still compile, so the library's API is identical either
// way; they just no longer influence what queries return.
func resolve(_ context.Context) time.Duration {
	return SystemUnixTime()
}
