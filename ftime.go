// Package ftime provides a "current time" query whose answer can be replaced
// with a fake value read from a file, without touching the call sites that ask
// for the time.
//
// ftime.UnixTime(ctx) (and friends: UnixMillis and Now) is equivalent to
// asking the real system clock for the elapsed time since the Unix epoch,
// except that you can override it for a call tree with Enable, or for the
// whole process with the FAKETIME environment variable, in order to have
// control over time for testing.
//
// The fake-time setting travels in the Context.  Enable(ctx, path) returns a
// Context on which time queries read the timestamp file at path; goroutines
// that are handed that Context see fake time, and nobody else does.  The
// timestamp file holds the milliseconds since the Unix epoch as a single
// decimal integer, optionally surrounded by whitespace.  Queries re-read the
// file every time, so a test may rewrite it (see WriteMillis) to advance or
// rewind fake time while the code under test is running.
//
// When the Context carries no setting, queries consult the FAKETIME
// environment variable.  If it is set and non-empty, its value is the path of
// a timestamp file, and every goroutine in the process -- including ones
// spawned later -- resolves fake time from it.  This is the channel for
// faking time in a process you start but don't link against.
//
// A timestamp file that is missing, unreadable, or malformed never makes a
// time query fail: the query falls back to the real system clock for that
// call.  A half-written file therefore costs at worst one real-time reading,
// which is also why WriteMillis replaces the file atomically.
//
// Building with the "faketime_disable" build tag compiles the override
// checking out entirely: queries always take the system clock path, and
// Enable has no effect on resolution.
package ftime

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// EnvFile is the name of the environment variable that activates the
// process-wide fallback override.  Its value is the path of a timestamp
// file; it applies to any query whose Context does not carry its own
// setting from Enable or Disable.
const EnvFile = "FAKETIME"

// ErrEmptyPath is returned by Enable when given an empty path.
var ErrEmptyPath = errors.New("ftime: empty timestamp file path")

// override is the per-Context fake-time setting.  The zero value is the
// explicitly-disabled state stored by Disable.
type override struct {
	enabled bool
	path    string
}

type overrideCtxKey struct{}

func getOverride(ctx context.Context) (override, bool) {
	untyped := ctx.Value(overrideCtxKey{})
	if untyped == nil {
		return override{}, false
	}
	return untyped.(override), true
}

// Enable returns a Context on which time queries read fake time from the
// timestamp file at path, taking precedence over both the FAKETIME
// environment variable and the real clock.  It has no effect on queries
// using any other Context.
//
// The file does not need to exist yet: existence, readability, and syntax
// are checked at each query, where any failure is a soft fallback to the
// real clock.  The only eager validation is that path must be non-empty,
// which is reported as ErrEmptyPath.
func Enable(ctx context.Context, path string) (context.Context, error) {
	if path == "" {
		return ctx, ErrEmptyPath
	}
	return context.WithValue(ctx, overrideCtxKey{}, override{enabled: true, path: path}), nil
}

// Disable returns a Context on which time queries ignore any file override
// enabled on an ancestor Context.  The FAKETIME environment variable, being
// process-wide rather than Context-scoped, still applies; absent that, the
// real clock governs.
func Disable(ctx context.Context) context.Context {
	return context.WithValue(ctx, overrideCtxKey{}, override{})
}

// EnableMillis creates a uniquely named temporary timestamp file containing
// millis, and returns a Context with fake time enabled from that file
// together with the file's path.  Rewrite the file (see WriteMillis) to move
// fake time while the returned Context is in use; remove it when done.
func EnableMillis(ctx context.Context, millis uint64) (context.Context, string, error) {
	path, err := MillisFile(millis)
	if err != nil {
		return ctx, "", err
	}
	ctx, err = Enable(ctx, path)
	return ctx, path, err
}

// UnixTime returns the elapsed time since the Unix epoch, resolved per the
// Context: an enabled file override first, then the FAKETIME environment
// variable, then the real system clock.  It always succeeds.
//
// Precision is asymmetric: readings from the real clock carry the clock's
// native (nanosecond) resolution, while faked readings are exact multiples
// of a millisecond.
func UnixTime(ctx context.Context) time.Duration {
	return resolve(ctx)
}

// UnixMillis returns the same resolved reading as UnixTime, truncated to
// whole milliseconds since the Unix epoch.
func UnixMillis(ctx context.Context) uint64 {
	return uint64(resolve(ctx) / time.Millisecond)
}

// Now returns the resolved current time as a time.Time, making ftime a
// drop-in replacement for time.Now in code that threads a Context.
func Now(ctx context.Context) time.Time {
	return time.Unix(0, int64(resolve(ctx)))
}
