//go:build !faketime_disable

package ftime

import (
	"context"
	"os"
	"time"

	"github.com/datawire/dlib/dlog"
)

// resolve is the total time-resolution function behind UnixTime, UnixMillis,
// and Now.  First match wins: an enabled Context override, then the FAKETIME
// environment variable, then the real clock.  A failed read of either file
// source goes straight to the real clock for this call; it does not cascade
// from the Context override to the environment one.
func resolve(ctx context.Context) time.Duration {
	if o, ok := getOverride(ctx); ok {
		if !o.enabled {
			// Explicitly disabled on this Context; the env var still applies.
			return resolveEnv(ctx)
		}
		millis, err := ReadMillis(o.path)
		if err != nil {
			dlog.Debugf(ctx, "ftime: timestamp file %q: %v; using the system clock", o.path, err)
			return SystemUnixTime()
		}
		return time.Duration(millis) * time.Millisecond
	}
	return resolveEnv(ctx)
}

func resolveEnv(ctx context.Context) time.Duration {
	path, ok := os.LookupEnv(EnvFile)
	if !ok || path == "" {
		return SystemUnixTime()
	}
	millis, err := ReadMillis(path)
	if err != nil {
		dlog.Debugf(ctx, "ftime: $%s file %q: %v; using the system clock", EnvFile, path, err)
		return SystemUnixTime()
	}
	return time.Duration(millis) * time.Millisecond
}
