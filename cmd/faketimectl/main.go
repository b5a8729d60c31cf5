// Command faketimectl writes a fake-time timestamp file, for driving the
// fake clock of a separate process from a test script.  The process under
// test picks the file up either through the FAKETIME environment variable or
// through an ftime.Enable call; either way it re-reads the file on every
// time query, so each faketimectl invocation takes effect immediately.
//
// Usage:
//
//	faketimectl FILE [MILLIS]      set the file to MILLIS (default: the
//	                               current real time)
//	faketimectl --step DUR FILE    advance the file's current value by a Go
//	                               duration, e.g. --step 90s or --step -5m
//
// Writes are atomic (temporary file + rename), so it is safe to run while
// the process under test is polling the file.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/datawire/dlib/dlog"

	"github.com/datawire/ftime"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		step    time.Duration
		verbose bool
	)
	flags := pflag.NewFlagSet("faketimectl", pflag.ContinueOnError)
	flags.DurationVar(&step, "step", 0,
		"advance the file's current value by a duration instead of setting it")
	flags.BoolVarP(&verbose, "verbose", "v", false,
		"log the value being written")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: faketimectl [--step DURATION] FILE [MILLIS]")
		fmt.Fprintln(os.Stderr, "Atomically writes MILLIS (default: the current real time, in milliseconds")
		fmt.Fprintln(os.Stderr, "since the Unix epoch) into the timestamp file FILE.")
		fmt.Fprintln(os.Stderr)
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "faketimectl: error: %v\n", err)
		return 2
	}

	logger := logrus.New()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	ctx := dlog.WithLogger(context.Background(), dlog.WrapLogrus(logger))

	args := flags.Args()
	if len(args) < 1 || len(args) > 2 {
		flags.Usage()
		return 2
	}
	path := args[0]

	var millis uint64
	switch {
	case flags.Changed("step"):
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "faketimectl: error: --step and MILLIS are mutually exclusive")
			return 2
		}
		current, err := ftime.ReadMillis(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "faketimectl: error: %v\n", err)
			return 1
		}
		next := int64(current) + step.Milliseconds()
		if next < 0 {
			fmt.Fprintf(os.Stderr, "faketimectl: error: stepping %v from %d would move the timestamp before the epoch\n", step, current)
			return 1
		}
		millis = uint64(next)
		dlog.Debugf(ctx, "stepping %q by %v: %d -> %d", path, step, current, millis)
	case len(args) == 2:
		var err error
		millis, err = strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "faketimectl: error: MILLIS must be a non-negative integer: %v\n", err)
			return 2
		}
	default:
		millis = uint64(ftime.SystemUnixTime() / time.Millisecond)
	}

	if err := ftime.WriteMillis(path, millis); err != nil {
		fmt.Fprintf(os.Stderr, "faketimectl: error: %v\n", err)
		return 1
	}
	dlog.Debugf(ctx, "wrote %d to %q", millis, path)
	return 0
}
