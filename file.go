package ftime

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadMillis reads the timestamp file at path: the entire contents, with
// surrounding whitespace trimmed, must be a single non-negative base-10
// integer of milliseconds since the Unix epoch.
func ReadMillis(path string) (uint64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	millis, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse timestamp file %q", path)
	}
	return millis, nil
}

// WriteMillis writes millis as decimal text to the timestamp file at path,
// atomically: it writes a temporary file in the same directory and renames
// it over path, so a reader polling path observes either the old value or
// the new one, never a torn write.
func WriteMillis(path string, millis uint64) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, base+".*")
	if err != nil {
		return errors.Wrapf(err, "write timestamp file %q", path)
	}
	_, werr := tmp.WriteString(strconv.FormatUint(millis, 10))
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Rename(tmp.Name(), path)
	}
	if werr != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrapf(werr, "write timestamp file %q", path)
	}
	return nil
}

// MillisFile creates a uniquely named temporary file containing millis and
// returns its path.  The file lives in the default directory for temporary
// files; removing it is up to the caller or the OS.
func MillisFile(millis uint64) (string, error) {
	f, err := os.CreateTemp("", "faketime.*")
	if err != nil {
		return "", errors.Wrap(err, "create timestamp file")
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		return "", errors.Wrapf(err, "create timestamp file %q", path)
	}
	if err := WriteMillis(path, millis); err != nil {
		return "", err
	}
	return path, nil
}
