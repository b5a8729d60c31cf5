package ftime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMillis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faketime")

	_, err := ReadMillis(path)
	assert.Error(t, err, "missing file")

	testcases := map[string]struct {
		Content string
		Millis  uint64
		Err     bool
	}{
		"empty":       {Content: "", Err: true},
		"whitespace":  {Content: " \n\t", Err: true},
		"non-numeric": {Content: "x", Err: true},
		"trailing":    {Content: "123x", Err: true},
		"negative":    {Content: "-5", Err: true},
		"plain":       {Content: "12345", Millis: 12345},
		"newline":     {Content: "12345\n", Millis: 12345},
		"padded":      {Content: "  678 ", Millis: 678},
		"zero":        {Content: "0", Millis: 0},
	}
	for tcname, tcinfo := range testcases {
		t.Run(tcname, func(t *testing.T) {
			require.NoError(t, os.WriteFile(path, []byte(tcinfo.Content), 0o600))
			millis, err := ReadMillis(path)
			if tcinfo.Err {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tcinfo.Millis, millis)
			}
		})
	}
}

func TestWriteMillis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faketime")

	require.NoError(t, WriteMillis(path, 54321))
	millis, err := ReadMillis(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(54321), millis)

	// Overwriting goes through the same rename; it must replace, not fail.
	require.NoError(t, WriteMillis(path, 98765))
	millis, err = ReadMillis(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(98765), millis)

	// The temporary files behind the renames must not pile up.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteMillisConcurrentReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faketime")
	require.NoError(t, WriteMillis(path, 1))

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for i := uint64(2); i <= 500; i++ {
			if err := WriteMillis(path, i); err != nil {
				t.Errorf("WriteMillis(%d): %v", i, err)
				return
			}
		}
	}()

	// Every concurrent read observes some complete value, never a torn
	// write and never a vanished file.
	for done := false; !done; {
		select {
		case <-writerDone:
			done = true
		default:
		}
		millis, err := ReadMillis(path)
		require.NoError(t, err)
		assert.LessOrEqual(t, millis, uint64(500))
	}
}

func TestMillisFile(t *testing.T) {
	path, err := MillisFile(123456)
	require.NoError(t, err)
	defer os.Remove(path)

	millis, err := ReadMillis(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(123456), millis)

	// Distinct calls yield distinct files.
	path2, err := MillisFile(123456)
	require.NoError(t, err)
	defer os.Remove(path2)
	assert.NotEqual(t, path, path2)
}
