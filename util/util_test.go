package util

import (
	"bytes"
	"errors"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeToAndFromFile(t *testing.T) {
	tempdir := t.TempDir()

	type test struct {
		One string `json:"one"`
		Two int    `json:"two"`
	}
	data := test{
		One: "one",
		Two: 2,
	}

	{
		pretty := path.Join(tempdir, "pretty.json")
		err := EncodeToFile(pretty, data, true)
		require.NoError(t, err)
		require.FileExists(t, pretty)
		var testDecode test
		err = DecodeFromFile(pretty, &testDecode)
		require.NoError(t, err)
		require.Equal(t, data, testDecode)

		// Check the pretty printing
		bytes, err := os.ReadFile(pretty)
		require.NoError(t, err)
		require.Contains(t, string(bytes), "  \"one\": \"one\",\n")
	}

	{
		small := path.Join(tempdir, "small.json")
		err := EncodeToFile(small, data, false)
		require.NoError(t, err)
		require.FileExists(t, small)
		var testDecode test
		err = DecodeFromFile(small, &testDecode)
		require.NoError(t, err)
		require.Equal(t, data, testDecode)
	}

	// gzip test
	{
		small := path.Join(tempdir, "small.json.gz")
		err := EncodeToFile(small, data, false)
		require.NoError(t, err)
		require.FileExists(t, small)
		var testDecode test
		err = DecodeFromFile(small, &testDecode)
		require.NoError(t, err)
		require.Equal(t, data, testDecode)
	}
}

// limitedWriter fails every write that would take it past limit bytes.
type limitedWriter struct {
	buf      bytes.Buffer
	limit    int
	closeErr error
	closed   bool
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.buf.Len()+len(p) > w.limit {
		return 0, errors.New("disk full")
	}
	return w.buf.Write(p)
}

func (w *limitedWriter) Close() error {
	w.closed = true
	return w.closeErr
}

func TestEncodeReportsCloseErrors(t *testing.T) {
	v := map[string]string{"one": "one"}

	w := &limitedWriter{limit: 1 << 20, closeErr: errors.New("close failed")}
	err := encodeAndClose(w, "batch.json", v, false)
	assert.ErrorContains(t, err, "failed to close batch.json: close failed")

	// The header fits, the deflated body and trailer written on Close don't.
	header := 10 + len("x.gz") + 1
	w = &limitedWriter{limit: header}
	err = encodeAndClose(w, "x.gz", v, false)
	assert.ErrorContains(t, err, "failed to finish gzip stream x.gz: disk full")
	assert.True(t, w.closed)

	w = &limitedWriter{limit: 0}
	err = encodeAndClose(w, "batch.json", v, false)
	assert.ErrorContains(t, err, "failed to encode batch.json: disk full")
	assert.True(t, w.closed)
}

func TestDecodeFromFileMissing(t *testing.T) {
	var v map[string]interface{}
	err := DecodeFromFile(filepath.Join(t.TempDir(), "missing.json"), &v)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFileAtomic(t *testing.T) {
	target := filepath.Join(t.TempDir(), "state.json")

	require.NoError(t, WriteFileAtomic(target, []byte("one"), 0644))
	require.NoError(t, WriteFileAtomic(target, []byte("two"), 0644))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))
	assert.NoFileExists(t, target+".temp")
}

func TestGetConfigFromDataDir(t *testing.T) {
	dir := t.TempDir()

	found, err := GetConfigFromDataDir(dir, "fetchsync", []string{"yml", "yaml"})
	require.NoError(t, err)
	assert.Equal(t, "", found)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "fetchsync.yml"), nil, 0644))
	found, err = GetConfigFromDataDir(dir, "fetchsync", []string{"yml", "yaml"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fetchsync.yml"), found)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "fetchsync.yaml"), nil, 0644))
	_, err = GetConfigFromDataDir(dir, "fetchsync", []string{"yml", "yaml"})
	assert.ErrorContains(t, err, "matched more than one filetype")
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(file))
	assert.False(t, IsDir(filepath.Join(dir, "missing")))
}
