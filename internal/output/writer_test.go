package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCreatesTimestampedFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(filepath.Join(dir, "digests"))
	ts := time.Date(2026, 8, 23, 9, 15, 0, 0, time.UTC)

	path, err := w.Write("# digest body\n", ts)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "digests", "digest_2026-08-23_09-15.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# digest body\n", string(data))
}

func TestWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	_, err := w.Write("body", time.Date(2026, 8, 23, 9, 15, 0, 0, time.UTC))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "digest_2026-08-23_09-15.md", entries[0].Name())
}

func TestWriteFailsOnUnwritableDir(t *testing.T) {
	w := NewWriter(filepath.Join(string(os.PathSeparator), "proc", "no-such-dir"))

	_, err := w.Write("body", time.Now())
	assert.Error(t, err)
}
