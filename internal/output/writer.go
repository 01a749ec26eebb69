package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Writer persists one Markdown digest per run under a configured directory.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Write saves the document to a timestamped file and returns its path. The
// content lands in a temporary file first and is renamed into place, so an
// interrupted run never leaves a truncated digest that looks finished.
func (w *Writer) Write(content string, ts time.Time) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("output: create dir %s: %w", w.dir, err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("digest_%s.md", ts.Format("2006-01-02_15-04")))
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("output: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("output: rename %s: %w", tmp, err)
	}

	return path, nil
}
