// Package resultlog persists result records as newline-delimited JSON, one
// file per process run.
package resultlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"network-quality-logger/internal/models"
)

// Extension of result log files
const Extension = ".ndjson"

// fileTimeLayout matches JavaScript's Date.toISOString
const fileTimeLayout = "2006-01-02T15:04:05.000Z"

// DefaultDir returns the logs directory next to the executable's directory.
func DefaultDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "..", "logs"), nil
}

// FileName returns the log file name for a run started at start.
func FileName(start time.Time) string {
	return start.UTC().Format(fileTimeLayout) + Extension
}

// Writer appends records to a log file kept open for its lifetime.
type Writer struct {
	mu   sync.Mutex
	path string
	file *os.File
	enc  *json.Encoder
}

// Open creates dir if needed and opens a fresh log file for a run started at start.
func Open(dir string, start time.Time) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return OpenFile(filepath.Join(dir, FileName(start)))
}

// OpenFile opens path for appending, creating it if needed.
func OpenFile(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open result log: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	return &Writer{path: path, file: f, enc: enc}, nil
}

// Path returns the file being written
func (w *Writer) Path() string {
	return w.path
}

// Record appends one record as a single line.
func (w *Writer) Record(r models.Result) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return os.ErrClosed
	}
	if err := w.enc.Encode(r); err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
