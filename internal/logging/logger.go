package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

const (
	rotateMaxSize = 5 << 20
	rotateKeep    = 5
)

// New creates a process logger with JSON output for backend services.
// When filePath is non-empty, log lines are also appended to a
// size-rotated file.
func New(level slog.Level, filePath string) *slog.Logger {
	var w io.Writer = os.Stdout
	if filePath != "" {
		w = io.MultiWriter(os.Stdout, newRotatingWriter(filePath))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// rotatingWriter appends to a file and rotates it when it exceeds
// rotateMaxSize, keeping rotateKeep numbered backups. Write errors are
// swallowed: the log file is a convenience, never a correctness
// dependency.
type rotatingWriter struct {
	mu   sync.Mutex
	path string
	file *os.File
	size int64
}

func newRotatingWriter(path string) *rotatingWriter {
	return &rotatingWriter{path: path}
}

func (w *rotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		if err := w.open(); err != nil {
			return len(p), nil
		}
	}
	if w.size+int64(len(p)) > rotateMaxSize {
		w.rotate()
		if w.file == nil {
			return len(p), nil
		}
	}
	n, err := w.file.Write(p)
	if err != nil {
		return len(p), nil
	}
	w.size += int64(n)
	return len(p), nil
}

func (w *rotatingWriter) open() error {
	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return err
	}
	w.file = file
	w.size = info.Size()
	return nil
}

func (w *rotatingWriter) rotate() {
	_ = w.file.Close()
	w.file = nil

	for i := rotateKeep - 1; i >= 1; i-- {
		_ = os.Rename(backupName(w.path, i), backupName(w.path, i+1))
	}
	_ = os.Rename(w.path, backupName(w.path, 1))

	_ = w.open()
}

func backupName(path string, n int) string {
	return fmt.Sprintf("%s.%d", path, n)
}
