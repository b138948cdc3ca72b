package repl

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yndnr/replfront/internal/core/domain"
)

// DefaultHistorySize bounds the number of remembered lines.
const DefaultHistorySize = 1000

// History is a line history persisted as one entry per line.
type History struct {
	mu      sync.Mutex
	entries []string
	maxSize int
}

// NewHistory creates a new History holding at most maxSize entries.
// A non-positive maxSize selects DefaultHistorySize.
func NewHistory(maxSize int) *History {
	if maxSize <= 0 {
		maxSize = DefaultHistorySize
	}
	return &History{
		entries: make([]string, 0),
		maxSize: maxSize,
	}
}

// DefaultHistoryPath returns ~/.replfront_history.
func DefaultHistoryPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".replfront_history")
}

// Append adds a line to history.
func (h *History) Append(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, line)
	if len(h.entries) > h.maxSize {
		h.entries = h.entries[len(h.entries)-h.maxSize:]
	}
}

// Entries returns a copy of the history, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Load replaces the history with the contents of path and returns them.
// A missing file yields an empty history.
func (h *History) Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.ErrHistoryLoad.WithDetails(path).WithCause(err)
	}
	defer file.Close()

	var entries []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := scanner.Text(); strings.TrimSpace(line) != "" {
			entries = append(entries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, domain.ErrHistoryLoad.WithDetails(path).WithCause(err)
	}

	if len(entries) > h.maxSize {
		entries = entries[len(entries)-h.maxSize:]
	}

	h.mu.Lock()
	h.entries = append(h.entries[:0], entries...)
	h.mu.Unlock()
	return entries, nil
}

// Persist rewrites path with the whole history.
func (h *History) Persist(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return domain.ErrHistoryPersist.WithDetails(path).WithCause(err)
	}

	entries := h.Entries()

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return domain.ErrHistoryPersist.WithDetails(path).WithCause(err)
	}

	w := bufio.NewWriter(file)
	for _, entry := range entries {
		if _, err := w.WriteString(entry + "\n"); err != nil {
			file.Close()
			return domain.ErrHistoryPersist.WithDetails(path).WithCause(err)
		}
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return domain.ErrHistoryPersist.WithDetails(path).WithCause(err)
	}
	return file.Close()
}
