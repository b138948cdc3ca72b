package output

import (
	"io"
	"sync"
	"time"

	"github.com/yndnr/replfront/internal/telemetry/metric"
)

// Synchronizer guards the terminal and the active output route with one lock.
type Synchronizer struct {
	mu       sync.Mutex
	terminal io.Writer
	route    io.Writer
	metrics  *metric.Registry
}

// New creates a Synchronizer writing to terminal when no route is installed.
func New(terminal io.Writer, metrics *metric.Registry) *Synchronizer {
	return &Synchronizer{
		terminal: terminal,
		metrics:  metrics,
	}
}

func (s *Synchronizer) lock() {
	start := time.Now()
	s.mu.Lock()
	s.metrics.ObserveLockWait(time.Since(start))
}

// Acquire takes the output lock and installs route for asynchronous output.
// A nil route means the terminal. The returned release function restores
// the terminal route and unlocks; it is safe to call more than once.
func (s *Synchronizer) Acquire(route io.Writer) (release func()) {
	s.lock()
	s.route = route
	var once sync.Once
	return func() {
		once.Do(func() {
			s.route = nil
			s.mu.Unlock()
		})
	}
}

// SetRoute swaps the active route under the lock. A nil route means the terminal.
func (s *Synchronizer) SetRoute(route io.Writer) {
	s.lock()
	defer s.mu.Unlock()
	s.route = route
}

// Emit writes asynchronous output to the active route.
func (s *Synchronizer) Emit(text string) error {
	s.lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.current(), text)
	return err
}

// TerminalWriter returns an io.Writer that writes straight to the terminal
// under the lock, regardless of the active route.
func (s *Synchronizer) TerminalWriter() io.Writer {
	return terminalWriter{s}
}

// Terminal returns the raw terminal writer. Callers must hold the lock.
func (s *Synchronizer) Terminal() io.Writer {
	return s.terminal
}

func (s *Synchronizer) current() io.Writer {
	if s.route != nil {
		return s.route
	}
	return s.terminal
}

type terminalWriter struct{ s *Synchronizer }

func (w terminalWriter) Write(p []byte) (int, error) {
	w.s.lock()
	defer w.s.mu.Unlock()
	return w.s.terminal.Write(p)
}
