package domain

import (
	"strings"
	"sync"
	"time"
)

// DefaultNamespace is the namespace every new session starts in.
const DefaultNamespace = "cljs.user"

// LocalSessionID identifies the single terminal-bound session.
const LocalSessionID uint64 = 0

// Session holds the mutable state of one REPL.
//
// The pending buffer is optional: HasInput reports false when no partial
// expression is outstanding. The raw-line cache always holds exactly the
// lines appended since the last complete-form dispatch or interrupt reset.
//
// A Session is owned by one goroutine (the local loop or a connection
// handler); the mutex only makes snapshots taken by the highlight engine
// safe while the owner is blocked in a read.
type Session struct {
	mu sync.RWMutex

	id          uint64
	namespace   string
	prompt      string
	input       string
	hasInput    bool
	indent      int
	lines       []string
	historyPath string
	createdAt   time.Time
}

// NewSession creates a session in DefaultNamespace.
// An empty historyPath marks the session as non-persistent.
func NewSession(id uint64, historyPath string) *Session {
	return &Session{
		id:          id,
		namespace:   DefaultNamespace,
		historyPath: historyPath,
		createdAt:   time.Now(),
	}
}

// ID returns the session identifier (0 for the local session).
func (s *Session) ID() uint64 {
	return s.id
}

// IsRemote reports whether the session belongs to a socket connection.
func (s *Session) IsRemote() bool {
	return s.id != LocalSessionID
}

// HistoryPath returns the history file path, or "" for non-persistent sessions.
func (s *Session) HistoryPath() string {
	return s.historyPath
}

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Namespace returns the current namespace.
func (s *Session) Namespace() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.namespace
}

// SetNamespace replaces the current namespace.
func (s *Session) SetNamespace(ns string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.namespace = ns
}

// Prompt returns the current prompt ("" when no prompt should be shown).
func (s *Session) Prompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prompt
}

// SetPrompt replaces the current prompt.
func (s *Session) SetPrompt(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompt = p
}

// Indent returns the indentation depth used for the next continuation line.
func (s *Session) Indent() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indent
}

// SetIndent sets the indentation depth.
func (s *Session) SetIndent(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indent = n
}

// Input returns the pending buffer and whether one is outstanding.
func (s *Session) Input() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.input, s.hasInput
}

// HasInput reports whether a partial expression is outstanding.
func (s *Session) HasInput() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasInput
}

// AppendLine appends line to the pending buffer (newline-joined) and to the
// raw-line cache, returning the resulting buffer.
func (s *Session) AppendLine(line string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasInput {
		s.input = s.input + "\n" + line
	} else {
		s.input = line
		s.hasInput = true
	}
	s.lines = append(s.lines, line)
	return s.input
}

// SetInput replaces the pending buffer with leftover text from the reader.
func (s *Session) SetInput(input string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = input
	s.hasInput = true
}

// ClearInput drops the pending buffer entirely.
func (s *Session) ClearInput() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = ""
	s.hasInput = false
}

// Lines returns a copy of the raw lines accumulated since the last dispatch.
func (s *Session) Lines() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// ClearLines empties the raw-line cache.
func (s *Session) ClearLines() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Reset discards all partial input state after an interrupt.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = ""
	s.hasInput = false
	s.indent = 0
	s.lines = nil
}

// IsBlank reports whether s consists only of whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
