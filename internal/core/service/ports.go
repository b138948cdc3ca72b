package service

import (
	"context"
	"io"
)

// Request is one dispatch of a complete form to the Evaluator.
type Request struct {
	// Source is the complete form text (never blank).
	Source string
	// Namespace is the session's namespace at dispatch time.
	Namespace string
	// SessionID is 0 for the local session, positive for remote ones.
	SessionID uint64
	// Theme selects ANSI styling for printed results ("dumb" for remote sessions).
	Theme string
	// Out receives the evaluation's synchronous output.
	Out io.Writer
}

// Evaluator evaluates complete forms. It is an external collaborator.
type Evaluator interface {
	// Evaluate runs one form and returns the process exit code it requests;
	// 0 means keep going.
	Evaluate(ctx context.Context, req Request) int

	// CurrentNamespace reports the namespace after the last evaluation,
	// if the evaluator knows it.
	CurrentNamespace() (string, bool)
}

// CompletenessChecker decides whether a buffer starts with a complete form.
type CompletenessChecker interface {
	// Check returns the unread suffix following the first complete form and
	// true, or false when the buffer does not yet hold a complete form.
	Check(buffer string) (leftover string, ok bool)
}

// Indenter computes the indentation for the next continuation line.
type Indenter interface {
	IndentSpaceCount(buffer string) int
}

// HistoryStore records entered lines for recall across sessions.
type HistoryStore interface {
	Append(line string)
	Persist(path string) error
	Load(path string) ([]string, error)
}
