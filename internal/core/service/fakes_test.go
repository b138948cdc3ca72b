package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"
)

// parenChecker treats a parenthesised group or a bare token as one form.
type parenChecker struct{}

func (parenChecker) Check(buffer string) (string, bool) {
	i := 0
	for i < len(buffer) && unicode.IsSpace(rune(buffer[i])) {
		i++
	}
	if i == len(buffer) {
		return "", true
	}
	if buffer[i] != '(' {
		for i < len(buffer) && !unicode.IsSpace(rune(buffer[i])) {
			i++
		}
		return buffer[i:], true
	}
	depth := 0
	for ; i < len(buffer); i++ {
		switch buffer[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return buffer[i+1:], true
			}
		}
	}
	return "", false
}

type depthIndenter struct{}

func (depthIndenter) IndentSpaceCount(buffer string) int {
	return 2 * (strings.Count(buffer, "(") - strings.Count(buffer, ")"))
}

// recordingEvaluator records every dispatched request and can be told to
// switch namespace or fail on particular forms.
type recordingEvaluator struct {
	mu       sync.Mutex
	requests []Request
	ns       string
	hasNS    bool
	codes    map[string]int
}

func (e *recordingEvaluator) Evaluate(_ context.Context, req Request) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requests = append(e.requests, req)
	if strings.HasPrefix(req.Source, "(in-ns ") {
		e.ns = strings.TrimSuffix(strings.TrimPrefix(req.Source, "(in-ns "), ")")
		e.hasNS = true
	}
	fmt.Fprintf(req.Out, "=%s\n", req.Source)
	return e.codes[req.Source]
}

func (e *recordingEvaluator) CurrentNamespace() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ns, e.hasNS
}

func (e *recordingEvaluator) sources() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.requests))
	for _, r := range e.requests {
		out = append(out, r.Source)
	}
	return out
}

type memHistory struct {
	lines    []string
	persists []string
	err      error
}

func (h *memHistory) Append(line string) { h.lines = append(h.lines, line) }

func (h *memHistory) Persist(path string) error {
	h.persists = append(h.persists, path)
	return h.err
}

func (h *memHistory) Load(string) ([]string, error) { return h.lines, nil }

var errDiskFull = errors.New("disk full")
