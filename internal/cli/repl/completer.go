package repl

import (
	"sort"
	"strings"

	"github.com/yndnr/replfront/internal/core/domain"
)

// CompletionSource supplies symbol completions, typically the Evaluator.
type CompletionSource interface {
	Completions(prefix string) []string
}

// Completer provides tab completion for the REPL.
type Completer struct {
	keywords []string
	source   CompletionSource
}

// NewCompleter creates a new Completer. source may be nil.
func NewCompleter(source CompletionSource) *Completer {
	return &Completer{
		keywords: []string{domain.QuitToken, "exit", "quit"},
		source:   source,
	}
}

// Complete returns completion suggestions for the given prefix.
func (c *Completer) Complete(prefix string) []string {
	seen := make(map[string]struct{})
	var suggestions []string
	add := func(s string) {
		if _, ok := seen[s]; ok || !strings.HasPrefix(s, prefix) {
			return
		}
		seen[s] = struct{}{}
		suggestions = append(suggestions, s)
	}

	for _, kw := range c.keywords {
		add(kw)
	}
	if c.source != nil {
		for _, s := range c.source.Completions(prefix) {
			add(s)
		}
	}
	sort.Strings(suggestions)
	return suggestions
}

// Do implements readline.AutoCompleter. It completes the word ending at pos
// and returns the missing suffixes together with the word length.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	if pos > len(line) {
		pos = len(line)
	}
	start := pos
	for start > 0 && !isWordBoundary(line[start-1]) {
		start--
	}
	word := string(line[start:pos])
	if word == "" {
		return nil, 0
	}

	var out [][]rune
	for _, s := range c.Complete(word) {
		out = append(out, []rune(strings.TrimPrefix(s, word)))
	}
	return out, len([]rune(word))
}

func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '\n', ',', '(', ')', '[', ']', '{', '}', '"', '\'', '`', '@', '~', '#':
		return true
	}
	return false
}
