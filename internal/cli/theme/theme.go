// Package theme maps terminal theme names to ANSI styling.
package theme

import (
	"fmt"
	"io"
	"strings"
)

const reset = "\x1b[0m"

// Names of the built-in themes.
const (
	Light = "light"
	Dark  = "dark"
	Dumb  = "dumb"
)

// Theme holds the escape codes used for one colour scheme.
// Empty codes mean no styling.
type Theme struct {
	Name   string
	Prompt string
	Result string
	Error  string
}

var themes = map[string]Theme{
	Light: {Name: Light, Prompt: "\x1b[34m", Result: "\x1b[32m", Error: "\x1b[31m"},
	Dark:  {Name: Dark, Prompt: "\x1b[36m", Result: "\x1b[33m", Error: "\x1b[91m"},
	Dumb:  {Name: Dumb},
}

// Lookup returns the theme called name, falling back to Dumb for unknown names.
func Lookup(name string) Theme {
	if t, ok := themes[strings.ToLower(name)]; ok {
		return t
	}
	return themes[Dumb]
}

// Valid reports whether name is a built-in theme.
func Valid(name string) bool {
	_, ok := themes[strings.ToLower(name)]
	return ok
}

// Names lists the built-in themes.
func Names() []string {
	return []string{Light, Dark, Dumb}
}

// Colorize wraps text in code, or returns it unchanged when code is empty.
func Colorize(code, text string) string {
	if code == "" || text == "" {
		return text
	}
	return code + text + reset
}

// PrintResult writes one evaluation result line.
func (t Theme) PrintResult(w io.Writer, text string) error {
	_, err := fmt.Fprintln(w, Colorize(t.Result, text))
	return err
}

// PrintError writes one error line.
func (t Theme) PrintError(w io.Writer, text string) error {
	_, err := fmt.Fprintln(w, Colorize(t.Error, text))
	return err
}
