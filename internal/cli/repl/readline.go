package repl

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/yndnr/replfront/internal/cli/theme"
)

// pasteChunk is the read size above which input is treated as pasted.
const pasteChunk = 16

// Highlighter reacts to edits in the rich editor.
type Highlighter interface {
	Trigger(line string, pos int)
	Cancel()
}

// RichConfig configures a RichEditor.
type RichConfig struct {
	Stdin  io.ReadCloser
	Stdout io.Writer
	Stderr io.Writer
	// Completer may be nil.
	Completer *Completer
	// Highlighter may be nil.
	Highlighter  Highlighter
	HistoryLimit int
}

// RichEditor is a LineEditor over chzyer/readline with completion,
// bracket highlighting and paste detection.
type RichEditor struct {
	rl      *readline.Instance
	stdin   *pasteDetector
	pasting atomic.Bool
}

var (
	_ LineEditor    = (*RichEditor)(nil)
	_ HistoryLoader = (*RichEditor)(nil)
)

// NewRichEditor creates a RichEditor.
func NewRichEditor(cfg RichConfig) (*RichEditor, error) {
	if cfg.Stdin == nil {
		cfg.Stdin = readline.NewCancelableStdin(os.Stdin)
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}

	e := &RichEditor{}
	e.stdin = &pasteDetector{src: cfg.Stdin, pasting: &e.pasting}

	rcfg := &readline.Config{
		Stdin:             e.stdin,
		Stdout:            cfg.Stdout,
		Stderr:            cfg.Stderr,
		HistoryLimit:      cfg.HistoryLimit,
		HistorySearchFold: true,
		InterruptPrompt:   "^C",
	}
	if cfg.Completer != nil {
		rcfg.AutoComplete = cfg.Completer
	}
	if h := cfg.Highlighter; h != nil {
		rcfg.FuncFilterInputRune = func(r rune) (rune, bool) {
			h.Cancel()
			return r, true
		}
		rcfg.Listener = readline.FuncListener(func(line []rune, pos int, key rune) ([]rune, int, bool) {
			if pos > 0 && pos <= len(line) && line[pos-1] == key {
				h.Trigger(string(line), pos-1)
			}
			return nil, 0, false
		})
	}

	rl, err := readline.NewEx(rcfg)
	if err != nil {
		return nil, err
	}
	e.rl = rl
	return e, nil
}

// ReadLine implements LineEditor.
func (e *RichEditor) ReadLine(prompt, themeCode string, indent int) (string, error) {
	e.rl.SetPrompt(theme.Colorize(themeCode, prompt))
	if indent > 0 {
		if _, err := e.rl.WriteStdin([]byte(strings.Repeat(" ", indent))); err != nil {
			return "", err
		}
	}

	line, err := e.rl.Readline()
	switch err {
	case nil:
		return line, nil
	case readline.ErrInterrupt:
		return "", ErrInterrupted
	default:
		return "", err
	}
}

// Output returns readline's writer, which reprints the prompt below
// anything written while a read is in progress.
func (e *RichEditor) Output() io.Writer {
	return e.rl.Stdout()
}

// LoadHistory seeds the in-memory recall list.
func (e *RichEditor) LoadHistory(entries []string) {
	for _, entry := range entries {
		_ = e.rl.SaveHistory(entry)
	}
}

// Pasting reports whether the last chunk read from the terminal looked like a paste.
func (e *RichEditor) Pasting() bool {
	return e.pasting.Load()
}

// Close implements LineEditor.
func (e *RichEditor) Close() error {
	return e.rl.Close()
}

// pasteDetector flags reads larger than a keystroke burst.
type pasteDetector struct {
	src     io.ReadCloser
	pasting *atomic.Bool
}

func (p *pasteDetector) Read(b []byte) (int, error) {
	n, err := p.src.Read(b)
	if n > 0 {
		p.pasting.Store(n > pasteChunk)
	}
	return n, err
}

func (p *pasteDetector) Close() error {
	return p.src.Close()
}

// IsTerminal reports whether both stdin and stdout are terminals.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the width of stdout in columns.
func TerminalWidth() (int, error) {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	return w, err
}
