package repl

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInterrupted is returned by LineEditor.ReadLine when the user presses Ctrl-C.
var ErrInterrupted = errors.New("repl: interrupted")

// LineEditor reads one line of input. End of input is reported as io.EOF.
type LineEditor interface {
	// ReadLine shows prompt, coloured with themeCode where supported,
	// pre-fills indent spaces and returns the entered text.
	ReadLine(prompt, themeCode string, indent int) (string, error)
	// Output is where asynchronous output goes while a read is in progress.
	Output() io.Writer
	Close() error
}

// HistoryLoader is implemented by editors that offer history recall.
type HistoryLoader interface {
	LoadHistory(entries []string)
}

// Interruptible is implemented by editors that see Ctrl-C as SIGINT
// rather than as a key. Interrupt makes a ReadLine in progress return
// ErrInterrupted and reports whether there was one.
type Interruptible interface {
	Interrupt() bool
}

type readResult struct {
	line string
	err  error
}

// PlainEditor reads lines from a stream and prints prompts verbatim.
// It is used for dumb terminals and piped input.
type PlainEditor struct {
	in  *bufio.Reader
	out io.Writer

	start     sync.Once
	lines     chan readResult
	done      chan struct{}
	closeOnce sync.Once
	err       error

	mu        sync.Mutex
	waiting   bool
	interrupt chan struct{}
}

var (
	_ LineEditor    = (*PlainEditor)(nil)
	_ Interruptible = (*PlainEditor)(nil)
)

// NewPlainEditor creates a PlainEditor.
func NewPlainEditor(in io.Reader, out io.Writer) *PlainEditor {
	return &PlainEditor{
		in:        bufio.NewReader(in),
		out:       out,
		lines:     make(chan readResult),
		done:      make(chan struct{}),
		interrupt: make(chan struct{}, 1),
	}
}

// ReadLine prints prompt and waits for the next line. A final line
// without a newline is returned before io.EOF. At end of input a newline
// is printed so the prompt line is terminated.
func (e *PlainEditor) ReadLine(prompt, _ string, _ int) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	e.start.Do(func() { go e.readLoop() })

	e.mu.Lock()
	e.waiting = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.waiting = false
		select {
		case <-e.interrupt:
		default:
		}
		e.mu.Unlock()
	}()

	if prompt != "" {
		if _, err := io.WriteString(e.out, prompt); err != nil {
			return "", err
		}
	}

	select {
	case res := <-e.lines:
		if res.err != nil {
			e.err = res.err
			if res.err == io.EOF {
				_, _ = io.WriteString(e.out, "\n")
			}
			return "", res.err
		}
		return res.line, nil
	case <-e.interrupt:
		return "", ErrInterrupted
	case <-e.done:
		return "", io.EOF
	}
}

// readLoop owns the input stream so that a read blocked on it can be
// abandoned by Interrupt without losing the line that eventually arrives.
func (e *PlainEditor) readLoop() {
	for {
		line, err := e.in.ReadString('\n')
		if line != "" && (err == nil || err == io.EOF) {
			line = strings.TrimSuffix(line, "\n")
			if !e.send(readResult{line: strings.TrimSuffix(line, "\r")}) {
				return
			}
		}
		if err != nil {
			e.send(readResult{err: err})
			return
		}
	}
}

func (e *PlainEditor) send(res readResult) bool {
	select {
	case e.lines <- res:
		return true
	case <-e.done:
		return false
	}
}

// Interrupt implements Interruptible.
func (e *PlainEditor) Interrupt() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.waiting {
		return false
	}
	select {
	case e.interrupt <- struct{}{}:
	default:
	}
	return true
}

// Output returns the stream prompts are written to.
func (e *PlainEditor) Output() io.Writer {
	return e.out
}

// Close makes pending and later reads report io.EOF.
func (e *PlainEditor) Close() error {
	e.closeOnce.Do(func() { close(e.done) })
	return nil
}
