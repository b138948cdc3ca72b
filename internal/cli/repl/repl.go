package repl

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/yndnr/replfront/internal/cli/theme"
	"github.com/yndnr/replfront/internal/core/domain"
	"github.com/yndnr/replfront/internal/core/output"
	"github.com/yndnr/replfront/internal/core/service"
	"github.com/yndnr/replfront/internal/telemetry/logger"
	"github.com/yndnr/replfront/internal/telemetry/metric"
)

const (
	// DefaultPasteThreshold is the input size at or above which a read is
	// fed to the accumulator whole instead of line by line.
	DefaultPasteThreshold = 16384

	// DefaultPacingDelay is slept before each read so that output from the
	// previous evaluation settles first.
	DefaultPacingDelay = time.Millisecond
)

// Config wires a REPL.
type Config struct {
	Session     *domain.Session
	Accumulator *service.Accumulator
	Editor      LineEditor
	Output      *output.Synchronizer
	// History is loaded into the editor at start when the session persists history.
	History service.HistoryStore
	// PasteThreshold of 0 selects DefaultPasteThreshold.
	PasteThreshold int
	// PacingDelay of 0 disables pacing.
	PacingDelay time.Duration
	// Interrupts delivers SIGINT while Run is in progress. Optional.
	Interrupts <-chan os.Signal
	Logger     logger.Logger
	Metrics    *metric.Registry
}

// REPL is the local terminal loop.
type REPL struct {
	session        *domain.Session
	acc            *service.Accumulator
	editor         LineEditor
	out            *output.Synchronizer
	history        service.HistoryStore
	pasteThreshold int
	pacingDelay    time.Duration
	interrupts     <-chan os.Signal
	logger         logger.Logger
	metrics        *metric.Registry
}

// New creates a new REPL instance.
func New(cfg Config) *REPL {
	if cfg.PasteThreshold <= 0 {
		cfg.PasteThreshold = DefaultPasteThreshold
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	return &REPL{
		session:        cfg.Session,
		acc:            cfg.Accumulator,
		editor:         cfg.Editor,
		out:            cfg.Output,
		history:        cfg.History,
		pasteThreshold: cfg.PasteThreshold,
		pacingDelay:    cfg.PacingDelay,
		interrupts:     cfg.Interrupts,
		logger:         cfg.Logger.With("component", "repl"),
		metrics:        cfg.Metrics,
	}
}

// Session returns the local session.
func (r *REPL) Session() *domain.Session {
	return r.session
}

// Run reads and dispatches input until end of input, an exit command or
// ctx is cancelled. It returns the exit code the evaluator last reported.
func (r *REPL) Run(ctx context.Context) (int, error) {
	ctx = logger.WithSessionID(ctx, r.session.ID())

	if r.interrupts != nil {
		stop := make(chan struct{})
		defer close(stop)
		go r.forwardInterrupts(ctx, stop)
	}

	r.metrics.SessionOpened(metric.KindLocal)
	defer r.metrics.SessionClosed(metric.KindLocal)

	r.session.SetPrompt(r.acc.Prompter().Primary(r.session))
	r.loadHistory(ctx)

	for {
		if err := r.pace(ctx); err != nil {
			return r.acc.ExitCode(), err
		}

		r.out.SetRoute(r.editor.Output())
		line, err := r.editor.ReadLine(r.session.Prompt(), r.promptCode(), r.session.Indent())

		release := r.out.Acquire(nil)
		switch {
		case err == nil:
			outcome := r.feed(ctx, line)
			release()
			if outcome == service.Exit {
				return r.acc.ExitCode(), nil
			}
		case errors.Is(err, ErrInterrupted):
			r.session.Reset()
			r.session.SetPrompt(r.acc.Prompter().Primary(r.session))
			_, _ = io.WriteString(r.out.Terminal(), "\n")
			release()
		case errors.Is(err, io.EOF):
			release()
			return r.acc.ExitCode(), nil
		default:
			release()
			return r.acc.ExitCode(), err
		}
	}
}

// feed hands one read to the accumulator. Callers hold the output lock.
func (r *REPL) feed(ctx context.Context, input string) service.Outcome {
	term := r.out.Terminal()

	if len(input) >= r.pasteThreshold {
		return r.acc.Accumulate(ctx, r.session, input, term)
	}

	// An empty line continues a pending form; otherwise empty lines are
	// dropped.
	if input == "" && r.session.HasInput() {
		return r.acc.Accumulate(ctx, r.session, input, term)
	}

	outcome := service.Continuing
	for _, line := range strings.Split(input, "\n") {
		if line == "" {
			continue
		}
		outcome = r.acc.Accumulate(ctx, r.session, line, term)
		if outcome == service.Exit {
			return outcome
		}
	}
	return outcome
}

// forwardInterrupts cuts short a read in progress on SIGINT. A signal
// arriving during evaluation or pacing is dropped.
func (r *REPL) forwardInterrupts(ctx context.Context, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-r.interrupts:
			if ir, ok := r.editor.(Interruptible); ok && ir.Interrupt() {
				continue
			}
			r.logger.WithContext(ctx).Debug("interrupt ignored outside a read")
		}
	}
}

func (r *REPL) pace(ctx context.Context) error {
	if r.pacingDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.pacingDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *REPL) promptCode() string {
	return theme.Lookup(r.acc.Theme()).Prompt
}

func (r *REPL) loadHistory(ctx context.Context) {
	path := r.session.HistoryPath()
	if path == "" || r.history == nil {
		return
	}
	entries, err := r.history.Load(path)
	if err != nil {
		r.logger.WithContext(ctx).Debug("history not loaded", "path", path, "error", err)
		return
	}
	if hl, ok := r.editor.(HistoryLoader); ok {
		hl.LoadHistory(entries)
	}
}
