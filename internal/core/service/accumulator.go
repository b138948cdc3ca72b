package service

import (
	"context"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/yndnr/replfront/internal/core/domain"
	"github.com/yndnr/replfront/internal/telemetry/logger"
	"github.com/yndnr/replfront/internal/telemetry/metric"
)

// Outcome is the result of feeding one line to the Accumulator.
type Outcome int

const (
	// Continuing means every complete form was dispatched and the buffer is empty.
	Continuing Outcome = iota
	// NeedMoreInput means a partial form is pending; the session prompt is
	// now the continuation prompt.
	NeedMoreInput
	// Exit means the owning loop or connection should terminate.
	Exit
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Continuing:
		return "continuing"
	case NeedMoreInput:
		return "need_more_input"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// DumbTheme is the theme used when evaluating for remote sessions.
const DumbTheme = "dumb"

// AccumulatorConfig wires the Accumulator's collaborators.
type AccumulatorConfig struct {
	Evaluator Evaluator
	Checker   CompletenessChecker
	// Indenter is optional; without it continuation lines are not indented.
	Indenter Indenter
	// History is optional; without it nothing is recorded.
	History  HistoryStore
	Prompter Prompter
	// Theme is passed to the Evaluator for local sessions.
	Theme string
	// Pasting reports whether a paste is in flight. Optional.
	Pasting func() bool
	Logger  logger.Logger
	Metrics *metric.Registry
}

// Accumulator turns raw lines into complete forms and dispatches them.
//
// It holds no per-session state: callers pass the Session, so one
// Accumulator serves the local loop and every socket connection. Callers
// serialise calls through the output lock.
type Accumulator struct {
	evaluator Evaluator
	checker   CompletenessChecker
	indenter  Indenter
	history   HistoryStore
	prompter  Prompter
	pasting   func() bool
	logger    logger.Logger
	metrics   *metric.Registry

	theme    atomic.Value // string
	exitCode atomic.Int32
}

// NewAccumulator creates a new Accumulator.
func NewAccumulator(cfg AccumulatorConfig) *Accumulator {
	l := cfg.Logger
	if l == nil {
		l = logger.Default()
	}
	a := &Accumulator{
		evaluator: cfg.Evaluator,
		checker:   cfg.Checker,
		indenter:  cfg.Indenter,
		history:   cfg.History,
		prompter:  cfg.Prompter,
		pasting:   cfg.Pasting,
		logger:    l.With("component", "accumulator"),
		metrics:   cfg.Metrics,
	}
	a.theme.Store(cfg.Theme)
	return a
}

// Prompter returns the prompt formatter in use.
func (a *Accumulator) Prompter() Prompter {
	return a.prompter
}

// SetTheme changes the theme used for local evaluations.
func (a *Accumulator) SetTheme(theme string) {
	a.theme.Store(theme)
}

// Theme returns the theme used for local evaluations.
func (a *Accumulator) Theme() string {
	theme, _ := a.theme.Load().(string)
	return theme
}

// ExitCode returns the last non-zero exit code reported by the Evaluator, or 0.
func (a *Accumulator) ExitCode() int {
	return int(a.exitCode.Load())
}

// Accumulate feeds one line of input for sess and dispatches every complete
// form it finishes. Synchronous evaluation output goes to out.
func (a *Accumulator) Accumulate(ctx context.Context, sess *domain.Session, line string, out io.Writer) Outcome {
	input := sess.AppendLine(line)

	if domain.IsExitCommand(input, sess.IsRemote()) {
		return Exit
	}

	a.recordHistory(sess, line, input)

	for {
		leftover, complete := a.checker.Check(input)
		if !complete {
			if sess.HistoryPath() != "" && !a.isPasting() && a.indenter != nil {
				sess.SetIndent(a.indenter.IndentSpaceCount(input))
			}
			sess.SetPrompt(a.prompter.Secondary(sess))
			return NeedMoreInput
		}

		form := input[:len(input)-len(leftover)]
		if domain.IsBlank(form) {
			_, _ = io.WriteString(out, "\n")
		} else if code := a.evaluate(ctx, sess, form, out); code != 0 {
			a.exitCode.Store(int32(code))
			sess.ClearInput()
			a.logger.WithContext(ctx).Debug("evaluator requested exit", "exit_code", code)
			return Exit
		}

		sess.ClearLines()
		sess.SetIndent(0)
		if ns, ok := a.evaluator.CurrentNamespace(); ok && ns != "" {
			sess.SetNamespace(ns)
		}
		sess.SetPrompt(a.prompter.Primary(sess))

		if domain.IsBlank(leftover) {
			sess.ClearInput()
			return Continuing
		}
		input = leftover
		sess.SetInput(input)
	}
}

func (a *Accumulator) evaluate(ctx context.Context, sess *domain.Session, form string, out io.Writer) int {
	theme := a.Theme()
	if sess.IsRemote() {
		theme = DumbTheme
	}

	start := time.Now()
	code := a.evaluator.Evaluate(ctx, Request{
		Source:    form,
		Namespace: sess.Namespace(),
		SessionID: sess.ID(),
		Theme:     theme,
		Out:       out,
	})
	a.metrics.ObserveEvaluation(metric.KindOf(sess.ID()), code, time.Since(start))
	return code
}

func (a *Accumulator) recordHistory(sess *domain.Session, line, input string) {
	path := sess.HistoryPath()
	if path == "" || a.history == nil || domain.IsBlank(input) {
		return
	}
	for _, piece := range strings.Split(line, "\n") {
		if piece != "" {
			a.history.Append(piece)
		}
	}
	if err := a.history.Persist(path); err != nil {
		a.logger.Debug("history not persisted", "path", path, "error", err)
	}
}

func (a *Accumulator) isPasting() bool {
	return a.pasting != nil && a.pasting()
}
