package highlight

import (
	"fmt"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/yndnr/replfront/internal/core/domain"
	"github.com/yndnr/replfront/internal/telemetry/logger"
	"github.com/yndnr/replfront/internal/telemetry/metric"
)

// DefaultDelay is how long the cursor rests on the matching bracket.
const DefaultDelay = 500 * time.Millisecond

// defaultWidth is assumed when the terminal width is unknown.
const defaultWidth = 80

// BracketMatcher finds the opener for the closer at line[pos].
type BracketMatcher interface {
	Locate(prev []string, line string, pos int) (up, col int, ok bool)
}

// Stopper cancels a scheduled callback.
type Stopper interface {
	Stop() bool
}

// TimerService runs fn once after d.
type TimerService interface {
	Schedule(d time.Duration, fn func()) Stopper
}

// RealTimers schedules callbacks with time.AfterFunc.
type RealTimers struct{}

// Schedule implements TimerService.
func (RealTimers) Schedule(d time.Duration, fn func()) Stopper {
	return time.AfterFunc(d, fn)
}

// RestoreRequest describes how to undo one cursor hop.
type RestoreRequest struct {
	ID            uint64
	LinesUp       int
	RelativeHoriz int
}

// Config wires an Engine.
type Config struct {
	Matcher BracketMatcher
	Timers  TimerService
	// Out receives cursor movement sequences; it must serialise with other
	// terminal output.
	Out io.Writer
	// Session supplies the local session whose raw lines and prompt the
	// cursor arithmetic uses.
	Session func() *domain.Session
	// Width reports the terminal width in columns; 0 or an error means 80.
	Width   func() (int, error)
	Delay   time.Duration
	Logger  logger.Logger
	Metrics *metric.Registry
}

// Engine drives matching-bracket cursor hops.
type Engine struct {
	matcher BracketMatcher
	timers  TimerService
	out     io.Writer
	session func() *domain.Session
	width   func() (int, error)
	delay   time.Duration
	logger  logger.Logger
	metrics *metric.Registry

	mu      sync.Mutex
	seq     domain.Sequence
	pending *RestoreRequest
	timer   Stopper
}

// New creates an Engine.
func New(cfg Config) *Engine {
	if cfg.Timers == nil {
		cfg.Timers = RealTimers{}
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	return &Engine{
		matcher: cfg.Matcher,
		timers:  cfg.Timers,
		out:     cfg.Out,
		session: cfg.Session,
		width:   cfg.Width,
		delay:   cfg.Delay,
		logger:  cfg.Logger.With("component", "highlight"),
		metrics: cfg.Metrics,
	}
}

// Trigger hops the cursor to the opener of the closer at rune index pos of
// line, the line being edited, and schedules the hop back. Anything other
// than ')', ']' or '}' at pos is ignored.
func (e *Engine) Trigger(line string, pos int) {
	runes := []rune(line)
	if pos < 0 || pos >= len(runes) {
		return
	}
	switch runes[pos] {
	case ')', ']', '}':
	default:
		return
	}

	sess := e.session()
	linesUp, hl, ok := e.matcher.Locate(sess.Lines(), line, pos)
	if !ok {
		return
	}

	req, ok := hop(linesUp, hl, pos+1, utf8.RuneCountInString(sess.Prompt()), e.terminalWidth())
	if !ok {
		return
	}

	e.write(moveSequence(req.LinesUp, req.RelativeHoriz, false))

	e.mu.Lock()
	req.ID = e.seq.Next()
	e.pending = &req
	e.timer = e.timers.Schedule(e.delay, func() { e.restore(req.ID) })
	e.mu.Unlock()
}

// Cancel runs the pending restore now, if there is one.
func (e *Engine) Cancel() {
	e.mu.Lock()
	req := e.pending
	e.pending = nil
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.mu.Unlock()

	if req == nil {
		return
	}
	e.write(moveSequence(req.LinesUp, req.RelativeHoriz, true))
	e.metrics.HighlightRestore(true)
}

// Pending returns the restore waiting to run.
func (e *Engine) Pending() (RestoreRequest, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return RestoreRequest{}, false
	}
	return *e.pending, true
}

func (e *Engine) restore(id uint64) {
	e.mu.Lock()
	req := e.pending
	if req == nil || req.ID != id {
		e.mu.Unlock()
		e.metrics.HighlightRestore(false)
		return
	}
	e.pending = nil
	e.timer = nil
	e.mu.Unlock()

	e.write(moveSequence(req.LinesUp, req.RelativeHoriz, true))
	e.metrics.HighlightRestore(true)
}

func (e *Engine) write(seq string) {
	if seq == "" {
		return
	}
	if _, err := io.WriteString(e.out, seq); err != nil {
		e.logger.Debug("cursor move failed", "error", err)
	}
}

func (e *Engine) terminalWidth() int {
	if e.width == nil {
		return defaultWidth
	}
	w, err := e.width()
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// hop computes the cursor movement from the cursor (one past the closer)
// to the opener at column hl, linesUp lines above, correcting for lines the
// terminal has wrapped. ok is false when the line is too long for the
// correction to hold.
func hop(linesUp, hl, cursor, promptLen, width int) (RestoreRequest, bool) {
	rel := hl - cursor
	cursorAbs := cursor + promptLen + 1
	hlAbs := hl + promptLen

	if cursorAbs > width && -rel >= cursorAbs%width {
		rel = (rel + width) % width
		linesUp += 1 + (width*(cursorAbs/width)-hlAbs)/width
	}

	if cursorAbs > 3*width-promptLen {
		return RestoreRequest{}, false
	}
	return RestoreRequest{LinesUp: linesUp, RelativeHoriz: rel}, true
}

// moveSequence renders a hop, or its inverse when back is true.
func moveSequence(linesUp, rel int, back bool) string {
	var s string
	if linesUp != 0 {
		dir := 'A'
		if back {
			dir = 'B'
		}
		s += fmt.Sprintf("\x1b[%d%c", linesUp, dir)
	}
	if back {
		rel = -rel
	}
	switch {
	case rel < 0:
		s += fmt.Sprintf("\x1b[%dD", -rel)
	case rel > 0:
		s += fmt.Sprintf("\x1b[%dC", rel)
	}
	return s
}
