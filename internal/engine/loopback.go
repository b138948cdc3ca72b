package engine

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/yndnr/replfront/internal/cli/theme"
	"github.com/yndnr/replfront/internal/core/domain"
	"github.com/yndnr/replfront/internal/core/service"
	"github.com/yndnr/replfront/internal/telemetry/logger"
)

// Emitter receives output produced outside of an evaluation.
type Emitter func(text string) error

// vocabulary seeds completion candidates.
var vocabulary = []string{
	"and", "assoc", "comment", "cond", "conj", "dec", "def", "defn", "do",
	"doseq", "exit", "filter", "first", "fn", "if", "in-ns", "inc", "let",
	"loop", "map", "nil", "ns", "or", "println", "range", "recur", "reduce",
	"rest", "str", "tap>", "when",
}

// Loopback echoes forms and tracks a namespace per session.
type Loopback struct {
	mu         sync.Mutex
	namespaces map[uint64]string
	current    string
	evaluated  bool
	emit       Emitter
	logger     logger.Logger
	wg         sync.WaitGroup
}

var _ service.Evaluator = (*Loopback)(nil)

// NewLoopback creates a Loopback. emit may be nil, in which case tap
// output is dropped.
func NewLoopback(emit Emitter, l logger.Logger) *Loopback {
	if l == nil {
		l = logger.Default()
	}
	return &Loopback{
		namespaces: make(map[uint64]string),
		emit:       emit,
		logger:     l.With("component", "engine"),
	}
}

// Evaluate echoes req.Source to req.Out and returns the exit code the form
// asks for.
func (e *Loopback) Evaluate(ctx context.Context, req service.Request) int {
	if err := ctx.Err(); err != nil {
		return 0
	}

	t := theme.Lookup(req.Theme)
	forms := splitForms(req.Source)

	e.mu.Lock()
	e.current = req.Namespace
	if e.current == "" {
		e.current = domain.DefaultNamespace
	}
	e.evaluated = true
	e.mu.Unlock()

	for _, form := range forms {
		head, args := parseCall(form)
		switch head {
		case "ns", "in-ns":
			ns := strings.TrimPrefix(firstArg(args), "'")
			if ns == "" {
				t.PrintError(req.Out, "Syntax error: "+head+" requires a namespace name")
				continue
			}
			e.setNamespace(req.SessionID, ns)
			t.PrintResult(req.Out, "nil")
		case "exit":
			code, err := strconv.Atoi(firstArg(args))
			if err != nil {
				t.PrintError(req.Out, "exit requires an integer status")
				continue
			}
			e.logger.WithContext(ctx).Debug("exit requested", "exit_code", code)
			return code
		case "tap>":
			t.PrintResult(req.Out, "true")
			e.tap(args)
		default:
			t.PrintResult(req.Out, form)
		}
	}
	return 0
}

// CurrentNamespace returns the namespace of the session evaluated last.
func (e *Loopback) CurrentNamespace() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current, e.evaluated
}

// Namespace returns the namespace recorded for a session.
func (e *Loopback) Namespace(sessionID uint64) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ns, ok := e.namespaces[sessionID]; ok {
		return ns
	}
	return domain.DefaultNamespace
}

// Forget drops the state kept for a closed session.
func (e *Loopback) Forget(sessionID uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.namespaces, sessionID)
}

// Completions returns the known symbols and namespaces starting with prefix.
func (e *Loopback) Completions(prefix string) []string {
	e.mu.Lock()
	seen := make(map[string]struct{}, len(vocabulary)+len(e.namespaces))
	for _, ns := range e.namespaces {
		seen[ns] = struct{}{}
	}
	e.mu.Unlock()
	for _, w := range vocabulary {
		seen[w] = struct{}{}
	}

	var out []string
	for w := range seen {
		if strings.HasPrefix(w, prefix) {
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}

// Wait blocks until pending tap output has been emitted.
func (e *Loopback) Wait() {
	e.wg.Wait()
}

func (e *Loopback) setNamespace(sessionID uint64, ns string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.namespaces[sessionID] = ns
	e.current = ns
}

// tap delivers the value on another goroutine, the way a real engine's
// tap handlers run outside the evaluation.
func (e *Loopback) tap(args string) {
	if e.emit == nil {
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.emit(args + "\n"); err != nil {
			e.logger.Debug("tap output dropped", "error", err)
		}
	}()
}
