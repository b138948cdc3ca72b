package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/yndnr/replfront/internal/cli/config"
	"github.com/yndnr/replfront/internal/cli/highlight"
	"github.com/yndnr/replfront/internal/cli/repl"
	"github.com/yndnr/replfront/internal/core/domain"
	"github.com/yndnr/replfront/internal/core/output"
	"github.com/yndnr/replfront/internal/core/service"
	"github.com/yndnr/replfront/internal/engine"
	"github.com/yndnr/replfront/internal/infra/confloader"
	"github.com/yndnr/replfront/internal/infra/shutdown"
	"github.com/yndnr/replfront/internal/reader"
	"github.com/yndnr/replfront/internal/server/httpserver"
	"github.com/yndnr/replfront/internal/server/socketrepl"
	"github.com/yndnr/replfront/internal/telemetry/logger"
	"github.com/yndnr/replfront/internal/telemetry/metric"
)

// shutdownTimeout bounds the teardown hooks.
const shutdownTimeout = 5 * time.Second

// Options are the inputs of Run.
type Options struct {
	Config *config.Config

	// ConfigPath is watched for live theme and log level changes.
	// Empty disables the watcher.
	ConfigPath string

	// Overrides are reapplied when the watched file is reloaded.
	Overrides map[string]any

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Interactive selects the rich line editor unless the configuration
	// asks for a dumb terminal.
	Interactive bool
}

// runtime holds the components of one Run.
type runtime struct {
	opts    Options
	cfg     *config.Config
	logger  logger.Logger
	metrics *metric.Registry
	out     *output.Synchronizer
	engine  *engine.Loopback
	session *domain.Session
	acc     *service.Accumulator
	history *repl.History
	editor  repl.LineEditor
	socket  *socketrepl.Server
	fatal   chan int
	hooks   *shutdown.Handler
	closers []io.Closer
}

// Run starts the local REPL and, when configured, the socket REPL and the
// metrics endpoint. It returns the exit code the evaluator reported,
// either for the local session or for a remote session that asked the
// process to exit.
func Run(ctx context.Context, opts Options) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rt := &runtime{
		opts:    opts,
		cfg:     opts.Config,
		metrics: metric.NewRegistry(),
		fatal:   make(chan int, 1),
		hooks:   shutdown.NewHandler(shutdownTimeout),
	}
	defer rt.close()

	if err := rt.setupLogger(); err != nil {
		return 1, err
	}
	if err := rt.setupCore(); err != nil {
		return 1, err
	}
	rt.setupSocket(ctx)
	rt.setupMetrics()
	rt.setupWatcher()

	stop := rt.hooks.Watch(ctx, func(sig os.Signal) {
		rt.logger.Info("signal received, shutting down", "signal", sig.String())
	})
	defer stop()

	code, err := rt.runLocal(ctx)
	if serr := rt.hooks.Shutdown(); serr != nil {
		rt.logger.Warn("shutdown hooks failed", "error", serr)
	}
	rt.engine.Wait()
	return code, err
}

func (rt *runtime) setupLogger() error {
	out := rt.opts.Stderr
	if rt.cfg.Log.File != "" {
		f, err := os.OpenFile(rt.cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		rt.closers = append(rt.closers, f)
		out = f
	}

	l, err := logger.New(logger.Config{
		Level:  rt.cfg.Log.Level,
		Format: rt.cfg.Log.Format,
		Output: out,
	})
	if err != nil {
		return err
	}
	logger.SetDefault(l)
	rt.logger = l
	return nil
}

func (rt *runtime) setupCore() error {
	cfg := rt.cfg.REPL

	rt.out = output.New(rt.opts.Stdout, rt.metrics)
	rt.engine = engine.NewLoopback(rt.out.Emit, rt.logger)

	historyPath := ""
	if !cfg.DumbTerminal {
		historyPath = cfg.HistoryFile
		if historyPath == "" {
			historyPath = repl.DefaultHistoryPath()
		}
	}
	rt.session = domain.NewSession(0, historyPath)

	themeName := cfg.Theme
	if cfg.DumbTerminal {
		themeName = service.DumbTheme
	}

	var pasting func() bool
	if rt.opts.Interactive && !cfg.DumbTerminal {
		hl := highlight.New(highlight.Config{
			Matcher: reader.NewBracketMatcher(),
			Out:     rt.out.TerminalWriter(),
			Session: func() *domain.Session { return rt.session },
			Width:   repl.TerminalWidth,
			Delay:   cfg.HighlightDelay,
			Logger:  rt.logger,
			Metrics: rt.metrics,
		})
		rich, err := repl.NewRichEditor(repl.RichConfig{
			Stdout:       rt.opts.Stdout,
			Stderr:       rt.opts.Stderr,
			Completer:    repl.NewCompleter(rt.engine),
			Highlighter:  hl,
			HistoryLimit: repl.DefaultHistorySize,
		})
		if err != nil {
			return fmt.Errorf("start line editor: %w", err)
		}
		rt.editor = rich
		pasting = rich.Pasting
	} else {
		rt.editor = repl.NewPlainEditor(rt.opts.Stdin, rt.opts.Stdout)
	}

	checker := reader.NewChecker()
	rt.history = repl.NewHistory(repl.DefaultHistorySize)
	rt.acc = service.NewAccumulator(service.AccumulatorConfig{
		Evaluator: rt.engine,
		Checker:   checker,
		Indenter:  checker,
		History:   rt.history,
		Prompter:  service.Prompter{DumbTerminal: cfg.DumbTerminal},
		Theme:     themeName,
		Pasting:   pasting,
		Logger:    rt.logger,
		Metrics:   rt.metrics,
	})

	rt.hooks.OnShutdown(func(context.Context) error {
		return rt.editor.Close()
	})
	return nil
}

// setupSocket starts the socket REPL. A bind failure is reported and the
// local REPL continues without it.
func (rt *runtime) setupSocket(ctx context.Context) {
	sc := rt.cfg.Socket
	if !sc.Enabled() {
		return
	}

	srv := socketrepl.New(&socketrepl.Config{
		Host:         sc.Host,
		Port:         sc.Port,
		IdleTimeout:  sc.IdleTimeout,
		WriteTimeout: sc.WriteTimeout,
		RateLimit:    sc.RateLimit,
		MaxLineBytes: sc.MaxLineBytes,
		Quiet:        rt.cfg.REPL.Quiet,
	}, rt.acc, rt.out,
		socketrepl.WithLogger(rt.logger),
		socketrepl.WithMetrics(rt.metrics),
		socketrepl.WithFatalHandler(rt.onFatal),
		socketrepl.WithSessionCloseHandler(rt.engine.Forget),
	)
	if err := srv.Start(ctx); err != nil {
		rt.logger.Info("socket REPL disabled", "code", domain.GetErrorCode(err), "error", err)
		fmt.Fprintf(rt.opts.Stderr, "error: %v\n", err)
		return
	}

	rt.socket = srv
	rt.metrics.MustRegister(metric.NewCollector(srv.ConnectionCount))
	rt.hooks.OnShutdown(srv.Shutdown)
}

// onFatal runs when a remote session's evaluation asks the process to exit.
func (rt *runtime) onFatal(code int) {
	select {
	case rt.fatal <- code:
	default:
	}
	_ = rt.editor.Close()
}

func (rt *runtime) setupMetrics() {
	addr := rt.cfg.Metrics.Addr
	if addr == "" {
		return
	}

	srv := httpserver.New(addr, httpserver.NewRouter(&httpserver.RouterConfig{
		Metrics:  rt.metrics.Handler(),
		Sessions: rt.sessionCount,
		Logger:   rt.logger,
	}), rt.logger)
	if err := srv.Start(); err != nil {
		rt.logger.Error("metrics endpoint not started", "addr", addr, "error", err)
		return
	}
	rt.hooks.OnShutdown(srv.Shutdown)
}

func (rt *runtime) sessionCount() int {
	n := 1
	if rt.socket != nil {
		n += rt.socket.ConnectionCount()
	}
	return n
}

// setupWatcher reapplies theme and log level when the config file changes.
func (rt *runtime) setupWatcher() {
	path := rt.opts.ConfigPath
	if path == "" {
		return
	}

	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(rt.logger))
	if err != nil {
		rt.logger.Debug("config watcher unavailable", "error", err)
		return
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return
	}

	w.OnChange(func(string) { rt.reload(path) })
	w.StartAsync()
	rt.hooks.OnShutdown(func(context.Context) error {
		return w.Stop()
	})
}

func (rt *runtime) reload(path string) {
	cfg, err := config.Load(path, rt.opts.Overrides)
	if err != nil {
		rt.logger.Warn("configuration not reloaded", "path", path, "error", err)
		return
	}
	if !rt.cfg.REPL.DumbTerminal {
		rt.acc.SetTheme(cfg.REPL.Theme)
	}
	prev := logger.Level()
	logger.SetLevel(cfg.Log.Level)
	if cur := logger.Level(); cur != prev {
		rt.logger.Info("log level changed", "from", prev, "to", cur)
	}
	rt.logger.Info("configuration reloaded", "theme", cfg.REPL.Theme)
}

// runLocal runs the local REPL until it ends, a remote session requests
// exit or shutdown completes. SIGINT is held back from the default
// handler meanwhile and only ever cancels the line being read.
func (rt *runtime) runLocal(ctx context.Context) (int, error) {
	type result struct {
		code int
		err  error
	}

	sigs, stopSigs := shutdown.Interrupts()
	defer stopSigs()

	r := repl.New(repl.Config{
		Session:        rt.session,
		Accumulator:    rt.acc,
		Editor:         rt.editor,
		Output:         rt.out,
		History:        rt.history,
		PasteThreshold: rt.cfg.REPL.PasteThreshold,
		PacingDelay:    rt.cfg.REPL.PacingDelay,
		Interrupts:     sigs,
		Logger:         rt.logger,
		Metrics:        rt.metrics,
	})

	done := make(chan result, 1)
	go func() {
		code, err := r.Run(ctx)
		done <- result{code, err}
	}()

	select {
	case res := <-done:
		return res.code, res.err
	case code := <-rt.fatal:
		return code, nil
	case <-rt.hooks.Done():
		return rt.acc.ExitCode(), nil
	}
}

func (rt *runtime) close() {
	for _, c := range rt.closers {
		_ = c.Close()
	}
}
