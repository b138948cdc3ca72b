package socketrepl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/replfront/internal/core/domain"
	"github.com/yndnr/replfront/internal/core/output"
	"github.com/yndnr/replfront/internal/core/service"
	"github.com/yndnr/replfront/internal/telemetry/logger"
	"github.com/yndnr/replfront/internal/telemetry/metric"
	"github.com/yndnr/replfront/pkg/cmap"
)

// Config holds the socket REPL server configuration.
type Config struct {
	// Host is the address to bind.
	Host string
	// Port is the TCP port; 0 picks a free port.
	Port int
	// IdleTimeout closes connections that send nothing for this long.
	// Zero disables it.
	IdleTimeout time.Duration
	// WriteTimeout bounds each write to a client.
	WriteTimeout time.Duration
	// RateLimit is the maximum number of lines per second per connection.
	// Set to 0 to disable rate limiting.
	RateLimit int
	// MaxLineBytes closes connections that send longer lines.
	MaxLineBytes int
	// Quiet suppresses the listening banner.
	Quiet bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:         "localhost",
		Port:         0,
		IdleTimeout:  0,
		WriteTimeout: 10 * time.Second,
		RateLimit:    0,
		MaxLineBytes: 1 << 20,
	}
}

// Address returns host:port.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithFatalHandler sets the callback run once when an evaluation on any
// connection reports a non-zero exit code. All connections are closed
// before it runs.
func WithFatalHandler(fn func(code int)) Option {
	return func(s *Server) {
		s.onFatal = fn
	}
}

// WithSessionCloseHandler sets a callback run after a connection's session ends.
func WithSessionCloseHandler(fn func(sessionID uint64)) Option {
	return func(s *Server) {
		s.onSessionClose = fn
	}
}

// Server accepts socket REPL connections.
type Server struct {
	cfg     *Config
	acc     *service.Accumulator
	out     *output.Synchronizer
	seq     *domain.Sequence
	logger  logger.Logger
	metrics *metric.Registry

	onFatal        func(code int)
	onSessionClose func(sessionID uint64)
	fatalOnce      sync.Once

	ln      net.Listener
	conns   *cmap.Map[uint64, *Conn]
	running atomic.Bool
	wg      sync.WaitGroup
}

// New creates a new socket REPL server.
func New(cfg *Config, acc *service.Accumulator, out *output.Synchronizer, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Server{
		cfg:    cfg,
		acc:    acc,
		out:    out,
		logger: logger.Default(),
		seq:    &domain.Sequence{},
		conns:  cmap.New[uint64, *Conn](),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "socketrepl")
	return s
}

// Start binds the listener, announces it and starts accepting in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return domain.ErrListen.WithDetails(s.cfg.Address()).WithCause(err)
	}
	s.ln = ln
	s.running.Store(true)

	s.logger.Info("socket REPL listening", "address", ln.Addr().String())
	if !s.cfg.Quiet {
		_ = s.out.Emit(fmt.Sprintf("socket REPL listening at %s:%d.\n", s.cfg.Host, s.Port()))
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
			s.logger.Error("socket REPL accept error", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Port returns the bound port, which differs from the configured one when
// that was 0.
func (s *Server) Port() int {
	if addr, ok := s.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return s.cfg.Port
}

// ConnectionCount returns the number of open connections.
func (s *Server) ConnectionCount() int {
	return s.conns.Count()
}

// CloseAll closes every open connection.
func (s *Server) CloseAll() {
	for _, c := range s.conns.Values() {
		_ = c.Close()
	}
}

// Shutdown stops accepting, closes all connections and waits for their
// handlers to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}
	s.CloseAll()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		c, err := ln.Accept()
		if err != nil {
			if !s.running.Load() {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, c)
		}()
	}
}

func (s *Server) serveConn(ctx context.Context, nc net.Conn) {
	sess := domain.NewSession(s.seq.Next(), "")
	c := newConn(nc, strings.ToLower(ulid.Make().String()), sess, s.cfg.WriteTimeout)

	s.conns.Set(sess.ID(), c)
	s.metrics.SessionOpened(metric.KindRemote)

	ctx = logger.WithSessionID(ctx, sess.ID())
	ctx = logger.WithConnID(ctx, c.ID())
	log := s.logger.WithContext(ctx)
	log.Debug("connection accepted", "remote", c.RemoteAddr().String())

	defer func() {
		s.conns.Pop(sess.ID())
		_ = c.Close()
		s.metrics.SessionClosed(metric.KindRemote)
		if s.onSessionClose != nil {
			s.onSessionClose(sess.ID())
		}
		log.Debug("connection closed", "duration", time.Since(sess.CreatedAt()))
	}()

	sess.SetPrompt(s.acc.Prompter().Primary(sess))
	if _, err := io.WriteString(c, sess.Prompt()); err != nil {
		s.metrics.ConnectionError("write")
		return
	}

	var limiter *rate.Limiter
	if s.cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateLimit)
	}

	for {
		if s.cfg.IdleTimeout > 0 {
			if err := nc.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)); err != nil {
				return
			}
		}

		line, err := readLine(c.br, s.cfg.MaxLineBytes)
		if err != nil {
			s.readFailed(log, c, err)
			return
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
		}

		outcome := s.process(ctx, c, line)
		if c.WriteFailed() {
			s.metrics.ConnectionError("write")
			return
		}
		if outcome == service.Exit {
			if code := s.acc.ExitCode(); code != 0 {
				s.fatal(code)
			}
			return
		}

		if prompt := sess.Prompt(); prompt != "" {
			if _, err := io.WriteString(c, prompt); err != nil {
				s.metrics.ConnectionError("write")
				return
			}
		}
	}
}

// process runs one line under the output lock with c as the route.
func (s *Server) process(ctx context.Context, c *Conn, line string) service.Outcome {
	release := s.out.Acquire(c)
	defer release()
	return s.acc.Accumulate(ctx, c.session, line, c)
}

func (s *Server) readFailed(log logger.Logger, c *Conn, err error) {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed), c.Closed():
	case errors.Is(err, domain.ErrLineTooLong):
		log.Warn("line limit exceeded", "remote", c.RemoteAddr().String())
		s.metrics.ConnectionError("line_too_long")
	case errors.As(err, &netErr) && netErr.Timeout():
		log.Debug("connection timed out", "remote", c.RemoteAddr().String())
		s.metrics.ConnectionError("idle_timeout")
	default:
		log.Debug("connection read error", "error", err)
		s.metrics.ConnectionError("read")
	}
}

func (s *Server) fatal(code int) {
	s.fatalOnce.Do(func() {
		s.logger.Warn("evaluation requested process exit", "exit_code", code)
		s.CloseAll()
		if s.onFatal != nil {
			go s.onFatal(code)
		}
	})
}

// readLine reads one newline-terminated line, dropping the line ending.
// A final unterminated line is returned before io.EOF.
func readLine(br *bufio.Reader, limit int) (string, error) {
	var sb strings.Builder
	for {
		chunk, err := br.ReadSlice('\n')
		sb.Write(chunk)
		if limit > 0 && sb.Len() > limit+2 {
			return "", domain.ErrLineTooLong
		}
		switch {
		case err == nil:
			line := strings.TrimSuffix(sb.String(), "\n")
			return strings.TrimSuffix(line, "\r"), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && sb.Len() > 0:
			return strings.TrimSuffix(sb.String(), "\r"), nil
		default:
			return "", err
		}
	}
}
