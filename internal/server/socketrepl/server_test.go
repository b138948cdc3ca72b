package socketrepl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/replfront/internal/core/domain"
	"github.com/yndnr/replfront/internal/core/output"
	"github.com/yndnr/replfront/internal/core/service"
	"github.com/yndnr/replfront/internal/engine"
	"github.com/yndnr/replfront/internal/reader"
	"github.com/yndnr/replfront/internal/telemetry/logger"
)

const primary = "cljs.user=> "

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testServer struct {
	srv      *Server
	terminal *safeBuffer
	fatal    chan int
	closed   chan uint64
}

func startServer(t *testing.T, mutate func(*Config)) *testServer {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.WriteTimeout = time.Second
	if mutate != nil {
		mutate(cfg)
	}

	term := &safeBuffer{}
	checker := reader.NewChecker()
	acc := service.NewAccumulator(service.AccumulatorConfig{
		Evaluator: engine.NewLoopback(nil, logger.Discard()),
		Checker:   checker,
		Indenter:  checker,
		Theme:     "light",
		Logger:    logger.Discard(),
	})

	ts := &testServer{
		terminal: term,
		fatal:    make(chan int, 1),
		closed:   make(chan uint64, 16),
	}
	ts.srv = New(cfg, acc, output.New(term, nil),
		WithLogger(logger.Discard()),
		WithFatalHandler(func(code int) { ts.fatal <- code }),
		WithSessionCloseHandler(func(id uint64) { ts.closed <- id }),
	)

	if err := ts.srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		ts.srv.Shutdown(ctx)
	})
	return ts
}

type client struct {
	t    *testing.T
	conn net.Conn
	br   *bufio.Reader
}

func (ts *testServer) dial(t *testing.T) *client {
	t.Helper()
	conn, err := net.Dial("tcp", ts.srv.Addr().String())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &client{t: t, conn: conn, br: bufio.NewReader(conn)}
}

func (c *client) send(s string) {
	c.t.Helper()
	if _, err := io.WriteString(c.conn, s); err != nil {
		c.t.Fatalf("write error = %v", err)
	}
}

func (c *client) expect(want string) {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	got := make([]byte, len(want))
	if _, err := io.ReadFull(c.br, got); err != nil {
		c.t.Fatalf("reading %q: got %q, error = %v", want, got, err)
	}
	if string(got) != want {
		c.t.Fatalf("got %q, want %q", got, want)
	}
}

func (c *client) expectClosed() {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	rest, err := io.ReadAll(c.br)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			c.t.Fatalf("connection still open, read %q", rest)
		}
	}
	if len(rest) != 0 {
		c.t.Errorf("unexpected trailing output %q", rest)
	}
}

func TestServer_PromptOnAccept(t *testing.T) {
	ts := startServer(t, nil)
	c := ts.dial(t)

	c.expect(primary)
}

func TestServer_EvaluatesLines(t *testing.T) {
	ts := startServer(t, nil)
	c := ts.dial(t)
	c.expect(primary)

	c.send("(+ 1 2)\r\n")
	c.expect("(+ 1 2)\n" + primary)

	c.send("(in-ns 'foo.core)\n")
	c.expect("nil\nfoo.core=> ")
}

func TestServer_RemoteOutputIsUnstyled(t *testing.T) {
	ts := startServer(t, nil)
	c := ts.dial(t)
	c.expect(primary)

	c.send(":kw\n")
	c.expect(":kw\n" + primary)
}

func TestServer_NoSecondaryPrompt(t *testing.T) {
	ts := startServer(t, nil)
	c := ts.dial(t)
	c.expect(primary)

	c.send("(open\n")
	c.send("1)\n")
	c.expect("(open\n1)\n" + primary)
}

func TestServer_BlankLine(t *testing.T) {
	ts := startServer(t, nil)
	c := ts.dial(t)
	c.expect(primary)

	c.send("\n")
	c.expect("\n" + primary)
}

func TestServer_ExitKeywords(t *testing.T) {
	for _, kw := range []string{":repl/quit", ":cljs/quit", "exit", "quit"} {
		t.Run(kw, func(t *testing.T) {
			ts := startServer(t, nil)
			c := ts.dial(t)
			c.expect(primary)

			c.send(kw + "\n")
			c.expectClosed()

			select {
			case id := <-ts.closed:
				if id == domain.LocalSessionID {
					t.Error("remote session got the local id")
				}
			case <-time.After(2 * time.Second):
				t.Fatal("session close handler not called")
			}
		})
	}
}

func TestServer_SessionsAreIsolated(t *testing.T) {
	ts := startServer(t, nil)
	a := ts.dial(t)
	b := ts.dial(t)
	a.expect(primary)
	b.expect(primary)

	a.send("(ns alpha)\n")
	a.expect("nil\nalpha=> ")

	a.send("(let [x 1]\n")

	b.send("(b)\n")
	b.expect("(b)\n" + primary)

	a.send("x)\n")
	a.expect("(let [x 1]\nx)\nalpha=> ")
}

func TestServer_SessionIDsAreDistinct(t *testing.T) {
	ts := startServer(t, nil)
	for i := 0; i < 3; i++ {
		c := ts.dial(t)
		c.expect(primary)
	}

	deadline := time.Now().Add(2 * time.Second)
	for ts.srv.ConnectionCount() != 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	seen := map[uint64]bool{}
	ts.srv.conns.Range(func(id uint64, c *Conn) bool {
		if id == 0 || id != c.Session().ID() || seen[id] {
			t.Errorf("bad session id %d", id)
		}
		seen[id] = true
		return true
	})
	if len(seen) != 3 {
		t.Errorf("got %d sessions, want 3", len(seen))
	}
}

func TestServer_FatalExitClosesEverything(t *testing.T) {
	ts := startServer(t, nil)
	a := ts.dial(t)
	b := ts.dial(t)
	a.expect(primary)
	b.expect(primary)

	a.send("(exit 3)\n")

	select {
	case code := <-ts.fatal:
		if code != 3 {
			t.Errorf("fatal code = %d, want 3", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fatal handler not called")
	}

	a.expectClosed()
	b.expectClosed()
}

func TestServer_Banner(t *testing.T) {
	ts := startServer(t, nil)
	want := fmt.Sprintf("socket REPL listening at 127.0.0.1:%d.\n", ts.srv.Port())
	if got := ts.terminal.String(); got != want {
		t.Errorf("banner = %q, want %q", got, want)
	}

	quiet := startServer(t, func(c *Config) { c.Quiet = true })
	if got := quiet.terminal.String(); got != "" {
		t.Errorf("quiet banner = %q", got)
	}
}

func TestServer_LineTooLong(t *testing.T) {
	ts := startServer(t, func(c *Config) { c.MaxLineBytes = 8 })
	c := ts.dial(t)
	c.expect(primary)

	c.send(strings.Repeat("x", 64) + "\n")
	c.expectClosed()
}

func TestServer_IdleTimeout(t *testing.T) {
	ts := startServer(t, func(c *Config) { c.IdleTimeout = 50 * time.Millisecond })
	c := ts.dial(t)
	c.expect(primary)
	c.expectClosed()
}

func TestServer_RateLimit(t *testing.T) {
	ts := startServer(t, func(c *Config) { c.RateLimit = 1000 })
	c := ts.dial(t)
	c.expect(primary)

	c.send("(a)\n(b)\n")
	c.expect("(a)\n" + primary + "(b)\n" + primary)
}

func TestServer_ListenError(t *testing.T) {
	first := startServer(t, nil)

	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = first.srv.Port()
	srv := New(cfg, nil, output.New(io.Discard, nil), WithLogger(logger.Discard()))

	if err := srv.Start(context.Background()); !errors.Is(err, domain.ErrListen) {
		t.Errorf("Start() error = %v, want ErrListen", err)
	}
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  []string
		err   error
	}{
		{"lf", "a\nb\n", 0, []string{"a", "b"}, io.EOF},
		{"crlf", "a\r\nb\r\n", 0, []string{"a", "b"}, io.EOF},
		{"unterminated", "a\nb", 0, []string{"a", "b"}, io.EOF},
		{"too long", "abcdefghij\n", 4, nil, domain.ErrLineTooLong},
		{"long but allowed", strings.Repeat("y", 5000) + "\n", 0, []string{strings.Repeat("y", 5000)}, io.EOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br := bufio.NewReaderSize(strings.NewReader(tt.input), 16)
			var got []string
			var err error
			for {
				var line string
				line, err = readLine(br, tt.limit)
				if err != nil {
					break
				}
				got = append(got, line)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("final error = %v, want %v", err, tt.err)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("lines = %q, want %q", got, tt.want)
			}
		})
	}
}
