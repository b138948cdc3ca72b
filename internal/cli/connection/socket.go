package connection

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"
)

// DefaultDialTimeout bounds connection setup.
const DefaultDialTimeout = 5 * time.Second

// SocketClient is a client of the socket REPL.
type SocketClient struct {
	addr    string
	timeout time.Duration

	mu   sync.Mutex
	conn net.Conn
}

// NewSocketClient creates a client for the server at addr (host:port).
func NewSocketClient(addr string) *SocketClient {
	return &SocketClient{addr: addr, timeout: DefaultDialTimeout}
}

// Connect dials the server.
func (c *SocketClient) Connect(ctx context.Context) error {
	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	return nil
}

// Close closes the connection.
func (c *SocketClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Attach copies in to the server and the server's output to out. It
// returns when the server closes the connection or ctx ends. End of in
// half-closes the connection so pending results still arrive.
func (c *SocketClient) Attach(ctx context.Context, in io.Reader, out io.Writer) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return errors.New("not connected")
	}

	go func() {
		if _, err := io.Copy(conn, in); err == nil {
			if tc, ok := conn.(interface{ CloseWrite() error }); ok {
				_ = tc.CloseWrite()
			}
		}
	}()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	_, err := io.Copy(out, conn)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
