package socketrepl

import (
	"bufio"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/replfront/internal/core/domain"
)

// Conn is one client connection and the session it owns.
type Conn struct {
	id      string
	netConn net.Conn
	br      *bufio.Reader

	session *domain.Session

	writeMu      sync.Mutex
	writeTimeout time.Duration
	writeFailed  atomic.Bool

	closed atomic.Bool
}

func newConn(c net.Conn, id string, sess *domain.Session, writeTimeout time.Duration) *Conn {
	return &Conn{
		id:           id,
		netConn:      c,
		br:           bufio.NewReader(c),
		session:      sess,
		writeTimeout: writeTimeout,
	}
}

// ID returns the connection's correlation id.
func (c *Conn) ID() string {
	return c.id
}

// Session returns the session bound to the connection.
func (c *Conn) Session() *domain.Session {
	return c.session
}

// RemoteAddr returns the client address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// Write sends p to the client. A failed write marks the connection for
// closing; the error is returned to the caller as well.
func (c *Conn) Write(p []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		if err := c.netConn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			c.writeFailed.Store(true)
			return 0, domain.ErrWrite.WithCause(err)
		}
	}
	n, err := c.netConn.Write(p)
	if err != nil {
		c.writeFailed.Store(true)
		return n, domain.ErrWrite.WithCause(err)
	}
	return n, nil
}

// WriteFailed reports whether any write to the client has failed.
func (c *Conn) WriteFailed() bool {
	return c.writeFailed.Load()
}

// Close closes the connection. It is safe to call more than once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// Closed reports whether Close has been called.
func (c *Conn) Closed() bool {
	return c.closed.Load()
}
