package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
)

// Conn is a stream connection whose every call carries a deadline.
type Conn struct {
	conn net.Conn
}

// Wrap adopts an established net.Conn.
func Wrap(c net.Conn) *Conn {
	return &Conn{conn: c}
}

// Dial opens a stream connection, bounded by timeout and ctx.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Conn, error) {
	dialer := net.Dialer{Timeout: timeout}
	c, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: dial %s", ErrTimeout, addr)
		}
		return nil, err
	}
	return Wrap(c), nil
}

// ReadFull reads exactly size bytes within timeout.
//
// Nothing read and the peer closed: ErrClosed. Nothing read and the deadline
// passed: ErrTimeout. Some bytes read, then either: ErrShortRead.
func (c *Conn) ReadFull(size int, timeout time.Duration) ([]byte, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	n, err := io.ReadFull(c.conn, buf)
	if err == nil {
		return buf, nil
	}
	switch {
	case n > 0 && (isTimeout(err) || isClosed(err) || err == io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("%w: got %d of %d bytes: %v", ErrShortRead, n, size, err)
	case isTimeout(err):
		return nil, fmt.Errorf("%w: read after %v", ErrTimeout, timeout)
	case isClosed(err):
		return nil, ErrClosed
	default:
		return nil, err
	}
}

// Write writes b in full within timeout.
func (c *Conn) Write(b []byte, timeout time.Duration) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	if _, err := c.conn.Write(b); err != nil {
		switch {
		case isTimeout(err):
			return fmt.Errorf("%w: write after %v", ErrTimeout, timeout)
		case isClosed(err):
			return ErrClosed
		default:
			return err
		}
	}
	return nil
}

func (c *Conn) Close() error {
	return c.conn.Close()
}

func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Listener accepts stream connections.
type Listener struct {
	ln net.Listener
}

// Listen binds addr. A zero port picks an ephemeral one; see Port.
func Listen(ctx context.Context, addr string) (*Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln}, nil
}

// Accept blocks for the next connection. It returns ErrClosed once the
// listener is closed, which is how the accept loop is cancelled.
func (l *Listener) Accept() (*Conn, error) {
	c, err := l.ln.Accept()
	if err != nil {
		if isClosed(err) {
			return nil, ErrClosed
		}
		return nil, err
	}
	return Wrap(c), nil
}

func (l *Listener) Close() error {
	return l.ln.Close()
}

func (l *Listener) Addr() string {
	return l.ln.Addr().String()
}

// Port is the bound TCP port, resolved after an ephemeral bind.
func (l *Listener) Port() uint16 {
	_, p, err := net.SplitHostPort(l.ln.Addr().String())
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return 0
	}
	return uint16(n)
}
