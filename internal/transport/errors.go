package transport

import (
	"errors"
	"io"
	"net"
	"os"
	"syscall"
)

var (
	ErrTimeout   = errors.New("transport: timeout")
	ErrClosed    = errors.New("transport: connection closed")
	ErrShortRead = errors.New("transport: short read")
)

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}
