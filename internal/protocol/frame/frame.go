// Package frame moves single fixed-size protocol messages over a stream
// connection, one bounded read or write per message.
package frame

import (
	"errors"
	"time"

	"github.com/danmuck/blackjack/internal/protocol"
	"github.com/danmuck/blackjack/internal/transport"
)

// Reader is a stream that reads an exact byte count under a deadline.
// *transport.Conn satisfies it.
type Reader interface {
	ReadFull(size int, timeout time.Duration) ([]byte, error)
}

// Writer is a stream that writes under a deadline.
type Writer interface {
	Write(b []byte, timeout time.Duration) error
}

// read fetches size bytes. A short read surfaces as a truncated-message
// decode error; timeouts and closes pass through from the transport.
func read(r Reader, size int, timeout time.Duration) ([]byte, error) {
	buf, err := r.ReadFull(size, timeout)
	if err != nil {
		if errors.Is(err, transport.ErrShortRead) {
			return nil, &protocol.DecodeError{Kind: protocol.TruncatedMessage, Detail: err.Error()}
		}
		return nil, err
	}
	return buf, nil
}

func ReadRequest(r Reader, timeout time.Duration) (protocol.Request, error) {
	buf, err := read(r, protocol.RequestSize, timeout)
	if err != nil {
		return protocol.Request{}, err
	}
	return protocol.DecodeRequest(buf)
}

func ReadClientPayload(r Reader, timeout time.Duration) (protocol.ClientPayload, error) {
	buf, err := read(r, protocol.ClientPayloadSize, timeout)
	if err != nil {
		return protocol.ClientPayload{}, err
	}
	return protocol.DecodeClientPayload(buf)
}

func ReadServerPayload(r Reader, timeout time.Duration) (protocol.ServerPayload, error) {
	buf, err := read(r, protocol.ServerPayloadSize, timeout)
	if err != nil {
		return protocol.ServerPayload{}, err
	}
	return protocol.DecodeServerPayload(buf)
}

func WriteRequest(w Writer, req protocol.Request, timeout time.Duration) error {
	if err := protocol.ValidateRounds(int(req.Rounds)); err != nil {
		return err
	}
	return w.Write(protocol.EncodeRequest(req), timeout)
}

func WriteClientPayload(w Writer, p protocol.ClientPayload, timeout time.Duration) error {
	buf, err := protocol.EncodeClientPayload(p)
	if err != nil {
		return err
	}
	return w.Write(buf, timeout)
}

func WriteServerPayload(w Writer, p protocol.ServerPayload, timeout time.Duration) error {
	return w.Write(protocol.EncodeServerPayload(p), timeout)
}
