package dealer

import (
	"context"
	"errors"
	"fmt"

	"github.com/danmuck/blackjack/internal/protocol"
	"github.com/danmuck/blackjack/internal/transport"
)

// AbortReason tells collaborators why a session ended.
type AbortReason string

const (
	ReasonFinished AbortReason = "finished"
	ReasonDecode   AbortReason = "decode"
	ReasonTimeout  AbortReason = "timeout"
	ReasonClosed   AbortReason = "closed"
	ReasonShutdown AbortReason = "shutdown"
	ReasonIO       AbortReason = "io"
)

// AbortError carries the state a session died in.
type AbortError struct {
	Reason AbortReason
	State  State
	Err    error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("dealer: session aborted in %s (%s): %v", e.State, e.Reason, e.Err)
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

func classify(err error) AbortReason {
	var de *protocol.DecodeError
	switch {
	case err == nil:
		return ReasonFinished
	case errors.As(err, &de):
		return ReasonDecode
	case errors.Is(err, transport.ErrTimeout):
		return ReasonTimeout
	case errors.Is(err, transport.ErrClosed):
		return ReasonClosed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonShutdown
	default:
		return ReasonIO
	}
}
