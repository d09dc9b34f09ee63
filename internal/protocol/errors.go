package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrBadMagic        = errors.New("protocol: invalid magic")
	ErrBadType         = errors.New("protocol: unexpected message type")
	ErrInvalidDecision = errors.New("protocol: invalid decision")
	ErrTruncated       = errors.New("protocol: truncated message")
	ErrInvalidRounds   = errors.New("protocol: invalid round count")
	ErrInvalidCard     = errors.New("protocol: invalid card")
)

// DecodeKind classifies why a buffer was rejected.
type DecodeKind uint8

const (
	BadMagic DecodeKind = iota + 1
	BadType
	InvalidDecision
	TruncatedMessage
	InvalidRounds
	InvalidCard
)

func (k DecodeKind) String() string {
	switch k {
	case BadMagic:
		return "bad_magic"
	case BadType:
		return "bad_type"
	case InvalidDecision:
		return "invalid_decision"
	case TruncatedMessage:
		return "truncated"
	case InvalidRounds:
		return "invalid_rounds"
	case InvalidCard:
		return "invalid_card"
	default:
		return "unknown"
	}
}

func (k DecodeKind) sentinel() error {
	switch k {
	case BadMagic:
		return ErrBadMagic
	case BadType:
		return ErrBadType
	case InvalidDecision:
		return ErrInvalidDecision
	case TruncatedMessage:
		return ErrTruncated
	case InvalidRounds:
		return ErrInvalidRounds
	case InvalidCard:
		return ErrInvalidCard
	default:
		return nil
	}
}

// DecodeError is returned by every decoder. No partially decoded message
// accompanies it.
type DecodeError struct {
	Kind   DecodeKind
	Want   MessageType
	Detail string
}

func (e *DecodeError) Error() string {
	base := e.Kind.sentinel()
	msg := "protocol: decode failed"
	if base != nil {
		msg = base.Error()
	}
	if e.Want != 0 {
		msg = fmt.Sprintf("%s (want %s)", msg, e.Want)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Kind.sentinel()
}

func decodeErr(kind DecodeKind, want MessageType, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: kind, Want: want, Detail: fmt.Sprintf(format, args...)}
}

// KindOf extracts the decode kind from err, if it is a DecodeError.
func KindOf(err error) (DecodeKind, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}
