package protocol

import (
	"bytes"
	"encoding/binary"
)

// putText writes s into dst truncated to len(dst) and NUL padded.
func putText(dst []byte, s string) {
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

// readText returns the field with trailing NULs stripped.
func readText(src []byte) string {
	return string(bytes.TrimRight(src, "\x00"))
}

// TruncateName returns the exact text a peer will decode for name.
func TruncateName(name string) string {
	if len(name) <= NameSize {
		return name
	}
	return readText([]byte(name[:NameSize]))
}

func putHeader(buf []byte, t MessageType) {
	binary.BigEndian.PutUint32(buf[0:4], Magic)
	buf[4] = byte(t)
}

// checkHeader validates size, cookie and type, in that order.
func checkHeader(buf []byte, want MessageType, size int) error {
	if len(buf) < HeaderSize {
		return decodeErr(TruncatedMessage, want, "got %d bytes, need %d", len(buf), size)
	}
	if magic := binary.BigEndian.Uint32(buf[0:4]); magic != Magic {
		return decodeErr(BadMagic, want, "cookie 0x%08x", magic)
	}
	if got := MessageType(buf[4]); got != want {
		return decodeErr(BadType, want, "type 0x%02x", byte(got))
	}
	if len(buf) < size {
		return decodeErr(TruncatedMessage, want, "got %d bytes, need %d", len(buf), size)
	}
	return nil
}

// PeekHeader validates the cookie of a header and returns its type.
func PeekHeader(buf []byte) (MessageType, error) {
	if len(buf) < HeaderSize {
		return 0, decodeErr(TruncatedMessage, 0, "got %d bytes, need %d", len(buf), HeaderSize)
	}
	if magic := binary.BigEndian.Uint32(buf[0:4]); magic != Magic {
		return 0, decodeErr(BadMagic, 0, "cookie 0x%08x", magic)
	}
	return MessageType(buf[4]), nil
}
