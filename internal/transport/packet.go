package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

// BroadcastAddr is the limited broadcast address offers go to by default.
const BroadcastAddr = "255.255.255.255"

const maxDatagram = 1024

// Datagram is one received packet and its sender.
type Datagram struct {
	Payload []byte
	From    *net.UDPAddr
}

// PacketListener receives datagrams on a shared, reusable port.
type PacketListener struct {
	pc net.PacketConn
}

// ListenBroadcast binds addr (for example ":13122") with address and port
// reuse enabled, so several processes on one host can bind it.
func ListenBroadcast(ctx context.Context, addr string) (*PacketListener, error) {
	lc := net.ListenConfig{Control: reuseControl}
	pc, err := lc.ListenPacket(ctx, "udp4", addr)
	if err != nil {
		return nil, err
	}
	return &PacketListener{pc: pc}, nil
}

// Receive waits at most timeout for one datagram.
func (l *PacketListener) Receive(timeout time.Duration) (Datagram, error) {
	if err := l.pc.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return Datagram{}, err
	}
	buf := make([]byte, maxDatagram)
	n, from, err := l.pc.ReadFrom(buf)
	if err != nil {
		switch {
		case isTimeout(err):
			return Datagram{}, fmt.Errorf("%w: no datagram after %v", ErrTimeout, timeout)
		case isClosed(err):
			return Datagram{}, ErrClosed
		default:
			return Datagram{}, err
		}
	}
	udp, _ := from.(*net.UDPAddr)
	return Datagram{Payload: buf[:n], From: udp}, nil
}

func (l *PacketListener) Port() uint16 {
	if udp, ok := l.pc.LocalAddr().(*net.UDPAddr); ok {
		return uint16(udp.Port)
	}
	return 0
}

func (l *PacketListener) Close() error {
	return l.pc.Close()
}

// BroadcastSender owns one long-lived socket for periodic sends.
type BroadcastSender struct {
	pc     net.PacketConn
	target *net.UDPAddr
}

// NewBroadcastSender opens a sending socket aimed at host:port. An empty host
// means the limited broadcast address.
func NewBroadcastSender(ctx context.Context, host string, port int) (*BroadcastSender, error) {
	if host == "" {
		host = BroadcastAddr
	}
	target, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	lc := net.ListenConfig{Control: reuseControl}
	pc, err := lc.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		return nil, err
	}
	return &BroadcastSender{pc: pc, target: target}, nil
}

// Send writes payload as one datagram within timeout.
func (s *BroadcastSender) Send(payload []byte, timeout time.Duration) error {
	if err := s.pc.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	if _, err := s.pc.WriteTo(payload, s.target); err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: send after %v", ErrTimeout, timeout)
		}
		return err
	}
	return nil
}

func (s *BroadcastSender) Target() string {
	return s.target.String()
}

func (s *BroadcastSender) Close() error {
	return s.pc.Close()
}

// BroadcastSend sends one datagram to the limited broadcast address on port.
func BroadcastSend(ctx context.Context, port int, payload []byte) error {
	s, err := NewBroadcastSender(ctx, "", port)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Send(payload, time.Second)
}
