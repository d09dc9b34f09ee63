package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/danmuck/blackjack/internal/observability"
	"github.com/danmuck/blackjack/internal/protocol"
	"github.com/danmuck/blackjack/internal/transport"
	"github.com/rs/zerolog/log"
)

var ErrNoOffer = errors.New("discovery: no offer received")

// pollSlice bounds each receive so cancellation is noticed promptly.
const pollSlice = 250 * time.Millisecond

// Found is the winning offer and where it came from.
type Found struct {
	Host  string
	Offer protocol.Offer
}

// Addr is the advertised stream endpoint.
func (f Found) Addr() string {
	return net.JoinHostPort(f.Host, strconv.Itoa(int(f.Offer.TCPPort)))
}

// Seeker listens for the first valid offer.
type Seeker struct {
	cfg config
}

func NewSeeker(opts ...Option) *Seeker {
	return &Seeker{cfg: apply(opts)}
}

// Seek returns the first well-formed offer. Datagrams that fail to decode
// are skipped. If nothing valid arrives within the timeout it returns
// ErrNoOffer wrapping transport.ErrTimeout.
func (s *Seeker) Seek(ctx context.Context) (Found, error) {
	addr := net.JoinHostPort(s.cfg.listenHost, strconv.Itoa(s.cfg.port))
	l, err := transport.ListenBroadcast(ctx, addr)
	if err != nil {
		return Found{}, err
	}
	defer l.Close()
	log.Info().Str("state", string(StateListening)).Str("addr", addr).Msg("discovery.Seeker.Seek")

	deadline := time.Now().Add(s.cfg.timeout)
	for {
		if err := ctx.Err(); err != nil {
			return Found{}, err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return Found{}, fmt.Errorf("%w after %v: %w", ErrNoOffer, s.cfg.timeout, transport.ErrTimeout)
		}
		dg, err := l.Receive(min(remaining, pollSlice))
		if err != nil {
			if errors.Is(err, transport.ErrTimeout) {
				continue
			}
			return Found{}, err
		}
		offer, err := protocol.DecodeOffer(dg.Payload)
		if err != nil {
			observability.RecordOffer(s.cfg.node, "received", false)
			log.Debug().Err(err).Stringer("from", dg.From).Msg("discovery.Seeker.Seek ignored datagram")
			continue
		}
		observability.RecordOffer(s.cfg.node, "received", true)
		found := Found{Offer: offer}
		if dg.From != nil {
			found.Host = dg.From.IP.String()
		}
		log.Info().
			Str("server_name", offer.ServerName).
			Str("addr", found.Addr()).
			Msg("discovery.Seeker.Seek offer accepted")
		return found, nil
	}
}

// Connect dials the advertised endpoint: Listening -> Connected.
func Connect(ctx context.Context, found Found, timeout time.Duration) (*transport.Conn, error) {
	conn, err := transport.Dial(ctx, found.Addr(), timeout)
	if err != nil {
		return nil, fmt.Errorf("discovery: connect %s: %w", found.Addr(), err)
	}
	log.Info().Str("state", string(StateConnected)).Str("addr", found.Addr()).Msg("discovery.Connect")
	return conn, nil
}
