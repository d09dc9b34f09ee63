package discovery

import (
	"context"
	"errors"
	"time"

	"github.com/danmuck/blackjack/internal/observability"
	"github.com/danmuck/blackjack/internal/protocol"
	"github.com/danmuck/blackjack/internal/transport"
	"github.com/rs/zerolog/log"
)

// State is a discovery state machine position.
type State string

const (
	StateIdle         State = "idle"
	StateBroadcasting State = "broadcasting"
	StateListening    State = "listening"
	StateConnected    State = "connected"
)

// Broadcaster periodically emits one Offer datagram.
type Broadcaster struct {
	cfg     config
	payload []byte
	offer   protocol.Offer
	sent    chan struct{}
}

func NewBroadcaster(offer protocol.Offer, opts ...Option) *Broadcaster {
	return &Broadcaster{
		cfg:     apply(opts),
		payload: protocol.EncodeOffer(offer),
		offer:   offer,
	}
}

// Run broadcasts until ctx is cancelled. Send failures are logged and the
// loop keeps going; availability is not tied to any one send.
func (b *Broadcaster) Run(ctx context.Context) error {
	sender, err := transport.NewBroadcastSender(ctx, b.cfg.targetHost, b.cfg.port)
	if err != nil {
		return err
	}
	defer sender.Close()

	log.Info().
		Str("state", string(StateBroadcasting)).
		Str("target", sender.Target()).
		Str("server_name", b.offer.ServerName).
		Uint16("tcp_port", b.offer.TCPPort).
		Dur("interval", b.cfg.interval).
		Msg("discovery.Broadcaster.Run")

	ticker := time.NewTicker(b.cfg.interval)
	defer ticker.Stop()
	for {
		b.emit(sender)
		select {
		case <-ctx.Done():
			log.Debug().Str("state", string(StateIdle)).Msg("discovery.Broadcaster.Run stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (b *Broadcaster) emit(sender *transport.BroadcastSender) {
	err := sender.Send(b.payload, b.cfg.interval)
	observability.RecordOffer(b.cfg.node, "sent", err == nil)
	if err != nil {
		level := log.Warn()
		if errors.Is(err, transport.ErrTimeout) {
			level = log.Debug()
		}
		level.Err(err).Msg("discovery.Broadcaster.emit send failed")
	}
	if b.sent != nil {
		select {
		case b.sent <- struct{}{}:
		default:
		}
	}
}
