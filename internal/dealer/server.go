package dealer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danmuck/blackjack/internal/discovery"
	"github.com/danmuck/blackjack/internal/game"
	"github.com/danmuck/blackjack/internal/observability"
	"github.com/danmuck/blackjack/internal/protocol"
	"github.com/danmuck/blackjack/internal/protocol/session"
	"github.com/danmuck/blackjack/internal/transport"
	"github.com/rs/zerolog/log"
)

// ServerConfig is the dealer's static configuration.
type ServerConfig struct {
	Name            string
	ListenAddr      string
	DiscoveryPort   int
	BroadcastTarget string
	Node            string
	Session         session.Config
}

// DefaultServerConfig listens on an ephemeral port on all interfaces.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Name:          "dealer",
		ListenAddr:    ":0",
		DiscoveryPort: protocol.DiscoveryPort,
		Node:          "dealer",
		Session:       session.DefaultConfig(),
	}
}

// ServerOption customizes collaborators that are not plain configuration.
type ServerOption func(*Server)

func WithObserver(o Observer) ServerOption {
	return func(s *Server) {
		if o != nil {
			s.observer = o
		}
	}
}

func WithStats(c observability.StatsCollector) ServerOption {
	return func(s *Server) {
		s.stats = c
	}
}

// WithDeckFactory replaces the per-session deck. Each session gets its own.
func WithDeckFactory(f func() game.Drawer) ServerOption {
	return func(s *Server) {
		if f != nil {
			s.newDeck = f
		}
	}
}

// Server accepts player connections and advertises itself by broadcast.
type Server struct {
	cfg      ServerConfig
	observer Observer
	stats    observability.StatsCollector
	newDeck  func() game.Drawer

	seq   atomic.Uint64
	wg    sync.WaitGroup
	ready chan string
}

func NewServer(cfg ServerConfig, opts ...ServerOption) *Server {
	d := DefaultServerConfig()
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = d.ListenAddr
	}
	if cfg.DiscoveryPort == 0 {
		cfg.DiscoveryPort = d.DiscoveryPort
	}
	if cfg.Node == "" {
		cfg.Node = d.Node
	}
	cfg.Session = cfg.Session.WithDefaults()

	s := &Server{
		cfg:      cfg,
		observer: NopObserver{},
		newDeck:  func() game.Drawer { return game.NewDeck(nil) },
		ready:    make(chan string, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ready yields the bound TCP address once Run is listening.
func (s *Server) Ready() <-chan string {
	return s.ready
}

// Run listens, broadcasts offers for the bound port and serves until ctx is
// done. Sessions in flight are closed and waited for before it returns.
func (s *Server) Run(ctx context.Context) error {
	ln, err := transport.Listen(ctx, s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("dealer: listen %s: %w", s.cfg.ListenAddr, err)
	}

	offer := protocol.Offer{TCPPort: ln.Port(), ServerName: s.cfg.Name}
	b := discovery.NewBroadcaster(offer,
		discovery.WithPort(s.cfg.DiscoveryPort),
		discovery.WithTarget(s.cfg.BroadcastTarget),
		discovery.WithInterval(s.cfg.Session.BroadcastInterval),
		discovery.WithNode(s.cfg.Node),
	)
	go func() {
		if err := b.Run(ctx); err != nil {
			log.Error().Err(err).Msg("dealer.Server.Run broadcaster stopped")
		}
	}()

	log.Info().
		Str("name", s.cfg.Name).
		Str("addr", ln.Addr()).
		Int("discovery_port", s.cfg.DiscoveryPort).
		Msg("dealer.Server.Run listening")
	return s.Serve(ctx, ln)
}

// Serve runs the accept loop on ln, one goroutine per connection. It
// closes ln when ctx is done and waits for in-flight sessions.
func (s *Server) Serve(ctx context.Context, ln *transport.Listener) error {
	defer s.wg.Wait()
	defer ln.Close()
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	select {
	case s.ready <- ln.Addr():
	default:
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, transport.ErrClosed) {
				log.Info().Msg("dealer.Server.Serve stopped")
				return nil
			}
			return fmt.Errorf("dealer: accept: %w", err)
		}

		id := s.cfg.Node + "-" + strconv.FormatUint(s.seq.Add(1), 10)
		log.Info().
			Str("session", id).
			Str("remote", conn.RemoteAddr()).
			Msg("dealer.Server.Serve accepted")

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(ctx, id, conn)
		}()
	}
}

func (s *Server) handle(ctx context.Context, id string, conn Conn) {
	start := time.Now()
	sess := NewSession(id, conn, SessionOptions{
		Config:   s.cfg.Session,
		Deck:     s.newDeck(),
		Observer: s.observer,
		Stats:    s.stats,
	})
	err := sess.Run(ctx)
	reason := ReasonFinished
	var ae *AbortError
	if errors.As(err, &ae) {
		reason = ae.Reason
	}
	observability.RecordSessionEnd(s.cfg.Node, string(reason), time.Since(start))
}
