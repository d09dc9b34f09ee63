package dealer

import (
	"context"
	"testing"
	"time"

	"github.com/danmuck/blackjack/internal/discovery"
	"github.com/danmuck/blackjack/internal/game"
	"github.com/danmuck/blackjack/internal/observability"
	"github.com/danmuck/blackjack/internal/protocol"
	"github.com/danmuck/blackjack/internal/protocol/session"
	"github.com/danmuck/blackjack/internal/testutil/testlog"
	"github.com/danmuck/blackjack/internal/transport"
)

func tieDeck() game.Drawer {
	return game.NewStackedDeck(c(10, game.Spades), c(13, game.Hearts), c(10, game.Diamonds), c(12, game.Clubs))
}

func playTie(t *testing.T, conn *transport.Conn) {
	t.Helper()
	request(t, conn, 1)
	expect(t, conn, protocol.ResultOngoing, c(10, game.Spades))
	expect(t, conn, protocol.ResultOngoing, c(13, game.Hearts))
	expect(t, conn, protocol.ResultOngoing, c(10, game.Diamonds))
	decide(t, conn, protocol.DecisionStand)
	expect(t, conn, protocol.ResultOngoing, c(12, game.Clubs))
	expect(t, conn, protocol.ResultTie, game.Card{})
	expectClosed(t, conn)
}

func TestServerIsolatesFailingSession(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ln, err := transport.Listen(ctx, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	tally := observability.NewTally()
	rec := &recorder{}
	srv := NewServer(ServerConfig{Name: "test"}, WithDeckFactory(tieDeck), WithStats(tally), WithObserver(rec))
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ctx, ln) }()

	good, err := transport.Dial(ctx, ln.Addr(), time.Second)
	if err != nil {
		t.Fatalf("dial good: %v", err)
	}
	defer good.Close()
	bad, err := transport.Dial(ctx, ln.Addr(), time.Second)
	if err != nil {
		t.Fatalf("dial bad: %v", err)
	}
	defer bad.Close()

	garbage := make([]byte, protocol.RequestSize)
	if err := bad.Write(garbage, time.Second); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	expectClosed(t, bad)

	playTie(t, good)

	cancel()
	select {
	case err := <-served:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("serve did not stop")
	}

	if tot := tally.Total(); tot.Rounds != 1 || tot.Ties != 1 {
		t.Fatalf("unexpected tally: %+v", tot)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	reasons := map[AbortReason]int{}
	for _, e := range rec.ends {
		reasons[e.Reason]++
	}
	if reasons[ReasonDecode] != 1 || reasons[ReasonFinished] != 1 {
		t.Fatalf("unexpected session ends: %+v", rec.ends)
	}
}

func TestServerConcurrentSessions(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ln, err := transport.Listen(ctx, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	tally := observability.NewTally()
	srv := NewServer(ServerConfig{Name: "test"}, WithDeckFactory(tieDeck), WithStats(tally))
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ctx, ln) }()

	const players = 4
	conns := make([]*transport.Conn, players)
	for i := range conns {
		conn, err := transport.Dial(ctx, ln.Addr(), time.Second)
		if err != nil {
			t.Fatalf("dial %d: %v", i, err)
		}
		defer conn.Close()
		conns[i] = conn
	}
	// interleave: every player sends its request before anyone plays
	for _, conn := range conns {
		request(t, conn, 1)
	}
	for _, conn := range conns {
		expect(t, conn, protocol.ResultOngoing, c(10, game.Spades))
		expect(t, conn, protocol.ResultOngoing, c(13, game.Hearts))
		expect(t, conn, protocol.ResultOngoing, c(10, game.Diamonds))
	}
	for _, conn := range conns {
		decide(t, conn, protocol.DecisionStand)
		expect(t, conn, protocol.ResultOngoing, c(12, game.Clubs))
		expect(t, conn, protocol.ResultTie, game.Card{})
	}

	cancel()
	if err := <-served; err != nil {
		t.Fatalf("serve: %v", err)
	}
	if tot := tally.Total(); tot.Rounds != players || tot.Ties != players {
		t.Fatalf("unexpected tally: %+v", tot)
	}
}

func freeUDPPort(t *testing.T) int {
	t.Helper()
	l, err := transport.ListenBroadcast(context.Background(), "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	port := int(l.Port())
	_ = l.Close()
	return port
}

func TestRunAdvertisesBoundPort(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	port := freeUDPPort(t)
	srv := NewServer(ServerConfig{
		Name:            "Table 1",
		ListenAddr:      "127.0.0.1:0",
		DiscoveryPort:   port,
		BroadcastTarget: "127.0.0.1",
		Session:         session.Config{BroadcastInterval: 20 * time.Millisecond},
	}, WithDeckFactory(tieDeck))
	ran := make(chan error, 1)
	go func() { ran <- srv.Run(ctx) }()

	var addr string
	select {
	case addr = <-srv.Ready():
	case err := <-ran:
		t.Fatalf("run: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatalf("server not ready")
	}

	found, err := discovery.NewSeeker(
		discovery.WithPort(port),
		discovery.WithListenHost("127.0.0.1"),
		discovery.WithTimeout(3*time.Second),
	).Seek(ctx)
	if err != nil {
		t.Fatalf("seek: %v", err)
	}
	if found.Offer.ServerName != "Table 1" || found.Addr() != addr {
		t.Fatalf("unexpected offer %+v at %s, server at %s", found.Offer, found.Addr(), addr)
	}

	conn, err := discovery.Connect(ctx, found, time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer conn.Close()
	playTie(t, conn)

	cancel()
	select {
	case err := <-ran:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("run did not stop")
	}
}
