package dealer

import (
	"context"

	"github.com/danmuck/blackjack/internal/game"
	"github.com/danmuck/blackjack/internal/observability"
	"github.com/danmuck/blackjack/internal/protocol"
	"github.com/danmuck/blackjack/internal/protocol/frame"
	"github.com/danmuck/blackjack/internal/protocol/session"
	"github.com/rs/zerolog/log"
)

// State is a session state machine position.
type State string

const (
	StateAwaitRequest  State = "await_request"
	StateNegotiating   State = "negotiating"
	StateDealing       State = "dealing"
	StateAwaitDecision State = "await_decision"
	StateResolving     State = "resolving"
	StateFinished      State = "finished"
	StateAborted       State = "aborted"
)

// Conn is the stream a session owns. *transport.Conn satisfies it.
type Conn interface {
	frame.Reader
	frame.Writer
	Close() error
	RemoteAddr() string
}

// Session drives one connection from request to the last round. It is not
// safe for concurrent use; it runs on its connection's goroutine.
type Session struct {
	ID string

	conn     Conn
	cfg      session.Config
	deck     game.Drawer
	observer Observer
	stats    observability.StatsCollector

	state   State
	player  string
	rounds  int
	round   int
	hand    game.Hand
	dealer  game.Hand
	outcome protocol.Result
	played  int
}

// SessionOptions wires collaborators. Zero values are filled in.
type SessionOptions struct {
	Config   session.Config
	Deck     game.Drawer
	Observer Observer
	Stats    observability.StatsCollector
}

func NewSession(id string, conn Conn, opts SessionOptions) *Session {
	if opts.Deck == nil {
		opts.Deck = game.NewDeck(nil)
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	return &Session{
		ID:       id,
		conn:     conn,
		cfg:      opts.Config.WithDefaults(),
		deck:     opts.Deck,
		observer: opts.Observer,
		stats:    opts.Stats,
		state:    StateAwaitRequest,
	}
}

func (s *Session) State() State {
	return s.state
}

// Run plays the session to completion and always closes the connection.
// A nil return means every negotiated round was played. Cancelling ctx
// closes the connection under any blocked read.
func (s *Session) Run(ctx context.Context) error {
	defer s.conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = s.conn.Close() })
	defer stop()

	err := s.run(ctx)

	reason := classify(err)
	if err != nil && ctx.Err() != nil {
		reason = ReasonShutdown
	}
	if err != nil {
		err = &AbortError{Reason: reason, State: s.state, Err: err}
		s.transition(StateAborted)
		log.Warn().
			Str("session", s.ID).
			Str("player", s.player).
			Str("reason", string(reason)).
			Err(err).
			Msg("dealer.Session.Run aborted")
	} else {
		s.transition(StateFinished)
		log.Info().
			Str("session", s.ID).
			Str("player", s.player).
			Int("rounds", s.played).
			Msg("dealer.Session.Run finished")
	}
	s.observer.OnSessionEnd(SessionEnd{
		SessionID: s.ID,
		Player:    s.player,
		Remote:    s.conn.RemoteAddr(),
		Played:    s.played,
		Rounds:    s.rounds,
		Reason:    reason,
		Err:       err,
	})
	return err
}

func (s *Session) run(ctx context.Context) error {
	req, err := frame.ReadRequest(s.conn, s.cfg.HandshakeTimeout)
	if err != nil {
		return err
	}
	s.player = req.ClientName
	s.transition(StateNegotiating)
	s.rounds = int(req.Rounds)
	log.Info().
		Str("session", s.ID).
		Str("player", s.player).
		Int("rounds", s.rounds).
		Msg("dealer.Session.run negotiated")

	for s.round = 1; s.round <= s.rounds; s.round++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		result, err := s.playRound()
		if err != nil {
			return err
		}
		s.outcome = result
		s.played++
		s.report()
	}
	return nil
}

func (s *Session) playRound() (protocol.Result, error) {
	s.transition(StateDealing)
	s.deck.Reset()
	s.hand = game.NewHand()
	s.dealer = game.NewHand()

	p1, p2 := s.deck.Draw(), s.deck.Draw()
	up, hole := s.deck.Draw(), s.deck.Draw()
	if err := s.dealTo(HolderPlayer, p1); err != nil {
		return 0, err
	}
	if err := s.dealTo(HolderPlayer, p2); err != nil {
		return 0, err
	}
	if err := s.dealTo(HolderDealer, up); err != nil {
		return 0, err
	}
	s.dealer.Add(hole)
	s.observer.OnCard(CardEvent{SessionID: s.ID, Round: s.round, Holder: HolderDealer, Card: hole, Hidden: true, Total: s.dealer.Total()})

	for {
		s.transition(StateAwaitDecision)
		msg, err := frame.ReadClientPayload(s.conn, s.cfg.DecisionTimeout)
		if err != nil {
			return 0, err
		}
		if msg.Decision == protocol.DecisionStand {
			break
		}
		c := s.deck.Draw()
		s.hand.Add(c)
		s.observer.OnCard(CardEvent{SessionID: s.ID, Round: s.round, Holder: HolderPlayer, Card: c, Total: s.hand.Total()})
		if s.hand.Bust() {
			s.transition(StateResolving)
			return protocol.ResultLoss, s.send(protocol.ResultLoss, c.Wire())
		}
		if err := s.send(protocol.ResultOngoing, c.Wire()); err != nil {
			return 0, err
		}
	}

	s.transition(StateResolving)
	if err := s.send(protocol.ResultOngoing, hole.Wire()); err != nil {
		return 0, err
	}
	running := game.NewHand(s.dealer.Cards()...)
	for _, c := range game.PlayDealer(&s.dealer, s.deck.Draw) {
		running.Add(c)
		s.observer.OnCard(CardEvent{SessionID: s.ID, Round: s.round, Holder: HolderDealer, Card: c, Total: running.Total()})
		if err := s.send(protocol.ResultOngoing, c.Wire()); err != nil {
			return 0, err
		}
	}
	result := game.Compare(s.hand, s.dealer)
	return result, s.send(result, protocol.CardFields{})
}

func (s *Session) dealTo(h Holder, c game.Card) error {
	total := 0
	if h == HolderPlayer {
		s.hand.Add(c)
		total = s.hand.Total()
	} else {
		s.dealer.Add(c)
		total = s.dealer.Total()
	}
	s.observer.OnCard(CardEvent{SessionID: s.ID, Round: s.round, Holder: h, Card: c, Total: total})
	return s.send(protocol.ResultOngoing, c.Wire())
}

func (s *Session) send(result protocol.Result, card protocol.CardFields) error {
	return frame.WriteServerPayload(s.conn, protocol.ServerPayload{Result: result, Card: card}, s.cfg.WriteTimeout)
}

func (s *Session) report() {
	ev := RoundEvent{
		SessionID:   s.ID,
		Player:      s.player,
		Round:       s.round,
		Rounds:      s.rounds,
		Result:      s.outcome,
		PlayerTotal: s.hand.Total(),
		DealerTotal: s.dealer.Total(),
		PlayerBust:  s.hand.Bust(),
	}
	log.Info().
		Str("session", s.ID).
		Int("round", s.round).
		Str("result", s.outcome.String()).
		Int("player_total", ev.PlayerTotal).
		Int("dealer_total", ev.DealerTotal).
		Msg("dealer.Session.report")
	s.observer.OnRoundComplete(ev)
	if s.stats != nil {
		s.stats.RecordRound(observability.RoundRecord{
			SessionID: s.ID,
			Player:    s.player,
			Round:     s.round,
			Outcome:   s.outcome,
		})
	}
}

func (s *Session) transition(to State) {
	from := s.state
	s.state = to
	log.Debug().
		Str("session", s.ID).
		Str("from", string(from)).
		Str("to", string(to)).
		Int("round", s.round).
		Msg("dealer.Session.transition")
	s.observer.OnTransition(Transition{SessionID: s.ID, Player: s.player, From: from, To: to, Round: s.round})
}
