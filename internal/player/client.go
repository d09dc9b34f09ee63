package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/danmuck/blackjack/internal/game"
	"github.com/danmuck/blackjack/internal/observability"
	"github.com/danmuck/blackjack/internal/protocol"
	"github.com/danmuck/blackjack/internal/protocol/frame"
	"github.com/danmuck/blackjack/internal/protocol/session"
	"github.com/rs/zerolog/log"
)

// ErrUnexpectedPayload is a well-formed payload the round did not allow,
// such as a final result while cards are still being dealt.
var ErrUnexpectedPayload = errors.New("player: unexpected payload")

// Conn is the stream the client plays over. *transport.Conn satisfies it.
type Conn interface {
	frame.Reader
	frame.Writer
	Close() error
}

// RoundResult is one finished round from the player's side.
type RoundResult struct {
	Round  int
	Result protocol.Result
	Hand   game.Hand
	Dealer game.Hand
	Bust   bool
}

// Summary is a whole session.
type Summary struct {
	Results []RoundResult
	observability.Totals
}

type Client struct {
	Name     string
	Strategy Strategy
	Config   session.Config
	// OnRound, if set, sees each round as it finishes.
	OnRound func(RoundResult)
}

func NewClient(name string, strategy Strategy, cfg session.Config) *Client {
	if strategy == nil {
		strategy = ThresholdStrategy{}
	}
	return &Client{Name: name, Strategy: strategy, Config: cfg.WithDefaults()}
}

// PlaySession requests rounds and plays them all. Cancelling ctx closes
// conn. The summary holds every round finished before an error.
func (c *Client) PlaySession(ctx context.Context, conn Conn, rounds uint8) (Summary, error) {
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	cfg := c.Config.WithDefaults()
	req := protocol.Request{Rounds: rounds, ClientName: c.Name}
	if err := frame.WriteRequest(conn, req, cfg.WriteTimeout); err != nil {
		return Summary{}, err
	}
	log.Info().
		Str("name", c.Name).
		Uint8("rounds", rounds).
		Msg("player.Client.PlaySession requested")

	var sum Summary
	tally := observability.NewTally()
	for round := 1; round <= int(rounds); round++ {
		res, err := c.playRound(ctx, conn, cfg, round, int(rounds))
		if err != nil {
			if ctx.Err() != nil {
				err = errors.Join(ctx.Err(), err)
			}
			sum.Totals = tally.Total()
			return sum, fmt.Errorf("player: round %d: %w", round, err)
		}
		sum.Results = append(sum.Results, res)
		tally.RecordRound(observability.RoundRecord{Player: c.Name, Round: round, Outcome: res.Result})
		if c.OnRound != nil {
			c.OnRound(res)
		}
		log.Debug().
			Int("round", round).
			Str("result", res.Result.String()).
			Int("total", res.Hand.Total()).
			Msg("player.Client.PlaySession round")
	}
	sum.Totals = tally.Total()
	return sum, nil
}

func (c *Client) playRound(ctx context.Context, conn Conn, cfg session.Config, round, rounds int) (RoundResult, error) {
	res := RoundResult{Round: round, Hand: game.NewHand(), Dealer: game.NewHand()}

	for i := 0; i < 3; i++ {
		card, err := readCard(conn, cfg)
		if err != nil {
			return res, err
		}
		if i < 2 {
			res.Hand.Add(card)
		} else {
			res.Dealer.Add(card)
		}
	}
	up := res.Dealer.Cards()[0]

	for {
		d, err := c.Strategy.Decide(ctx, View{Round: round, Rounds: rounds, Hand: res.Hand, DealerUp: up})
		if err != nil {
			return res, err
		}
		if err := frame.WriteClientPayload(conn, protocol.ClientPayload{Decision: d}, cfg.WriteTimeout); err != nil {
			return res, err
		}
		if d == protocol.DecisionStand {
			break
		}
		p, err := frame.ReadServerPayload(conn, cfg.ReadTimeout)
		if err != nil {
			return res, err
		}
		card, err := game.FromWire(p.Card)
		if err != nil {
			return res, fmt.Errorf("%w: hit without a card", ErrUnexpectedPayload)
		}
		res.Hand.Add(card)
		if p.Result.Final() {
			res.Result = p.Result
			res.Bust = res.Hand.Bust()
			return res, nil
		}
	}

	for {
		p, err := frame.ReadServerPayload(conn, cfg.ReadTimeout)
		if err != nil {
			return res, err
		}
		if p.Result.Final() {
			res.Result = p.Result
			return res, nil
		}
		card, err := game.FromWire(p.Card)
		if err != nil {
			return res, fmt.Errorf("%w: empty dealer card", ErrUnexpectedPayload)
		}
		res.Dealer.Add(card)
	}
}

func readCard(conn Conn, cfg session.Config) (game.Card, error) {
	p, err := frame.ReadServerPayload(conn, cfg.ReadTimeout)
	if err != nil {
		return game.Card{}, err
	}
	if p.Result.Final() {
		return game.Card{}, fmt.Errorf("%w: result %s during deal", ErrUnexpectedPayload, p.Result)
	}
	card, err := game.FromWire(p.Card)
	if err != nil {
		return game.Card{}, fmt.Errorf("%w: %v", ErrUnexpectedPayload, err)
	}
	return card, nil
}
