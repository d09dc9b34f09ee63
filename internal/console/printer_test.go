package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/blackjack/internal/dealer"
	"github.com/danmuck/blackjack/internal/game"
	"github.com/danmuck/blackjack/internal/observability"
	"github.com/danmuck/blackjack/internal/player"
	"github.com/danmuck/blackjack/internal/protocol"
	"github.com/danmuck/blackjack/internal/testutil/testlog"
	"github.com/danmuck/blackjack/internal/transport"
	"github.com/pterm/pterm"
)

func plain(t *testing.T) {
	t.Helper()
	pterm.DisableColor()
	t.Cleanup(pterm.EnableColor)
}

func TestPrinterRendersSessionEvents(t *testing.T) {
	testlog.Start(t)
	plain(t)
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	p.OnTransition(dealer.Transition{SessionID: "d-1", From: dealer.StateDealing, To: dealer.StateAwaitDecision})
	p.OnCard(dealer.CardEvent{SessionID: "d-1", Round: 1, Holder: dealer.HolderPlayer, Card: game.Card{Rank: 1, Suit: game.Spades}, Total: 11})
	p.OnCard(dealer.CardEvent{SessionID: "d-1", Round: 1, Holder: dealer.HolderDealer, Card: game.Card{Rank: 12, Suit: game.Hearts}, Hidden: true})
	p.OnRoundComplete(dealer.RoundEvent{SessionID: "d-1", Player: "Alice", Round: 1, Rounds: 2, Result: protocol.ResultTie, PlayerTotal: 20, DealerTotal: 20})
	p.OnSessionEnd(dealer.SessionEnd{SessionID: "d-1", Player: "Alice", Remote: "10.0.0.2:5000", Played: 1, Rounds: 2, Reason: dealer.ReasonTimeout, Err: transport.ErrTimeout})

	out := buf.String()
	for _, want := range []string{"A♠", "total 11", "hidden card", "push", "Alice round 1/2", "aborted (timeout)", "1/2 rounds"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Q♥") {
		t.Fatalf("hidden card leaked:\n%s", out)
	}
	if strings.Contains(out, "await_decision") {
		t.Fatalf("transitions printed without verbose:\n%s", out)
	}
}

func TestPrinterVerboseTransitions(t *testing.T) {
	testlog.Start(t)
	plain(t)
	var buf bytes.Buffer
	p := NewPrinter(&buf, true)
	p.OnTransition(dealer.Transition{SessionID: "d-2", From: dealer.StateResolving, To: dealer.StateFinished, Round: 3})
	if !strings.Contains(buf.String(), "resolving -> finished") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestPrinterPlayerSide(t *testing.T) {
	testlog.Start(t)
	plain(t)
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	p.Banner("Blackjack", "dealer Table 1", "port 40001")
	p.Round(player.RoundResult{
		Round:  1,
		Result: protocol.ResultWin,
		Hand:   game.NewHand(game.Card{Rank: 10, Suit: game.Clubs}, game.Card{Rank: 1, Suit: game.Hearts}),
		Dealer: game.NewHand(game.Card{Rank: 9, Suit: game.Clubs}),
	})
	p.Summary("Bob", player.Summary{Totals: observability.Totals{Rounds: 4, Wins: 1, Losses: 2, Ties: 1}})

	out := buf.String()
	for _, want := range []string{"Table 1", "player wins", "(21)", "Bob played 4 rounds", "win rate 25.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrinterSessionFinished(t *testing.T) {
	testlog.Start(t)
	plain(t)
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)
	p.OnSessionEnd(dealer.SessionEnd{SessionID: "d-3", Player: "Eve", Played: 5, Rounds: 5, Reason: dealer.ReasonFinished})
	p.OnSessionEnd(dealer.SessionEnd{SessionID: "d-4", Reason: dealer.ReasonIO, Err: errors.New("broken pipe")})
	out := buf.String()
	if !strings.Contains(out, "Eve finished 5 rounds") || !strings.Contains(out, "broken pipe") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
