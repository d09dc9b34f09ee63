// Package console renders dealer and player progress on a terminal.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/danmuck/blackjack/internal/dealer"
	"github.com/danmuck/blackjack/internal/game"
	"github.com/danmuck/blackjack/internal/player"
	"github.com/danmuck/blackjack/internal/protocol"
	"github.com/pterm/pterm"
)

// Printer is a dealer.Observer. Lines from concurrent sessions are
// serialized but may interleave between sessions.
type Printer struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

var _ dealer.Observer = (*Printer)(nil)

// NewPrinter writes to w, or stdout if w is nil. Verbose adds state
// transitions.
func NewPrinter(w io.Writer, verbose bool) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{w: w, verbose: verbose}
}

func (p *Printer) write(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.w, s)
}

// Banner announces a dealer or player at startup.
func (p *Printer) Banner(title string, lines ...string) {
	box := pterm.DefaultBox.
		WithTitle(pterm.LightCyan(title)).
		WithTitleTopCenter().
		WithLeftPadding(4).
		WithRightPadding(4)
	p.write(box.Sprint(strings.Join(lines, "\n")) + "\n")
}

func (p *Printer) OnTransition(e dealer.Transition) {
	if !p.verbose {
		return
	}
	p.write(pterm.Description.Sprintfln("[%s] %s -> %s (round %d)", e.SessionID, e.From, e.To, e.Round))
}

func (p *Printer) OnCard(e dealer.CardEvent) {
	if e.Hidden {
		p.write(pterm.Info.Sprintfln("[%s] round %d: dealer takes a hidden card", e.SessionID, e.Round))
		return
	}
	p.write(pterm.Info.Sprintfln("[%s] round %d: %s gets %s (total %d)",
		e.SessionID, e.Round, e.Holder, pterm.LightCyan(e.Card.String()), e.Total))
}

func (p *Printer) OnRoundComplete(e dealer.RoundEvent) {
	line := fmt.Sprintf("[%s] %s round %d/%d: %s (player %d, dealer %d)",
		e.SessionID, e.Player, e.Round, e.Rounds, outcome(e.Result), e.PlayerTotal, e.DealerTotal)
	if e.PlayerBust {
		line += " bust"
	}
	p.write(resultPrinter(e.Result).Sprintln(line))
}

func (p *Printer) OnSessionEnd(e dealer.SessionEnd) {
	if e.Reason == dealer.ReasonFinished {
		p.write(pterm.Success.Sprintfln("[%s] %s finished %d rounds from %s", e.SessionID, e.Player, e.Played, e.Remote))
		return
	}
	p.write(pterm.Error.Sprintfln("[%s] session from %s aborted (%s) after %d/%d rounds: %v",
		e.SessionID, e.Remote, e.Reason, e.Played, e.Rounds, e.Err))
}

// Round prints one round from the player's side.
func (p *Printer) Round(r player.RoundResult) {
	line := fmt.Sprintf("round %d: %s | you %s (%d) | dealer %s (%d)",
		r.Round, outcome(r.Result), hand(r.Hand), r.Hand.Total(), hand(r.Dealer), r.Dealer.Total())
	p.write(resultPrinter(r.Result).Sprintln(line))
}

// Summary prints the session totals.
func (p *Printer) Summary(name string, s player.Summary) {
	p.write(pterm.Info.Sprintfln("%s played %d rounds: %d won, %d lost, %d tied, win rate %.1f%%",
		pterm.LightCyan(name), s.Rounds, s.Wins, s.Losses, s.Ties, s.WinRate()))
}

func hand(h game.Hand) string {
	if h.Len() == 0 {
		return "-"
	}
	return h.String()
}

func outcome(r protocol.Result) string {
	switch r {
	case protocol.ResultWin:
		return "player wins"
	case protocol.ResultLoss:
		return "dealer wins"
	case protocol.ResultTie:
		return "push"
	default:
		return r.String()
	}
}

func resultPrinter(r protocol.Result) *pterm.PrefixPrinter {
	switch r {
	case protocol.ResultWin:
		return &pterm.Success
	case protocol.ResultLoss:
		return &pterm.Error
	default:
		return &pterm.Warning
	}
}
