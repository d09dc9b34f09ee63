package dealer

import (
	"github.com/danmuck/blackjack/internal/game"
	"github.com/danmuck/blackjack/internal/protocol"
)

// Transition is one state change of a session.
type Transition struct {
	SessionID string
	Player    string
	From      State
	To        State
	Round     int
}

// Holder says whose hand a card went to.
type Holder string

const (
	HolderPlayer Holder = "player"
	HolderDealer Holder = "dealer"
)

// CardEvent is one card dealt. Hidden cards are reported to the observer but
// never sent until revealed.
type CardEvent struct {
	SessionID string
	Round     int
	Holder    Holder
	Card      game.Card
	Hidden    bool
	Total     int
}

// RoundEvent closes one round.
type RoundEvent struct {
	SessionID   string
	Player      string
	Round       int
	Rounds      int
	Result      protocol.Result
	PlayerTotal int
	DealerTotal int
	PlayerBust  bool
}

// SessionEnd is reported exactly once per session, before its connection is
// discarded.
type SessionEnd struct {
	SessionID string
	Player    string
	Remote    string
	Played    int
	Rounds    int
	Reason    AbortReason
	Err       error
}

// Observer receives session progress, for display. Implementations must be
// safe for concurrent use.
type Observer interface {
	OnTransition(Transition)
	OnCard(CardEvent)
	OnRoundComplete(RoundEvent)
	OnSessionEnd(SessionEnd)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) OnTransition(Transition)    {}
func (NopObserver) OnCard(CardEvent)           {}
func (NopObserver) OnRoundComplete(RoundEvent) {}
func (NopObserver) OnSessionEnd(SessionEnd)    {}

// MultiObserver fans events out in order.
type MultiObserver []Observer

func (m MultiObserver) OnTransition(e Transition) {
	for _, o := range m {
		o.OnTransition(e)
	}
}

func (m MultiObserver) OnCard(e CardEvent) {
	for _, o := range m {
		o.OnCard(e)
	}
}

func (m MultiObserver) OnRoundComplete(e RoundEvent) {
	for _, o := range m {
		o.OnRoundComplete(e)
	}
}

func (m MultiObserver) OnSessionEnd(e SessionEnd) {
	for _, o := range m {
		o.OnSessionEnd(e)
	}
}
