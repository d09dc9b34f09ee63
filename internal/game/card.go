// Package game holds blackjack card rules: cards, hands, the per-round
// deck, the dealer draw rule and outcome comparison.
//
// Aces always count 11. There is no soft-hand re-valuation.
package game

import (
	"errors"
	"fmt"

	"github.com/danmuck/blackjack/internal/protocol"
)

var ErrInvalidCard = errors.New("game: invalid card")

const (
	BustLimit      = 21
	DealerStandsAt = 17
)

// Suit is 0-3 on the wire.
type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

var suitSymbols = [...]string{"♥", "♦", "♣", "♠"}
var rankNames = [...]string{"", "A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Card is an immutable playing card. Rank 1 is the Ace, 11-13 the faces.
type Card struct {
	Rank uint8
	Suit Suit
}

// NewCard validates rank 1-13 and suit 0-3.
func NewCard(rank uint8, suit Suit) (Card, error) {
	if rank < 1 || rank > 13 || suit > Spades {
		return Card{}, fmt.Errorf("%w: rank=%d suit=%d", ErrInvalidCard, rank, suit)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// Value is the blackjack value: Ace 11, faces 10, others their rank.
func (c Card) Value() int {
	switch {
	case c.Rank == 1:
		return 11
	case c.Rank >= 11:
		return 10
	default:
		return int(c.Rank)
	}
}

func (c Card) String() string {
	if c.Rank < 1 || int(c.Rank) >= len(rankNames) || int(c.Suit) >= len(suitSymbols) {
		return "??"
	}
	return rankNames[c.Rank] + suitSymbols[c.Suit]
}

// Wire converts to payload fields.
func (c Card) Wire() protocol.CardFields {
	return protocol.CardFields{Rank: uint16(c.Rank), Suit: uint8(c.Suit)}
}

// FromWire converts payload fields back. Empty fields are rejected.
func FromWire(f protocol.CardFields) (Card, error) {
	if f.Rank == 0 || f.Rank > 13 {
		return Card{}, fmt.Errorf("%w: rank=%d", ErrInvalidCard, f.Rank)
	}
	return NewCard(uint8(f.Rank), Suit(f.Suit))
}
