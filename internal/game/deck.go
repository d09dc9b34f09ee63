package game

import (
	"math/rand"
	"time"
)

// DeckSize is rank x suit.
const DeckSize = 52

// Drawer hands out cards for one round.
type Drawer interface {
	Draw() Card
	Reset()
}

// Deck draws uniformly without replacement from 52 cards. Reset rebuilds
// the full deck; a round never sees a duplicate, separate rounds may.
type Deck struct {
	rng   *rand.Rand
	cards []Card
}

// NewDeck builds a full deck. A nil rng seeds from the clock.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	d := &Deck{rng: rng}
	d.Reset()
	return d
}

func (d *Deck) Reset() {
	d.cards = d.cards[:0]
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := uint8(1); rank <= 13; rank++ {
			d.cards = append(d.cards, Card{Rank: rank, Suit: suit})
		}
	}
}

// Draw removes and returns a random remaining card. An exhausted deck is
// rebuilt first; a single round cannot get there.
func (d *Deck) Draw() Card {
	if len(d.cards) == 0 {
		d.Reset()
	}
	i := d.rng.Intn(len(d.cards))
	c := d.cards[i]
	last := len(d.cards) - 1
	d.cards[i] = d.cards[last]
	d.cards = d.cards[:last]
	return c
}

func (d *Deck) Remaining() int {
	return len(d.cards)
}

// StackedDeck deals a fixed sequence, then falls back to Fallback.
// Tests and replays use it to force specific hands.
type StackedDeck struct {
	Cards    []Card
	Fallback Drawer
	next     int
}

func NewStackedDeck(cards ...Card) *StackedDeck {
	return &StackedDeck{Cards: cards}
}

func (s *StackedDeck) Draw() Card {
	if s.next < len(s.Cards) {
		c := s.Cards[s.next]
		s.next++
		return c
	}
	if s.Fallback == nil {
		s.Fallback = NewDeck(nil)
	}
	return s.Fallback.Draw()
}

// Reset keeps the stacked position so a multi-round script continues.
func (s *StackedDeck) Reset() {
	if s.Fallback != nil {
		s.Fallback.Reset()
	}
}
