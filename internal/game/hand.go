package game

import "strings"

// Hand is owned by one participant for one round and only grows.
type Hand struct {
	cards []Card
}

func NewHand(cards ...Card) Hand {
	return Hand{cards: append([]Card(nil), cards...)}
}

// Add appends a drawn card.
func (h *Hand) Add(c Card) {
	h.cards = append(h.cards, c)
}

// Cards returns a copy of the cards in draw order.
func (h Hand) Cards() []Card {
	return append([]Card(nil), h.cards...)
}

func (h Hand) Len() int {
	return len(h.cards)
}

// Total is recomputed from the cards on every call.
func (h Hand) Total() int {
	total := 0
	for _, c := range h.cards {
		total += c.Value()
	}
	return total
}

func (h Hand) Bust() bool {
	return h.Total() > BustLimit
}

func (h Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		parts[i] = "[" + c.String() + "]"
	}
	return strings.Join(parts, " ")
}
