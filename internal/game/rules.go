package game

import "github.com/danmuck/blackjack/internal/protocol"

// DealerShouldDraw is the house rule: draw while strictly under 17.
func DealerShouldDraw(total int) bool {
	return total < DealerStandsAt
}

// PlayDealer draws into hand until the house rule says stop and returns the
// cards drawn. Every draw adds at least 2, so the loop ends by 17.
func PlayDealer(hand *Hand, draw func() Card) []Card {
	var drawn []Card
	for DealerShouldDraw(hand.Total()) {
		c := draw()
		hand.Add(c)
		drawn = append(drawn, c)
	}
	return drawn
}

// Compare resolves a round where the player did not bust. The result is
// from the player's side.
func Compare(player, dealer Hand) protocol.Result {
	p, d := player.Total(), dealer.Total()
	switch {
	case d > BustLimit:
		return protocol.ResultWin
	case p == d:
		return protocol.ResultTie
	case p > d:
		return protocol.ResultWin
	default:
		return protocol.ResultLoss
	}
}
