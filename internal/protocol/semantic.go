package protocol

const (
	MinRounds = 1
	MaxRounds = 255
	MaxRank   = 13
	MaxSuit   = 3
)

// ValidateRounds rejects round counts outside 1-255.
func ValidateRounds(n int) error {
	if n < MinRounds || n > MaxRounds {
		return decodeErr(InvalidRounds, MessageRequest, "rounds %d", n)
	}
	return nil
}

// ValidateServerPayload checks the result enum and card ranges.
func ValidateServerPayload(p ServerPayload) error {
	if p.Result > ResultWin {
		return decodeErr(InvalidCard, MessagePayload, "result %d", p.Result)
	}
	if p.Card.Rank == 0 {
		if p.Card.Suit != 0 {
			return decodeErr(InvalidCard, MessagePayload, "suit %d without rank", p.Card.Suit)
		}
		return nil
	}
	if p.Card.Rank > MaxRank {
		return decodeErr(InvalidCard, MessagePayload, "rank %d", p.Card.Rank)
	}
	if p.Card.Suit > MaxSuit {
		return decodeErr(InvalidCard, MessagePayload, "suit %d", p.Card.Suit)
	}
	return nil
}
