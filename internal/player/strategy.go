package player

import (
	"context"
	"fmt"

	"github.com/danmuck/blackjack/internal/game"
	"github.com/danmuck/blackjack/internal/protocol"
	"github.com/pterm/pterm"
)

// View is what the player knows when deciding.
type View struct {
	Round    int
	Rounds   int
	Hand     game.Hand
	DealerUp game.Card
}

// Strategy picks the next decision for a round in progress.
type Strategy interface {
	Decide(ctx context.Context, v View) (protocol.Decision, error)
}

// ThresholdStrategy hits below StandAt. Zero means the dealer's own rule.
type ThresholdStrategy struct {
	StandAt int
}

func (s ThresholdStrategy) Decide(_ context.Context, v View) (protocol.Decision, error) {
	limit := s.StandAt
	if limit <= 0 {
		limit = game.DealerStandsAt
	}
	if v.Hand.Total() < limit {
		return protocol.DecisionHit, nil
	}
	return protocol.DecisionStand, nil
}

// StrategyFunc adapts a plain function.
type StrategyFunc func(ctx context.Context, v View) (protocol.Decision, error)

func (f StrategyFunc) Decide(ctx context.Context, v View) (protocol.Decision, error) {
	return f(ctx, v)
}

const (
	optionHit   = "Hit"
	optionStand = "Stand"
)

// PromptStrategy asks on the terminal.
type PromptStrategy struct {
	// Select is swapped in tests; nil uses an interactive pterm select.
	Select func(prompt string, options []string) (string, error)
}

func (s PromptStrategy) Decide(ctx context.Context, v View) (protocol.Decision, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sel := s.Select
	if sel == nil {
		sel = func(prompt string, options []string) (string, error) {
			return pterm.DefaultInteractiveSelect.
				WithDefaultText(prompt).
				WithOptions(options).
				Show()
		}
	}
	prompt := fmt.Sprintf("Round %d/%d | you: %s (%d) | dealer shows %s",
		v.Round, v.Rounds, v.Hand, v.Hand.Total(), v.DealerUp)
	choice, err := sel(prompt, []string{optionHit, optionStand})
	if err != nil {
		return "", err
	}
	switch choice {
	case optionHit:
		return protocol.DecisionHit, nil
	case optionStand:
		return protocol.DecisionStand, nil
	default:
		return "", fmt.Errorf("player: unknown choice %q", choice)
	}
}
