package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/danmuck/blackjack/internal/console"
	"github.com/danmuck/blackjack/internal/discovery"
	"github.com/danmuck/blackjack/internal/observability"
	"github.com/danmuck/blackjack/internal/player"
	"github.com/danmuck/blackjack/internal/protocol"
	"github.com/danmuck/blackjack/internal/protocol/session"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const defaultAutoRounds = 3

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "player: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		name       string
		rounds     int
		auto       bool
		standAt    int
		once       bool
	)
	cmd := &cobra.Command{
		Use:           "player",
		Short:         "Find a blackjack dealer on the local network and play",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := defaultPlayerConfig()
			if configPath != "" {
				loaded, err := loadPlayerConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				cfg.Name = name
			}
			if flags.Changed("rounds") {
				if err := protocol.ValidateRounds(rounds); err != nil {
					return err
				}
				cfg.Rounds = rounds
			}
			if flags.Changed("auto") {
				cfg.Auto = auto
			}
			if flags.Changed("stand-at") {
				cfg.StandAt = standAt
			}
			if flags.Changed("once") {
				cfg.Once = once
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&name, "name", "", "name sent to the dealer (truncated to 32 bytes)")
	cmd.Flags().IntVar(&rounds, "rounds", 0, "rounds per session, 1-255; asked for when unset")
	cmd.Flags().BoolVar(&auto, "auto", false, "play automatically instead of prompting")
	cmd.Flags().IntVar(&standAt, "stand-at", 0, "with --auto, stand at this total (default 17)")
	cmd.Flags().BoolVar(&once, "once", false, "exit after one session")
	return cmd
}

func run(parent context.Context, cfg playerConfig) error {
	if parent == nil {
		parent = context.Background()
	}
	observability.InitLogger("player")
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var strategy player.Strategy = player.PromptStrategy{}
	if cfg.Auto {
		strategy = player.ThresholdStrategy{StandAt: cfg.StandAt}
	}
	rounds, err := resolveRounds(cfg)
	if err != nil {
		return err
	}

	printer := console.NewPrinter(os.Stdout, false)
	printer.Banner("Blackjack player",
		"name   "+cfg.Name,
		"rounds "+strconv.Itoa(rounds),
		"offers udp/"+strconv.Itoa(cfg.DiscoveryPort))

	seeker := discovery.NewSeeker(
		discovery.WithPort(cfg.DiscoveryPort),
		discovery.WithTimeout(cfg.Session.OfferTimeout),
		discovery.WithNode(cfg.Name),
	)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for ctx.Err() == nil {
		pterm.Info.Println("Client started, listening for offer requests...")
		found, err := seekWithRetry(ctx, cfg, seeker.Seek, rng)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		pterm.Info.Printfln("Received offer from %s at %s", pterm.LightCyan(found.Offer.ServerName), found.Addr())

		conn, err := discovery.Connect(ctx, found, cfg.Session.ConnectTimeout)
		if err != nil {
			log.Warn().Err(err).Msg("player.run connect failed")
			if cfg.Once {
				return err
			}
			continue
		}
		client := player.NewClient(cfg.Name, strategy, cfg.Session)
		client.OnRound = printer.Round
		sum, err := client.PlaySession(ctx, conn, uint8(rounds))
		_ = conn.Close()
		printer.Summary(cfg.Name, sum)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			pterm.Error.Printfln("Session with %s ended early: %v", found.Offer.ServerName, err)
			if cfg.Once {
				return err
			}
			continue
		}
		if cfg.Once {
			return nil
		}
	}
	return nil
}

// seekWithRetry backs off between discovery windows that found nothing.
// Any other failure is returned at once.
func seekWithRetry(ctx context.Context, cfg playerConfig, seek func(context.Context) (discovery.Found, error), rng *rand.Rand) (discovery.Found, error) {
	for attempt := 1; ; attempt++ {
		found, err := seek(ctx)
		if err == nil {
			return found, nil
		}
		if !errors.Is(err, discovery.ErrNoOffer) {
			return discovery.Found{}, err
		}
		if cfg.MaxSeekAttempts > 0 && attempt >= cfg.MaxSeekAttempts {
			return discovery.Found{}, fmt.Errorf("gave up after %d attempts: %w", attempt, err)
		}
		delay := session.NextBackoffDelay(cfg.Session.Backoff, attempt, rng)
		log.Info().
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("player.seekWithRetry no offer")
		select {
		case <-ctx.Done():
			return discovery.Found{}, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func resolveRounds(cfg playerConfig) (int, error) {
	if cfg.Rounds > 0 {
		return cfg.Rounds, nil
	}
	if cfg.Auto {
		return defaultAutoRounds, nil
	}
	for {
		raw, err := pterm.DefaultInteractiveTextInput.
			WithDefaultText("How many rounds would you like to play (1-255)?").
			Show()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err == nil {
			err = protocol.ValidateRounds(n)
		}
		if err == nil {
			return n, nil
		}
		pterm.Error.Printfln("Invalid number of rounds: %q", raw)
	}
}
