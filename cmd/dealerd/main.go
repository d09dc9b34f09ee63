package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danmuck/blackjack/internal/console"
	"github.com/danmuck/blackjack/internal/dealer"
	"github.com/danmuck/blackjack/internal/observability"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dealerd: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		name       string
		port       int
		metrics    string
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:           "dealerd",
		Short:         "Host blackjack tables and advertise them on the local network",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := defaultDealerConfig()
			if configPath != "" {
				loaded, err := loadDealerConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				cfg.Server.Name = name
			}
			if flags.Changed("port") {
				host, _, err := net.SplitHostPort(cfg.Server.ListenAddr)
				if err != nil {
					host = ""
				}
				cfg.Server.ListenAddr = net.JoinHostPort(host, strconv.Itoa(port))
			}
			if flags.Changed("metrics") {
				cfg.MetricsListen = metrics
			}
			if flags.Changed("verbose") {
				cfg.Verbose = verbose
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&name, "name", "", "table name sent in offers (truncated to 32 bytes)")
	cmd.Flags().IntVar(&port, "port", 0, "TCP port for players, 0 picks one")
	cmd.Flags().StringVar(&metrics, "metrics", "", "serve prometheus metrics on this address")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "print session state transitions")
	return cmd
}

func run(parent context.Context, cfg dealerConfig) error {
	if parent == nil {
		parent = context.Background()
	}
	observability.InitLogger("dealerd")
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer := console.NewPrinter(os.Stdout, cfg.Verbose)
	tally := observability.NewTally()
	srv := dealer.NewServer(cfg.Server,
		dealer.WithObserver(printer),
		dealer.WithStats(observability.MultiStats{tally, observability.PrometheusStats{Node: cfg.Server.Node}}),
	)

	if cfg.MetricsListen != "" {
		metricsSrv := &http.Server{
			Addr:              cfg.MetricsListen,
			Handler:           metricsMux(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("dealerd.run metrics server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	go func() {
		select {
		case addr := <-srv.Ready():
			printer.Banner("Blackjack dealer",
				"table  "+cfg.Server.Name,
				"listen "+addr,
				"offers udp/"+strconv.Itoa(cfg.Server.DiscoveryPort))
		case <-ctx.Done():
		}
	}()

	if err := srv.Run(ctx); err != nil {
		return err
	}
	t := tally.Total()
	log.Info().
		Int("rounds", t.Rounds).
		Int("wins", t.Wins).
		Int("losses", t.Losses).
		Int("ties", t.Ties).
		Msg("dealerd.run stopped")
	return nil
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.MetricsHandler())
	return mux
}
