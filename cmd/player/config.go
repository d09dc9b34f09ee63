package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/blackjack/internal/protocol"
	"github.com/danmuck/blackjack/internal/protocol/session"
)

type fileConfig struct {
	Name            string  `toml:"name"`
	Rounds          int     `toml:"rounds"`
	Auto            bool    `toml:"auto"`
	StandAt         int     `toml:"stand_at"`
	Once            bool    `toml:"once"`
	DiscoveryPort   int     `toml:"discovery_port"`
	OfferTimeout    string  `toml:"offer_timeout"`
	OfferTimeoutMS  int64   `toml:"offer_timeout_ms"`
	ConnectTimeout  string  `toml:"connect_timeout"`
	ReadTimeout     string  `toml:"read_timeout"`
	MaxSeekAttempts int     `toml:"max_seek_attempts"`
	RetryInitial    string  `toml:"retry_initial_delay"`
	RetryMax        string  `toml:"retry_max_delay"`
	RetryMultiplier float64 `toml:"retry_multiplier"`
}

type playerConfig struct {
	Name            string
	Rounds          int
	Auto            bool
	StandAt         int
	Once            bool
	DiscoveryPort   int
	// MaxSeekAttempts bounds consecutive failed discoveries. Zero retries
	// until interrupted.
	MaxSeekAttempts int
	Session         session.Config
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{
		Name:          "player",
		DiscoveryPort: protocol.DiscoveryPort,
		Session:       session.DefaultConfig(),
	}
}

func loadPlayerConfig(path string) (playerConfig, error) {
	cfg := defaultPlayerConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return playerConfig{}, fmt.Errorf("load player config: %w", err)
	}

	if meta.IsDefined("name") {
		if name := strings.TrimSpace(raw.Name); name != "" {
			cfg.Name = name
		}
	}
	if meta.IsDefined("rounds") {
		if err := protocol.ValidateRounds(raw.Rounds); err != nil {
			return playerConfig{}, fmt.Errorf("rounds: %w", err)
		}
		cfg.Rounds = raw.Rounds
	}
	if meta.IsDefined("auto") {
		cfg.Auto = raw.Auto
	}
	if meta.IsDefined("stand_at") {
		cfg.StandAt = raw.StandAt
	}
	if meta.IsDefined("once") {
		cfg.Once = raw.Once
	}
	if meta.IsDefined("discovery_port") {
		if raw.DiscoveryPort <= 0 || raw.DiscoveryPort > 65535 {
			return playerConfig{}, fmt.Errorf("invalid discovery_port: %d", raw.DiscoveryPort)
		}
		cfg.DiscoveryPort = raw.DiscoveryPort
	}
	if meta.IsDefined("max_seek_attempts") {
		cfg.MaxSeekAttempts = raw.MaxSeekAttempts
	}

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"offer_timeout", raw.OfferTimeout, &cfg.Session.OfferTimeout},
		{"connect_timeout", raw.ConnectTimeout, &cfg.Session.ConnectTimeout},
		{"read_timeout", raw.ReadTimeout, &cfg.Session.ReadTimeout},
		{"retry_initial_delay", raw.RetryInitial, &cfg.Session.Backoff.InitialDelay},
		{"retry_max_delay", raw.RetryMax, &cfg.Session.Backoff.MaxDelay},
	}
	for _, d := range durations {
		if !meta.IsDefined(d.key) {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return playerConfig{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
		*d.dst = v
	}
	if meta.IsDefined("offer_timeout_ms") {
		cfg.Session.OfferTimeout = time.Duration(raw.OfferTimeoutMS) * time.Millisecond
	}
	if meta.IsDefined("retry_multiplier") {
		cfg.Session.Backoff.Multiplier = raw.RetryMultiplier
	}
	return cfg, nil
}
