package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/blackjack/internal/dealer"
)

type fileConfig struct {
	Name                string `toml:"name"`
	Listen              string `toml:"listen"`
	DiscoveryPort       int    `toml:"discovery_port"`
	BroadcastTarget     string `toml:"broadcast_target"`
	BroadcastInterval   string `toml:"broadcast_interval"`
	BroadcastIntervalMS int64  `toml:"broadcast_interval_ms"`
	HandshakeTimeout    string `toml:"handshake_timeout"`
	DecisionTimeout     string `toml:"decision_timeout"`
	DecisionTimeoutMS   int64  `toml:"decision_timeout_ms"`
	WriteTimeout        string `toml:"write_timeout"`
	Node                string `toml:"node"`
	MetricsListen       string `toml:"metrics_listen"`
	Verbose             bool   `toml:"verbose"`
}

type dealerConfig struct {
	Server        dealer.ServerConfig
	MetricsListen string
	Verbose       bool
}

func defaultDealerConfig() dealerConfig {
	return dealerConfig{Server: dealer.DefaultServerConfig()}
}

func loadDealerConfig(path string) (dealerConfig, error) {
	cfg := defaultDealerConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return dealerConfig{}, fmt.Errorf("load dealer config: %w", err)
	}

	if meta.IsDefined("name") {
		if name := strings.TrimSpace(raw.Name); name != "" {
			cfg.Server.Name = name
		}
	}
	if meta.IsDefined("listen") {
		cfg.Server.ListenAddr = strings.TrimSpace(raw.Listen)
	}
	if meta.IsDefined("discovery_port") {
		if raw.DiscoveryPort <= 0 || raw.DiscoveryPort > 65535 {
			return dealerConfig{}, fmt.Errorf("invalid discovery_port: %d", raw.DiscoveryPort)
		}
		cfg.Server.DiscoveryPort = raw.DiscoveryPort
	}
	if meta.IsDefined("broadcast_target") {
		cfg.Server.BroadcastTarget = strings.TrimSpace(raw.BroadcastTarget)
	}
	if meta.IsDefined("node") {
		cfg.Server.Node = strings.TrimSpace(raw.Node)
	}

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"broadcast_interval", raw.BroadcastInterval, &cfg.Server.Session.BroadcastInterval},
		{"handshake_timeout", raw.HandshakeTimeout, &cfg.Server.Session.HandshakeTimeout},
		{"decision_timeout", raw.DecisionTimeout, &cfg.Server.Session.DecisionTimeout},
		{"write_timeout", raw.WriteTimeout, &cfg.Server.Session.WriteTimeout},
	}
	for _, d := range durations {
		if !meta.IsDefined(d.key) {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return dealerConfig{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
		*d.dst = v
	}
	if meta.IsDefined("broadcast_interval_ms") {
		cfg.Server.Session.BroadcastInterval = time.Duration(raw.BroadcastIntervalMS) * time.Millisecond
	}
	if meta.IsDefined("decision_timeout_ms") {
		cfg.Server.Session.DecisionTimeout = time.Duration(raw.DecisionTimeoutMS) * time.Millisecond
	}

	if meta.IsDefined("metrics_listen") {
		cfg.MetricsListen = strings.TrimSpace(raw.MetricsListen)
	}
	if meta.IsDefined("verbose") {
		cfg.Verbose = raw.Verbose
	}
	return cfg, nil
}
