package session

import "time"

// BackoffConfig defines retry backoff behavior.
type BackoffConfig struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
}

// Config defines transport/session timeouts. Every blocking call in a
// session is bounded by one of these.
type Config struct {
	ConnectTimeout    time.Duration
	HandshakeTimeout  time.Duration
	DecisionTimeout   time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	OfferTimeout      time.Duration
	BroadcastInterval time.Duration
	Backoff           BackoffConfig
}

// DefaultConfig returns the timeouts deployed peers expect.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout:    5 * time.Second,
		HandshakeTimeout:  30 * time.Second,
		DecisionTimeout:   60 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		OfferTimeout:      10 * time.Second,
		BroadcastInterval: time.Second,
		Backoff: BackoffConfig{
			InitialDelay: 250 * time.Millisecond,
			Multiplier:   2.0,
			MaxDelay:     5 * time.Second,
			Jitter:       true,
		},
	}
}

// WithDefaults fills zero or negative fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = d.ConnectTimeout
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = d.HandshakeTimeout
	}
	if c.DecisionTimeout <= 0 {
		c.DecisionTimeout = d.DecisionTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.OfferTimeout <= 0 {
		c.OfferTimeout = d.OfferTimeout
	}
	if c.BroadcastInterval <= 0 {
		c.BroadcastInterval = d.BroadcastInterval
	}
	if c.Backoff.InitialDelay <= 0 {
		c.Backoff = d.Backoff
	}
	return c
}
