package discovery

import (
	"time"

	"github.com/danmuck/blackjack/internal/protocol"
)

type config struct {
	port       int
	targetHost string
	listenHost string
	interval   time.Duration
	timeout    time.Duration
	node       string
}

func defaultConfig() config {
	return config{
		port:     protocol.DiscoveryPort,
		interval: time.Second,
		timeout:  10 * time.Second,
		node:     "dealer",
	}
}

type Option func(config) config

// WithPort overrides the discovery port. Peers must agree on it out of band.
func WithPort(port int) Option {
	return func(c config) config {
		c.port = port
		return c
	}
}

// WithTarget sends offers to host instead of the limited broadcast address.
func WithTarget(host string) Option {
	return func(c config) config {
		c.targetHost = host
		return c
	}
}

// WithListenHost binds the seeker to host instead of all interfaces.
func WithListenHost(host string) Option {
	return func(c config) config {
		c.listenHost = host
		return c
	}
}

func WithInterval(d time.Duration) Option {
	return func(c config) config {
		if d > 0 {
			c.interval = d
		}
		return c
	}
}

// WithTimeout bounds how long Seek waits for a first offer.
func WithTimeout(d time.Duration) Option {
	return func(c config) config {
		if d > 0 {
			c.timeout = d
		}
		return c
	}
}

// WithNode labels metrics and logs.
func WithNode(node string) Option {
	return func(c config) config {
		c.node = node
		return c
	}
}

func apply(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		c = opt(c)
	}
	return c
}
