package observability

import (
	"sync"

	"github.com/danmuck/blackjack/internal/protocol"
)

// RoundRecord is one completed round as seen by a statistics collector.
type RoundRecord struct {
	SessionID string
	Player    string
	Round     int
	Outcome   protocol.Result
}

// StatsCollector is notified once per completed round. Implementations must
// be safe for concurrent use; sessions report from their own goroutines.
type StatsCollector interface {
	RecordRound(rec RoundRecord)
}

// Totals is a snapshot of outcome counts.
type Totals struct {
	Rounds int
	Wins   int
	Losses int
	Ties   int
}

// WinRate is the share of rounds won, in percent.
func (t Totals) WinRate() float64 {
	if t.Rounds == 0 {
		return 0
	}
	return float64(t.Wins) / float64(t.Rounds) * 100
}

func (t *Totals) add(r protocol.Result) {
	t.Rounds++
	switch r {
	case protocol.ResultWin:
		t.Wins++
	case protocol.ResultLoss:
		t.Losses++
	case protocol.ResultTie:
		t.Ties++
	}
}

// Tally aggregates outcomes overall and per session.
type Tally struct {
	mu        sync.RWMutex
	total     Totals
	bySession map[string]Totals
}

func NewTally() *Tally {
	return &Tally{bySession: make(map[string]Totals)}
}

func (t *Tally) RecordRound(rec RoundRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total.add(rec.Outcome)
	s := t.bySession[rec.SessionID]
	s.add(rec.Outcome)
	t.bySession[rec.SessionID] = s
}

func (t *Tally) Total() Totals {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.total
}

func (t *Tally) Session(id string) (Totals, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.bySession[id]
	return s, ok
}

// PrometheusStats forwards round outcomes to the rounds_total counter.
type PrometheusStats struct {
	Node string
}

func (p PrometheusStats) RecordRound(rec RoundRecord) {
	RecordRound(p.Node, rec.Outcome.String())
}

// MultiStats fans a record out to several collectors.
type MultiStats []StatsCollector

func (m MultiStats) RecordRound(rec RoundRecord) {
	for _, c := range m {
		if c != nil {
			c.RecordRound(rec)
		}
	}
}
