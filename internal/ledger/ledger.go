// Package ledger keeps the bounded, append-only record of every order
// decision. Entries are never mutated after append; readers get copies.
package ledger

import (
	"sync"
	"time"

	"vortex/internal/gateway/exchange"
	"vortex/internal/strategy"
)

// DefaultCapacity bounds resident entries so long-running processes do not
// grow without limit. Lifetime counters keep counting past the wrap.
const DefaultCapacity = 10000

// Entry is one order decision: the uniform result plus the context it was
// made in.
type Entry struct {
	ID           string               `json:"id"`
	Time         time.Time            `json:"time"`
	Result       exchange.OrderResult `json:"result"`
	Signal       strategy.Signal      `json:"signal"`
	Equity       float64              `json:"equity"`
	AppliedClamp float64              `json:"applied_clamp"`
}

// Summary reports lifetime totals by status. Total always equals the sum of
// the four buckets.
type Summary struct {
	Total      int64 `json:"total"`
	Fills      int64 `json:"fills"`
	Rejections int64 `json:"rejections"`
	Errors     int64 `json:"errors"`
	Simulated  int64 `json:"simulated"`
}

// Archiver receives entries in append order. The ledger tolerates a missing
// or failing archiver silently; archival is an observer, not a dependency.
type Archiver interface {
	Offer(Entry)
}

// Ledger is a fixed-capacity ring. Only the order manager appends; observers
// hold read-only views via Tail and Summary.
type Ledger struct {
	mu       sync.RWMutex
	entries  []Entry
	next     int
	size     int
	summary  Summary
	archiver Archiver
}

func New(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ledger{entries: make([]Entry, capacity)}
}

// SetArchiver attaches an optional archival sink. Must be called before the
// first Append.
func (l *Ledger) SetArchiver(a Archiver) {
	l.mu.Lock()
	l.archiver = a
	l.mu.Unlock()
}

func (l *Ledger) Append(e Entry) {
	l.mu.Lock()
	l.entries[l.next] = e
	l.next = (l.next + 1) % len(l.entries)
	if l.size < len(l.entries) {
		l.size++
	}
	l.summary.Total++
	switch e.Result.Status {
	case exchange.StatusFilled:
		l.summary.Fills++
	case exchange.StatusRejected:
		l.summary.Rejections++
	case exchange.StatusError:
		l.summary.Errors++
	case exchange.StatusSimulated:
		l.summary.Simulated++
	}
	archiver := l.archiver
	l.mu.Unlock()

	if archiver != nil {
		archiver.Offer(e)
	}
}

// Tail returns the most recent n entries, oldest first. The snapshot is
// consistent: appends during iteration are not observed.
func (l *Ledger) Tail(n int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 || l.size == 0 {
		return nil
	}
	if n > l.size {
		n = l.size
	}
	out := make([]Entry, n)
	start := (l.next - n + len(l.entries)) % len(l.entries)
	for i := 0; i < n; i++ {
		out[i] = l.entries[(start+i)%len(l.entries)]
	}
	return out
}

// Len reports resident entries, never more than capacity.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}

func (l *Ledger) Summary() Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.summary
}
