package economy

import (
	"fmt"
	"slices"
	"strconv"
	"sync"

	apperrors "github.com/popcity/popcity/internal/platform/errors"
)

// RewardSink receives confirmed reward bundles.
type RewardSink interface {
	Credit(Rewards) Stats
}

// Wallet is the balance surface the placement engine needs.
type Wallet interface {
	RewardSink
	Snapshot() Stats
	Debit(currency int64) error
	Settle(cost int64, credit Rewards) Stats
}

// change is a confirmed points/currency delta at a gateway revision.
type change struct {
	points   int64
	currency int64
	revision int64
}

// Ledger is the single owner of a session's Stats.
//
// Confirmations reach the ledger in any order. Snapshots and deltas carry the
// gateway revision they correspond to: a snapshot older than the one
// installed is dropped, a delta the installed snapshot already contains is
// dropped, and deltas newer than an incoming snapshot are replayed on top of
// it.
type Ledger struct {
	mu    sync.Mutex
	stats Stats
	base  int64    // revision of the installed snapshot
	ahead []change // revisioned deltas applied after base
}

// NewLedger creates a ledger holding initial.
func NewLedger(initial Stats) *Ledger {
	initial = initial.Normalize()
	return &Ledger{stats: initial, base: initial.Revision}
}

// Snapshot returns a copy of the current stats. Revision is the newest
// gateway revision folded in.
func (l *Ledger) Snapshot() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Replace installs an authoritative snapshot from the gateway and reports
// whether it was applied. A snapshot without a revision always applies.
func (l *Ledger) Replace(s Stats) bool {
	s = s.Normalize()
	l.mu.Lock()
	defer l.mu.Unlock()
	if s.Revision == 0 {
		l.stats, l.base, l.ahead = s, 0, nil
		return true
	}
	if s.Revision <= l.base {
		return false
	}
	l.stats, l.base = s, s.Revision
	l.ahead = slices.DeleteFunc(l.ahead, func(c change) bool { return c.revision <= s.Revision })
	for _, c := range l.ahead {
		l.applyLocked(c)
	}
	return true
}

// Credit applies r and returns the resulting stats. Negative fields are
// ignored.
func (l *Ledger) Credit(r Rewards) Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recordLocked(change{points: max(r.Points, 0), currency: max(r.Currency, 0), revision: r.Revision})
	return l.stats
}

// Settle applies a confirmed purchase: cost leaves the balance and credit
// joins it, both at credit.Revision.
func (l *Ledger) Settle(cost int64, credit Rewards) Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recordLocked(change{
		points:   max(credit.Points, 0),
		currency: max(credit.Currency, 0) - max(cost, 0),
		revision: credit.Revision,
	})
	return l.stats
}

// Debit removes currency, failing without change when the balance is short.
func (l *Ledger) Debit(currency int64) error {
	if currency < 0 {
		return fmt.Errorf("debit amount must not be negative: %d", currency)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stats.Currency < currency {
		return apperrors.WithMetadata(apperrors.CodePlacementInsufficientCurrency,
			fmt.Sprintf("currency %d below %d", l.stats.Currency, currency),
			map[string]string{"Cost": strconv.FormatInt(currency, 10)})
	}
	l.stats.Currency -= currency
	return nil
}

// Reset zeroes the ledger.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stats, l.base, l.ahead = Stats{}, 0, nil
}

func (l *Ledger) recordLocked(c change) {
	if c.revision != 0 {
		if c.revision <= l.base {
			return
		}
		l.ahead = append(l.ahead, c)
	}
	l.applyLocked(c)
}

func (l *Ledger) applyLocked(c change) {
	l.stats.Points += c.points
	l.stats.Currency += c.currency
	l.stats.Revision = max(l.stats.Revision, c.revision)
	l.stats = l.stats.Normalize()
}
