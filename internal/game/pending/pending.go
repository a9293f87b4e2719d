// Package pending tracks in-flight gateway operations per entity key.
//
// Each operation moves pending -> confirmed or pending -> rolled_back exactly
// once. Tokens carry the session epoch they were issued in; after Cancel every
// outstanding token resolves as irrelevant so late responses can be dropped.
package pending

import (
	"fmt"
	"sync"
	"sync/atomic"

	apperrors "github.com/popcity/popcity/internal/platform/errors"
)

// State is the lifecycle position of one operation.
type State string

const (
	StatePending    State = "pending"
	StateConfirmed  State = "confirmed"
	StateRolledBack State = "rolled_back"
)

// Ticket is a snapshot of an Epoch.
type Ticket uint64

// Epoch is a monotonically increasing session generation.
type Epoch struct {
	n atomic.Uint64
}

// Ticket returns the current generation.
func (e *Epoch) Ticket() Ticket {
	return Ticket(e.n.Load())
}

// Valid reports whether t was issued in the current generation.
func (e *Epoch) Valid(t Ticket) bool {
	return Ticket(e.n.Load()) == t
}

// Advance invalidates every ticket issued so far.
func (e *Epoch) Advance() {
	e.n.Add(1)
}

// Token identifies one operation started with Tracker.Begin.
type Token[K comparable] struct {
	Key    K
	ticket Ticket
	seq    uint64
}

// Tracker guards one in-flight operation per key.
type Tracker[K comparable] struct {
	epoch Epoch

	mu   sync.Mutex
	seq  uint64
	open map[K]uint64
}

// NewTracker creates an empty tracker.
func NewTracker[K comparable]() *Tracker[K] {
	return &Tracker[K]{open: map[K]uint64{}}
}

// Begin marks key pending. It fails with OPERATION_IN_FLIGHT when an
// operation for the key is already pending.
func (t *Tracker[K]) Begin(key K) (Token[K], error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, busy := t.open[key]; busy {
		return Token[K]{}, apperrors.WithMetadata(apperrors.CodeOperationInFlight,
			fmt.Sprintf("operation for %v already in flight", key),
			map[string]string{"Key": fmt.Sprint(key)})
	}
	t.seq++
	t.open[key] = t.seq
	return Token[K]{Key: key, ticket: t.epoch.Ticket(), seq: t.seq}, nil
}

// Pending reports whether key has an operation in flight.
func (t *Tracker[K]) Pending(key K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, busy := t.open[key]
	return busy
}

// Resolve closes the operation behind tok. relevant is false when the
// tracker was cancelled after tok was issued; callers must then discard the
// response.
func (t *Tracker[K]) Resolve(tok Token[K], ok bool) (state State, relevant bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.epoch.Valid(tok.ticket) {
		return StateRolledBack, false
	}
	if seq, open := t.open[tok.Key]; !open || seq != tok.seq {
		return StateRolledBack, false
	}
	delete(t.open, tok.Key)
	if ok {
		return StateConfirmed, true
	}
	return StateRolledBack, true
}

// Cancel drops every pending operation and invalidates outstanding tokens.
func (t *Tracker[K]) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.epoch.Advance()
	clear(t.open)
}

// Len returns the number of pending operations.
func (t *Tracker[K]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.open)
}
