// Package nudge lets a player poke friends about their goals, once per friend.
package nudge

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/popcity/popcity/internal/game/pending"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
)

// Gateway is the remote surface of the nudge engine.
type Gateway interface {
	ListNudges(ctx context.Context) ([]string, error)
	SendNudge(ctx context.Context, toUserID, goalName string) error
}

// Engine tracks which friends the caller already nudged.
type Engine struct {
	gateway  Gateway
	userID   string
	logf     func(string, ...any)
	inflight *pending.Tracker[string]
	epoch    pending.Epoch

	mu   sync.Mutex
	sent map[string]bool
}

// NewEngine builds a nudge engine for userID.
func NewEngine(gateway Gateway, userID string, logf func(string, ...any)) *Engine {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	if logf == nil {
		logf = log.Printf
	}
	return &Engine{
		gateway:  gateway,
		userID:   strings.TrimSpace(userID),
		logf:     logf,
		inflight: pending.NewTracker[string](),
		sent:     map[string]bool{},
	}
}

// Load replaces the set of nudged friends with the gateway's.
func (e *Engine) Load(ctx context.Context) error {
	ticket := e.epoch.Ticket()
	ids, err := e.gateway.ListNudges(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.epoch.Valid(ticket) {
		e.logf("nudge: dropping nudge list received after reset")
		return nil
	}
	clear(e.sent)
	for _, id := range ids {
		e.sent[id] = true
	}
	return nil
}

// Send nudges toUserID about goalName. The friend is recorded only after the
// gateway accepts it.
func (e *Engine) Send(ctx context.Context, toUserID, goalName string) error {
	toUserID = strings.TrimSpace(toUserID)
	goalName = strings.TrimSpace(goalName)

	e.mu.Lock()
	switch {
	case toUserID == "":
		e.mu.Unlock()
		return apperrors.New(apperrors.CodeNudgeTargetEmpty, "nudge target is required")
	case toUserID == e.userID:
		e.mu.Unlock()
		return apperrors.New(apperrors.CodeNudgeSelf, "cannot nudge yourself")
	case e.sent[toUserID]:
		e.mu.Unlock()
		return apperrors.New(apperrors.CodeNudgeAlreadySent, fmt.Sprintf("already nudged %q", toUserID))
	}
	tok, err := e.inflight.Begin(toUserID)
	e.mu.Unlock()
	if err != nil {
		return err
	}

	callErr := e.gateway.SendNudge(ctx, toUserID, goalName)

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, relevant := e.inflight.Resolve(tok, callErr == nil); !relevant {
		e.logf("nudge: dropping response for %s received after reset", toUserID)
		return callErr
	}
	if callErr != nil {
		return callErr
	}
	e.sent[toUserID] = true
	return nil
}

// Sent reports whether toUserID was already nudged.
func (e *Engine) Sent(toUserID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sent[strings.TrimSpace(toUserID)]
}

// Reset forgets every nudge and drops in-flight responses.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.epoch.Advance()
	e.inflight.Cancel()
	clear(e.sent)
}

type unavailableGateway struct{}

func (unavailableGateway) ListNudges(context.Context) ([]string, error) {
	return nil, apperrors.Transport("nudge gateway is not configured", nil)
}

func (unavailableGateway) SendNudge(context.Context, string, string) error {
	return apperrors.Transport("nudge gateway is not configured", nil)
}
