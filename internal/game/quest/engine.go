package quest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/game/pending"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
)

// Engine owns the session's quest list.
type Engine struct {
	gateway  Gateway
	rewards  economy.RewardSink
	logf     func(string, ...any)
	inflight *pending.Tracker[string]
	epoch    pending.Epoch

	mu     sync.Mutex
	quests []Quest
}

// NewEngine builds a quest engine crediting completion rewards to rewards.
func NewEngine(gateway Gateway, rewards economy.RewardSink, logf func(string, ...any)) *Engine {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	if logf == nil {
		logf = log.Printf
	}
	return &Engine{gateway: gateway, rewards: rewards, logf: logf, inflight: pending.NewTracker[string]()}
}

// Load replaces the local quests with the gateway's list. filter is an
// AIP-160 expression such as `category = "no-spend"`; blank lists everything.
func (e *Engine) Load(ctx context.Context, filter string) error {
	ticket := e.epoch.Ticket()
	quests, err := e.gateway.ListQuests(ctx, strings.TrimSpace(filter))
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.epoch.Valid(ticket) {
		e.logf("quest: dropping quest list received after reset")
		return nil
	}
	e.quests = append([]Quest(nil), quests...)
	return nil
}

// Accept moves an available quest to active once the gateway confirms.
func (e *Engine) Accept(ctx context.Context, questID string) (Quest, error) {
	tok, err := e.begin(questID, func(q Quest) error {
		if q.Status != StatusAvailable {
			return apperrors.New(apperrors.CodeQuestNotAvailable, fmt.Sprintf("quest %q is %s", q.ID, q.Status))
		}
		return nil
	})
	if err != nil {
		return Quest{}, err
	}

	accepted, callErr := e.gateway.AcceptQuest(ctx, tok.Key)

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, relevant := e.inflight.Resolve(tok, callErr == nil); !relevant {
		e.logf("quest: dropping accept response for %s received after reset", tok.Key)
		return accepted, callErr
	}
	if callErr != nil {
		return Quest{}, callErr
	}
	e.mergeLocked(accepted)
	return accepted, nil
}

// Complete finishes an active quest. Rewards are credited only when this
// call moves the local quest from active to completed.
func (e *Engine) Complete(ctx context.Context, questID string) (CompletionResult, error) {
	tok, err := e.begin(questID, func(q Quest) error {
		switch q.Status {
		case StatusCompleted:
			return apperrors.New(apperrors.CodeQuestAlreadyCompleted, fmt.Sprintf("quest %q already completed", q.ID))
		case StatusActive:
			return nil
		default:
			return apperrors.New(apperrors.CodeQuestNotActive, fmt.Sprintf("quest %q is %s", q.ID, q.Status))
		}
	})
	if err != nil {
		return CompletionResult{}, err
	}

	result, callErr := e.gateway.CompleteQuest(ctx, tok.Key)

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, relevant := e.inflight.Resolve(tok, callErr == nil); !relevant {
		e.logf("quest: dropping complete response for %s received after reset", tok.Key)
		return result, callErr
	}
	if callErr != nil {
		return CompletionResult{}, callErr
	}
	before, found := e.findLocked(tok.Key)
	e.mergeLocked(result.Quest)
	after := result.Quest
	if found {
		after, _ = e.findLocked(tok.Key)
	} else {
		// A reload dropped the quest mid-flight; it was active when the call began.
		before.Status = StatusActive
	}
	if before.Status != StatusCompleted && after.Status == StatusCompleted && e.rewards != nil {
		e.rewards.Credit(result.Rewards)
	}
	return result, nil
}

// Quests returns a copy of the local quest list.
func (e *Engine) Quests() []Quest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Quest(nil), e.quests...)
}

// Quest returns the quest with id.
func (e *Engine) Quest(id string) (Quest, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.findLocked(id)
}

// InFlight reports whether an accept or complete for id is awaiting the gateway.
func (e *Engine) InFlight(id string) bool {
	return e.inflight.Pending(id)
}

// Reset clears local quests and drops every in-flight response.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.epoch.Advance()
	e.inflight.Cancel()
	e.quests = nil
}

// begin runs the synchronous precondition check and claims the in-flight
// slot for questID under one lock.
func (e *Engine) begin(questID string, check func(Quest) error) (pending.Token[string], error) {
	questID = strings.TrimSpace(questID)
	e.mu.Lock()
	defer e.mu.Unlock()
	q, ok := e.findLocked(questID)
	if !ok {
		return pending.Token[string]{}, apperrors.New(apperrors.CodeQuestNotFound, fmt.Sprintf("quest %q not loaded", questID))
	}
	if err := check(q); err != nil {
		return pending.Token[string]{}, err
	}
	return e.inflight.Begin(questID)
}

// mergeLocked replaces the local quest with the reported one unless that
// would move it backwards in its lifecycle.
func (e *Engine) mergeLocked(reported Quest) {
	for i, q := range e.quests {
		if q.ID != reported.ID {
			continue
		}
		if reported.Status.rank() < q.Status.rank() {
			e.logf("quest: ignoring regression of %s from %s to %s", q.ID, q.Status, reported.Status)
			return
		}
		e.quests[i] = reported
		return
	}
}

func (e *Engine) findLocked(id string) (Quest, bool) {
	for _, q := range e.quests {
		if q.ID == id {
			return q, true
		}
	}
	return Quest{}, false
}
