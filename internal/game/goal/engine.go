package goal

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/game/pending"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
)

// Engine owns the session's goal list.
type Engine struct {
	gateway Gateway
	rewards economy.RewardSink
	logf    func(string, ...any)
	epoch   pending.Epoch

	mu    sync.Mutex
	goals []Goal
	stale map[string]bool
}

// NewEngine builds a goal engine crediting level-up rewards to rewards.
// A nil gateway fails every call closed; a nil logf logs with the standard logger.
func NewEngine(gateway Gateway, rewards economy.RewardSink, logf func(string, ...any)) *Engine {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	if logf == nil {
		logf = log.Printf
	}
	return &Engine{gateway: gateway, rewards: rewards, logf: logf, stale: map[string]bool{}}
}

// Load replaces the local goals with the gateway's list and clears stale marks.
func (e *Engine) Load(ctx context.Context) error {
	ticket := e.epoch.Ticket()
	goals, err := e.gateway.ListGoals(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.epoch.Valid(ticket) {
		e.logf("goal: dropping goal list received after reset")
		return nil
	}
	e.goals = append([]Goal(nil), goals...)
	clear(e.stale)
	return nil
}

// Create validates in and asks the gateway to create the goal. The goal is
// added locally only after the gateway confirms it.
func (e *Engine) Create(ctx context.Context, in CreateInput) (Goal, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return Goal{}, apperrors.New(apperrors.CodeGoalNameEmpty, "goal name is required")
	}
	category, ok := ParseCategory(string(in.Category))
	if !ok {
		return Goal{}, apperrors.WithMetadata(apperrors.CodeGoalInvalidCategory,
			fmt.Sprintf("unknown goal category %q", in.Category),
			map[string]string{"Category": string(in.Category)})
	}
	in.Category = category
	if !in.TargetAmount.IsPositive() {
		return Goal{}, apperrors.New(apperrors.CodeGoalInvalidTarget, "target amount must be positive")
	}

	ticket := e.epoch.Ticket()
	created, err := e.gateway.CreateGoal(ctx, in)
	if err != nil {
		return Goal{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.epoch.Valid(ticket) {
		e.logf("goal: dropping created goal %s received after reset", created.ID)
		return created, nil
	}
	if i := e.indexLocked(created.ID); i >= 0 {
		e.goals[i] = created
	} else {
		e.goals = append(e.goals, created)
	}
	return created, nil
}

// Contribute sends amount toward goalID. On success the goal's amount and
// status are taken verbatim from the response, its level changes only when
// the response flags a level-up, and only then are rewards credited. On
// failure nothing local changes and the goal is marked stale.
func (e *Engine) Contribute(ctx context.Context, goalID string, amount decimal.Decimal) (ContributionResult, error) {
	if !amount.IsPositive() {
		return ContributionResult{}, apperrors.New(apperrors.CodeContributionNotPositive, "contribution must be positive")
	}
	goalID = strings.TrimSpace(goalID)

	e.mu.Lock()
	i := e.indexLocked(goalID)
	if i < 0 {
		e.mu.Unlock()
		return ContributionResult{}, apperrors.New(apperrors.CodeGoalNotFound, fmt.Sprintf("goal %q not loaded", goalID))
	}
	if e.goals[i].Status != StatusActive {
		e.mu.Unlock()
		return ContributionResult{}, apperrors.New(apperrors.CodeGoalNotActive, fmt.Sprintf("goal %q is %s", goalID, e.goals[i].Status))
	}
	e.mu.Unlock()

	ticket := e.epoch.Ticket()
	result, err := e.gateway.ContributeToGoal(ctx, goalID, amount)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.epoch.Valid(ticket) {
		e.logf("goal: dropping contribution response for %s received after reset", goalID)
		return result, err
	}
	if err != nil {
		e.stale[goalID] = true
		return ContributionResult{}, err
	}
	delete(e.stale, goalID)
	if i := e.indexLocked(goalID); i >= 0 {
		g := &e.goals[i]
		g.CurrentAmount = result.Goal.CurrentAmount
		g.Status = result.Goal.Status
		if result.LevelUp {
			g.CurrentLevel = result.NewLevel
		}
	}
	if result.LevelUp && e.rewards != nil && !result.Rewards.IsZero() {
		e.rewards.Credit(result.Rewards)
	}
	return result, nil
}

// Goals returns a copy of the local goal list.
func (e *Engine) Goals() []Goal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Goal(nil), e.goals...)
}

// Goal returns the goal with id. fresh is false when a failed contribution
// left the local amount possibly out of date.
func (e *Engine) Goal(id string) (g Goal, fresh bool, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexLocked(id)
	if i < 0 {
		return Goal{}, false, false
	}
	return e.goals[i], !e.stale[id], true
}

// ActiveGoal returns the first active goal.
func (e *Engine) ActiveGoal() (Goal, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, g := range e.goals {
		if g.Status == StatusActive {
			return g, true
		}
	}
	return Goal{}, false
}

// ProgressPercent is the active goal's progress, or 0 without one.
func (e *Engine) ProgressPercent() float64 {
	g, ok := e.ActiveGoal()
	if !ok {
		return 0
	}
	return g.ProgressPercent()
}

// Reset clears local goals and drops every in-flight response.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.epoch.Advance()
	e.goals = nil
	clear(e.stale)
}

func (e *Engine) indexLocked(id string) int {
	for i, g := range e.goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}
