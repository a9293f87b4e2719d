package goal

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/popcity/popcity/internal/game/economy"
)

// gatewayStub implements Gateway with canned responses and call counting.
type gatewayStub struct {
	mu sync.Mutex

	goals     []Goal
	listErr   error
	created   Goal
	createErr error
	createIn  CreateInput

	contribute      ContributionResult
	contributeErr   error
	contributeCalls int
	// beforeContribute runs inside ContributeToGoal before it returns.
	beforeContribute func()
}

var _ Gateway = (*gatewayStub)(nil)

func (g *gatewayStub) ListGoals(context.Context) ([]Goal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.listErr != nil {
		return nil, g.listErr
	}
	return append([]Goal(nil), g.goals...), nil
}

func (g *gatewayStub) CreateGoal(_ context.Context, in CreateInput) (Goal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createIn = in
	if g.createErr != nil {
		return Goal{}, g.createErr
	}
	return g.created, nil
}

func (g *gatewayStub) ContributeToGoal(context.Context, string, decimal.Decimal) (ContributionResult, error) {
	g.mu.Lock()
	g.contributeCalls++
	hook := g.beforeContribute
	result, err := g.contribute, g.contributeErr
	g.mu.Unlock()
	if hook != nil {
		hook()
	}
	return result, err
}

func (g *gatewayStub) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.contributeCalls
}

// sinkStub records credited rewards.
type sinkStub struct {
	mu      sync.Mutex
	credits []economy.Rewards
}

func (s *sinkStub) Credit(r economy.Rewards) economy.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credits = append(s.credits, r)
	return economy.Stats{}
}

func (s *sinkStub) total() economy.Rewards {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out economy.Rewards
	for _, r := range s.credits {
		out.Points += r.Points
		out.Currency += r.Currency
	}
	return out
}

func quietLog(string, ...any) {}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
