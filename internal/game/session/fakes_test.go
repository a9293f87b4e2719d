package session

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/game/goal"
	"github.com/popcity/popcity/internal/game/placement"
	"github.com/popcity/popcity/internal/game/quest"
	"github.com/popcity/popcity/internal/game/veto"
)

type gatewayStub struct {
	mu sync.Mutex

	stats       economy.Stats
	statsErr    error
	goals       []goal.Goal
	goalsErr    error
	quests      []quest.Quest
	completion  quest.CompletionResult
	vetoes      veto.Listing
	placements  map[int]string
	placeResult placement.PlaceResult
	nudges      []string
	calendar    Calendar
	leaderboard []LeaderboardEntry
	flowStats   economy.Stats
	flows       []DailyFlow

	statsEntered chan struct{}
	statsRelease chan struct{}
}

var _ Gateway = (*gatewayStub)(nil)

func (g *gatewayStub) ListGoals(context.Context) ([]goal.Goal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.goals, g.goalsErr
}

func (g *gatewayStub) CreateGoal(_ context.Context, in goal.CreateInput) (goal.Goal, error) {
	return goal.Goal{ID: "g-new", Name: in.Name, Category: in.Category, TargetAmount: in.TargetAmount, Status: goal.StatusActive}, nil
}

func (g *gatewayStub) ContributeToGoal(context.Context, string, decimal.Decimal) (goal.ContributionResult, error) {
	return goal.ContributionResult{}, nil
}

func (g *gatewayStub) ListQuests(context.Context, string) ([]quest.Quest, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.quests, nil
}

func (g *gatewayStub) AcceptQuest(_ context.Context, id string) (quest.Quest, error) {
	return quest.Quest{ID: id, Status: quest.StatusActive}, nil
}

func (g *gatewayStub) CompleteQuest(context.Context, string) (quest.CompletionResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.completion, nil
}

func (g *gatewayStub) ListVetoRequests(context.Context) (veto.Listing, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.vetoes, nil
}

func (g *gatewayStub) CreateVetoRequest(_ context.Context, in veto.Input) (veto.Request, error) {
	return veto.Request{ID: "v-new", Item: in.Item, Amount: in.Amount, Reason: in.Reason, Status: veto.StatusPending}, nil
}

func (g *gatewayStub) VoteOnVetoRequest(_ context.Context, id string, _ veto.Choice) (veto.Request, error) {
	return veto.Request{ID: id, Status: veto.StatusApproved}, nil
}

func (g *gatewayStub) ListPlacements(context.Context) (map[int]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.placements, nil
}

func (g *gatewayStub) PlaceItem(context.Context, int, string) (placement.PlaceResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.placeResult, nil
}

func (g *gatewayStub) ListNudges(context.Context) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nudges, nil
}

func (g *gatewayStub) SendNudge(context.Context, string, string) error {
	return nil
}

func (g *gatewayStub) GetGameStats(context.Context) (economy.Stats, error) {
	if g.statsEntered != nil {
		g.statsEntered <- struct{}{}
		<-g.statsRelease
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats, g.statsErr
}

func (g *gatewayStub) GetStreakCalendar(_ context.Context, year, month int) (Calendar, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	cal := g.calendar
	cal.Year, cal.Month = year, month
	return cal, nil
}

func (g *gatewayStub) GetLeaderboard(context.Context) ([]LeaderboardEntry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.leaderboard, nil
}

func (g *gatewayStub) RecordDailyFlow(_ context.Context, flow DailyFlow) (economy.Stats, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.flows = append(g.flows, flow)
	return g.flowStats, nil
}

func quietLog(string, ...any) {}
