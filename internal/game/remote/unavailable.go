package remote

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/game/goal"
	"github.com/popcity/popcity/internal/game/placement"
	"github.com/popcity/popcity/internal/game/quest"
	"github.com/popcity/popcity/internal/game/session"
	"github.com/popcity/popcity/internal/game/veto"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
)

// UnavailableGateway fails every call with GATEWAY_UNAVAILABLE. It stands in
// when no gateway address is configured.
type UnavailableGateway struct {
	// Reason is reported in the error message.
	Reason string
}

var _ session.Gateway = UnavailableGateway{}

func (u UnavailableGateway) err() error {
	reason := u.Reason
	if reason == "" {
		reason = "popcity gateway is not configured"
	}
	return apperrors.Transport(reason, nil)
}

func (u UnavailableGateway) ListGoals(context.Context) ([]goal.Goal, error) { return nil, u.err() }

func (u UnavailableGateway) CreateGoal(context.Context, goal.CreateInput) (goal.Goal, error) {
	return goal.Goal{}, u.err()
}

func (u UnavailableGateway) ContributeToGoal(context.Context, string, decimal.Decimal) (goal.ContributionResult, error) {
	return goal.ContributionResult{}, u.err()
}

func (u UnavailableGateway) ListQuests(context.Context, string) ([]quest.Quest, error) {
	return nil, u.err()
}

func (u UnavailableGateway) AcceptQuest(context.Context, string) (quest.Quest, error) {
	return quest.Quest{}, u.err()
}

func (u UnavailableGateway) CompleteQuest(context.Context, string) (quest.CompletionResult, error) {
	return quest.CompletionResult{}, u.err()
}

func (u UnavailableGateway) ListVetoRequests(context.Context) (veto.Listing, error) {
	return veto.Listing{}, u.err()
}

func (u UnavailableGateway) CreateVetoRequest(context.Context, veto.Input) (veto.Request, error) {
	return veto.Request{}, u.err()
}

func (u UnavailableGateway) VoteOnVetoRequest(context.Context, string, veto.Choice) (veto.Request, error) {
	return veto.Request{}, u.err()
}

func (u UnavailableGateway) ListPlacements(context.Context) (map[int]string, error) {
	return nil, u.err()
}

func (u UnavailableGateway) PlaceItem(context.Context, int, string) (placement.PlaceResult, error) {
	return placement.PlaceResult{}, u.err()
}

func (u UnavailableGateway) ListNudges(context.Context) ([]string, error) { return nil, u.err() }

func (u UnavailableGateway) SendNudge(context.Context, string, string) error { return u.err() }

func (u UnavailableGateway) GetGameStats(context.Context) (economy.Stats, error) {
	return economy.Stats{}, u.err()
}

func (u UnavailableGateway) GetStreakCalendar(context.Context, int, int) (session.Calendar, error) {
	return session.Calendar{}, u.err()
}

func (u UnavailableGateway) GetLeaderboard(context.Context) ([]session.LeaderboardEntry, error) {
	return nil, u.err()
}

func (u UnavailableGateway) RecordDailyFlow(context.Context, session.DailyFlow) (economy.Stats, error) {
	return economy.Stats{}, u.err()
}
