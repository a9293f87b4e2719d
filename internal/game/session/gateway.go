package session

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/game/goal"
	"github.com/popcity/popcity/internal/game/nudge"
	"github.com/popcity/popcity/internal/game/placement"
	"github.com/popcity/popcity/internal/game/quest"
	"github.com/popcity/popcity/internal/game/veto"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
)

// LeaderboardEntry is one ranked player.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Points   int64  `json:"points"`
	Streak   int64  `json:"streak"`
}

// Calendar lists the days of a month on which the player kept a
// non-negative daily flow.
type Calendar struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Days  []int `json:"days"`
}

// DailyFlow is one day's income and spending, the input of the streak.
type DailyFlow struct {
	Date     time.Time
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// Gateway is every remote call a session makes.
type Gateway interface {
	goal.Gateway
	quest.Gateway
	veto.Gateway
	placement.Gateway
	nudge.Gateway

	GetGameStats(ctx context.Context) (economy.Stats, error)
	GetStreakCalendar(ctx context.Context, year, month int) (Calendar, error)
	GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error)
	RecordDailyFlow(ctx context.Context, flow DailyFlow) (economy.Stats, error)
}

type unavailableGateway struct{}

func errUnavailable() error {
	return apperrors.Transport("popcity gateway is not configured", nil)
}

func (unavailableGateway) ListGoals(context.Context) ([]goal.Goal, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) CreateGoal(context.Context, goal.CreateInput) (goal.Goal, error) {
	return goal.Goal{}, errUnavailable()
}

func (unavailableGateway) ContributeToGoal(context.Context, string, decimal.Decimal) (goal.ContributionResult, error) {
	return goal.ContributionResult{}, errUnavailable()
}

func (unavailableGateway) ListQuests(context.Context, string) ([]quest.Quest, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) AcceptQuest(context.Context, string) (quest.Quest, error) {
	return quest.Quest{}, errUnavailable()
}

func (unavailableGateway) CompleteQuest(context.Context, string) (quest.CompletionResult, error) {
	return quest.CompletionResult{}, errUnavailable()
}

func (unavailableGateway) ListVetoRequests(context.Context) (veto.Listing, error) {
	return veto.Listing{}, errUnavailable()
}

func (unavailableGateway) CreateVetoRequest(context.Context, veto.Input) (veto.Request, error) {
	return veto.Request{}, errUnavailable()
}

func (unavailableGateway) VoteOnVetoRequest(context.Context, string, veto.Choice) (veto.Request, error) {
	return veto.Request{}, errUnavailable()
}

func (unavailableGateway) ListPlacements(context.Context) (map[int]string, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) PlaceItem(context.Context, int, string) (placement.PlaceResult, error) {
	return placement.PlaceResult{}, errUnavailable()
}

func (unavailableGateway) ListNudges(context.Context) ([]string, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) SendNudge(context.Context, string, string) error {
	return errUnavailable()
}

func (unavailableGateway) GetGameStats(context.Context) (economy.Stats, error) {
	return economy.Stats{}, errUnavailable()
}

func (unavailableGateway) GetStreakCalendar(context.Context, int, int) (Calendar, error) {
	return Calendar{}, errUnavailable()
}

func (unavailableGateway) GetLeaderboard(context.Context) ([]LeaderboardEntry, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) RecordDailyFlow(context.Context, DailyFlow) (economy.Stats, error) {
	return economy.Stats{}, errUnavailable()
}
