// Package storage defines persistence contracts for gateway state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/services/gateway/filter"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrInsufficientCurrency indicates a purchase exceeds the player's currency.
	ErrInsufficientCurrency = errors.New("insufficient currency")
)

// User is a player and their balance.
type User struct {
	ID    string
	Name  string
	Stats economy.Stats
}

// Goal is one savings goal of a user.
type Goal struct {
	ID            string
	UserID        string
	Name          string
	Category      string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	CurrentLevel  int
	TotalLevels   int
	Status        string
	DailyTarget   decimal.Decimal
	TargetDate    *time.Time
	CreatedAt     time.Time
}

// Quest is a catalog quest joined with the caller's progress on it.
type Quest struct {
	ID             string
	Name           string
	Category       string
	Description    string
	PointsReward   int64
	CurrencyReward int64
	ExpiresAt      *time.Time
	Status         string
}

// VetoVote is one user's vote on a request.
type VetoVote struct {
	UserID    string
	Choice    string
	CreatedAt time.Time
}

// VetoRequest is a purchase put up for friends' votes.
type VetoRequest struct {
	ID            string
	RequesterID   string
	RequesterName string
	Item          string
	Amount        decimal.Decimal
	Reason        string
	Status        string
	Votes         []VetoVote
	CreatedAt     time.Time
}

// Approvals counts approve votes.
func (r VetoRequest) Approvals() int {
	return r.count("approve")
}

// Vetoes counts veto votes.
func (r VetoRequest) Vetoes() int {
	return r.count("veto")
}

func (r VetoRequest) count(choice string) int {
	n := 0
	for _, v := range r.Votes {
		if v.Choice == choice {
			n++
		}
	}
	return n
}

// Placement is an item in one grid cell.
type Placement struct {
	CellIndex int
	ItemID    string
}

// DailyFlow is one day of income and expenses.
type DailyFlow struct {
	Date     time.Time
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// LeaderboardEntry is one ranked user.
type LeaderboardEntry struct {
	UserID   string
	UserName string
	Points   int64
	Streak   int64
}

// GoalMutation edits a goal inside the store's transaction and returns the
// rewards to credit along with it.
type GoalMutation func(*Goal) (economy.Rewards, error)

// QuestMutation edits the caller's quest status inside the store's
// transaction and returns the rewards to credit along with it.
type QuestMutation func(*Quest) (economy.Rewards, error)

// VoteDecision returns the request status after the new vote is recorded.
type VoteDecision func(VetoRequest) (string, error)

// StreakFunc derives the streak from every recorded flow of a user.
type StreakFunc func([]DailyFlow) int64

// UserStore persists players and their stats.
type UserStore interface {
	EnsureUser(ctx context.Context, userID, name string) (User, error)
	GetStats(ctx context.Context, userID string) (economy.Stats, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// GoalStore persists goals.
type GoalStore interface {
	ListGoals(ctx context.Context, userID string) ([]Goal, error)
	CreateGoal(ctx context.Context, goal Goal) error
	UpdateGoal(ctx context.Context, userID, goalID string, mutate GoalMutation) (Goal, economy.Stats, error)
}

// QuestStore persists the quest catalog and per-user progress.
type QuestStore interface {
	ListQuests(ctx context.Context, userID string, cond filter.SQLCondition) ([]Quest, error)
	UpdateQuest(ctx context.Context, userID, questID string, mutate QuestMutation) (Quest, economy.Stats, error)
}

// VetoStore persists veto requests and votes.
type VetoStore interface {
	ListVisibleVetoRequests(ctx context.Context, userID string, limit int) ([]VetoRequest, error)
	CountApprovalsBy(ctx context.Context, userID string) (int, error)
	CreateVetoRequest(ctx context.Context, request VetoRequest) error
	GetVetoRequest(ctx context.Context, requestID string) (VetoRequest, error)
	AddVetoVote(ctx context.Context, requestID string, vote VetoVote, decide VoteDecision) (VetoRequest, error)
}

// PlacementStore persists grid placements.
type PlacementStore interface {
	ListPlacements(ctx context.Context, userID string) ([]Placement, error)
	PlaceItem(ctx context.Context, userID string, placement Placement, cost int64, credit economy.Rewards) ([]Placement, economy.Stats, error)
}

// FlowStore persists daily flows and the streak derived from them.
type FlowStore interface {
	ListDailyFlows(ctx context.Context, userID string) ([]DailyFlow, error)
	RecordDailyFlow(ctx context.Context, userID string, flow DailyFlow, streak StreakFunc) (economy.Stats, error)
}

// NudgeStore persists nudges between users.
type NudgeStore interface {
	ListNudgedUserIDs(ctx context.Context, fromUserID string) ([]string, error)
	CreateNudge(ctx context.Context, fromUserID, toUserID, goalName string) error
}

// Store is every persistence contract the gateway needs.
type Store interface {
	UserStore
	GoalStore
	QuestStore
	VetoStore
	PlacementStore
	FlowStore
	NudgeStore
}
