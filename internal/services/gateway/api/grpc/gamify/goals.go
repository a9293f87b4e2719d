package gamify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/popcity/popcity/internal/api/gamifyv1"
	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/game/goal"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
	"github.com/popcity/popcity/internal/services/gateway/domain/rules"
	"github.com/popcity/popcity/internal/services/gateway/storage"
)

// ListGoals returns the caller's goals, oldest first.
func (s *Service) ListGoals(ctx context.Context, in *gamifyv1.ListGoalsRequest) (*gamifyv1.ListGoalsResponse, error) {
	call, err := s.begin(ctx, in == nil)
	if err != nil {
		return nil, err
	}
	goals, err := s.store.ListGoals(ctx, call.user.ID)
	if err != nil {
		return nil, call.fail(fmt.Errorf("list goals: %w", err))
	}
	resp := &gamifyv1.ListGoalsResponse{Goals: make([]*gamifyv1.Goal, 0, len(goals))}
	for _, g := range goals {
		resp.Goals = append(resp.Goals, goalToProto(g))
	}
	return resp, nil
}

// CreateGoal plans a goal's levels and daily target and stores it.
func (s *Service) CreateGoal(ctx context.Context, in *gamifyv1.CreateGoalRequest) (*gamifyv1.CreateGoalResponse, error) {
	call, err := s.begin(ctx, in == nil)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, call.fail(apperrors.New(apperrors.CodeGoalNameEmpty, "goal name is required"))
	}
	category, ok := goal.ParseCategory(in.Category)
	if !ok {
		return nil, call.fail(apperrors.WithMetadata(apperrors.CodeGoalInvalidCategory,
			fmt.Sprintf("unknown goal category %q", in.Category), map[string]string{"Category": in.Category}))
	}
	target, err := decimal.NewFromString(strings.TrimSpace(in.TargetAmount))
	if err != nil || !target.IsPositive() {
		return nil, call.fail(apperrors.New(apperrors.CodeGoalInvalidTarget, "target amount must be a positive decimal"))
	}
	var targetDate *time.Time
	if raw := strings.TrimSpace(in.TargetDate); raw != "" {
		d, err := time.Parse(gamifyv1.DateLayout, raw)
		if err != nil {
			return nil, call.fail(apperrors.New(apperrors.CodeGoalInvalidTarget, fmt.Sprintf("target date %q is not YYYY-MM-DD", raw)))
		}
		targetDate = &d
	}

	goalID, err := s.idGenerator()
	if err != nil {
		return nil, call.fail(fmt.Errorf("generate goal id: %w", err))
	}
	now := s.now()
	record := storage.Goal{
		ID:            goalID,
		UserID:        call.user.ID,
		Name:          name,
		Category:      string(category),
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		TotalLevels:   rules.LevelCount(target),
		Status:        string(goal.StatusActive),
		DailyTarget:   rules.DailyTarget(target, targetDate, now),
		TargetDate:    targetDate,
		CreatedAt:     now,
	}
	if err := s.store.CreateGoal(ctx, record); err != nil {
		return nil, call.fail(storeError(err, apperrors.CodeGoalNotFound, apperrors.CodeAlreadyExists))
	}
	return &gamifyv1.CreateGoalResponse{Goal: goalToProto(record)}, nil
}

// ContributeToGoal adds savings to a goal and grants rewards for every level
// gained, in one transaction.
func (s *Service) ContributeToGoal(ctx context.Context, in *gamifyv1.ContributeToGoalRequest) (*gamifyv1.ContributeToGoalResponse, error) {
	call, err := s.begin(ctx, in == nil)
	if err != nil {
		return nil, err
	}
	goalID := strings.TrimSpace(in.GoalId)
	if goalID == "" {
		return nil, call.fail(apperrors.New(apperrors.CodeGoalNotFound, "goal id is required"))
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(in.Amount))
	if err != nil || !amount.IsPositive() {
		return nil, call.fail(apperrors.New(apperrors.CodeContributionNotPositive, "contribution must be a positive decimal"))
	}

	var outcome rules.Contribution
	updated, stats, err := s.store.UpdateGoal(ctx, call.user.ID, goalID, func(g *storage.Goal) (economy.Rewards, error) {
		if g.Status != string(goal.StatusActive) {
			return economy.Rewards{}, apperrors.New(apperrors.CodeGoalNotActive, fmt.Sprintf("goal %q is %s", g.ID, g.Status))
		}
		outcome = rules.Contribute(g.CurrentAmount, g.TargetAmount, amount, g.CurrentLevel, g.TotalLevels)
		g.CurrentAmount = outcome.CurrentAmount
		g.CurrentLevel = outcome.Level
		if outcome.Completed {
			g.Status = string(goal.StatusCompleted)
		}
		return outcome.Rewards, nil
	})
	if err != nil {
		return nil, call.fail(storeError(err, apperrors.CodeGoalNotFound, apperrors.CodeAlreadyExists))
	}

	resp := &gamifyv1.ContributeToGoalResponse{Goal: goalToProto(updated), LevelUp: outcome.LevelUp}
	if outcome.LevelUp {
		resp.NewLevel = int32(outcome.Level)
		granted := outcome.Rewards
		granted.Revision = stats.Revision
		resp.Rewards = rewardsToProto(granted)
	}
	return resp, nil
}
