package gamify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/popcity/popcity/internal/api/gamifyv1"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
	"github.com/popcity/popcity/internal/services/gateway/domain/rules"
	"github.com/popcity/popcity/internal/services/gateway/storage"
)

// GetGameStats returns the caller's balance.
func (s *Service) GetGameStats(ctx context.Context, in *gamifyv1.GetGameStatsRequest) (*gamifyv1.GetGameStatsResponse, error) {
	call, err := s.begin(ctx, in == nil)
	if err != nil {
		return nil, err
	}
	return &gamifyv1.GetGameStatsResponse{Stats: statsToProto(call.user.Stats)}, nil
}

// GetStreakCalendar lists the days of a month the caller kept a
// non-negative net.
func (s *Service) GetStreakCalendar(ctx context.Context, in *gamifyv1.GetStreakCalendarRequest) (*gamifyv1.GetStreakCalendarResponse, error) {
	call, err := s.begin(ctx, in == nil)
	if err != nil {
		return nil, err
	}
	if in.Month < 1 || in.Month > 12 || in.Year <= 0 {
		return nil, call.fail(apperrors.New(apperrors.CodeCalendarInvalidMonth,
			fmt.Sprintf("invalid calendar month %d-%d", in.Year, in.Month)))
	}
	flows, err := s.store.ListDailyFlows(ctx, call.user.ID)
	if err != nil {
		return nil, call.fail(fmt.Errorf("list daily flows: %w", err))
	}
	days := rules.CalendarDays(toRuleFlows(flows), int(in.Year), time.Month(in.Month))
	resp := &gamifyv1.GetStreakCalendarResponse{Days: make([]int32, 0, len(days))}
	for _, d := range days {
		resp.Days = append(resp.Days, int32(d))
	}
	return resp, nil
}

// GetLeaderboard ranks users by points. Equal points share a rank and the
// next rank skips past them.
func (s *Service) GetLeaderboard(ctx context.Context, in *gamifyv1.GetLeaderboardRequest) (*gamifyv1.GetLeaderboardResponse, error) {
	call, err := s.begin(ctx, in == nil)
	if err != nil {
		return nil, err
	}
	limit := int(in.Limit)
	switch {
	case limit <= 0:
		limit = defaultLeaderboardLimit
	case limit > maxLeaderboardLimit:
		limit = maxLeaderboardLimit
	}
	entries, err := s.store.Leaderboard(ctx, limit)
	if err != nil {
		return nil, call.fail(fmt.Errorf("leaderboard: %w", err))
	}
	resp := &gamifyv1.GetLeaderboardResponse{Entries: make([]*gamifyv1.LeaderboardEntry, 0, len(entries))}
	rank := 0
	for i, e := range entries {
		if i == 0 || e.Points != entries[i-1].Points {
			rank = i + 1
		}
		resp.Entries = append(resp.Entries, &gamifyv1.LeaderboardEntry{
			Rank:     int32(rank),
			UserId:   e.UserID,
			UserName: e.UserName,
			Points:   e.Points,
			Streak:   e.Streak,
		})
	}
	return resp, nil
}

// RecordDailyFlow stores one day of income and expenses and recomputes the
// caller's streak.
func (s *Service) RecordDailyFlow(ctx context.Context, in *gamifyv1.RecordDailyFlowRequest) (*gamifyv1.RecordDailyFlowResponse, error) {
	call, err := s.begin(ctx, in == nil)
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(gamifyv1.DateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return nil, call.fail(apperrors.New(apperrors.CodeFlowInvalid, fmt.Sprintf("date %q is not YYYY-MM-DD", in.Date)))
	}
	income, err := parseFlowAmount(in.Income)
	if err != nil {
		return nil, call.fail(err)
	}
	expenses, err := parseFlowAmount(in.Expenses)
	if err != nil {
		return nil, call.fail(err)
	}

	stats, err := s.store.RecordDailyFlow(ctx, call.user.ID,
		storage.DailyFlow{Date: date, Income: income, Expenses: expenses},
		func(flows []storage.DailyFlow) int64 { return rules.Streak(toRuleFlows(flows)) })
	if err != nil {
		return nil, call.fail(storeError(err, apperrors.CodeNotFound, apperrors.CodeAlreadyExists))
	}
	return &gamifyv1.RecordDailyFlowResponse{Stats: statsToProto(stats)}, nil
}

func parseFlowAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil || v.IsNegative() {
		return decimal.Zero, apperrors.New(apperrors.CodeFlowInvalid, fmt.Sprintf("amount %q must be a non-negative decimal", raw))
	}
	return v, nil
}

func toRuleFlows(flows []storage.DailyFlow) []rules.Flow {
	out := make([]rules.Flow, 0, len(flows))
	for _, f := range flows {
		out = append(out, rules.Flow{Date: f.Date, Income: f.Income, Expenses: f.Expenses})
	}
	return out
}
