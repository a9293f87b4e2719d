package remote

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/popcity/popcity/internal/api/gamifyv1"
	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/game/goal"
	"github.com/popcity/popcity/internal/game/quest"
	"github.com/popcity/popcity/internal/game/veto"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
)

// decodeError reports a response the client could not read. Nothing was
// applied locally, so it is an application failure rather than transport.
func decodeError(what string, err error) error {
	return &apperrors.Error{
		Code:    apperrors.CodeUnknown,
		Kind:    apperrors.KindApplication,
		Message: fmt.Sprintf("decode %s: %v", what, err),
		Cause:   err,
	}
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func parseTime(layout, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func statsFromProto(s *gamifyv1.Stats) economy.Stats {
	if s == nil {
		return economy.Stats{}
	}
	return economy.Stats{
		Points:        s.Points,
		Currency:      s.Currency,
		Streak:        s.Streak,
		LongestStreak: s.LongestStreak,
		Revision:      s.Revision,
	}.Normalize()
}

func rewardsFromProto(r *gamifyv1.Rewards) economy.Rewards {
	if r == nil {
		return economy.Rewards{}
	}
	return economy.Rewards{Points: r.Points, Currency: r.Currency, Revision: r.Revision}
}

func goalFromProto(pg *gamifyv1.Goal) (goal.Goal, error) {
	if pg == nil {
		return goal.Goal{}, decodeError("goal", fmt.Errorf("missing goal"))
	}
	target, err := parseAmount(pg.TargetAmount)
	if err != nil {
		return goal.Goal{}, decodeError("goal target", err)
	}
	current, err := parseAmount(pg.CurrentAmount)
	if err != nil {
		return goal.Goal{}, decodeError("goal amount", err)
	}
	daily, err := parseAmount(pg.DailyTarget)
	if err != nil {
		return goal.Goal{}, decodeError("goal daily target", err)
	}
	date, err := parseTime(gamifyv1.DateLayout, pg.TargetDate)
	if err != nil {
		return goal.Goal{}, decodeError("goal target date", err)
	}
	return goal.Goal{
		ID:            pg.Id,
		Name:          pg.Name,
		Category:      goal.Category(pg.Category),
		TargetAmount:  target,
		CurrentAmount: current,
		CurrentLevel:  int(pg.CurrentLevel),
		TotalLevels:   int(pg.TotalLevels),
		Status:        goal.Status(pg.Status),
		DailyTarget:   daily,
		TargetDate:    date,
	}, nil
}

func questFromProto(pq *gamifyv1.Quest) (quest.Quest, error) {
	if pq == nil {
		return quest.Quest{}, decodeError("quest", fmt.Errorf("missing quest"))
	}
	expires, err := parseTime(time.RFC3339, pq.ExpiresAt)
	if err != nil {
		return quest.Quest{}, decodeError("quest expiry", err)
	}
	return quest.Quest{
		ID:             pq.Id,
		Name:           pq.Name,
		Category:       quest.Category(pq.Category),
		Description:    pq.Description,
		PointsReward:   pq.PointsReward,
		CurrencyReward: pq.CurrencyReward,
		Status:         quest.Status(pq.Status),
		ExpiresAt:      expires,
	}, nil
}

func vetoRequestFromProto(pr *gamifyv1.VetoRequest) (veto.Request, error) {
	if pr == nil {
		return veto.Request{}, decodeError("veto request", fmt.Errorf("missing request"))
	}
	amount, err := parseAmount(pr.Amount)
	if err != nil {
		return veto.Request{}, decodeError("veto amount", err)
	}
	created, err := parseTime(time.RFC3339, pr.CreatedAt)
	if err != nil {
		return veto.Request{}, decodeError("veto created_at", err)
	}
	r := veto.Request{
		ID:            pr.Id,
		RequesterID:   pr.RequesterId,
		RequesterName: pr.RequesterName,
		Item:          pr.Item,
		Amount:        amount,
		Reason:        pr.Reason,
		Status:        veto.Status(pr.Status),
		Votes:         make([]veto.Vote, 0, len(pr.Votes)),
	}
	if created != nil {
		r.CreatedAt = *created
	}
	for _, v := range pr.Votes {
		if v == nil {
			continue
		}
		r.Votes = append(r.Votes, veto.Vote{UserID: v.UserId, Choice: veto.Choice(v.Vote)})
	}
	return r, nil
}

func placementsFromProto(placements []*gamifyv1.Placement) map[int]string {
	out := make(map[int]string, len(placements))
	for _, p := range placements {
		if p == nil {
			continue
		}
		out[int(p.CellIndex)] = p.ItemId
	}
	return out
}
