package gamify

import (
	"time"

	"github.com/popcity/popcity/internal/api/gamifyv1"
	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/services/gateway/storage"
)

func statsToProto(s economy.Stats) *gamifyv1.Stats {
	return &gamifyv1.Stats{
		Points:        s.Points,
		Currency:      s.Currency,
		Streak:        s.Streak,
		LongestStreak: s.LongestStreak,
		Revision:      s.Revision,
	}
}

func rewardsToProto(r economy.Rewards) *gamifyv1.Rewards {
	if r.IsZero() {
		return nil
	}
	return &gamifyv1.Rewards{Points: r.Points, Currency: r.Currency, Revision: r.Revision}
}

func goalToProto(g storage.Goal) *gamifyv1.Goal {
	out := &gamifyv1.Goal{
		Id:            g.ID,
		Name:          g.Name,
		Category:      g.Category,
		TargetAmount:  g.TargetAmount.String(),
		CurrentAmount: g.CurrentAmount.String(),
		CurrentLevel:  int32(g.CurrentLevel),
		TotalLevels:   int32(g.TotalLevels),
		Status:        g.Status,
		DailyTarget:   g.DailyTarget.StringFixed(2),
	}
	if g.TargetDate != nil {
		out.TargetDate = g.TargetDate.UTC().Format(gamifyv1.DateLayout)
	}
	return out
}

func questToProto(q storage.Quest) *gamifyv1.Quest {
	out := &gamifyv1.Quest{
		Id:             q.ID,
		Name:           q.Name,
		Category:       q.Category,
		Description:    q.Description,
		PointsReward:   q.PointsReward,
		CurrencyReward: q.CurrencyReward,
		Status:         q.Status,
	}
	if q.ExpiresAt != nil {
		out.ExpiresAt = q.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return out
}

func vetoRequestToProto(r storage.VetoRequest) *gamifyv1.VetoRequest {
	out := &gamifyv1.VetoRequest{
		Id:            r.ID,
		RequesterId:   r.RequesterID,
		RequesterName: r.RequesterName,
		Item:          r.Item,
		Amount:        r.Amount.String(),
		Reason:        r.Reason,
		Status:        r.Status,
		Votes:         make([]*gamifyv1.VetoVote, 0, len(r.Votes)),
		CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, v := range r.Votes {
		out.Votes = append(out.Votes, &gamifyv1.VetoVote{UserId: v.UserID, Vote: v.Choice})
	}
	return out
}

func placementsToProto(placements []storage.Placement) []*gamifyv1.Placement {
	out := make([]*gamifyv1.Placement, 0, len(placements))
	for _, p := range placements {
		out = append(out, &gamifyv1.Placement{CellIndex: int32(p.CellIndex), ItemId: p.ItemID})
	}
	return out
}
