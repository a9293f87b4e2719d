// Package remote adapts the gamify.v1 gRPC client to the engine gateway
// interfaces.
package remote

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"

	"github.com/popcity/popcity/internal/api/gamifyv1"
	grpcmeta "github.com/popcity/popcity/internal/api/grpc/metadata"
	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/game/goal"
	"github.com/popcity/popcity/internal/game/placement"
	"github.com/popcity/popcity/internal/game/quest"
	"github.com/popcity/popcity/internal/game/session"
	"github.com/popcity/popcity/internal/game/veto"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
	"github.com/popcity/popcity/internal/platform/otel"
	"github.com/popcity/popcity/internal/platform/requestctx"
)

// GRPCGateway calls the gamify service as one caller.
type GRPCGateway struct {
	client  gamifyv1.GamifyServiceClient
	caller  requestctx.Caller
	tracer  trace.Tracer
	timeout time.Duration
}

// New returns a gateway speaking over conn on behalf of caller. timeout caps
// each call; zero leaves deadlines to the caller's context.
func New(conn grpc.ClientConnInterface, caller requestctx.Caller, timeout time.Duration) *GRPCGateway {
	return &GRPCGateway{
		client:  gamifyv1.NewGamifyServiceClient(conn),
		caller:  caller,
		tracer:  otel.Tracer(),
		timeout: timeout,
	}
}

var _ session.Gateway = (*GRPCGateway)(nil)

// invoke runs one call inside a client span with caller metadata attached and
// converts failures into platform errors.
func invoke[Req, Resp any](ctx context.Context, g *GRPCGateway, method string, fn func(context.Context, *Req, ...grpc.CallOption) (*Resp, error), in *Req) (*Resp, error) {
	ctx, span := g.tracer.Start(ctx, "gamify."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("popcity.user_id", g.caller.UserID)))
	defer span.End()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	ctx, err := grpcmeta.OutgoingContext(ctx, g.caller, grpcmeta.RequestIDFromContext(ctx))
	if err != nil {
		return nil, apperrors.Transport("prepare request metadata", err)
	}
	resp, err := fn(ctx, in)
	if err != nil {
		err = apperrors.FromGRPC(err)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, string(apperrors.CodeOf(err)))
		span.SetAttributes(attribute.String("popcity.error_kind", string(apperrors.KindOf(err))))
		return nil, err
	}
	return resp, nil
}

// ListGoals implements goal.Gateway.
func (g *GRPCGateway) ListGoals(ctx context.Context) ([]goal.Goal, error) {
	resp, err := invoke(ctx, g, "ListGoals", g.client.ListGoals, &gamifyv1.ListGoalsRequest{})
	if err != nil {
		return nil, err
	}
	goals := make([]goal.Goal, 0, len(resp.Goals))
	for _, pg := range resp.Goals {
		gl, err := goalFromProto(pg)
		if err != nil {
			return nil, err
		}
		goals = append(goals, gl)
	}
	return goals, nil
}

// CreateGoal implements goal.Gateway.
func (g *GRPCGateway) CreateGoal(ctx context.Context, in goal.CreateInput) (goal.Goal, error) {
	req := &gamifyv1.CreateGoalRequest{
		Name:         in.Name,
		Category:     string(in.Category),
		TargetAmount: in.TargetAmount.String(),
	}
	if in.TargetDate != nil {
		req.TargetDate = in.TargetDate.Format(gamifyv1.DateLayout)
	}
	resp, err := invoke(ctx, g, "CreateGoal", g.client.CreateGoal, req)
	if err != nil {
		return goal.Goal{}, err
	}
	return goalFromProto(resp.Goal)
}

// ContributeToGoal implements goal.Gateway.
func (g *GRPCGateway) ContributeToGoal(ctx context.Context, goalID string, amount decimal.Decimal) (goal.ContributionResult, error) {
	resp, err := invoke(ctx, g, "ContributeToGoal", g.client.ContributeToGoal,
		&gamifyv1.ContributeToGoalRequest{GoalId: goalID, Amount: amount.String()})
	if err != nil {
		return goal.ContributionResult{}, err
	}
	updated, err := goalFromProto(resp.Goal)
	if err != nil {
		return goal.ContributionResult{}, err
	}
	return goal.ContributionResult{
		Goal:     updated,
		LevelUp:  resp.LevelUp,
		NewLevel: int(resp.NewLevel),
		Rewards:  rewardsFromProto(resp.Rewards),
	}, nil
}

// ListQuests implements quest.Gateway.
func (g *GRPCGateway) ListQuests(ctx context.Context, filter string) ([]quest.Quest, error) {
	resp, err := invoke(ctx, g, "ListQuests", g.client.ListQuests, &gamifyv1.ListQuestsRequest{Filter: filter})
	if err != nil {
		return nil, err
	}
	quests := make([]quest.Quest, 0, len(resp.Quests))
	for _, pq := range resp.Quests {
		q, err := questFromProto(pq)
		if err != nil {
			return nil, err
		}
		quests = append(quests, q)
	}
	return quests, nil
}

// AcceptQuest implements quest.Gateway.
func (g *GRPCGateway) AcceptQuest(ctx context.Context, questID string) (quest.Quest, error) {
	resp, err := invoke(ctx, g, "AcceptQuest", g.client.AcceptQuest, &gamifyv1.AcceptQuestRequest{QuestId: questID})
	if err != nil {
		return quest.Quest{}, err
	}
	return questFromProto(resp.Quest)
}

// CompleteQuest implements quest.Gateway.
func (g *GRPCGateway) CompleteQuest(ctx context.Context, questID string) (quest.CompletionResult, error) {
	resp, err := invoke(ctx, g, "CompleteQuest", g.client.CompleteQuest, &gamifyv1.CompleteQuestRequest{QuestId: questID})
	if err != nil {
		return quest.CompletionResult{}, err
	}
	q, err := questFromProto(resp.Quest)
	if err != nil {
		return quest.CompletionResult{}, err
	}
	return quest.CompletionResult{Quest: q, Rewards: rewardsFromProto(resp.Rewards)}, nil
}

// ListVetoRequests implements veto.Gateway.
func (g *GRPCGateway) ListVetoRequests(ctx context.Context) (veto.Listing, error) {
	resp, err := invoke(ctx, g, "ListVetoRequests", g.client.ListVetoRequests, &gamifyv1.ListVetoRequestsRequest{})
	if err != nil {
		return veto.Listing{}, err
	}
	listing := veto.Listing{
		Requests:      make([]veto.Request, 0, len(resp.Requests)),
		ApprovalsCast: int(resp.ApprovalsCast),
	}
	for _, pr := range resp.Requests {
		r, err := vetoRequestFromProto(pr)
		if err != nil {
			return veto.Listing{}, err
		}
		listing.Requests = append(listing.Requests, r)
	}
	return listing, nil
}

// CreateVetoRequest implements veto.Gateway.
func (g *GRPCGateway) CreateVetoRequest(ctx context.Context, in veto.Input) (veto.Request, error) {
	resp, err := invoke(ctx, g, "CreateVetoRequest", g.client.CreateVetoRequest, &gamifyv1.CreateVetoRequestRequest{
		Item:   in.Item,
		Amount: in.Amount.String(),
		Reason: in.Reason,
	})
	if err != nil {
		return veto.Request{}, err
	}
	return vetoRequestFromProto(resp.Request)
}

// VoteOnVetoRequest implements veto.Gateway.
func (g *GRPCGateway) VoteOnVetoRequest(ctx context.Context, requestID string, choice veto.Choice) (veto.Request, error) {
	resp, err := invoke(ctx, g, "VoteOnVetoRequest", g.client.VoteOnVetoRequest,
		&gamifyv1.VoteOnVetoRequestRequest{RequestId: requestID, Vote: string(choice)})
	if err != nil {
		return veto.Request{}, err
	}
	return vetoRequestFromProto(resp.Request)
}

// ListPlacements implements placement.Gateway.
func (g *GRPCGateway) ListPlacements(ctx context.Context) (map[int]string, error) {
	resp, err := invoke(ctx, g, "ListPlacements", g.client.ListPlacements, &gamifyv1.ListPlacementsRequest{})
	if err != nil {
		return nil, err
	}
	return placementsFromProto(resp.Placements), nil
}

// PlaceItem implements placement.Confirmer.
func (g *GRPCGateway) PlaceItem(ctx context.Context, cellIndex int, itemID string) (placement.PlaceResult, error) {
	resp, err := invoke(ctx, g, "PlaceItem", g.client.PlaceItem,
		&gamifyv1.PlaceItemRequest{CellIndex: int32(cellIndex), ItemId: itemID})
	if err != nil {
		return placement.PlaceResult{}, err
	}
	return placement.PlaceResult{
		Placements: placementsFromProto(resp.Placements),
		Stats:      statsFromProto(resp.Stats),
	}, nil
}

// ListNudges implements nudge.Gateway.
func (g *GRPCGateway) ListNudges(ctx context.Context) ([]string, error) {
	resp, err := invoke(ctx, g, "ListNudges", g.client.ListNudges, &gamifyv1.ListNudgesRequest{})
	if err != nil {
		return nil, err
	}
	return resp.ToUserIds, nil
}

// SendNudge implements nudge.Gateway.
func (g *GRPCGateway) SendNudge(ctx context.Context, toUserID, goalName string) error {
	_, err := invoke(ctx, g, "SendNudge", g.client.SendNudge,
		&gamifyv1.SendNudgeRequest{ToUserId: toUserID, GoalName: goalName})
	return err
}

// GetGameStats returns the caller's balance.
func (g *GRPCGateway) GetGameStats(ctx context.Context) (economy.Stats, error) {
	resp, err := invoke(ctx, g, "GetGameStats", g.client.GetGameStats, &gamifyv1.GetGameStatsRequest{})
	if err != nil {
		return economy.Stats{}, err
	}
	return statsFromProto(resp.Stats), nil
}

// GetStreakCalendar returns the streak days of one month.
func (g *GRPCGateway) GetStreakCalendar(ctx context.Context, year, month int) (session.Calendar, error) {
	resp, err := invoke(ctx, g, "GetStreakCalendar", g.client.GetStreakCalendar,
		&gamifyv1.GetStreakCalendarRequest{Year: int32(year), Month: int32(month)})
	if err != nil {
		return session.Calendar{}, err
	}
	cal := session.Calendar{Year: year, Month: month, Days: make([]int, 0, len(resp.Days))}
	for _, d := range resp.Days {
		cal.Days = append(cal.Days, int(d))
	}
	return cal, nil
}

// GetLeaderboard returns the top players.
func (g *GRPCGateway) GetLeaderboard(ctx context.Context) ([]session.LeaderboardEntry, error) {
	resp, err := invoke(ctx, g, "GetLeaderboard", g.client.GetLeaderboard, &gamifyv1.GetLeaderboardRequest{})
	if err != nil {
		return nil, err
	}
	entries := make([]session.LeaderboardEntry, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		if e == nil {
			continue
		}
		entries = append(entries, session.LeaderboardEntry{
			Rank:     int(e.Rank),
			UserID:   e.UserId,
			UserName: e.UserName,
			Points:   e.Points,
			Streak:   e.Streak,
		})
	}
	return entries, nil
}

// RecordDailyFlow stores one day of income and expenses.
func (g *GRPCGateway) RecordDailyFlow(ctx context.Context, flow session.DailyFlow) (economy.Stats, error) {
	resp, err := invoke(ctx, g, "RecordDailyFlow", g.client.RecordDailyFlow, &gamifyv1.RecordDailyFlowRequest{
		Date:     flow.Date.Format(gamifyv1.DateLayout),
		Income:   flow.Income.String(),
		Expenses: flow.Expenses.String(),
	})
	if err != nil {
		return economy.Stats{}, err
	}
	return statsFromProto(resp.Stats), nil
}
