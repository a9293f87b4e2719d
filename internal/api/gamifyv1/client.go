package gamifyv1

import (
	"context"

	"google.golang.org/grpc"

	"github.com/popcity/popcity/internal/platform/grpc/jsoncodec"
)

// GamifyServiceClient is the client API for GamifyService.
type GamifyServiceClient interface {
	ListGoals(ctx context.Context, in *ListGoalsRequest, opts ...grpc.CallOption) (*ListGoalsResponse, error)
	CreateGoal(ctx context.Context, in *CreateGoalRequest, opts ...grpc.CallOption) (*CreateGoalResponse, error)
	ContributeToGoal(ctx context.Context, in *ContributeToGoalRequest, opts ...grpc.CallOption) (*ContributeToGoalResponse, error)
	ListQuests(ctx context.Context, in *ListQuestsRequest, opts ...grpc.CallOption) (*ListQuestsResponse, error)
	AcceptQuest(ctx context.Context, in *AcceptQuestRequest, opts ...grpc.CallOption) (*AcceptQuestResponse, error)
	CompleteQuest(ctx context.Context, in *CompleteQuestRequest, opts ...grpc.CallOption) (*CompleteQuestResponse, error)
	ListVetoRequests(ctx context.Context, in *ListVetoRequestsRequest, opts ...grpc.CallOption) (*ListVetoRequestsResponse, error)
	CreateVetoRequest(ctx context.Context, in *CreateVetoRequestRequest, opts ...grpc.CallOption) (*CreateVetoRequestResponse, error)
	VoteOnVetoRequest(ctx context.Context, in *VoteOnVetoRequestRequest, opts ...grpc.CallOption) (*VoteOnVetoRequestResponse, error)
	ListPlacements(ctx context.Context, in *ListPlacementsRequest, opts ...grpc.CallOption) (*ListPlacementsResponse, error)
	PlaceItem(ctx context.Context, in *PlaceItemRequest, opts ...grpc.CallOption) (*PlaceItemResponse, error)
	GetGameStats(ctx context.Context, in *GetGameStatsRequest, opts ...grpc.CallOption) (*GetGameStatsResponse, error)
	GetStreakCalendar(ctx context.Context, in *GetStreakCalendarRequest, opts ...grpc.CallOption) (*GetStreakCalendarResponse, error)
	GetLeaderboard(ctx context.Context, in *GetLeaderboardRequest, opts ...grpc.CallOption) (*GetLeaderboardResponse, error)
	ListNudges(ctx context.Context, in *ListNudgesRequest, opts ...grpc.CallOption) (*ListNudgesResponse, error)
	SendNudge(ctx context.Context, in *SendNudgeRequest, opts ...grpc.CallOption) (*SendNudgeResponse, error)
	RecordDailyFlow(ctx context.Context, in *RecordDailyFlowRequest, opts ...grpc.CallOption) (*RecordDailyFlowResponse, error)
}

type gamifyServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewGamifyServiceClient returns a client that sends every call with the
// JSON content subtype.
func NewGamifyServiceClient(cc grpc.ClientConnInterface) GamifyServiceClient {
	return &gamifyServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(jsoncodec.Name)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gamifyServiceClient) ListGoals(ctx context.Context, in *ListGoalsRequest, opts ...grpc.CallOption) (*ListGoalsResponse, error) {
	return invoke[ListGoalsResponse](ctx, c.cc, GamifyService_ListGoals_FullMethodName, in, opts)
}

func (c *gamifyServiceClient) CreateGoal(ctx context.Context, in *CreateGoalRequest, opts ...grpc.CallOption) (*CreateGoalResponse, error) {
	return invoke[CreateGoalResponse](ctx, c.cc, GamifyService_CreateGoal_FullMethodName, in, opts)
}

func (c *gamifyServiceClient) ContributeToGoal(ctx context.Context, in *ContributeToGoalRequest, opts ...grpc.CallOption) (*ContributeToGoalResponse, error) {
	return invoke[ContributeToGoalResponse](ctx, c.cc, GamifyService_ContributeToGoal_FullMethodName, in, opts)
}

func (c *gamifyServiceClient) ListQuests(ctx context.Context, in *ListQuestsRequest, opts ...grpc.CallOption) (*ListQuestsResponse, error) {
	return invoke[ListQuestsResponse](ctx, c.cc, GamifyService_ListQuests_FullMethodName, in, opts)
}

func (c *gamifyServiceClient) AcceptQuest(ctx context.Context, in *AcceptQuestRequest, opts ...grpc.CallOption) (*AcceptQuestResponse, error) {
	return invoke[AcceptQuestResponse](ctx, c.cc, GamifyService_AcceptQuest_FullMethodName, in, opts)
}

func (c *gamifyServiceClient) CompleteQuest(ctx context.Context, in *CompleteQuestRequest, opts ...grpc.CallOption) (*CompleteQuestResponse, error) {
	return invoke[CompleteQuestResponse](ctx, c.cc, GamifyService_CompleteQuest_FullMethodName, in, opts)
}

func (c *gamifyServiceClient) ListVetoRequests(ctx context.Context, in *ListVetoRequestsRequest, opts ...grpc.CallOption) (*ListVetoRequestsResponse, error) {
	return invoke[ListVetoRequestsResponse](ctx, c.cc, GamifyService_ListVetoRequests_FullMethodName, in, opts)
}

func (c *gamifyServiceClient) CreateVetoRequest(ctx context.Context, in *CreateVetoRequestRequest, opts ...grpc.CallOption) (*CreateVetoRequestResponse, error) {
	return invoke[CreateVetoRequestResponse](ctx, c.cc, GamifyService_CreateVetoRequest_FullMethodName, in, opts)
}

func (c *gamifyServiceClient) VoteOnVetoRequest(ctx context.Context, in *VoteOnVetoRequestRequest, opts ...grpc.CallOption) (*VoteOnVetoRequestResponse, error) {
	return invoke[VoteOnVetoRequestResponse](ctx, c.cc, GamifyService_VoteOnVetoRequest_FullMethodName, in, opts)
}

func (c *gamifyServiceClient) ListPlacements(ctx context.Context, in *ListPlacementsRequest, opts ...grpc.CallOption) (*ListPlacementsResponse, error) {
	return invoke[ListPlacementsResponse](ctx, c.cc, GamifyService_ListPlacements_FullMethodName, in, opts)
}

func (c *gamifyServiceClient) PlaceItem(ctx context.Context, in *PlaceItemRequest, opts ...grpc.CallOption) (*PlaceItemResponse, error) {
	return invoke[PlaceItemResponse](ctx, c.cc, GamifyService_PlaceItem_FullMethodName, in, opts)
}

func (c *gamifyServiceClient) GetGameStats(ctx context.Context, in *GetGameStatsRequest, opts ...grpc.CallOption) (*GetGameStatsResponse, error) {
	return invoke[GetGameStatsResponse](ctx, c.cc, GamifyService_GetGameStats_FullMethodName, in, opts)
}

func (c *gamifyServiceClient) GetStreakCalendar(ctx context.Context, in *GetStreakCalendarRequest, opts ...grpc.CallOption) (*GetStreakCalendarResponse, error) {
	return invoke[GetStreakCalendarResponse](ctx, c.cc, GamifyService_GetStreakCalendar_FullMethodName, in, opts)
}

func (c *gamifyServiceClient) GetLeaderboard(ctx context.Context, in *GetLeaderboardRequest, opts ...grpc.CallOption) (*GetLeaderboardResponse, error) {
	return invoke[GetLeaderboardResponse](ctx, c.cc, GamifyService_GetLeaderboard_FullMethodName, in, opts)
}

func (c *gamifyServiceClient) ListNudges(ctx context.Context, in *ListNudgesRequest, opts ...grpc.CallOption) (*ListNudgesResponse, error) {
	return invoke[ListNudgesResponse](ctx, c.cc, GamifyService_ListNudges_FullMethodName, in, opts)
}

func (c *gamifyServiceClient) SendNudge(ctx context.Context, in *SendNudgeRequest, opts ...grpc.CallOption) (*SendNudgeResponse, error) {
	return invoke[SendNudgeResponse](ctx, c.cc, GamifyService_SendNudge_FullMethodName, in, opts)
}

func (c *gamifyServiceClient) RecordDailyFlow(ctx context.Context, in *RecordDailyFlowRequest, opts ...grpc.CallOption) (*RecordDailyFlowResponse, error) {
	return invoke[RecordDailyFlowResponse](ctx, c.cc, GamifyService_RecordDailyFlow_FullMethodName, in, opts)
}
