package gamifyv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	// Registers the codec selected by every client call.
	_ "github.com/popcity/popcity/internal/platform/grpc/jsoncodec"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "popcity.gamify.v1.GamifyService"

const (
	GamifyService_ListGoals_FullMethodName         = "/" + ServiceName + "/ListGoals"
	GamifyService_CreateGoal_FullMethodName        = "/" + ServiceName + "/CreateGoal"
	GamifyService_ContributeToGoal_FullMethodName  = "/" + ServiceName + "/ContributeToGoal"
	GamifyService_ListQuests_FullMethodName        = "/" + ServiceName + "/ListQuests"
	GamifyService_AcceptQuest_FullMethodName       = "/" + ServiceName + "/AcceptQuest"
	GamifyService_CompleteQuest_FullMethodName     = "/" + ServiceName + "/CompleteQuest"
	GamifyService_ListVetoRequests_FullMethodName  = "/" + ServiceName + "/ListVetoRequests"
	GamifyService_CreateVetoRequest_FullMethodName = "/" + ServiceName + "/CreateVetoRequest"
	GamifyService_VoteOnVetoRequest_FullMethodName = "/" + ServiceName + "/VoteOnVetoRequest"
	GamifyService_ListPlacements_FullMethodName    = "/" + ServiceName + "/ListPlacements"
	GamifyService_PlaceItem_FullMethodName         = "/" + ServiceName + "/PlaceItem"
	GamifyService_GetGameStats_FullMethodName      = "/" + ServiceName + "/GetGameStats"
	GamifyService_GetStreakCalendar_FullMethodName = "/" + ServiceName + "/GetStreakCalendar"
	GamifyService_GetLeaderboard_FullMethodName    = "/" + ServiceName + "/GetLeaderboard"
	GamifyService_ListNudges_FullMethodName        = "/" + ServiceName + "/ListNudges"
	GamifyService_SendNudge_FullMethodName         = "/" + ServiceName + "/SendNudge"
	GamifyService_RecordDailyFlow_FullMethodName   = "/" + ServiceName + "/RecordDailyFlow"
)

// GamifyServiceServer is the server API for GamifyService.
type GamifyServiceServer interface {
	ListGoals(context.Context, *ListGoalsRequest) (*ListGoalsResponse, error)
	CreateGoal(context.Context, *CreateGoalRequest) (*CreateGoalResponse, error)
	ContributeToGoal(context.Context, *ContributeToGoalRequest) (*ContributeToGoalResponse, error)
	ListQuests(context.Context, *ListQuestsRequest) (*ListQuestsResponse, error)
	AcceptQuest(context.Context, *AcceptQuestRequest) (*AcceptQuestResponse, error)
	CompleteQuest(context.Context, *CompleteQuestRequest) (*CompleteQuestResponse, error)
	ListVetoRequests(context.Context, *ListVetoRequestsRequest) (*ListVetoRequestsResponse, error)
	CreateVetoRequest(context.Context, *CreateVetoRequestRequest) (*CreateVetoRequestResponse, error)
	VoteOnVetoRequest(context.Context, *VoteOnVetoRequestRequest) (*VoteOnVetoRequestResponse, error)
	ListPlacements(context.Context, *ListPlacementsRequest) (*ListPlacementsResponse, error)
	PlaceItem(context.Context, *PlaceItemRequest) (*PlaceItemResponse, error)
	GetGameStats(context.Context, *GetGameStatsRequest) (*GetGameStatsResponse, error)
	GetStreakCalendar(context.Context, *GetStreakCalendarRequest) (*GetStreakCalendarResponse, error)
	GetLeaderboard(context.Context, *GetLeaderboardRequest) (*GetLeaderboardResponse, error)
	ListNudges(context.Context, *ListNudgesRequest) (*ListNudgesResponse, error)
	SendNudge(context.Context, *SendNudgeRequest) (*SendNudgeResponse, error)
	RecordDailyFlow(context.Context, *RecordDailyFlowRequest) (*RecordDailyFlowResponse, error)
}

// UnimplementedGamifyServiceServer answers every method with Unimplemented.
// Embed it to stay forward compatible with new methods.
type UnimplementedGamifyServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedGamifyServiceServer) ListGoals(context.Context, *ListGoalsRequest) (*ListGoalsResponse, error) {
	return nil, unimplemented("ListGoals")
}
func (UnimplementedGamifyServiceServer) CreateGoal(context.Context, *CreateGoalRequest) (*CreateGoalResponse, error) {
	return nil, unimplemented("CreateGoal")
}
func (UnimplementedGamifyServiceServer) ContributeToGoal(context.Context, *ContributeToGoalRequest) (*ContributeToGoalResponse, error) {
	return nil, unimplemented("ContributeToGoal")
}
func (UnimplementedGamifyServiceServer) ListQuests(context.Context, *ListQuestsRequest) (*ListQuestsResponse, error) {
	return nil, unimplemented("ListQuests")
}
func (UnimplementedGamifyServiceServer) AcceptQuest(context.Context, *AcceptQuestRequest) (*AcceptQuestResponse, error) {
	return nil, unimplemented("AcceptQuest")
}
func (UnimplementedGamifyServiceServer) CompleteQuest(context.Context, *CompleteQuestRequest) (*CompleteQuestResponse, error) {
	return nil, unimplemented("CompleteQuest")
}
func (UnimplementedGamifyServiceServer) ListVetoRequests(context.Context, *ListVetoRequestsRequest) (*ListVetoRequestsResponse, error) {
	return nil, unimplemented("ListVetoRequests")
}
func (UnimplementedGamifyServiceServer) CreateVetoRequest(context.Context, *CreateVetoRequestRequest) (*CreateVetoRequestResponse, error) {
	return nil, unimplemented("CreateVetoRequest")
}
func (UnimplementedGamifyServiceServer) VoteOnVetoRequest(context.Context, *VoteOnVetoRequestRequest) (*VoteOnVetoRequestResponse, error) {
	return nil, unimplemented("VoteOnVetoRequest")
}
func (UnimplementedGamifyServiceServer) ListPlacements(context.Context, *ListPlacementsRequest) (*ListPlacementsResponse, error) {
	return nil, unimplemented("ListPlacements")
}
func (UnimplementedGamifyServiceServer) PlaceItem(context.Context, *PlaceItemRequest) (*PlaceItemResponse, error) {
	return nil, unimplemented("PlaceItem")
}
func (UnimplementedGamifyServiceServer) GetGameStats(context.Context, *GetGameStatsRequest) (*GetGameStatsResponse, error) {
	return nil, unimplemented("GetGameStats")
}
func (UnimplementedGamifyServiceServer) GetStreakCalendar(context.Context, *GetStreakCalendarRequest) (*GetStreakCalendarResponse, error) {
	return nil, unimplemented("GetStreakCalendar")
}
func (UnimplementedGamifyServiceServer) GetLeaderboard(context.Context, *GetLeaderboardRequest) (*GetLeaderboardResponse, error) {
	return nil, unimplemented("GetLeaderboard")
}
func (UnimplementedGamifyServiceServer) ListNudges(context.Context, *ListNudgesRequest) (*ListNudgesResponse, error) {
	return nil, unimplemented("ListNudges")
}
func (UnimplementedGamifyServiceServer) SendNudge(context.Context, *SendNudgeRequest) (*SendNudgeResponse, error) {
	return nil, unimplemented("SendNudge")
}
func (UnimplementedGamifyServiceServer) RecordDailyFlow(context.Context, *RecordDailyFlowRequest) (*RecordDailyFlowResponse, error) {
	return nil, unimplemented("RecordDailyFlow")
}

// RegisterGamifyServiceServer registers srv on s.
func RegisterGamifyServiceServer(s grpc.ServiceRegistrar, srv GamifyServiceServer) {
	s.RegisterService(&GamifyService_ServiceDesc, srv)
}

// GamifyService_ServiceDesc describes GamifyService for grpc.Server.
var GamifyService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GamifyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListGoals", GamifyServiceServer.ListGoals),
		unary("CreateGoal", GamifyServiceServer.CreateGoal),
		unary("ContributeToGoal", GamifyServiceServer.ContributeToGoal),
		unary("ListQuests", GamifyServiceServer.ListQuests),
		unary("AcceptQuest", GamifyServiceServer.AcceptQuest),
		unary("CompleteQuest", GamifyServiceServer.CompleteQuest),
		unary("ListVetoRequests", GamifyServiceServer.ListVetoRequests),
		unary("CreateVetoRequest", GamifyServiceServer.CreateVetoRequest),
		unary("VoteOnVetoRequest", GamifyServiceServer.VoteOnVetoRequest),
		unary("ListPlacements", GamifyServiceServer.ListPlacements),
		unary("PlaceItem", GamifyServiceServer.PlaceItem),
		unary("GetGameStats", GamifyServiceServer.GetGameStats),
		unary("GetStreakCalendar", GamifyServiceServer.GetStreakCalendar),
		unary("GetLeaderboard", GamifyServiceServer.GetLeaderboard),
		unary("ListNudges", GamifyServiceServer.ListNudges),
		unary("SendNudge", GamifyServiceServer.SendNudge),
		unary("RecordDailyFlow", GamifyServiceServer.RecordDailyFlow),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "popcity/gamify/v1/gamify.proto",
}

func unary[Req, Resp any](method string, call func(GamifyServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(GamifyServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(GamifyServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
