package gamifyv1

import (
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"testing"
)

var protoPath = filepath.Join("..", "..", "..", "api", "proto", "popcity", "gamify", "v1", "gamify.proto")

var (
	packageRe = regexp.MustCompile(`(?m)^package ([\w.]+);`)
	serviceRe = regexp.MustCompile(`(?m)^service (\w+) \{`)
	rpcRe     = regexp.MustCompile(`rpc (\w+)\((\w+)\) returns \((\w+)\);`)
	messageRe = regexp.MustCompile(`(?s)message (\w+) \{(.*?)\}`)
	fieldRe   = regexp.MustCompile(`(?m)^\s*(?:repeated )?\w+ (\w+) = \d+;`)
)

var goMessages = map[string]any{
	"Stats": Stats{}, "Rewards": Rewards{}, "Goal": Goal{}, "Quest": Quest{},
	"VetoVote": VetoVote{}, "VetoRequest": VetoRequest{}, "Placement": Placement{},
	"LeaderboardEntry":          LeaderboardEntry{},
	"ListGoalsRequest":          ListGoalsRequest{},
	"ListGoalsResponse":         ListGoalsResponse{},
	"CreateGoalRequest":         CreateGoalRequest{},
	"CreateGoalResponse":        CreateGoalResponse{},
	"ContributeToGoalRequest":   ContributeToGoalRequest{},
	"ContributeToGoalResponse":  ContributeToGoalResponse{},
	"ListQuestsRequest":         ListQuestsRequest{},
	"ListQuestsResponse":        ListQuestsResponse{},
	"AcceptQuestRequest":        AcceptQuestRequest{},
	"AcceptQuestResponse":       AcceptQuestResponse{},
	"CompleteQuestRequest":      CompleteQuestRequest{},
	"CompleteQuestResponse":     CompleteQuestResponse{},
	"ListVetoRequestsRequest":   ListVetoRequestsRequest{},
	"ListVetoRequestsResponse":  ListVetoRequestsResponse{},
	"CreateVetoRequestRequest":  CreateVetoRequestRequest{},
	"CreateVetoRequestResponse": CreateVetoRequestResponse{},
	"VoteOnVetoRequestRequest":  VoteOnVetoRequestRequest{},
	"VoteOnVetoRequestResponse": VoteOnVetoRequestResponse{},
	"ListPlacementsRequest":     ListPlacementsRequest{},
	"ListPlacementsResponse":    ListPlacementsResponse{},
	"PlaceItemRequest":          PlaceItemRequest{},
	"PlaceItemResponse":         PlaceItemResponse{},
	"GetGameStatsRequest":       GetGameStatsRequest{},
	"GetGameStatsResponse":      GetGameStatsResponse{},
	"GetStreakCalendarRequest":  GetStreakCalendarRequest{},
	"GetStreakCalendarResponse": GetStreakCalendarResponse{},
	"GetLeaderboardRequest":     GetLeaderboardRequest{},
	"GetLeaderboardResponse":    GetLeaderboardResponse{},
	"ListNudgesRequest":         ListNudgesRequest{},
	"ListNudgesResponse":        ListNudgesResponse{},
	"SendNudgeRequest":          SendNudgeRequest{},
	"SendNudgeResponse":         SendNudgeResponse{},
	"RecordDailyFlowRequest":    RecordDailyFlowRequest{},
	"RecordDailyFlowResponse":   RecordDailyFlowResponse{},
}

func readProto(t *testing.T) string {
	t.Helper()
	raw, err := os.ReadFile(protoPath)
	if err != nil {
		t.Fatalf("read %s: %v", protoPath, err)
	}
	return string(raw)
}

func TestServiceDescMatchesProto(t *testing.T) {
	t.Parallel()

	src := readProto(t)
	pkg := packageRe.FindStringSubmatch(src)
	svc := serviceRe.FindStringSubmatch(src)
	if pkg == nil || svc == nil {
		t.Fatal("proto lacks a package or service declaration")
	}
	if got := pkg[1] + "." + svc[1]; got != ServiceName || GamifyService_ServiceDesc.ServiceName != ServiceName {
		t.Fatalf("proto service = %s, Go service = %s", got, GamifyService_ServiceDesc.ServiceName)
	}

	var protoRPCs []string
	for _, m := range rpcRe.FindAllStringSubmatch(src, -1) {
		protoRPCs = append(protoRPCs, m[1])
		if m[2] != m[1]+"Request" || m[3] != m[1]+"Response" {
			t.Errorf("rpc %s uses %s/%s", m[1], m[2], m[3])
		}
	}
	var goRPCs []string
	for _, m := range GamifyService_ServiceDesc.Methods {
		goRPCs = append(goRPCs, m.MethodName)
	}
	if !slices.Equal(protoRPCs, goRPCs) {
		t.Fatalf("proto rpcs = %v\nGo methods = %v", protoRPCs, goRPCs)
	}
}

func TestMessagesMatchProtoFields(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, m := range messageRe.FindAllStringSubmatch(readProto(t), -1) {
		name, body := m[1], m[2]
		seen[name] = true
		goType, ok := goMessages[name]
		if !ok {
			t.Errorf("proto message %s has no Go type", name)
			continue
		}
		var protoFields []string
		for _, f := range fieldRe.FindAllStringSubmatch(body, -1) {
			protoFields = append(protoFields, f[1])
		}
		if got := jsonFields(reflect.TypeOf(goType)); !slices.Equal(protoFields, got) {
			t.Errorf("%s: proto fields %v, Go json fields %v", name, protoFields, got)
		}
	}
	for name := range goMessages {
		if !seen[name] {
			t.Errorf("Go message %s missing from proto", name)
		}
	}
}

func jsonFields(typ reflect.Type) []string {
	var out []string
	for i := range typ.NumField() {
		name, _, _ := strings.Cut(typ.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			out = append(out, name)
		}
	}
	return out
}
