package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(CodeVetoAlreadyVoted, "duplicate vote"))
	if !stderrors.Is(err, New(CodeVetoAlreadyVoted, "")) {
		t.Fatal("expected errors.Is to match by code")
	}
	if stderrors.Is(err, New(CodeVetoOwnRequest, "")) {
		t.Fatal("expected different code not to match")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "local validation", err: New(CodeGoalNameEmpty, "name"), want: KindValidation},
		{name: "transport", err: Transport("dial", stderrors.New("refused")), want: KindTransport},
		{name: "application", err: &Error{Code: CodeQuestAlreadyCompleted, Kind: KindApplication}, want: KindApplication},
		{name: "deadline", err: context.DeadlineExceeded, want: KindTransport},
		{name: "unavailable status", err: status.Error(codes.Unavailable, "down"), want: KindTransport},
		{name: "other status", err: status.Error(codes.FailedPrecondition, "no"), want: KindApplication},
		{name: "plain", err: stderrors.New("boom"), want: KindApplication},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNoChange(t *testing.T) {
	if NoChange(nil) {
		t.Fatal("nil error must not report a failed operation")
	}
	if !NoChange(Transport("dial", nil)) {
		t.Fatal("expected failed operations to be safe to retry")
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeContributionNotPositive, codes.InvalidArgument},
		{CodeQuestAlreadyCompleted, codes.FailedPrecondition},
		{CodeGoalNotFound, codes.NotFound},
		{CodeVetoAlreadyVoted, codes.AlreadyExists},
		{CodeCallerMissing, codes.Unauthenticated},
		{CodeGatewayUnavailable, codes.Unavailable},
		{CodeUnknown, codes.Internal},
	}
	for _, tt := range tests {
		if got := tt.code.GRPCCode(); got != tt.want {
			t.Fatalf("%s.GRPCCode() = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestToGRPCStatusRoundTripsThroughFromGRPC(t *testing.T) {
	original := WithMetadata(CodePlacementInsufficientCurrency, "currency 20 below 25", map[string]string{"Cost": "25"})
	wire := original.ToGRPCStatus("en-US", "You need 25 coins to place an item")

	st := status.Convert(wire)
	if st.Code() != codes.FailedPrecondition {
		t.Fatalf("status code = %v", st.Code())
	}
	var sawInfo, sawLocalized bool
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			sawInfo = d.GetReason() == string(CodePlacementInsufficientCurrency) && d.GetDomain() == Domain
		case *errdetails.LocalizedMessage:
			sawLocalized = d.GetLocale() == "en-US"
		}
	}
	if !sawInfo || !sawLocalized {
		t.Fatalf("details info=%v localized=%v", sawInfo, sawLocalized)
	}

	back := FromGRPC(wire)
	if CodeOf(back) != CodePlacementInsufficientCurrency {
		t.Fatalf("code = %s", CodeOf(back))
	}
	if KindOf(back) != KindApplication {
		t.Fatalf("kind = %s", KindOf(back))
	}
	if got := UserMessage(back, "pt-BR"); got != "Você precisa de 25 moedas para colocar um item" {
		t.Fatalf("user message = %q", got)
	}
}

func TestFromGRPCClassifiesTransport(t *testing.T) {
	err := FromGRPC(status.Error(codes.Unavailable, "connection refused"))
	if KindOf(err) != KindTransport {
		t.Fatalf("kind = %s", KindOf(err))
	}
	if CodeOf(err) != CodeGatewayUnavailable {
		t.Fatalf("code = %s", CodeOf(err))
	}
	if FromGRPC(nil) != nil {
		t.Fatal("expected nil passthrough")
	}
}

func TestFromGRPCFallsBackToStatusCode(t *testing.T) {
	err := FromGRPC(status.Error(codes.NotFound, "missing"))
	if CodeOf(err) != CodeNotFound {
		t.Fatalf("code = %s", CodeOf(err))
	}
}

func TestGRPCStatus(t *testing.T) {
	if GRPCStatus(nil, "en-US") != nil {
		t.Fatal("expected nil")
	}
	st := status.Convert(GRPCStatus(New(CodeQuestNotActive, "quest q1 is available"), "en-US"))
	if st.Code() != codes.FailedPrecondition {
		t.Fatalf("code = %v", st.Code())
	}
	passthrough := status.Error(codes.PermissionDenied, "no")
	if GRPCStatus(passthrough, "en-US") != passthrough {
		t.Fatal("expected status errors to pass through")
	}
	if status.Code(GRPCStatus(stderrors.New("disk"), "en-US")) != codes.Internal {
		t.Fatal("expected internal for plain errors")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(CodeVetoOwnRequest, "own"), "en-US"); got != "You cannot vote on your own request" {
		t.Fatalf("message = %q", got)
	}
	if got := UserMessage(context.DeadlineExceeded, "en-US"); got != "Can't reach PopCity right now. Nothing was changed, try again" {
		t.Fatalf("transport message = %q", got)
	}
	custom := &Error{Code: "SERVER_ONLY", Kind: KindApplication, Message: "server said no"}
	if got := UserMessage(custom, "en-US"); got != "server said no" {
		t.Fatalf("fallback message = %q", got)
	}
}
