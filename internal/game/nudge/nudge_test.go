package nudge

import (
	"context"
	"errors"
	"sync"
	"testing"

	apperrors "github.com/popcity/popcity/internal/platform/errors"
)

type gatewayStub struct {
	mu      sync.Mutex
	listed  []string
	sendErr error
	sends   []string

	entered chan struct{}
	release chan struct{}
}

func (g *gatewayStub) ListNudges(context.Context) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.listed, nil
}

func (g *gatewayStub) SendNudge(_ context.Context, to, _ string) error {
	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sends = append(g.sends, to)
	return g.sendErr
}

func quietLog(string, ...any) {}

func TestSendValidation(t *testing.T) {
	t.Parallel()

	gw := &gatewayStub{listed: []string{"user-bo"}}
	engine := NewEngine(gw, "user-me", quietLog)
	if err := engine.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		to   string
		code apperrors.Code
	}{
		{name: "blank", to: " ", code: apperrors.CodeNudgeTargetEmpty},
		{name: "self", to: "user-me", code: apperrors.CodeNudgeSelf},
		{name: "already sent", to: "user-bo", code: apperrors.CodeNudgeAlreadySent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.Send(context.Background(), tt.to, "House")
			if apperrors.CodeOf(err) != tt.code {
				t.Fatalf("Send() error = %v, want %s", err, tt.code)
			}
		})
	}
	if len(gw.sends) != 0 {
		t.Fatalf("gateway sends = %v", gw.sends)
	}
}

func TestSendRecordsOnlyOnSuccess(t *testing.T) {
	t.Parallel()

	gw := &gatewayStub{sendErr: errors.New("boom")}
	engine := NewEngine(gw, "user-me", quietLog)
	if err := engine.Send(context.Background(), "user-cy", "Trip"); err == nil {
		t.Fatal("Send() error = nil")
	}
	if engine.Sent("user-cy") {
		t.Fatal("Sent() = true after failure")
	}

	gw.mu.Lock()
	gw.sendErr = nil
	gw.mu.Unlock()
	if err := engine.Send(context.Background(), "user-cy", "Trip"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if !engine.Sent("user-cy") {
		t.Fatal("Sent() = false after success")
	}
	if err := engine.Send(context.Background(), "user-cy", "Trip"); apperrors.CodeOf(err) != apperrors.CodeNudgeAlreadySent {
		t.Fatalf("second Send() error = %v", err)
	}
}

func TestSendRejectsWhileInFlight(t *testing.T) {
	t.Parallel()

	gw := &gatewayStub{entered: make(chan struct{}), release: make(chan struct{})}
	engine := NewEngine(gw, "user-me", quietLog)

	done := make(chan error, 1)
	go func() { done <- engine.Send(context.Background(), "user-cy", "Trip") }()
	<-gw.entered
	if err := engine.Send(context.Background(), "user-cy", "Trip"); apperrors.CodeOf(err) != apperrors.CodeOperationInFlight {
		t.Fatalf("Send() error = %v, want in flight", err)
	}
	close(gw.release)
	if err := <-done; err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(gw.sends) != 1 {
		t.Fatalf("sends = %v, want one", gw.sends)
	}
}
