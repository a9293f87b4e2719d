package grpc

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ConnectFunc opens a client connection. DialWithHealth uses gogrpc.NewClient
// when none is given.
type ConnectFunc func(addr string, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error)

// DialStage names the step of DialWithHealth that failed.
type DialStage string

const (
	DialStageConnect DialStage = "connect"
	DialStageHealth  DialStage = "health"
)

// DialError reports a failed gateway dial.
type DialError struct {
	Addr  string
	Stage DialStage
	Err   error
}

func (e *DialError) Error() string {
	if e == nil {
		return "grpc dial failed"
	}
	return fmt.Sprintf("grpc dial %s (%s): %v", e.Addr, e.Stage, e.Err)
}

func (e *DialError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ClientOptions are the default dial options: plaintext with otelgrpc client
// stats so trace context crosses to the gateway.
func ClientOptions() []gogrpc.DialOption {
	return []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
}

// DialWithHealth opens a connection to addr and returns it only once the
// overall health status is SERVING. timeout bounds the health wait when
// positive. On failure the connection is closed and a *DialError returned.
func DialWithHealth(ctx context.Context, connect ConnectFunc, addr string, timeout time.Duration, logf func(string, ...any), opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
	if connect == nil {
		connect = gogrpc.NewClient
	}
	if opts == nil {
		opts = ClientOptions()
	}
	conn, err := connect(addr, opts...)
	if err != nil {
		return nil, &DialError{Addr: addr, Stage: DialStageConnect, Err: err}
	}

	waitCtx, cancel := withOptionalTimeout(ctx, timeout)
	defer cancel()
	if err := WaitForHealth(waitCtx, conn, "", logf); err != nil {
		conn.Close()
		return nil, &DialError{Addr: addr, Stage: DialStageHealth, Err: err}
	}
	return conn, nil
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
