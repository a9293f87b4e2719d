package metadata

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/popcity/popcity/internal/api/gamifyv1"
	"github.com/popcity/popcity/internal/platform/requestctx"
)

type headerStream struct {
	header metadata.MD
}

func (s *headerStream) Method() string { return gamifyv1.GamifyService_GetGameStats_FullMethodName }

func (s *headerStream) SetHeader(md metadata.MD) error {
	s.header = metadata.Join(s.header, md)
	return nil
}

func (s *headerStream) SendHeader(md metadata.MD) error { return s.SetHeader(md) }

func (s *headerStream) SetTrailer(metadata.MD) error { return nil }

func serverContext(md metadata.MD) (context.Context, *headerStream) {
	stream := &headerStream{}
	ctx := metadata.NewIncomingContext(context.Background(), md)
	return grpc.NewContextWithServerTransportStream(ctx, stream), stream
}

var info = &grpc.UnaryServerInfo{FullMethod: gamifyv1.GamifyService_GetGameStats_FullMethodName}

func TestUnaryServerInterceptorGeneratesRequestID(t *testing.T) {
	t.Parallel()

	ctx, stream := serverContext(metadata.Pairs(gamifyv1.UserIDHeader, "u1", gamifyv1.UserNameHeader, "Ana"))
	interceptor := UnaryServerInterceptor(func() (string, error) { return "req-1", nil })

	var seen requestctx.Caller
	var seenID string
	_, err := interceptor(ctx, nil, info, func(ctx context.Context, req any) (any, error) {
		seen, _ = requestctx.CallerFromContext(ctx)
		seenID = RequestIDFromContext(ctx)
		return nil, nil
	})
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if seenID != "req-1" {
		t.Fatalf("request id = %q, want req-1", seenID)
	}
	if seen.UserID != "u1" || seen.UserName != "Ana" {
		t.Fatalf("caller = %+v", seen)
	}
	if got := stream.header.Get(gamifyv1.RequestIDHeader); len(got) != 1 || got[0] != "req-1" {
		t.Fatalf("response header = %v, want [req-1]", got)
	}
}

func TestUnaryServerInterceptorKeepsIncomingRequestID(t *testing.T) {
	t.Parallel()

	ctx, _ := serverContext(metadata.Pairs(gamifyv1.RequestIDHeader, "client-7"))
	interceptor := UnaryServerInterceptor(func() (string, error) {
		t.Fatal("generator should not run")
		return "", nil
	})
	_, err := interceptor(ctx, nil, info, func(ctx context.Context, req any) (any, error) {
		if got := RequestIDFromContext(ctx); got != "client-7" {
			t.Fatalf("request id = %q, want client-7", got)
		}
		return nil, status.Error(codes.NotFound, "missing")
	})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("code = %v, want %v", status.Code(err), codes.NotFound)
	}
}

func TestUnaryServerInterceptorGeneratorFailure(t *testing.T) {
	t.Parallel()

	ctx, _ := serverContext(metadata.MD{})
	interceptor := UnaryServerInterceptor(func() (string, error) { return "", errors.New("no entropy") })
	_, err := interceptor(ctx, nil, info, func(context.Context, any) (any, error) {
		t.Fatal("handler should not run")
		return nil, nil
	})
	if status.Code(err) != codes.Internal {
		t.Fatalf("code = %v, want %v", status.Code(err), codes.Internal)
	}
}

func TestOutgoingContextCarriesCaller(t *testing.T) {
	t.Parallel()

	ctx, err := OutgoingContext(context.Background(), requestctx.Caller{UserID: "u1", UserName: "Zoë", Locale: "pt-BR"}, "")
	if err != nil {
		t.Fatalf("outgoing context: %v", err)
	}
	md, ok := metadata.FromOutgoingContext(ctx)
	if !ok {
		t.Fatal("expected outgoing metadata")
	}
	incoming := metadata.NewIncomingContext(context.Background(), md)
	caller := CallerFromIncomingContext(incoming)
	if caller.UserID != "u1" || caller.UserName != "Zoë" || caller.Locale != "pt-BR" {
		t.Fatalf("caller = %+v", caller)
	}
	if FirstMetadataValue(md, gamifyv1.RequestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}
}

func TestFirstMetadataValueSkipsNonPrintable(t *testing.T) {
	t.Parallel()

	md := metadata.MD{"x-popcity-user-id": {"bad\x01", "good"}}
	if got := FirstMetadataValue(md, gamifyv1.UserIDHeader); got != "good" {
		t.Fatalf("value = %q, want good", got)
	}
}
