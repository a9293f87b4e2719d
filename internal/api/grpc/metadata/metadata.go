// Package metadata reads PopCity request metadata on the gateway and writes
// it on outgoing client calls.
package metadata

import (
	"context"
	"log"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/popcity/popcity/internal/api/gamifyv1"
	"github.com/popcity/popcity/internal/platform/id"
	"github.com/popcity/popcity/internal/platform/requestctx"
)

type contextKey string

const requestIDContextKey contextKey = "popcity-request-id"

// RequestIDFromContext returns the request ID stored in context.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDContextKey).(string)
	return value
}

// WithRequestID stores the request ID in context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// IsPrintableASCII reports whether a string contains only printable ASCII characters.
func IsPrintableASCII(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 0x20 || value[i] > 0x7e {
			return false
		}
	}
	return true
}

// FirstMetadataValue returns the first printable ASCII metadata value for a key.
func FirstMetadataValue(md metadata.MD, key string) string {
	for mdKey, values := range md {
		if !strings.EqualFold(mdKey, key) {
			continue
		}
		for _, value := range values {
			if IsPrintableASCII(value) {
				return value
			}
		}
	}
	return ""
}

// CallerFromIncomingContext reads the caller identity headers.
func CallerFromIncomingContext(ctx context.Context) requestctx.Caller {
	md, _ := metadata.FromIncomingContext(ctx)
	return requestctx.Caller{
		UserID:   strings.TrimSpace(FirstMetadataValue(md, gamifyv1.UserIDHeader)),
		UserName: strings.TrimSpace(decodeName(FirstMetadataValue(md, gamifyv1.UserNameHeader))),
		Locale:   strings.TrimSpace(FirstMetadataValue(md, gamifyv1.LocaleHeader)),
	}
}

// Display names travel query-escaped; metadata values must be printable ASCII.
func decodeName(raw string) string {
	name, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return name
}

// OutgoingContext attaches caller identity and a request ID to ctx for a
// client call. An empty requestID is generated.
func OutgoingContext(ctx context.Context, caller requestctx.Caller, requestID string) (context.Context, error) {
	if requestID == "" {
		generated, err := id.NewID()
		if err != nil {
			return nil, err
		}
		requestID = generated
	}
	pairs := []string{gamifyv1.RequestIDHeader, requestID}
	if caller.UserID != "" {
		pairs = append(pairs, gamifyv1.UserIDHeader, caller.UserID)
	}
	if caller.UserName != "" {
		pairs = append(pairs, gamifyv1.UserNameHeader, url.QueryEscape(caller.UserName))
	}
	if caller.Locale != "" {
		pairs = append(pairs, gamifyv1.LocaleHeader, caller.Locale)
	}
	return metadata.AppendToOutgoingContext(ctx, pairs...), nil
}

// UnaryServerInterceptor ensures every call carries a request ID, stores the
// caller in context and logs failed calls with their trace ID.
func UnaryServerInterceptor(idGenerator func() (string, error)) grpc.UnaryServerInterceptor {
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		requestID := FirstMetadataValue(md, gamifyv1.RequestIDHeader)
		if requestID == "" {
			generated, err := idGenerator()
			if err != nil {
				return nil, status.Errorf(codes.Internal, "ensure request metadata: %v", err)
			}
			requestID = generated
		}
		if err := grpc.SetHeader(ctx, metadata.Pairs(gamifyv1.RequestIDHeader, requestID)); err != nil {
			return nil, status.Errorf(codes.Internal, "set response metadata: %v", err)
		}

		caller := CallerFromIncomingContext(ctx)
		span := trace.SpanFromContext(ctx)
		span.SetAttributes(
			attribute.String("popcity.request_id", requestID),
			attribute.String("popcity.user_id", caller.UserID),
		)

		ctx = requestctx.WithCaller(WithRequestID(ctx, requestID), caller)
		resp, err := handler(ctx, req)
		if err != nil {
			traceID := ""
			if sc := span.SpanContext(); sc.HasTraceID() {
				traceID = sc.TraceID().String()
			}
			log.Printf("%s failed: request_id=%s trace_id=%s user=%s code=%s: %s",
				info.FullMethod, requestID, traceID, caller.UserID, status.Code(err), status.Convert(err).Message())
		}
		return resp, err
	}
}
