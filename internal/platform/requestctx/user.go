// Package requestctx carries per-request caller identity through a context.
package requestctx

import (
	"context"
	"strings"
)

// Caller identifies the player a request acts for.
type Caller struct {
	UserID   string
	UserName string
	Locale   string
}

type callerContextKey struct{}

// WithCaller stores the caller in ctx.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	caller.UserID = strings.TrimSpace(caller.UserID)
	caller.UserName = strings.TrimSpace(caller.UserName)
	caller.Locale = strings.TrimSpace(caller.Locale)
	return context.WithValue(ctx, callerContextKey{}, caller)
}

// CallerFromContext returns the caller stored in ctx and whether one with a
// user ID was present.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	if ctx == nil {
		return Caller{}, false
	}
	caller, _ := ctx.Value(callerContextKey{}).(Caller)
	return caller, caller.UserID != ""
}

// UserIDFromContext returns the caller's user ID, or "".
func UserIDFromContext(ctx context.Context) string {
	caller, _ := CallerFromContext(ctx)
	return caller.UserID
}
