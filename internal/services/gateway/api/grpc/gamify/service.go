// Package gamify serves the gamify.v1 gRPC API over the gateway store.
package gamify

import (
	"context"
	"errors"
	"strconv"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/popcity/popcity/internal/api/gamifyv1"
	grpcmeta "github.com/popcity/popcity/internal/api/grpc/metadata"
	"github.com/popcity/popcity/internal/game/economy"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
	"github.com/popcity/popcity/internal/platform/id"
	"github.com/popcity/popcity/internal/platform/requestctx"
	"github.com/popcity/popcity/internal/services/gateway/domain/tally"
	"github.com/popcity/popcity/internal/services/gateway/storage"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 50
	visibleVetoLimit        = 50
)

// Service exposes gamify.v1 gRPC operations.
type Service struct {
	gamifyv1.UnimplementedGamifyServiceServer
	store       storage.Store
	policy      tally.Policy
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewService creates a gamify service. A nil policy resolves votes with
// tally.FirstVote.
func NewService(store storage.Store, policy tally.Policy) *Service {
	if policy == nil {
		policy = tally.FirstVote{}
	}
	return &Service{
		store:       store,
		policy:      policy,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
}

func (s *Service) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

// callContext is the resolved caller of one request.
type callContext struct {
	user   storage.User
	locale string
}

// begin resolves and registers the caller. The returned error is already a
// gRPC status.
func (s *Service) begin(ctx context.Context, missingRequest bool) (callContext, error) {
	caller, ok := requestctx.CallerFromContext(ctx)
	if !ok {
		caller = grpcmeta.CallerFromIncomingContext(ctx)
	}
	if missingRequest {
		return callContext{}, status.Error(codes.InvalidArgument, "request is required")
	}
	if s == nil || s.store == nil {
		return callContext{}, status.Error(codes.Internal, "gateway store is not configured")
	}
	if caller.UserID == "" {
		return callContext{}, apperrors.GRPCStatus(
			apperrors.New(apperrors.CodeCallerMissing, "caller user id is required"), caller.Locale)
	}
	user, err := s.store.EnsureUser(ctx, caller.UserID, caller.UserName)
	if err != nil {
		return callContext{}, apperrors.GRPCStatus(err, caller.Locale)
	}
	return callContext{user: user, locale: caller.Locale}, nil
}

// fail converts err into a localized status for the caller.
func (c callContext) fail(err error) error {
	return apperrors.GRPCStatus(err, c.locale)
}

// storeError maps storage sentinels onto domain codes.
func storeError(err error, notFound, exists apperrors.Code) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.Wrap(notFound, "not found", err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return apperrors.Wrap(exists, "already exists", err)
	case errors.Is(err, storage.ErrInsufficientCurrency):
		return &apperrors.Error{
			Code:     apperrors.CodePlacementInsufficientCurrency,
			Message:  "not enough currency",
			Metadata: map[string]string{"Cost": strconv.FormatInt(economy.ItemCost, 10)},
			Cause:    err,
		}
	default:
		return err
	}
}
