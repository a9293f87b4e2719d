package goal

import (
	"context"

	"github.com/shopspring/decimal"

	apperrors "github.com/popcity/popcity/internal/platform/errors"
)

// Gateway is the remote surface the goal engine depends on.
type Gateway interface {
	ListGoals(ctx context.Context) ([]Goal, error)
	CreateGoal(ctx context.Context, in CreateInput) (Goal, error)
	ContributeToGoal(ctx context.Context, goalID string, amount decimal.Decimal) (ContributionResult, error)
}

type unavailableGateway struct{}

func (unavailableGateway) ListGoals(context.Context) ([]Goal, error) {
	return nil, apperrors.Transport("goal gateway is not configured", nil)
}

func (unavailableGateway) CreateGoal(context.Context, CreateInput) (Goal, error) {
	return Goal{}, apperrors.Transport("goal gateway is not configured", nil)
}

func (unavailableGateway) ContributeToGoal(context.Context, string, decimal.Decimal) (ContributionResult, error) {
	return ContributionResult{}, apperrors.Transport("goal gateway is not configured", nil)
}
