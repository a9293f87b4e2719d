// Package quest drives the quest lifecycle available -> active -> completed
// against the gateway and credits completion rewards exactly once.
package quest

import (
	"context"
	"time"

	"github.com/popcity/popcity/internal/game/economy"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
)

// Category groups quests by the habit they reward.
type Category string

const (
	CategoryNoSpend     Category = "no-spend"
	CategoryMilestone   Category = "milestone"
	CategoryAccelerator Category = "accelerator"
	CategorySocial      Category = "social"
)

// Status is the quest lifecycle state.
type Status string

const (
	StatusAvailable Status = "available"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// rank orders statuses so a response can never move a quest backwards.
func (s Status) rank() int {
	switch s {
	case StatusActive:
		return 1
	case StatusCompleted:
		return 2
	default:
		return 0
	}
}

// Quest is a challenge as last reported by the gateway.
type Quest struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Category       Category   `json:"category"`
	Description    string     `json:"description"`
	PointsReward   int64      `json:"points_reward"`
	CurrencyReward int64      `json:"currency_reward"`
	Status         Status     `json:"status"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// CompletionResult is the gateway's answer to a completion.
type CompletionResult struct {
	Quest   Quest
	Rewards economy.Rewards
}

// Gateway is the remote surface the quest engine depends on.
type Gateway interface {
	ListQuests(ctx context.Context, filter string) ([]Quest, error)
	AcceptQuest(ctx context.Context, questID string) (Quest, error)
	CompleteQuest(ctx context.Context, questID string) (CompletionResult, error)
}

type unavailableGateway struct{}

func (unavailableGateway) ListQuests(context.Context, string) ([]Quest, error) {
	return nil, apperrors.Transport("quest gateway is not configured", nil)
}

func (unavailableGateway) AcceptQuest(context.Context, string) (Quest, error) {
	return Quest{}, apperrors.Transport("quest gateway is not configured", nil)
}

func (unavailableGateway) CompleteQuest(context.Context, string) (CompletionResult, error) {
	return CompletionResult{}, apperrors.Transport("quest gateway is not configured", nil)
}
