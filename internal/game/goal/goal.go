// Package goal tracks a player's savings goals and reconciles contributions
// with the gateway. Contributions are never applied optimistically.
package goal

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/popcity/popcity/internal/game/economy"
)

// Category is the theme of a savings goal.
type Category string

const (
	CategoryHouse     Category = "house"
	CategoryVacation  Category = "vacation"
	CategoryDebt      Category = "debt"
	CategoryShopping  Category = "shopping"
	CategoryEmergency Category = "emergency"
	CategoryOther     Category = "other"
)

// Categories lists every goal category in display order.
func Categories() []Category {
	return []Category{CategoryHouse, CategoryVacation, CategoryDebt, CategoryShopping, CategoryEmergency, CategoryOther}
}

// ParseCategory resolves raw into a Category. Blank input is CategoryOther.
func ParseCategory(raw string) (Category, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return CategoryOther, true
	}
	for _, c := range Categories() {
		if string(c) == raw {
			return c, true
		}
	}
	return "", false
}

// Status is the goal lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Goal is a savings target as last reported by the gateway.
type Goal struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      Category        `json:"category"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	CurrentLevel  int             `json:"current_level"`
	TotalLevels   int             `json:"total_levels"`
	Status        Status          `json:"status"`
	DailyTarget   decimal.Decimal `json:"daily_target"`
	TargetDate    *time.Time      `json:"target_date,omitempty"`
}

// ProgressPercent returns the goal's clamped completion percentage.
func (g Goal) ProgressPercent() float64 {
	return economy.ProgressPercent(g.CurrentAmount, g.TargetAmount)
}

// CreateInput carries the fields of a new goal.
type CreateInput struct {
	Name         string
	Category     Category
	TargetAmount decimal.Decimal
	TargetDate   *time.Time
}

// ContributionResult is the gateway's answer to a contribution. NewLevel and
// Rewards are meaningful only when LevelUp is true.
type ContributionResult struct {
	Goal     Goal
	LevelUp  bool
	NewLevel int
	Rewards  economy.Rewards
}
