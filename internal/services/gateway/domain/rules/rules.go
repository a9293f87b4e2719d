// Package rules holds the gateway's authoritative game arithmetic: goal level
// plans, contribution outcomes and streaks derived from daily flows.
package rules

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/popcity/popcity/internal/game/economy"
)

const (
	// DefaultGoalDays is the planning horizon of a goal without a target date.
	DefaultGoalDays = 180
	// MinGoalDays is the shortest planning horizon.
	MinGoalDays = 30

	// LevelUpPoints is the point reward per level gained.
	LevelUpPoints int64 = 100
	// LevelUpCurrency is the currency reward per level gained.
	LevelUpCurrency int64 = 50
)

// LevelCount picks how many levels split the remaining amount of a goal.
func LevelCount(remaining decimal.Decimal) int {
	switch {
	case remaining.LessThan(decimal.NewFromInt(500)):
		return 10
	case remaining.LessThan(decimal.NewFromInt(2000)):
		return 20
	case remaining.LessThan(decimal.NewFromInt(5000)):
		return 30
	default:
		return 50
	}
}

// PlanDays is the number of days available to reach targetDate from now,
// at least MinGoalDays. A nil date plans DefaultGoalDays.
func PlanDays(targetDate *time.Time, now time.Time) int {
	if targetDate == nil {
		return DefaultGoalDays
	}
	days := int(targetDate.Sub(now).Hours() / 24)
	return max(days, MinGoalDays)
}

// DailyTarget is the amount to save per day, rounded to cents.
func DailyTarget(remaining decimal.Decimal, targetDate *time.Time, now time.Time) decimal.Decimal {
	if !remaining.IsPositive() {
		return decimal.Zero
	}
	return remaining.Div(decimal.NewFromInt(int64(PlanDays(targetDate, now)))).Round(2)
}

// LevelReached is the level a goal sits at for current savings: one level
// per target/levels saved, capped at levels.
func LevelReached(current, target decimal.Decimal, levels int) int {
	if levels <= 0 || !target.IsPositive() || !current.IsPositive() {
		return 0
	}
	perLevel := target.Div(decimal.NewFromInt(int64(levels)))
	reached := current.Div(perLevel).Floor().IntPart()
	return int(min(reached, int64(levels)))
}

// LevelUpRewards is the bundle granted for gaining levels.
func LevelUpRewards(gained int) economy.Rewards {
	if gained <= 0 {
		return economy.Rewards{}
	}
	return economy.Rewards{
		Points:   LevelUpPoints * int64(gained),
		Currency: LevelUpCurrency * int64(gained),
	}
}

// Completed reports whether current savings reached target.
func Completed(current, target decimal.Decimal) bool {
	return current.GreaterThanOrEqual(target)
}

// Contribution is the outcome of adding to a goal.
type Contribution struct {
	CurrentAmount decimal.Decimal
	Level         int
	LevelUp       bool
	Rewards       economy.Rewards
	Completed     bool
}

// Contribute applies amount to a goal at currentLevel.
func Contribute(current, target, amount decimal.Decimal, currentLevel, levels int) Contribution {
	next := current.Add(amount)
	level := max(LevelReached(next, target, levels), currentLevel)
	gained := level - currentLevel
	return Contribution{
		CurrentAmount: next,
		Level:         level,
		LevelUp:       gained > 0,
		Rewards:       LevelUpRewards(gained),
		Completed:     Completed(next, target),
	}
}

// Flow is one recorded day of income and expenses.
type Flow struct {
	Date     time.Time
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// Net is income minus expenses.
func (f Flow) Net() decimal.Decimal {
	return f.Income.Sub(f.Expenses)
}

// Streak counts the most recent recorded days whose net is not negative,
// stopping at the first negative day.
func Streak(flows []Flow) int64 {
	sorted := slices.Clone(flows)
	slices.SortFunc(sorted, func(a, b Flow) int { return a.Date.Compare(b.Date) })
	var streak int64
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Net().IsNegative() {
			break
		}
		streak++
	}
	return streak
}

// CalendarDays lists the days of month in year with a non-negative net.
func CalendarDays(flows []Flow, year int, month time.Month) []int {
	days := []int{}
	for _, f := range flows {
		d := f.Date.UTC()
		if d.Year() != year || d.Month() != month || f.Net().IsNegative() {
			continue
		}
		if !slices.Contains(days, d.Day()) {
			days = append(days, d.Day())
		}
	}
	slices.Sort(days)
	return days
}
