// Package economy holds the game's value types (points, currency, streaks)
// and the arithmetic that derives progress bars and unlocked cells from them.
package economy

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// ItemCost is the currency price of one placeable item.
	ItemCost int64 = 25
	// PlacementPoints is the point credit for a placement in simulation mode.
	PlacementPoints int64 = 25
	// GridSize is the number of cells on the placement grid.
	GridSize = 25
	// GridColumns is the width of one grid row.
	GridColumns = 5
	// MinUnlockedCells is the number of cells open before any progress.
	MinUnlockedCells = 4

	levelBand = 1000
)

// Stats is a user's game balance. Revision is the gateway's stats revision
// for the snapshot; every write to a user's stats advances it. Zero means
// the snapshot carries no revision.
type Stats struct {
	Points        int64 `json:"points"`
	Currency      int64 `json:"currency"`
	Streak        int64 `json:"streak"`
	LongestStreak int64 `json:"longest_streak"`
	Revision      int64 `json:"revision,omitempty"`
}

// Normalize clamps negative fields to zero and keeps LongestStreak at least
// as large as Streak.
func (s Stats) Normalize() Stats {
	s.Points = max(s.Points, 0)
	s.Currency = max(s.Currency, 0)
	s.Streak = max(s.Streak, 0)
	s.LongestStreak = max(s.LongestStreak, s.Streak)
	s.Revision = max(s.Revision, 0)
	return s
}

// Apply credits r. Negative deltas are ignored.
func (s Stats) Apply(r Rewards) Stats {
	s.Points += max(r.Points, 0)
	s.Currency += max(r.Currency, 0)
	return s.Normalize()
}

// Rewards is a reward bundle. Revision is the stats revision the gateway
// reached by granting the bundle, zero for bundles it has not applied.
type Rewards struct {
	Points   int64 `json:"points"`
	Currency int64 `json:"currency"`
	Revision int64 `json:"revision,omitempty"`
}

// IsZero reports whether r grants nothing.
func (r Rewards) IsZero() bool {
	return r.Points <= 0 && r.Currency <= 0
}

// ProgressPercent returns current/target as a percentage clamped to [0, 100].
// A non-positive target yields 0.
func ProgressPercent(current, target decimal.Decimal) float64 {
	if !target.IsPositive() {
		return 0
	}
	pct := current.Div(target).Mul(decimal.NewFromInt(100)).InexactFloat64()
	return math.Min(100, math.Max(0, pct))
}

// LevelProgress maps a point total onto the 0-100 bar of the current level
// band. It is a display heuristic, never a level-up signal.
func LevelProgress(points int64) float64 {
	if points <= 0 {
		return 0
	}
	return math.Min(100, float64(points%levelBand)/10)
}

// UnlockedCount returns how many grid cells are open for a goal progress
// percentage.
func UnlockedCount(progressPercent float64) int {
	if math.IsNaN(progressPercent) || progressPercent < 0 {
		progressPercent = 0
	}
	n := int(math.Floor(progressPercent / 4))
	return min(GridSize, max(MinUnlockedCells, n))
}
