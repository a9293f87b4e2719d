package rules

import (
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/popcity/popcity/internal/game/economy"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestLevelCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		remaining string
		want      int
	}{
		{remaining: "0", want: 10},
		{remaining: "499.99", want: 10},
		{remaining: "500", want: 20},
		{remaining: "1999", want: 20},
		{remaining: "2000", want: 30},
		{remaining: "4999.99", want: 30},
		{remaining: "5000", want: 50},
		{remaining: "100000", want: 50},
	}
	for _, tt := range tests {
		if got := LevelCount(dec(tt.remaining)); got != tt.want {
			t.Fatalf("LevelCount(%s) = %d, want %d", tt.remaining, got, tt.want)
		}
	}
}

func TestDailyTarget(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	soon := now.AddDate(0, 0, 10)
	later := now.AddDate(0, 0, 100)

	tests := []struct {
		name   string
		target *time.Time
		want   string
	}{
		{name: "no date uses 180 days", target: nil, want: "10"},
		{name: "close date floors at 30 days", target: &soon, want: "60"},
		{name: "far date", target: &later, want: "18"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DailyTarget(dec("1800"), tt.target, now)
			if !got.Equal(dec(tt.want)) {
				t.Fatalf("DailyTarget() = %s, want %s", got, tt.want)
			}
		})
	}
	if got := DailyTarget(dec("1000"), nil, now); !got.Equal(dec("5.56")) {
		t.Fatalf("DailyTarget(1000) = %s, want 5.56", got)
	}
}

func TestContributeCrossingALevel(t *testing.T) {
	t.Parallel()

	got := Contribute(dec("4990"), dec("5000"), dec("20"), 49, 50)
	if !got.LevelUp || got.Level != 50 {
		t.Fatalf("Contribute() level = %d levelUp = %v", got.Level, got.LevelUp)
	}
	if got.Rewards != (economy.Rewards{Points: 100, Currency: 50}) {
		t.Fatalf("Contribute() rewards = %+v", got.Rewards)
	}
	if !got.Completed || !got.CurrentAmount.Equal(dec("5010")) {
		t.Fatalf("Contribute() = %+v", got)
	}
}

func TestContributeWithinALevel(t *testing.T) {
	t.Parallel()

	got := Contribute(dec("120"), dec("1000"), dec("30"), 1, 10)
	if got.LevelUp || got.Level != 1 || !got.Rewards.IsZero() || got.Completed {
		t.Fatalf("Contribute() = %+v", got)
	}

	multi := Contribute(dec("0"), dec("1000"), dec("350"), 0, 10)
	if multi.Level != 3 || multi.Rewards != (economy.Rewards{Points: 300, Currency: 150}) {
		t.Fatalf("Contribute() multi-level = %+v", multi)
	}
}

func TestStreakAndCalendar(t *testing.T) {
	t.Parallel()

	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }
	flows := []Flow{
		{Date: day(5), Income: dec("100"), Expenses: dec("50")},
		{Date: day(1), Income: dec("10"), Expenses: dec("5")},
		{Date: day(3), Income: dec("0"), Expenses: dec("40")},
		{Date: day(4), Income: dec("30"), Expenses: dec("30")},
		{Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), Income: dec("1"), Expenses: dec("0")},
	}
	if got := Streak(flows); got != 3 {
		t.Fatalf("Streak() = %d, want 3", got)
	}
	if got := Streak(nil); got != 0 {
		t.Fatalf("Streak(nil) = %d", got)
	}
	if got := CalendarDays(flows, 2026, time.March); !slices.Equal(got, []int{1, 4, 5}) {
		t.Fatalf("CalendarDays() = %v", got)
	}
}
