// Package session is the container for one signed-in player: it owns the
// ledger and every game engine and wires their cross effects.
package session

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/game/goal"
	"github.com/popcity/popcity/internal/game/nudge"
	"github.com/popcity/popcity/internal/game/pending"
	"github.com/popcity/popcity/internal/game/placement"
	"github.com/popcity/popcity/internal/game/quest"
	"github.com/popcity/popcity/internal/game/veto"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
)

// Config identifies the player and picks the placement mode.
type Config struct {
	UserID   string
	UserName string
	// Simulation settles placements locally instead of confirming them.
	Simulation bool
	Logf       func(string, ...any)
}

// Session holds the state of one player between sign-in and Close.
type Session struct {
	gateway Gateway
	config  Config
	logf    func(string, ...any)
	epoch   pending.Epoch

	Ledger    *economy.Ledger
	Goals     *goal.Engine
	Quests    *quest.Engine
	Vetoes    *veto.Engine
	Placement *placement.Engine
	Nudges    *nudge.Engine
}

// New builds a session. Rewards from goals and quests flow into the ledger,
// placement spends from it, unlocks follow the active goal and approve
// tokens follow completed grid rows.
func New(gateway Gateway, config Config) *Session {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	logf := config.Logf
	if logf == nil {
		logf = log.Printf
	}
	config.UserID = strings.TrimSpace(config.UserID)
	config.UserName = strings.TrimSpace(config.UserName)

	s := &Session{gateway: gateway, config: config, logf: logf}
	s.Ledger = economy.NewLedger(economy.Stats{})
	s.Goals = goal.NewEngine(gateway, s.Ledger, logf)
	s.Quests = quest.NewEngine(gateway, s.Ledger, logf)
	if config.Simulation {
		s.Placement = placement.NewSimulated(s.Ledger, s.Goals, logf)
	} else {
		s.Placement = placement.NewConnected(gateway, s.Ledger, s.Goals, logf)
	}
	s.Vetoes = veto.NewEngine(gateway, config.UserID, s.Placement, logf)
	s.Nudges = nudge.NewEngine(gateway, config.UserID, logf)
	return s
}

// UserID returns the player's ID.
func (s *Session) UserID() string { return s.config.UserID }

// UserName returns the player's display name.
func (s *Session) UserName() string { return s.config.UserName }

// Refresh reloads stats, goals, quests, veto requests, placements and nudges
// concurrently. A failing slice does not stop the others; the first failure
// is returned.
func (s *Session) Refresh(ctx context.Context) error {
	var g errgroup.Group
	run := func(name string, load func() error) {
		g.Go(func() error {
			if err := load(); err != nil {
				s.logf("session: refresh %s: %v", name, err)
				return fmt.Errorf("refresh %s: %w", name, err)
			}
			return nil
		})
	}
	run("stats", func() error { return s.LoadStats(ctx) })
	run("goals", func() error { return s.Goals.Load(ctx) })
	run("quests", func() error { return s.Quests.Load(ctx, "") })
	run("veto requests", func() error { return s.Vetoes.Load(ctx) })
	run("placements", func() error { return s.Placement.Load(ctx) })
	run("nudges", func() error { return s.Nudges.Load(ctx) })
	return g.Wait()
}

// LoadStats installs the gateway's stats in the ledger.
func (s *Session) LoadStats(ctx context.Context) error {
	ticket := s.epoch.Ticket()
	stats, err := s.gateway.GetGameStats(ctx)
	if err != nil {
		return err
	}
	s.replaceStats(ticket, stats)
	return nil
}

// Stats returns the ledger snapshot.
func (s *Session) Stats() economy.Stats {
	return s.Ledger.Snapshot()
}

// LevelProgress is the display bar of the current point band.
func (s *Session) LevelProgress() float64 {
	return economy.LevelProgress(s.Ledger.Snapshot().Points)
}

// Leaderboard returns the gateway's ranking in the order and with the ranks
// it reports. Tied players keep their shared rank. An entry without a rank
// takes its position.
func (s *Session) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	entries, err := s.gateway.GetLeaderboard(ctx)
	if err != nil {
		return nil, err
	}
	entries = slices.Clone(entries)
	for i := range entries {
		if entries[i].Rank <= 0 {
			entries[i].Rank = i + 1
		}
	}
	return entries, nil
}

// StreakCalendar returns the streak days of month (1-12) in year.
func (s *Session) StreakCalendar(ctx context.Context, year, month int) (Calendar, error) {
	if month < 1 || month > 12 {
		return Calendar{}, apperrors.WithMetadata(apperrors.CodeCalendarInvalidMonth,
			fmt.Sprintf("month %d out of range", month),
			map[string]string{"Month": strconv.Itoa(month)})
	}
	cal, err := s.gateway.GetStreakCalendar(ctx, year, month)
	if err != nil {
		return Calendar{}, err
	}
	cal.Days = slices.Clone(cal.Days)
	slices.Sort(cal.Days)
	return cal, nil
}

// RecordDailyFlow reports one day's income and expenses and installs the
// resulting stats.
func (s *Session) RecordDailyFlow(ctx context.Context, flow DailyFlow) (economy.Stats, error) {
	if flow.Date.IsZero() || flow.Income.IsNegative() || flow.Expenses.IsNegative() {
		return economy.Stats{}, apperrors.New(apperrors.CodeFlowInvalid, "daily flow needs a date and non-negative amounts")
	}
	ticket := s.epoch.Ticket()
	stats, err := s.gateway.RecordDailyFlow(ctx, flow)
	if err != nil {
		return economy.Stats{}, err
	}
	s.replaceStats(ticket, stats)
	return s.Ledger.Snapshot(), nil
}

func (s *Session) replaceStats(ticket pending.Ticket, stats economy.Stats) {
	if !s.epoch.Valid(ticket) {
		s.logf("session: dropping stats received after close")
		return
	}
	if !s.Ledger.Replace(stats) {
		s.logf("session: ignoring stats at revision %d, ledger is at %d", stats.Revision, s.Ledger.Snapshot().Revision)
	}
}

// Close tears the session down on sign-out. Every engine is emptied and
// responses still in flight are dropped when they arrive.
func (s *Session) Close() {
	s.epoch.Advance()
	s.Goals.Reset()
	s.Quests.Reset()
	s.Vetoes.Reset()
	s.Placement.Reset()
	s.Nudges.Reset()
	s.Ledger.Reset()
}
