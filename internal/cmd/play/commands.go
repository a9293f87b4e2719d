package play

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/popcity/popcity/internal/api/gamifyv1"
	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/game/goal"
	"github.com/popcity/popcity/internal/game/placement"
	"github.com/popcity/popcity/internal/game/session"
	"github.com/popcity/popcity/internal/game/veto"
)

type commandFunc func(ctx context.Context, r *runner, args []string) error

var commandNames = []string{
	"stats", "goals", "create-goal", "contribute", "quests", "accept", "complete",
	"veto", "request", "vote", "grid", "place", "leaderboard", "calendar", "nudge", "flow",
}

func commands() map[string]commandFunc {
	return map[string]commandFunc{
		"stats":       runStats,
		"goals":       runGoals,
		"create-goal": runCreateGoal,
		"contribute":  runContribute,
		"quests":      runQuests,
		"accept":      runAccept,
		"complete":    runComplete,
		"veto":        runVeto,
		"request":     runRequest,
		"vote":        runVote,
		"grid":        runGrid,
		"place":       runPlace,
		"leaderboard": runLeaderboard,
		"calendar":    runCalendar,
		"nudge":       runNudge,
		"flow":        runFlow,
	}
}

func runStats(_ context.Context, r *runner, args []string) error {
	if err := r.flags("stats").Parse(args); err != nil {
		return err
	}
	st := r.session.Stats()
	r.print("play.stats", st.Points, st.Currency, st.Streak, st.LongestStreak, r.session.LevelProgress())
	return nil
}

func runGoals(_ context.Context, r *runner, args []string) error {
	if err := r.flags("goals").Parse(args); err != nil {
		return err
	}
	goals := r.session.Goals.Goals()
	if len(goals) == 0 {
		r.print("play.goals.empty")
		return nil
	}
	for _, g := range goals {
		r.print("play.goals.line", g.ID, g.Name, string(g.Category),
			money(g.CurrentAmount), money(g.TargetAmount),
			g.CurrentLevel, g.TotalLevels, r.status(string(g.Status)))
	}
	return nil
}

func runCreateGoal(ctx context.Context, r *runner, args []string) error {
	fs := r.flags("create-goal")
	name := fs.String("name", "", "Goal name")
	category := fs.String("category", string(goal.CategoryOther), "Goal category")
	target := fs.String("target", "", "Target amount")
	date := fs.String("date", "", "Target date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	amount, err := parseAmount(*target)
	if err != nil {
		return err
	}
	targetDate, err := parseDate(*date)
	if err != nil {
		return err
	}
	created, err := r.session.Goals.Create(ctx, goal.CreateInput{
		Name:         *name,
		Category:     goal.Category(*category),
		TargetAmount: amount,
		TargetDate:   targetDate,
	})
	if err != nil {
		return err
	}
	r.print("play.goal.created", created.ID, created.TotalLevels, money(created.DailyTarget))
	return nil
}

func runContribute(ctx context.Context, r *runner, args []string) error {
	fs := r.flags("contribute")
	goalID := fs.String("goal", "", "Goal ID (defaults to the active goal)")
	raw := fs.String("amount", "", "Amount saved")
	if err := fs.Parse(args); err != nil {
		return err
	}
	amount, err := parseAmount(*raw)
	if err != nil {
		return err
	}
	id := strings.TrimSpace(*goalID)
	if id == "" {
		if active, ok := r.session.Goals.ActiveGoal(); ok {
			id = active.ID
		}
	}
	result, err := r.session.Goals.Contribute(ctx, id, amount)
	if err != nil {
		return err
	}
	g := result.Goal
	r.print("play.goal.contributed", money(amount), g.Name, money(g.CurrentAmount), money(g.TargetAmount))
	if result.LevelUp {
		r.print("play.goal.level_up", result.NewLevel, result.Rewards.Points, result.Rewards.Currency)
	}
	if g.Status == goal.StatusCompleted {
		r.print("play.goal.completed")
	}
	return nil
}

func runQuests(ctx context.Context, r *runner, args []string) error {
	fs := r.flags("quests")
	filter := fs.String("filter", "", `Quest filter, e.g. category = "no-spend"`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*filter) != "" {
		if err := r.session.Quests.Load(ctx, *filter); err != nil {
			return err
		}
	}
	quests := r.session.Quests.Quests()
	if len(quests) == 0 {
		r.print("play.quests.empty")
		return nil
	}
	for _, q := range quests {
		r.print("play.quests.line", q.ID, q.Name, string(q.Category), r.status(string(q.Status)),
			q.PointsReward, q.CurrencyReward)
	}
	return nil
}

func questFlag(r *runner, name string, args []string) (string, error) {
	fs := r.flags(name)
	id := fs.String("quest", "", "Quest ID")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *id == "" && fs.NArg() > 0 {
		return fs.Arg(0), nil
	}
	return *id, nil
}

func runAccept(ctx context.Context, r *runner, args []string) error {
	id, err := questFlag(r, "accept", args)
	if err != nil {
		return err
	}
	accepted, err := r.session.Quests.Accept(ctx, id)
	if err != nil {
		return err
	}
	r.print("play.quest.accepted", accepted.Name)
	return nil
}

func runComplete(ctx context.Context, r *runner, args []string) error {
	id, err := questFlag(r, "complete", args)
	if err != nil {
		return err
	}
	result, err := r.session.Quests.Complete(ctx, id)
	if err != nil {
		return err
	}
	r.print("play.quest.completed", result.Quest.Name, result.Rewards.Points, result.Rewards.Currency)
	return nil
}

func runVeto(_ context.Context, r *runner, args []string) error {
	if err := r.flags("veto").Parse(args); err != nil {
		return err
	}
	requests := r.session.Vetoes.Requests()
	if len(requests) == 0 {
		r.print("play.veto.empty")
	}
	for _, req := range requests {
		approve, vetoes := r.session.Vetoes.Tally(req.ID)
		r.print("play.veto.line", req.ID, req.RequesterName, req.Item, money(req.Amount), req.Reason,
			r.status(string(req.Status)), approve, vetoes)
	}
	r.print("play.veto.tokens", r.session.Vetoes.ApproveTokens())
	return nil
}

func runRequest(ctx context.Context, r *runner, args []string) error {
	fs := r.flags("request")
	item := fs.String("item", "", "What you want to buy")
	raw := fs.String("amount", "", "Price")
	reason := fs.String("reason", "", "Why you want it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	amount, err := parseAmount(*raw)
	if err != nil {
		return err
	}
	created, err := r.session.Vetoes.CreateRequest(ctx, veto.Input{Item: *item, Amount: amount, Reason: *reason})
	if err != nil {
		return err
	}
	r.print("play.veto.created", created.Item)
	return nil
}

func runVote(ctx context.Context, r *runner, args []string) error {
	fs := r.flags("vote")
	id := fs.String("request", "", "Request ID")
	choice := fs.String("choice", "", "approve or veto")
	if err := fs.Parse(args); err != nil {
		return err
	}
	updated, err := r.session.Vetoes.Vote(ctx, *id, veto.Choice(strings.ToLower(strings.TrimSpace(*choice))))
	if err != nil {
		return err
	}
	r.print("play.veto.voted", updated.Item, r.status(string(updated.Status)))
	return nil
}

func runGrid(_ context.Context, r *runner, args []string) error {
	if err := r.flags("grid").Parse(args); err != nil {
		return err
	}
	unlocked := r.session.Placement.UnlockedCount()
	r.print("play.grid.header", unlocked, economy.GridSize, r.session.Stats().Currency)
	fmt.Fprint(r.out, renderGrid(r.session.Placement.Grid(), unlocked))

	category := r.categoryOf()
	ids := make([]string, 0, 5)
	for _, it := range placement.Catalog(category) {
		ids = append(ids, it.Emoji+" "+it.ID)
	}
	r.print("play.grid.items", string(category), strings.Join(ids, ", "))
	return nil
}

// renderGrid draws one line per row: the item for occupied cells, an
// hourglass for pending ones, the cell index when open and a lock otherwise.
func renderGrid(grid placement.Grid, unlocked int) string {
	var b strings.Builder
	for i, cell := range grid {
		var token string
		switch {
		case cell.State == placement.CellOccupied:
			token = "[" + itemEmoji(cell.ItemID) + "]"
		case cell.State == placement.CellPending:
			token = "[⏳]"
		case i < unlocked:
			token = fmt.Sprintf("[%2d]", i)
		default:
			token = "[🔒]"
		}
		b.WriteString(token)
		if (i+1)%economy.GridColumns == 0 {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func itemEmoji(id string) string {
	if it, ok := placement.LookupItem(id); ok {
		return it.Emoji
	}
	return "?"
}

func runPlace(ctx context.Context, r *runner, args []string) error {
	fs := r.flags("place")
	cell := fs.Int("cell", -1, "Cell index (0-24)")
	item := fs.String("item", "", "Item ID, e.g. house:tree")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := r.session.Placement.Place(ctx, *cell, *item); err != nil {
		return err
	}
	r.print("play.grid.placed", itemEmoji(*item), *cell)
	return nil
}

func runLeaderboard(ctx context.Context, r *runner, args []string) error {
	if err := r.flags("leaderboard").Parse(args); err != nil {
		return err
	}
	entries, err := r.session.Leaderboard(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		r.print("play.leaderboard.empty")
		return nil
	}
	for _, e := range entries {
		r.print("play.leaderboard.line", e.Rank, displayName(e), e.Points, e.Streak)
	}
	return nil
}

func displayName(e session.LeaderboardEntry) string {
	if strings.TrimSpace(e.UserName) != "" {
		return e.UserName
	}
	return e.UserID
}

func runCalendar(ctx context.Context, r *runner, args []string) error {
	now := r.now()
	fs := r.flags("calendar")
	year := fs.Int("year", now.Year(), "Year")
	month := fs.Int("month", int(now.Month()), "Month (1-12)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cal, err := r.session.StreakCalendar(ctx, *year, *month)
	if err != nil {
		return err
	}
	// Formatted ahead so the printer does not group the year's digits.
	period := fmt.Sprintf("%02d/%d", cal.Month, cal.Year)
	if len(cal.Days) == 0 {
		r.print("play.calendar.empty", period)
		return nil
	}
	days := make([]string, len(cal.Days))
	for i, d := range cal.Days {
		days[i] = strconv.Itoa(d)
	}
	r.print("play.calendar.days", period, strings.Join(days, " "))
	return nil
}

func runNudge(ctx context.Context, r *runner, args []string) error {
	fs := r.flags("nudge")
	to := fs.String("user", "", "Friend's user ID")
	goalName := fs.String("goal", "", "The goal to remind them about")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := r.session.Nudges.Send(ctx, *to, *goalName); err != nil {
		return err
	}
	r.print("play.nudge.sent", strings.TrimSpace(*to))
	return nil
}

func runFlow(ctx context.Context, r *runner, args []string) error {
	fs := r.flags("flow")
	date := fs.String("date", r.now().Format(gamifyv1.DateLayout), "Day (YYYY-MM-DD)")
	income := fs.String("income", "", "Income that day")
	expenses := fs.String("expenses", "", "Expenses that day")
	if err := fs.Parse(args); err != nil {
		return err
	}
	day, err := parseDate(*date)
	if err != nil {
		return err
	}
	in, err := parseAmount(*income)
	if err != nil {
		return err
	}
	out, err := parseAmount(*expenses)
	if err != nil {
		return err
	}
	flow := session.DailyFlow{Income: in, Expenses: out}
	if day != nil {
		flow.Date = *day
	}
	stats, err := r.session.RecordDailyFlow(ctx, flow)
	if err != nil {
		return err
	}
	r.print("play.flow.recorded", stats.Streak, stats.LongestStreak)
	return nil
}
