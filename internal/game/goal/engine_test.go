package goal

import (
	"context"
	"errors"
	"testing"

	"github.com/popcity/popcity/internal/game/economy"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
)

func houseGoal(current string) Goal {
	return Goal{
		ID:            "g1",
		Name:          "First home",
		Category:      CategoryHouse,
		TargetAmount:  dec("5000"),
		CurrentAmount: dec(current),
		CurrentLevel:  1,
		TotalLevels:   50,
		Status:        StatusActive,
		DailyTarget:   dec("27.78"),
	}
}

func loadedEngine(t *testing.T, gw *gatewayStub, sink economy.RewardSink) *Engine {
	t.Helper()
	engine := NewEngine(gw, sink, quietLog)
	if err := engine.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return engine
}

func TestContributeLevelUpScenario(t *testing.T) {
	t.Parallel()

	completed := houseGoal("5010")
	completed.Status = StatusCompleted
	gw := &gatewayStub{
		goals: []Goal{houseGoal("4990")},
		contribute: ContributionResult{
			Goal:     completed,
			LevelUp:  true,
			NewLevel: 2,
			Rewards:  economy.Rewards{Points: 100, Currency: 50},
		},
	}
	ledger := economy.NewLedger(economy.Stats{Points: 10, Currency: 5})
	engine := loadedEngine(t, gw, ledger)

	if _, err := engine.Contribute(context.Background(), "g1", dec("20")); err != nil {
		t.Fatalf("Contribute() error = %v", err)
	}

	stats := ledger.Snapshot()
	if stats.Points != 110 || stats.Currency != 55 {
		t.Fatalf("stats = %+v, want +100 points and +50 currency", stats)
	}
	got, fresh, ok := engine.Goal("g1")
	if !ok || !fresh {
		t.Fatalf("Goal() ok=%v fresh=%v", ok, fresh)
	}
	if !got.CurrentAmount.Equal(dec("5010")) {
		t.Fatalf("current = %s, want 5010", got.CurrentAmount)
	}
	if got.CurrentLevel != 2 || got.Status != StatusCompleted {
		t.Fatalf("goal = %+v", got)
	}
}

func TestContributeStatusComesOnlyFromPayload(t *testing.T) {
	t.Parallel()

	// The gateway reports an amount past the target but keeps the goal active.
	gw := &gatewayStub{
		goals: []Goal{houseGoal("4990")},
		contribute: ContributionResult{
			Goal:     houseGoal("5010"),
			LevelUp:  true,
			NewLevel: 2,
			Rewards:  economy.Rewards{Points: 100, Currency: 50},
		},
	}
	engine := loadedEngine(t, gw, economy.NewLedger(economy.Stats{}))

	if _, err := engine.Contribute(context.Background(), "g1", dec("20")); err != nil {
		t.Fatalf("Contribute() error = %v", err)
	}
	got, _, _ := engine.Goal("g1")
	if got.Status != StatusActive {
		t.Fatalf("status = %s, want active as reported", got.Status)
	}
}

func TestContributeWithoutLevelUpKeepsLevelAndRewards(t *testing.T) {
	t.Parallel()

	reported := houseGoal("1537.25")
	reported.CurrentLevel = 9
	gw := &gatewayStub{
		goals: []Goal{houseGoal("1500")},
		contribute: ContributionResult{
			Goal:     reported,
			LevelUp:  false,
			NewLevel: 9,
			Rewards:  economy.Rewards{Points: 100, Currency: 50},
		},
	}
	sink := &sinkStub{}
	engine := loadedEngine(t, gw, sink)

	if _, err := engine.Contribute(context.Background(), "g1", dec("37.25")); err != nil {
		t.Fatalf("Contribute() error = %v", err)
	}
	got, _, _ := engine.Goal("g1")
	if got.CurrentLevel != 1 {
		t.Fatalf("level = %d, want unchanged 1", got.CurrentLevel)
	}
	if !got.CurrentAmount.Equal(dec("1537.25")) {
		t.Fatalf("current = %s, want gateway value 1537.25", got.CurrentAmount)
	}
	if total := sink.total(); total != (economy.Rewards{}) {
		t.Fatalf("credited %+v without level-up", total)
	}
}

func TestContributeRejectsLocallyWithoutCall(t *testing.T) {
	t.Parallel()

	completed := houseGoal("5000")
	completed.ID = "g2"
	completed.Status = StatusCompleted
	gw := &gatewayStub{goals: []Goal{houseGoal("10"), completed}}
	engine := loadedEngine(t, gw, &sinkStub{})

	tests := []struct {
		name   string
		goalID string
		amount string
		code   apperrors.Code
	}{
		{name: "zero amount", goalID: "g1", amount: "0", code: apperrors.CodeContributionNotPositive},
		{name: "negative amount", goalID: "g1", amount: "-5", code: apperrors.CodeContributionNotPositive},
		{name: "unknown goal", goalID: "nope", amount: "5", code: apperrors.CodeGoalNotFound},
		{name: "completed goal", goalID: "g2", amount: "5", code: apperrors.CodeGoalNotActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Contribute(context.Background(), tt.goalID, dec(tt.amount))
			if apperrors.CodeOf(err) != tt.code {
				t.Fatalf("Contribute() error = %v, want %s", err, tt.code)
			}
			if apperrors.KindOf(err) != apperrors.KindValidation {
				t.Fatalf("kind = %s", apperrors.KindOf(err))
			}
		})
	}
	if gw.calls() != 0 {
		t.Fatalf("gateway called %d times", gw.calls())
	}
}

func TestContributeFailureMarksStaleWithoutMutation(t *testing.T) {
	t.Parallel()

	gw := &gatewayStub{
		goals:         []Goal{houseGoal("100")},
		contributeErr: apperrors.Transport("connection refused", errors.New("dial")),
	}
	sink := &sinkStub{}
	engine := loadedEngine(t, gw, sink)

	_, err := engine.Contribute(context.Background(), "g1", dec("50"))
	if apperrors.KindOf(err) != apperrors.KindTransport {
		t.Fatalf("Contribute() error = %v", err)
	}
	if !apperrors.NoChange(err) {
		t.Fatal("expected failed contribution to be safe to retry")
	}
	got, fresh, _ := engine.Goal("g1")
	if fresh {
		t.Fatal("expected goal marked stale")
	}
	if !got.CurrentAmount.Equal(dec("100")) {
		t.Fatalf("current = %s, want untouched 100", got.CurrentAmount)
	}
	if len(sink.credits) != 0 {
		t.Fatal("no rewards expected on failure")
	}

	if err := engine.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, fresh, _ := engine.Goal("g1"); !fresh {
		t.Fatal("expected reload to clear stale mark")
	}
}

func TestContributeSuccessClearsStaleMark(t *testing.T) {
	t.Parallel()

	gw := &gatewayStub{
		goals:         []Goal{houseGoal("100")},
		contributeErr: apperrors.Transport("connection refused", errors.New("dial")),
	}
	engine := loadedEngine(t, gw, &sinkStub{})
	if _, err := engine.Contribute(context.Background(), "g1", dec("50")); err == nil {
		t.Fatal("Contribute() error = nil with the gateway down")
	}

	confirmed := houseGoal("150")
	gw.mu.Lock()
	gw.contributeErr = nil
	gw.contribute = ContributionResult{Goal: confirmed}
	gw.mu.Unlock()
	if _, err := engine.Contribute(context.Background(), "g1", dec("50")); err != nil {
		t.Fatalf("Contribute() retry error = %v", err)
	}
	got, fresh, _ := engine.Goal("g1")
	if !fresh {
		t.Fatal("goal still stale after a confirmed contribution")
	}
	if !got.CurrentAmount.Equal(dec("150")) {
		t.Fatalf("current = %s, want 150", got.CurrentAmount)
	}
}

func TestContributeResponseAfterResetIsDropped(t *testing.T) {
	t.Parallel()

	sink := &sinkStub{}
	gw := &gatewayStub{
		goals: []Goal{houseGoal("4990")},
		contribute: ContributionResult{
			Goal:     houseGoal("5010"),
			LevelUp:  true,
			NewLevel: 2,
			Rewards:  economy.Rewards{Points: 100, Currency: 50},
		},
	}
	engine := loadedEngine(t, gw, sink)
	gw.beforeContribute = engine.Reset

	if _, err := engine.Contribute(context.Background(), "g1", dec("20")); err != nil {
		t.Fatalf("Contribute() error = %v", err)
	}
	if len(engine.Goals()) != 0 {
		t.Fatal("expected goals cleared by reset")
	}
	if len(sink.credits) != 0 {
		t.Fatal("late response must not credit rewards")
	}
}

func TestCreateValidatesAndAppends(t *testing.T) {
	t.Parallel()

	gw := &gatewayStub{created: Goal{ID: "g9", Name: "Trip", Category: CategoryVacation, Status: StatusActive, TargetAmount: dec("900")}}
	engine := NewEngine(gw, &sinkStub{}, quietLog)

	invalid := []struct {
		name string
		in   CreateInput
		code apperrors.Code
	}{
		{name: "blank name", in: CreateInput{Name: "  ", TargetAmount: dec("10")}, code: apperrors.CodeGoalNameEmpty},
		{name: "bad category", in: CreateInput{Name: "x", Category: "yacht", TargetAmount: dec("10")}, code: apperrors.CodeGoalInvalidCategory},
		{name: "zero target", in: CreateInput{Name: "x", TargetAmount: dec("0")}, code: apperrors.CodeGoalInvalidTarget},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := engine.Create(context.Background(), tt.in); apperrors.CodeOf(err) != tt.code {
				t.Fatalf("Create() error = %v, want %s", err, tt.code)
			}
		})
	}

	got, err := engine.Create(context.Background(), CreateInput{Name: " Trip ", TargetAmount: dec("900")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.ID != "g9" || len(engine.Goals()) != 1 {
		t.Fatalf("created = %+v, goals = %v", got, engine.Goals())
	}
	if gw.createIn.Name != "Trip" || gw.createIn.Category != CategoryOther {
		t.Fatalf("gateway input = %+v", gw.createIn)
	}
}

func TestCreateFailureAddsNothing(t *testing.T) {
	t.Parallel()

	gw := &gatewayStub{createErr: &apperrors.Error{Code: apperrors.CodeGoalInvalidTarget, Kind: apperrors.KindApplication}}
	engine := NewEngine(gw, &sinkStub{}, quietLog)
	if _, err := engine.Create(context.Background(), CreateInput{Name: "Car", TargetAmount: dec("10")}); err == nil {
		t.Fatal("expected create error")
	}
	if len(engine.Goals()) != 0 {
		t.Fatal("expected no optimistic insert")
	}
}

func TestProgressPercentUsesActiveGoal(t *testing.T) {
	t.Parallel()

	done := houseGoal("5000")
	done.ID = "g0"
	done.Status = StatusCompleted
	gw := &gatewayStub{goals: []Goal{done, houseGoal("1600")}}
	engine := loadedEngine(t, gw, &sinkStub{})

	if got := engine.ProgressPercent(); got != 32 {
		t.Fatalf("ProgressPercent() = %v, want 32", got)
	}
	active, ok := engine.ActiveGoal()
	if !ok || active.ID != "g1" {
		t.Fatalf("ActiveGoal() = %+v, %v", active, ok)
	}
}

func TestNilGatewayFailsClosed(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil, nil, quietLog)
	err := engine.Load(context.Background())
	if apperrors.CodeOf(err) != apperrors.CodeGatewayUnavailable {
		t.Fatalf("Load() error = %v", err)
	}
	if engine.ProgressPercent() != 0 {
		t.Fatal("expected zero progress without goals")
	}
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	if c, ok := ParseCategory(" Vacation "); !ok || c != CategoryVacation {
		t.Fatalf("ParseCategory = %q, %v", c, ok)
	}
	if c, ok := ParseCategory(""); !ok || c != CategoryOther {
		t.Fatalf("blank ParseCategory = %q, %v", c, ok)
	}
	if _, ok := ParseCategory("boat"); ok {
		t.Fatal("expected unknown category")
	}
}
