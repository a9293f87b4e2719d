package play

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"

	"github.com/popcity/popcity/internal/game/placement"
	"github.com/popcity/popcity/internal/game/remote"
	"github.com/popcity/popcity/internal/game/session"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
	platformgrpc "github.com/popcity/popcity/internal/platform/grpc"
	"github.com/popcity/popcity/internal/platform/requestctx"
	server "github.com/popcity/popcity/internal/services/gateway/app"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.GatewayAddr != "localhost:8090" {
		t.Fatalf("expected default gateway addr, got %q", cfg.GatewayAddr)
	}
	if cfg.Locale != "en-US" {
		t.Fatalf("expected en-US locale, got %q", cfg.Locale)
	}
	if cfg.Command != "" || len(cfg.Args) != 0 {
		t.Fatalf("expected no command, got %q %v", cfg.Command, cfg.Args)
	}
}

func TestParseConfigSplitsCommand(t *testing.T) {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-user", "ana", "-locale", "pt-BR", "-simulation", "contribute", "-amount", "5"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.UserID != "ana" || cfg.Locale != "pt-BR" || !cfg.Simulation {
		t.Fatalf("unexpected flags: %+v", cfg)
	}
	if cfg.Command != "contribute" {
		t.Fatalf("command = %q, want contribute", cfg.Command)
	}
	if strings.Join(cfg.Args, " ") != "-amount 5" {
		t.Fatalf("args = %v", cfg.Args)
	}
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("POPCITY_PLAY_USER_ID", "bia")
	t.Setenv("POPCITY_PLAY_SIMULATION", "true")
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"stats"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.UserID != "bia" || !cfg.Simulation || cfg.Command != "stats" {
		t.Fatalf("unexpected config from env: %+v", cfg)
	}
}

func startGateway(t *testing.T) *grpc.ClientConn {
	t.Helper()

	srv, err := server.NewWithAddr("127.0.0.1:0", server.Options{DBPath: t.TempDir() + "/gateway.db"})
	if err != nil {
		t.Fatalf("new gateway server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			t.Error("timeout waiting for gateway shutdown")
		}
	})

	conn, err := platformgrpc.DialWithHealth(context.Background(), nil, srv.Addr(), 5*time.Second, t.Logf)
	if err != nil {
		t.Fatalf("dial gateway: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

type player struct {
	t    *testing.T
	conn *grpc.ClientConn
	cfg  Config
}

func (p player) run(command string, args ...string) (string, string, error) {
	p.t.Helper()
	cfg := p.cfg
	cfg.Command = command
	cfg.Args = args
	gw := remote.New(p.conn, requestctx.Caller{UserID: cfg.UserID, UserName: cfg.UserName, Locale: cfg.Locale}, 5*time.Second)
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), cfg, gw, &out, &errOut)
	return out.String(), errOut.String(), err
}

func (p player) mustRun(command string, args ...string) string {
	p.t.Helper()
	out, errOut, err := p.run(command, args...)
	if err != nil {
		p.t.Fatalf("%s %v: %v (stderr %q)", command, args, err, errOut)
	}
	return out
}

func wantContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Fatalf("output %q does not contain %q", got, want)
	}
}

func TestPlayCommandsAgainstGateway(t *testing.T) {
	conn := startGateway(t)
	ana := player{t: t, conn: conn, cfg: Config{UserID: "ana", UserName: "Ana", Locale: "en-US"}}

	wantContains(t, ana.mustRun("goals"), "no goals yet")
	wantContains(t, ana.mustRun("create-goal", "-name", "Garden", "-category", "house", "-target", "400"), "10 levels")

	out := ana.mustRun("contribute", "-amount", "80")
	wantContains(t, out, "saved 80.00 toward Garden (80.00 of 400.00)")
	wantContains(t, out, "level 2 reached! +200 points, +100 coins")

	wantContains(t, ana.mustRun("stats"), "points 200 · coins 100")

	grid := ana.mustRun("grid")
	wantContains(t, grid, "5 of 25 cells unlocked · 100 coins")
	wantContains(t, grid, "[ 3] [ 4]\n[🔒]")
	wantContains(t, grid, "house:tree")

	wantContains(t, ana.mustRun("place", "-cell", "4", "-item", "house:tree"), "placed 🌳 on cell 4")
	wantContains(t, ana.mustRun("grid"), "[🌳]")

	_, errOut, err := ana.run("place", "-cell", "20", "-item", "house:car")
	if apperrors.CodeOf(err) != apperrors.CodePlacementCellLocked {
		t.Fatalf("place locked cell err = %v", err)
	}
	wantContains(t, errOut, "error: Keep saving to unlock this plot")

	quests := ana.mustRun("quests", "-filter", `category = "social"`)
	if lines := strings.Count(strings.TrimSpace(quests), "\n") + 1; lines != 2 {
		t.Fatalf("social quests = %d lines:\n%s", lines, quests)
	}

	wantContains(t, ana.mustRun("request", "-item", "Sneakers", "-amount", "120", "-reason", "old ones broke"), "asked your friends about Sneakers")

	bia := player{t: t, conn: conn, cfg: Config{UserID: "bia", UserName: "Bia", Locale: "pt-BR"}}
	veto := bia.mustRun("veto")
	wantContains(t, veto, "Ana quer Sneakers (120.00)")
	wantContains(t, veto, "fichas de aprovação restantes: 0")

	wantContains(t, bia.mustRun("nudge", "-user", "ana", "-goal", "Garden"), "ana recebeu um lembrete")
	wantContains(t, ana.mustRun("leaderboard"), "1. Ana  225 points")
}

func TestPlayFlowAndCalendar(t *testing.T) {
	conn := startGateway(t)
	ana := player{t: t, conn: conn, cfg: Config{UserID: "ana", Locale: "en-US"}}

	wantContains(t, ana.mustRun("flow", "-date", "2026-03-02", "-income", "100", "-expenses", "40"), "streak 1 days (best 1)")
	wantContains(t, ana.mustRun("flow", "-date", "2026-03-03", "-income", "50"), "streak 2 days (best 2)")
	wantContains(t, ana.mustRun("calendar", "-year", "2026", "-month", "3"), "streak days in 03/2026: 2 3")
	wantContains(t, ana.mustRun("calendar", "-year", "2026", "-month", "4"), "no streak days in 04/2026")

	_, errOut, err := ana.run("flow", "-date", "2026-03-04", "-income", "-5")
	if apperrors.CodeOf(err) != apperrors.CodeFlowInvalid {
		t.Fatalf("negative flow err = %v", err)
	}
	if errOut == "" {
		t.Fatal("expected localized error output")
	}
}

func TestExecuteUnknownCommandPrintsUsage(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	err := Execute(context.Background(), Config{Command: "dance"}, remote.UnavailableGateway{}, &out, &errOut)
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	wantContains(t, errOut.String(), `unknown command "dance"`)
	wantContains(t, errOut.String(), "create-goal")
}

func TestExecuteReportsUnreachableGateway(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	var gw session.Gateway = remote.UnavailableGateway{}
	err := Execute(context.Background(), Config{Command: "stats", UserID: "ana", Locale: "pt-BR"}, gw, &out, &errOut)
	if apperrors.KindOf(err) != apperrors.KindTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
	wantContains(t, errOut.String(), "erro: Não foi possível falar com o PopCity")
}

func TestExecuteReportsFlagMistakes(t *testing.T) {
	conn := startGateway(t)
	ana := player{t: t, conn: conn, cfg: Config{UserID: "ana", Locale: "en-US"}}

	_, errOut, err := ana.run("contribute", "-amount", "lots")
	if err == nil {
		t.Fatal("expected amount parse error")
	}
	wantContains(t, errOut, `invalid amount "lots"`)
}

func TestRenderGridMarksCellStates(t *testing.T) {
	t.Parallel()

	var grid placement.Grid
	for i := range grid {
		grid[i] = placement.Cell{Index: i, State: placement.CellEmpty}
	}
	grid[0] = placement.Cell{Index: 0, ItemID: "vacation:beach", State: placement.CellOccupied}
	grid[1] = placement.Cell{Index: 1, ItemID: "vacation:surf", State: placement.CellPending}

	got := strings.Split(strings.TrimSuffix(renderGrid(grid, 6), "\n"), "\n")
	if len(got) != 5 {
		t.Fatalf("rows = %d, want 5", len(got))
	}
	if want := "[🏖️] [⏳] [ 2] [ 3] [ 4]"; got[0] != want {
		t.Fatalf("row 0 = %q, want %q", got[0], want)
	}
	if want := "[ 5] [🔒] [🔒] [🔒] [🔒]"; got[1] != want {
		t.Fatalf("row 1 = %q, want %q", got[1], want)
	}
}
