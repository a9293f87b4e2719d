// Package play parses play command flags and drives one player session
// against the gamify gateway.
package play

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/message"

	"github.com/popcity/popcity/internal/api/gamifyv1"
	"github.com/popcity/popcity/internal/game/goal"
	"github.com/popcity/popcity/internal/game/remote"
	"github.com/popcity/popcity/internal/game/session"
	entrypoint "github.com/popcity/popcity/internal/platform/cmd"
	"github.com/popcity/popcity/internal/platform/discovery"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
	platformgrpc "github.com/popcity/popcity/internal/platform/grpc"
	i18ncatalog "github.com/popcity/popcity/internal/platform/i18n/catalog"
	"github.com/popcity/popcity/internal/platform/requestctx"
	"github.com/popcity/popcity/internal/platform/timeouts"
)

// Namespace is the locale bundle namespace holding CLI messages.
const Namespace = "play"

// ErrUsage reports a missing or unknown command.
var ErrUsage = errors.New("play: usage")

// Config holds play command configuration.
type Config struct {
	GatewayAddr string `env:"POPCITY_PLAY_GATEWAY_ADDR"`
	UserID      string `env:"POPCITY_PLAY_USER_ID"`
	UserName    string `env:"POPCITY_PLAY_USER_NAME"`
	Locale      string `env:"POPCITY_PLAY_LOCALE" envDefault:"en-US"`
	Simulation  bool   `env:"POPCITY_PLAY_SIMULATION"`

	Command string
	Args    []string
}

// ParseConfig parses environment and flags into a Config. The first
// positional argument names the command; the rest are its flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	cfg.GatewayAddr = discovery.OrLocalGRPCAddr(cfg.GatewayAddr, discovery.ServiceGateway)
	fs.StringVar(&cfg.GatewayAddr, "gateway-addr", cfg.GatewayAddr, "The gamify gateway address")
	fs.StringVar(&cfg.UserID, "user", cfg.UserID, "The player's user ID")
	fs.StringVar(&cfg.UserName, "name", cfg.UserName, "The player's display name")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Output locale")
	fs.BoolVar(&cfg.Simulation, "simulation", cfg.Simulation, "Settle grid placements locally")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if rest := fs.Args(); len(rest) > 0 {
		cfg.Command = strings.TrimSpace(rest[0])
		cfg.Args = rest[1:]
	}
	return cfg, nil
}

var registerMessages = sync.OnceFunc(func() {
	i18ncatalog.Default().Register(Namespace)
})

// Run executes one command. Command failures are written to errOut as the
// localized user message and returned.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServicePlay, func(ctx context.Context) error {
		gateway, closeGateway, err := dialGateway(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeGateway()
		return Execute(ctx, cfg, gateway, out, errOut)
	})
}

func dialGateway(ctx context.Context, cfg Config) (session.Gateway, func(), error) {
	addr := strings.TrimSpace(cfg.GatewayAddr)
	if addr == "" {
		return remote.UnavailableGateway{}, func() {}, nil
	}
	conn, err := platformgrpc.DialWithHealth(ctx, nil, addr, timeouts.GatewayDial, log.Printf)
	if err != nil {
		return nil, nil, apperrors.Transport(fmt.Sprintf("dial gateway %s", addr), err)
	}
	caller := requestctx.Caller{UserID: cfg.UserID, UserName: cfg.UserName, Locale: cfg.Locale}
	closeConn := func() {
		if err := conn.Close(); err != nil {
			log.Printf("close gateway connection: %v", err)
		}
	}
	return remote.New(conn, caller, timeouts.GatewayRequest), closeConn, nil
}

// Execute runs cfg.Command in a fresh session over gateway.
func Execute(ctx context.Context, cfg Config, gateway session.Gateway, out io.Writer, errOut io.Writer) error {
	registerMessages()
	r := &runner{
		printer: i18ncatalog.Default().Printer(cfg.Locale),
		out:     out,
		errOut:  errOut,
		locale:  cfg.Locale,
		now:     time.Now,
	}
	run, ok := commands()[cfg.Command]
	if !ok {
		if cfg.Command != "" {
			r.eprint("play.unknown_command", cfg.Command)
		}
		r.eprint("play.usage", strings.Join(commandNames, ", "))
		return ErrUsage
	}

	name := strings.TrimSpace(cfg.UserName)
	if name == "" {
		name = cfg.UserID
	}
	r.session = session.New(gateway, session.Config{
		UserID:     cfg.UserID,
		UserName:   name,
		Simulation: cfg.Simulation,
	})
	defer r.session.Close()

	refreshCtx, cancel := context.WithTimeout(ctx, timeouts.Refresh)
	err := r.session.Refresh(refreshCtx)
	cancel()
	if err != nil {
		log.Printf("play: refresh: %v", err)
		if apperrors.KindOf(err) == apperrors.KindTransport {
			return r.fail(err)
		}
		r.eprint("play.refresh_partial", apperrors.UserMessage(err, r.locale))
	}

	if err := run(ctx, r, cfg.Args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return r.fail(err)
	}
	return nil
}

type runner struct {
	session *session.Session
	printer *message.Printer
	out     io.Writer
	errOut  io.Writer
	locale  string
	now     func() time.Time
}

func (r *runner) print(key string, args ...any) {
	r.printer.Fprintf(r.out, key, args...)
	fmt.Fprintln(r.out)
}

func (r *runner) eprint(key string, args ...any) {
	r.printer.Fprintf(r.errOut, key, args...)
	fmt.Fprintln(r.errOut)
}

func (r *runner) fail(err error) error {
	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) && apperrors.KindOf(err) != apperrors.KindTransport {
		// Flag and argument mistakes carry their own wording.
		r.eprint("play.error", err.Error())
		return err
	}
	r.eprint("play.error", apperrors.UserMessage(err, r.locale))
	return err
}

func (r *runner) status(s string) string {
	return r.printer.Sprintf("play.status." + s)
}

func (r *runner) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.errOut)
	return fs
}

func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return amount, nil
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	day, err := time.Parse(gamifyv1.DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return &day, nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// categoryOf returns the category of the goal that drives grid unlocks.
func (r *runner) categoryOf() goal.Category {
	if active, ok := r.session.Goals.ActiveGoal(); ok {
		return active.Category
	}
	return goal.CategoryOther
}
