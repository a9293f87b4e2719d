// Package gateway parses gateway command flags and starts the gamify service.
package gateway

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/popcity/popcity/internal/platform/cmd"
	"github.com/popcity/popcity/internal/platform/discovery"
	server "github.com/popcity/popcity/internal/services/gateway/app"
	"github.com/popcity/popcity/internal/services/gateway/domain/tally"
)

// Config holds gateway command configuration.
type Config struct {
	Port        int    `env:"POPCITY_GATEWAY_PORT"`
	Addr        string `env:"POPCITY_GATEWAY_ADDR"`
	DBPath      string `env:"POPCITY_GATEWAY_DB_PATH"`
	TallyPolicy string `env:"POPCITY_GATEWAY_TALLY_POLICY" envDefault:"first-vote"`
	TallyScript string `env:"POPCITY_GATEWAY_TALLY_SCRIPT"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Port == 0 {
		cfg.Port = discovery.GRPCPort(discovery.ServiceGateway)
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The gateway server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The gateway listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Path to the gateway SQLite database")
	fs.StringVar(&cfg.TallyPolicy, "tally-policy", cfg.TallyPolicy, "Veto tally policy: first-vote, majority, majority:N or lua")
	fs.StringVar(&cfg.TallyScript, "tally-script", cfg.TallyScript, "Lua script defining tally(approvals, vetoes) for -tally-policy=lua")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the gamify gateway service.
func Run(ctx context.Context, cfg Config) error {
	policy, err := tally.Parse(cfg.TallyPolicy, cfg.TallyScript)
	if err != nil {
		return fmt.Errorf("tally policy: %w", err)
	}
	opts := server.Options{DBPath: cfg.DBPath, Policy: policy}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGateway, func(context.Context) error {
		if cfg.Addr != "" {
			srv, err := server.NewWithAddr(cfg.Addr, opts)
			if err != nil {
				return err
			}
			return srv.Serve(ctx)
		}
		return server.Run(ctx, cfg.Port, opts)
	})
}
