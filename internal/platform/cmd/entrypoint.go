// Package cmd holds the shared startup plumbing for PopCity binaries.
package cmd

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"

	"github.com/popcity/popcity/internal/platform/config"
	"github.com/popcity/popcity/internal/platform/otel"
	"github.com/popcity/popcity/internal/platform/timeouts"
)

// Binary names. Each doubles as the telemetry service suffix.
const (
	ServiceGateway = "gateway"
	ServicePlay    = "play"
)

var (
	errNilConfig = errors.New("config target is required")
	errNilFlags  = errors.New("flag parser is required")
	errNoService = errors.New("service name is required")
	errNoRun     = errors.New("run function is required")
)

// ParseConfig fills cfg from POPCITY_* environment variables. Callers
// register flags afterwards so explicit flags win over the environment.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errNilConfig
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses args into fs; a nil slice parses as empty.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errNilFlags
	}
	return fs.Parse(append([]string{}, args...))
}

// RunWithTelemetry runs fn with tracing exported under "popcity-<service>"
// and flushes the exporter once fn returns.
func RunWithTelemetry(ctx context.Context, service string, fn func(context.Context) error) error {
	name := strings.TrimSpace(service)
	switch {
	case name == "":
		return errNoService
	case fn == nil:
		return errNoRun
	}
	if ctx == nil {
		ctx = context.Background()
	}

	flush, err := otel.Setup(ctx, "popcity-"+name)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Shutdown)
		defer cancel()
		if flushErr := flush(flushCtx); flushErr != nil {
			log.Printf("%s: flush telemetry: %v", name, flushErr)
		}
	}()
	return fn(ctx)
}
