// Package main runs the gamify gateway until interrupted.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	gatewaycmd "github.com/popcity/popcity/internal/cmd/gateway"
	"github.com/popcity/popcity/internal/platform/config"
)

func main() {
	log.SetPrefix("[GATEWAY] ")
	cfg, err := gatewaycmd.ParseConfig(flag.CommandLine, os.Args[1:])
	config.ExitOnError("gateway flags", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = gatewaycmd.Run(ctx, cfg)
	stop()
	config.ExitOnError("gateway", err)
}
