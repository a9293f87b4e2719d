// Package main runs one PopCity play command.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	playcmd "github.com/popcity/popcity/internal/cmd/play"
	"github.com/popcity/popcity/internal/platform/config"
)

func main() {
	log.SetPrefix("[PLAY] ")
	cfg, err := playcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	config.ExitOnError("play flags", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = playcmd.Run(ctx, cfg, os.Stdout, os.Stderr)
	stop()
	switch {
	case err == nil:
	case errors.Is(err, playcmd.ErrUsage):
		os.Exit(2)
	default:
		// The localized message is already on stderr.
		log.Printf("%s: %v", cfg.Command, err)
		os.Exit(1)
	}
}
