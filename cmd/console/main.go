// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command console is the MerchantDesk operator console.
//
// # Startup Sequence
//
//  1. Initialize the terminal logger.
//  2. Load configuration from environment variables.
//  3. Wire the session store, API client and screen sources.
//  4. Run the requested command.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/taibuivan/merchantdesk/internal/console/cli"
	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/config"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.LoadConsole()
	if err != nil {
		logger.Fatal().Err(err).Msg("load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── 3. Wiring ─────────────────────────────────────────────────────────
	runtime, cleanup, err := cli.Wire(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("wire console")
	}

	// ── 4. Command ────────────────────────────────────────────────────────
	err = cli.New(runtime, version).ExecuteContext(ctx)
	cleanup()
	if err != nil {
		report(err)
		stop()
		os.Exit(1)
	}
}

// report prints a command failure with its field details.
func report(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	if failure := apperr.As(err); failure != nil {
		for _, detail := range failure.Details {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", detail.Field, detail.Message)
		}
	}
}
