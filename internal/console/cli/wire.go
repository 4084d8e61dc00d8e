// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rs/zerolog"

	"github.com/taibuivan/merchantdesk/internal/console/authgw"
	"github.com/taibuivan/merchantdesk/internal/console/fixture"
	"github.com/taibuivan/merchantdesk/internal/console/resource"
	"github.com/taibuivan/merchantdesk/internal/console/screen"
	"github.com/taibuivan/merchantdesk/internal/console/session"
	"github.com/taibuivan/merchantdesk/internal/platform/config"
	redisstore "github.com/taibuivan/merchantdesk/internal/platform/redis"
)

/*
Wire assembles the runtime described by cfg.

Description: The session lives in Redis when a URL is configured, otherwise
in the JSON session file. Offline, every screen is served by a freshly
seeded fixture and logins are simulated; writes last for the process only.

Returns:
  - *Runtime: The wired runtime
  - func(): Releases the Redis connection, if any
  - error: Redis connection failures
*/
func Wire(ctx context.Context, cfg *config.Console, logger zerolog.Logger) (*Runtime, func(), error) {
	cleanup := func() {}

	var storage session.Storage = session.NewFileStorage(cfg.SessionFile)
	if cfg.SessionRedisURL != "" {
		// go-redis reports through slog; only its warnings reach the terminal.
		redisLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

		client, err := redisstore.NewClient(ctx, cfg.SessionRedisURL, redisstore.ConsolePoolSize, redisLogger)
		if err != nil {
			return nil, cleanup, fmt.Errorf("cli: session redis: %w", err)
		}
		cleanup = func() { _ = client.Close() }
		storage = session.NewRedisStorage(client, cfg.SessionProfile)
	}

	store := session.NewStore(storage)

	client := resource.New(cfg.APIURL, cfg.Timeout, store,
		resource.WithLogger(logger.With().Str("component", "resource").Logger()),
		resource.WithOnUnauthorized(func() {
			logger.Warn().Msg("Session expired, run `console login` again")
		}),
	)

	runtime := &Runtime{
		Store:   store,
		Gateway: authgw.New(client, store, cfg.Offline, logger),
		Logger:  logger,
	}

	if cfg.Offline {
		runtime.Fixture = fixture.New(fixture.Options{Latency: cfg.FixtureLatency})
		runtime.Sources = screen.Offline(runtime.Fixture)
		logger.Debug().Dur("latency", cfg.FixtureLatency).Msg("console_offline_fixture")
	} else {
		runtime.Sources = screen.Remote(client)
		logger.Debug().Str("api", client.BaseURL()).Msg("console_remote_sources")
	}

	return runtime, cleanup, nil
}
