// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cli holds the cobra commands of the MerchantDesk console.

Every command that shows or changes a screen first asks the route guard
whether the current session may open it. The same commands run against the
API or, offline, against the in-memory fixture; [Runtime] carries whichever
sources were wired.
*/
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/taibuivan/merchantdesk/internal/console/authgw"
	"github.com/taibuivan/merchantdesk/internal/console/fixture"
	"github.com/taibuivan/merchantdesk/internal/console/screen"
	"github.com/taibuivan/merchantdesk/internal/console/session"
)

// AppName is printed by the version banner.
const AppName = "MerchantDesk"

// Runtime is everything the commands work against.
type Runtime struct {
	Store   *session.Store
	Gateway *authgw.Gateway
	Sources screen.Sources
	Logger  zerolog.Logger

	// Fixture is set when the console runs offline.
	Fixture *fixture.Backend
}

// sources narrows Sources to the API prefix of current's role.
func (runtime *Runtime) sources(current session.Session) screen.Sources {
	return runtime.Sources.For(current.Role())
}

// New builds the root command over runtime.
func New(runtime *Runtime, version string) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "console",
		Short: "MerchantDesk operator console",
		Long: `MerchantDesk console manages business admins, funds, API keys, sign
services, users, points and events from the terminal.

Log in first; every screen is then checked against your role and permissions.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			current, err := runtime.Store.Initialize(cmd.Context())
			if err != nil {
				return err
			}
			if runtime.Fixture != nil && current.Identity != nil {
				runtime.Fixture.SetActor(current.Identity.Account)
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newLoginCommand(runtime),
		newLogoutCommand(runtime),
		newWhoamiCommand(runtime),
		newOpenCommand(runtime),
		newListCommand(runtime),
		newAPIKeyCommand(runtime),
		newSignConfigCommand(runtime),
		newPointsCommand(runtime),
		newEventCommand(runtime),
		newVersionCommand(version),
	)
	return root
}
