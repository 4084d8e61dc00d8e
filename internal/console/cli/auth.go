// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/merchantdesk/internal/console/authgw"
	"github.com/taibuivan/merchantdesk/internal/console/routeguard"
	"github.com/taibuivan/merchantdesk/internal/console/session"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
)

func newLoginCommand(runtime *Runtime) *cobra.Command {
	var (
		credentials authgw.Credentials
		role        string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as a system or business admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			credentials.Role = sec.Role(role)

			current, err := runtime.Gateway.Login(cmd.Context(), credentials)
			if err != nil {
				return err
			}
			if runtime.Fixture != nil {
				runtime.Fixture.SetActor(current.Identity.Account)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged in as %s (%s)\n", current.Identity.Account, current.Role())
			fmt.Fprintf(out, "Landing screen: %s\n", routeguard.DefaultRoute(current))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&credentials.MerchantDomain, "domain", "", "Merchant domain, e.g. test.yc365.com")
	flags.StringVar(&credentials.Account, "account", "", "Account name")
	flags.StringVar(&credentials.Password, "password", "", "Password")
	flags.StringVar(&role, "role", string(sec.RoleBusinessAdmin), "system_admin or business_admin")
	return cmd
}

func newLogoutCommand(runtime *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := runtime.Gateway.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(runtime *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity and the screens it may open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			current := runtime.Store.Snapshot()
			if !current.Authenticated {
				fmt.Fprintln(out, "Not logged in")
				return nil
			}

			identity := current.Identity
			fmt.Fprintf(out, "Account:     %s\n", identity.Account)
			fmt.Fprintf(out, "Role:        %s\n", identity.Role)
			fmt.Fprintf(out, "Domain:      %s\n", identity.MerchantDomain)
			fmt.Fprintf(out, "Permissions: %s\n", joinPermissions(identity.Permissions))
			fmt.Fprintln(out, "Screens:")
			for _, route := range reachable(current) {
				fmt.Fprintf(out, "  %-34s %s\n", route.Path, route.Title)
			}
			return nil
		},
	}
}

// reachable lists the routes current may open with permission gating on.
func reachable(current session.Session) []routeguard.Route {
	var routes []routeguard.Route
	for _, route := range routeguard.ForRole(current.Role()) {
		if routeguard.RequirePermissions(current, route.RequiredRole, route.Permissions...).Allow {
			routes = append(routes, route)
		}
	}
	return routes
}

func joinPermissions(permissions []sec.Permission) string {
	if len(permissions) == 0 {
		return "-"
	}
	names := make([]string, len(permissions))
	for i, permission := range permissions {
		names[i] = string(permission)
	}
	return strings.Join(names, ", ")
}
