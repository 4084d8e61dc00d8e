// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/merchantdesk/internal/console/routeguard"
	"github.com/taibuivan/merchantdesk/internal/console/session"
	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

// Screen names, the last segment of their route.
const (
	ScreenDashboard      = "dashboard"
	ScreenBusinessAdmins = "business-admins"
	ScreenTransactions   = "transactions"
	ScreenSignConfig     = "sign-config"
	ScreenAPIKeys        = "api-keys"
	ScreenDomainConfig   = "domain-config"
	ScreenAssets         = "assets"
	ScreenUsers          = "users"
	ScreenOrders         = "orders"
	ScreenPoints         = "points"
	ScreenCreateEvent    = "create-event"
	ScreenEvents         = "events"
)

// # Route Guard

func errLoginRequired() error {
	return apperr.Unauthorized("Not logged in, run `console login` first")
}

// resolve turns a screen name into the route path of current's role. Paths
// are returned as given.
func resolve(current session.Session, name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "/") {
		return name
	}
	for _, route := range routeguard.ForRole(current.Role()) {
		if path.Base(route.Path) == name {
			return route.Path
		}
	}
	return "/" + name
}

/*
enter asks the route guard, with permission gating, whether current may
open the screen name. Any redirect is refused.

Returns:
  - routeguard.Route: The screen to show
  - error: Unauthorized without a session, Forbidden when the guard redirects
*/
func enter(current session.Session, name string) (routeguard.Route, error) {
	if !current.Authenticated {
		return routeguard.Route{}, errLoginRequired()
	}

	target := resolve(current, name)
	shown := routeguard.Navigate(current, target, routeguard.Options{EnforcePermissions: true})

	route, ok := routeguard.Lookup(target)
	if !ok {
		return routeguard.Route{}, apperr.NotFound(fmt.Sprintf("Screen %q", name))
	}
	if shown != route.Path {
		return routeguard.Route{}, apperr.Forbidden(fmt.Sprintf("%s is not available to this session", route.Path))
	}
	return route, nil
}

// require refuses an action whose permissions current lacks, even on a
// screen it may open.
func require(current session.Session, permissions ...sec.Permission) error {
	if routeguard.RequirePermissions(current, current.Role(), permissions...).Allow {
		return nil
	}
	return apperr.Forbidden("Missing permission: " + joinPermissions(permissions))
}

// # Commands

func newOpenCommand(runtime *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Navigate to a screen and show it",
		Long: `Open resolves a path the way the console navigates: "/" goes to your landing
screen and a screen you may not open redirects to the one you may.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current := runtime.Store.Snapshot()
			target := resolve(current, args[0])
			shown := routeguard.Navigate(current, target, routeguard.Options{EnforcePermissions: true})

			if shown == routeguard.PathLogin {
				if !current.Authenticated {
					return errLoginRequired()
				}
				return apperr.NotFound(fmt.Sprintf("Screen %q", args[0]))
			}
			if route, ok := routeguard.Lookup(target); ok && route.Path != shown {
				runtime.Logger.Warn().Str("from", route.Path).Str("to", shown).Msg("Screen not available, redirected")
			}

			route, _ := routeguard.Lookup(shown)
			return show(cmd.Context(), runtime, current, route, viewOptions{criteria: firstPage()}, cmd.OutOrStdout())
		},
	}
}

func newListCommand(runtime *Runtime) *cobra.Command {
	var (
		options  viewOptions
		from, to string
	)

	cmd := &cobra.Command{
		Use:   "ls <screen>",
		Short: "List the rows of a screen",
		Long: `Ls shows one page of a list screen, for example:

  console ls api-keys --status active
  console ls users --keyword user_1 --page 2
  console ls orders --user 1
  console ls transactions --kind withdraw`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current := runtime.Store.Snapshot()
			route, err := enter(current, args[0])
			if err != nil {
				return err
			}

			if from != "" || to != "" {
				dateRange, err := pagination.ParseRange(from, to)
				if err != nil {
					return apperr.ValidationError(err.Error())
				}
				options.criteria.Range = dateRange
			}
			if err := options.criteria.Validate(); err != nil {
				return apperr.ValidationError(err.Error())
			}
			options.criteria = options.criteria.WithDefaults()

			return show(cmd.Context(), runtime, current, route, options, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&options.criteria.Keyword, "keyword", "", "Case-insensitive keyword")
	flags.StringVar(&options.criteria.Status, "status", "", "Status filter")
	flags.IntVar(&options.criteria.Page, "page", pagination.DefaultPage, "Page number")
	flags.IntVar(&options.criteria.PageSize, "page-size", pagination.DefaultPageSize, "Rows per page")
	flags.StringVar(&from, "from", "", "Earliest date, YYYY-MM-DD")
	flags.StringVar(&to, "to", "", "Latest date, YYYY-MM-DD")
	flags.StringVar(&options.userID, "user", "", "Orders of one user")
	flags.StringVar(&options.kind, "kind", "", "Transactions of one kind: deposit or withdraw")
	return cmd
}

// # Rendering

type viewOptions struct {
	criteria pagination.Criteria
	userID   string
	kind     string
}

func firstPage() pagination.Criteria {
	return pagination.Criteria{}.WithDefaults()
}

func everything() pagination.Criteria {
	return pagination.Criteria{Params: pagination.Params{Page: 1, PageSize: pagination.MaxPageSize}}
}

type renderer func(ctx context.Context, runtime *Runtime, current session.Session, options viewOptions, out io.Writer) error

var renderers = map[string]renderer{
	ScreenDashboard:      renderDashboard,
	ScreenBusinessAdmins: renderAdmins,
	ScreenTransactions:   renderTransactions,
	ScreenSignConfig:     renderSignConfigs,
	ScreenAPIKeys:        renderAPIKeys,
	ScreenDomainConfig:   renderDomainConfig,
	ScreenAssets:         renderAssets,
	ScreenUsers:          renderUsers,
	ScreenOrders:         renderOrders,
	ScreenPoints:         renderPoints,
	ScreenCreateEvent:    renderCreateEvent,
	ScreenEvents:         renderEvents,
}

func show(ctx context.Context, runtime *Runtime, current session.Session, route routeguard.Route, options viewOptions, out io.Writer) error {
	render, ok := renderers[path.Base(route.Path)]
	if !ok {
		return apperr.NotFound(fmt.Sprintf("Screen %q", route.Path))
	}
	fmt.Fprintf(out, "%s  (%s)\n\n", route.Title, route.Path)
	return render(ctx, runtime, current, options, out)
}
