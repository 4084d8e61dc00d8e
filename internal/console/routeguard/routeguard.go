// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package routeguard decides where the console may go.

Every navigation is re-evaluated against the current [session.Session]; no
decision is cached, because a logout in another terminal changes the answer.
[DefaultRoute] is the single place that maps a session to its landing screen.
*/
package routeguard

import (
	"strings"

	"github.com/taibuivan/merchantdesk/internal/console/session"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
)

// Top-level paths.
const (
	PathRoot  = "/"
	PathLogin = "/login"

	PathSystemDashboard   = "/system-admin/dashboard"
	PathBusinessDashboard = "/business-admin/dashboard"
)

// Route is one screen of the console.
type Route struct {
	Path         string
	Title        string
	RequiredRole sec.Role
	// Permissions are checked only when the guard runs with permission gating.
	Permissions []sec.Permission
}

// Routes is the console screen table.
var Routes = []Route{
	{Path: PathSystemDashboard, Title: "Dashboard", RequiredRole: sec.RoleSystemAdmin},
	{Path: "/system-admin/business-admins", Title: "Business Admins", RequiredRole: sec.RoleSystemAdmin},
	{Path: "/system-admin/transactions", Title: "Deposits & Withdrawals", RequiredRole: sec.RoleSystemAdmin},
	{Path: "/system-admin/sign-config", Title: "Sign Service", RequiredRole: sec.RoleSystemAdmin},
	{Path: "/system-admin/api-keys", Title: "API Keys", RequiredRole: sec.RoleSystemAdmin},
	{Path: "/system-admin/domain-config", Title: "Domain", RequiredRole: sec.RoleSystemAdmin},

	{Path: PathBusinessDashboard, Title: "Dashboard", RequiredRole: sec.RoleBusinessAdmin},
	{Path: "/business-admin/assets", Title: "Assets", RequiredRole: sec.RoleBusinessAdmin,
		Permissions: []sec.Permission{sec.PermViewAssets}},
	{Path: "/business-admin/users", Title: "Users", RequiredRole: sec.RoleBusinessAdmin,
		Permissions: []sec.Permission{sec.PermViewUsers}},
	{Path: "/business-admin/orders", Title: "Orders", RequiredRole: sec.RoleBusinessAdmin,
		Permissions: []sec.Permission{sec.PermViewUsers}},
	{Path: "/business-admin/points", Title: "Points", RequiredRole: sec.RoleBusinessAdmin,
		Permissions: []sec.Permission{sec.PermViewPoints}},
	{Path: "/business-admin/create-event", Title: "Create Event", RequiredRole: sec.RoleBusinessAdmin},
	{Path: "/business-admin/events", Title: "Events", RequiredRole: sec.RoleBusinessAdmin},
	{Path: "/business-admin/sign-config", Title: "Sign Service", RequiredRole: sec.RoleBusinessAdmin,
		Permissions: []sec.Permission{sec.PermConfigureSign}},
	{Path: "/business-admin/api-keys", Title: "API Keys", RequiredRole: sec.RoleBusinessAdmin,
		Permissions: []sec.Permission{sec.PermManageAPIKeys}},
}

// Lookup returns the route registered for path.
func Lookup(path string) (Route, bool) {
	path = normalize(path)
	for _, route := range Routes {
		if route.Path == path {
			return route, true
		}
	}
	return Route{}, false
}

// ForRole lists the routes an identity of role may open, in table order.
func ForRole(role sec.Role) []Route {
	var routes []Route
	for _, route := range Routes {
		if route.RequiredRole == role {
			routes = append(routes, route)
		}
	}
	return routes
}

// DefaultRoute returns the landing screen for current. It never fails.
func DefaultRoute(current session.Session) string {
	if !current.Authenticated {
		return PathLogin
	}
	switch current.Role() {
	case sec.RoleSystemAdmin:
		return PathSystemDashboard
	case sec.RoleBusinessAdmin:
		return PathBusinessDashboard
	default:
		return PathLogin
	}
}

// Decision is the outcome of a guard check. Redirect is set when Allow is false.
type Decision struct {
	Allow    bool
	Redirect string
}

func allow() Decision { return Decision{Allow: true} }

func redirect(path string) Decision { return Decision{Redirect: path} }

// Guard checks current against an optional required role ("" means any
// authenticated identity).
func Guard(current session.Session, requiredRole sec.Role) Decision {
	if !current.Authenticated {
		return redirect(PathLogin)
	}
	if requiredRole != "" && current.Role() != requiredRole {
		return redirect(DefaultRoute(current))
	}
	return allow()
}

// RequirePermissions extends [Guard] with per-screen permission gating. A
// missing permission sends the identity back to its landing screen.
func RequirePermissions(current session.Session, requiredRole sec.Role, permissions ...sec.Permission) Decision {
	decision := Guard(current, requiredRole)
	if !decision.Allow {
		return decision
	}
	for _, permission := range permissions {
		if !current.Can(permission) {
			return redirect(DefaultRoute(current))
		}
	}
	return decision
}

// Options tunes [Navigate].
type Options struct {
	EnforcePermissions bool
}

// Navigate resolves path for current and returns the path actually shown.
//
//   - "/" goes to the default route.
//   - "/login" goes to the default route when already authenticated.
//   - Unknown paths go to "/login".
//   - Known screens go through the guard.
func Navigate(current session.Session, path string, options Options) string {
	path = normalize(path)

	switch path {
	case PathRoot:
		return DefaultRoute(current)
	case PathLogin:
		if current.Authenticated {
			return DefaultRoute(current)
		}
		return PathLogin
	}

	route, ok := Lookup(path)
	if !ok {
		return PathLogin
	}

	var decision Decision
	if options.EnforcePermissions {
		decision = RequirePermissions(current, route.RequiredRole, route.Permissions...)
	} else {
		decision = Guard(current, route.RequiredRole)
	}

	if !decision.Allow {
		return decision.Redirect
	}
	return route.Path
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return PathRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return PathRoot
		}
	}
	return path
}
