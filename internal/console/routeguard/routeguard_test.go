// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package routeguard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/merchantdesk/internal/auth"
	"github.com/taibuivan/merchantdesk/internal/console/routeguard"
	"github.com/taibuivan/merchantdesk/internal/console/session"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
)

func signedIn(role sec.Role, permissions ...sec.Permission) session.Session {
	return session.Session{
		Identity:      &auth.Identity{ID: "acc-1", Account: "operator", Role: role, Permissions: permissions},
		Authenticated: true,
	}
}

var (
	anonymous = session.Session{}
	system    = signedIn(sec.RoleSystemAdmin)
	business  = signedIn(sec.RoleBusinessAdmin, sec.AllPermissions...)
	strange   = signedIn(sec.Role("auditor"))
)

/*
TestGuard_AllowIffRoleMatches checks the guard against every session and
required role combination.
*/
func TestGuard_AllowIffRoleMatches(t *testing.T) {
	sessions := []session.Session{anonymous, system, business, strange}
	roles := []sec.Role{"", sec.RoleSystemAdmin, sec.RoleBusinessAdmin}

	for _, current := range sessions {
		for _, role := range roles {
			decision := routeguard.Guard(current, role)
			expected := current.Authenticated && (role == "" || current.Role() == role)

			assert.Equal(t, expected, decision.Allow, "role=%q required=%q", current.Role(), role)
			if !decision.Allow {
				assert.NotEmpty(t, decision.Redirect)
			}
		}
	}
}

/*
TestDefaultRoute covers every session kind and repeated calls.
*/
func TestDefaultRoute(t *testing.T) {
	tests := []struct {
		name    string
		current session.Session
		want    string
	}{
		{"anonymous", anonymous, routeguard.PathLogin},
		{"system_admin", system, routeguard.PathSystemDashboard},
		{"business_admin", business, routeguard.PathBusinessDashboard},
		{"unknown_role", strange, routeguard.PathLogin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := routeguard.DefaultRoute(tt.current)
			assert.Equal(t, tt.want, first)
			assert.Equal(t, first, routeguard.DefaultRoute(tt.current))
		})
	}
}

/*
TestNavigate walks the navigation scenarios of the console.
*/
func TestNavigate(t *testing.T) {
	tests := []struct {
		name    string
		current session.Session
		path    string
		want    string
	}{
		{"system_admin_to_business_screen", system, "/business-admin/dashboard", routeguard.PathSystemDashboard},
		{"anonymous_to_transactions", anonymous, "/system-admin/transactions", routeguard.PathLogin},
		{"root_redirects_to_default", business, "/", routeguard.PathBusinessDashboard},
		{"login_when_signed_in", system, "/login", routeguard.PathSystemDashboard},
		{"login_when_anonymous", anonymous, "/login", routeguard.PathLogin},
		{"unknown_path", business, "/nowhere", routeguard.PathLogin},
		{"allowed_screen", business, "/business-admin/points", "/business-admin/points"},
		{"trailing_slash", system, "/system-admin/business-admins/", "/system-admin/business-admins"},
		{"missing_leading_slash", business, "business-admin/events", "/business-admin/events"},
		{"business_to_system_screen", business, "/system-admin/domain-config", routeguard.PathBusinessDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, routeguard.Navigate(tt.current, tt.path, routeguard.Options{}))
		})
	}
}

/*
TestNavigate_PermissionGating only applies when enabled.
*/
func TestNavigate_PermissionGating(t *testing.T) {
	limited := signedIn(sec.RoleBusinessAdmin, sec.PermViewAssets)

	assert.Equal(t, "/business-admin/points",
		routeguard.Navigate(limited, "/business-admin/points", routeguard.Options{}))
	assert.Equal(t, routeguard.PathBusinessDashboard,
		routeguard.Navigate(limited, "/business-admin/points", routeguard.Options{EnforcePermissions: true}))
	assert.Equal(t, "/business-admin/assets",
		routeguard.Navigate(limited, "/business-admin/assets", routeguard.Options{EnforcePermissions: true}))
}

/*
TestForRole lists only the screens of one role.
*/
func TestForRole(t *testing.T) {
	for _, route := range routeguard.ForRole(sec.RoleSystemAdmin) {
		assert.Equal(t, sec.RoleSystemAdmin, route.RequiredRole)
	}
	assert.Len(t, routeguard.ForRole(sec.RoleSystemAdmin), 6)
	assert.Len(t, routeguard.ForRole(sec.RoleBusinessAdmin), 9)
}
