// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/merchantdesk/internal/auth"
	"github.com/taibuivan/merchantdesk/internal/console/authgw"
	"github.com/taibuivan/merchantdesk/internal/console/cli"
	"github.com/taibuivan/merchantdesk/internal/console/fixture"
	"github.com/taibuivan/merchantdesk/internal/console/resource"
	"github.com/taibuivan/merchantdesk/internal/console/screen"
	"github.com/taibuivan/merchantdesk/internal/console/session"
	"github.com/taibuivan/merchantdesk/internal/merchant/apikey"
	"github.com/taibuivan/merchantdesk/internal/merchant/signconfig"
	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/respond"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
)

func offlineRuntime(t *testing.T) *cli.Runtime {
	t.Helper()
	store := session.NewStore(session.NewMemoryStorage())
	backend := fixture.New(fixture.Options{})

	return &cli.Runtime{
		Store:   store,
		Gateway: authgw.New(nil, store, true, zerolog.Nop()),
		Sources: screen.Offline(backend),
		Logger:  zerolog.Nop(),
		Fixture: backend,
	}
}

// remoteRuntime signs identity in against a backend served by handler.
func remoteRuntime(t *testing.T, handler http.Handler, identity auth.Identity) *cli.Runtime {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := session.NewStore(session.NewMemoryStorage())
	require.NoError(t, store.SetIdentity(context.Background(), identity, "token-1"))
	client := resource.New(server.URL, time.Second, store)

	return &cli.Runtime{
		Store:   store,
		Gateway: authgw.New(client, store, false, zerolog.Nop()),
		Sources: screen.Remote(client),
		Logger:  zerolog.Nop(),
	}
}

func run(t *testing.T, runtime *cli.Runtime, args ...string) (string, error) {
	t.Helper()
	root := cli.New(runtime, "test")

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func login(t *testing.T, runtime *cli.Runtime, role sec.Role) {
	t.Helper()
	_, err := run(t, runtime, "login",
		"--domain", fixture.MerchantDomain,
		"--account", "operator",
		"--password", "secret",
		"--role", string(role))
	require.NoError(t, err)
}

/*
TestLogin_WhoamiLogout walks a session from login to logout.
*/
func TestLogin_WhoamiLogout(t *testing.T) {
	runtime := offlineRuntime(t)

	out, err := run(t, runtime, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")

	out, err = run(t, runtime, "login", "--domain", fixture.MerchantDomain, "--account", "operator",
		"--password", "secret", "--role", string(sec.RoleBusinessAdmin))
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as operator (business_admin)")
	assert.Contains(t, out, "Landing screen: /business-admin/dashboard")

	out, err = run(t, runtime, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "/business-admin/api-keys")
	assert.Contains(t, out, string(sec.PermAllocatePoint))
	assert.NotContains(t, out, "/system-admin/")

	_, err = run(t, runtime, "logout")
	require.NoError(t, err)
	assert.False(t, runtime.Store.Snapshot().Authenticated)
}

/*
TestLogin_MissingFields keeps the previous session on a rejected login.
*/
func TestLogin_MissingFields(t *testing.T) {
	runtime := offlineRuntime(t)

	_, err := run(t, runtime, "login", "--account", "operator", "--password", "secret")
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	assert.False(t, runtime.Store.Snapshot().Authenticated)
}

/*
TestGuard_RefusesScreens checks every screen command against the route guard.
*/
func TestGuard_RefusesScreens(t *testing.T) {
	tests := []struct {
		name string
		role sec.Role
		args []string
		code string
	}{
		{"ls without session", "", []string{"ls", "users"}, apperr.CodeUnauthorized},
		{"mutation without session", "", []string{"apikey", "create", "--name", "x"}, apperr.CodeUnauthorized},
		{"other role's screen", sec.RoleSystemAdmin, []string{"ls", "/business-admin/users"}, apperr.CodeForbidden},
		{"other role's action", sec.RoleSystemAdmin, []string{"points", "allocate", "--user", "1", "--points", "5"}, apperr.CodeNotFound},
		{"unknown screen", sec.RoleBusinessAdmin, []string{"ls", "reports"}, apperr.CodeNotFound},
		{"open without session", "", []string{"open", "/"}, apperr.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runtime := offlineRuntime(t)
			if tt.role != "" {
				login(t, runtime, tt.role)
			}

			_, err := run(t, runtime, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperr.As(err).Code)
			assert.Equal(t, 3, runtime.Fixture.APIKeys.Len())
		})
	}
}

/*
TestGuard_Permissions refuses screens and actions outside the granted permissions.
*/
func TestGuard_Permissions(t *testing.T) {
	runtime := offlineRuntime(t)
	ctx := context.Background()

	identity := auth.Identity{
		ID:             "b-1",
		Account:        "viewer",
		Role:           sec.RoleBusinessAdmin,
		MerchantDomain: fixture.MerchantDomain,
		Permissions:    []sec.Permission{sec.PermViewPoints},
		CreatedAt:      time.Now(),
	}
	require.NoError(t, runtime.Store.SetIdentity(ctx, identity, "token"))

	_, err := run(t, runtime, "ls", "users")
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	out, err := run(t, runtime, "ls", "points")
	require.NoError(t, err)
	assert.Contains(t, out, "55,000")

	_, err = run(t, runtime, "points", "allocate", "--user", "4", "--points", "10")
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
}

/*
TestOpen_FollowsRedirects lands on the default route and redirects denied screens.
*/
func TestOpen_FollowsRedirects(t *testing.T) {
	runtime := offlineRuntime(t)
	login(t, runtime, sec.RoleSystemAdmin)

	out, err := run(t, runtime, "open", "/")
	require.NoError(t, err)
	assert.Contains(t, out, "(/system-admin/dashboard)")
	assert.Contains(t, out, "5,000 USDT")

	out, err = run(t, runtime, "open", "/business-admin/users")
	require.NoError(t, err)
	assert.Contains(t, out, "(/system-admin/dashboard)")
	assert.NotContains(t, out, "user_1")

	out, err = run(t, runtime, "open", "domain-config")
	require.NoError(t, err)
	assert.Contains(t, out, fixture.MerchantDomain)
}

/*
TestList_Criteria pages and filters a list screen.
*/
func TestList_Criteria(t *testing.T) {
	runtime := offlineRuntime(t)
	login(t, runtime, sec.RoleBusinessAdmin)

	out, err := run(t, runtime, "ls", "users", "--keyword", "USER_1", "--page-size", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "user_1")
	assert.Contains(t, out, "Page 1 of 3, 11 total")

	out, err = run(t, runtime, "ls", "api-keys", "--status", string(apikey.StatusDisabled))
	require.NoError(t, err)
	assert.Contains(t, out, "Development API Key")
	assert.NotContains(t, out, "Production API Key")

	out, err = run(t, runtime, "ls", "users", "--page", "184467440737095516")
	require.NoError(t, err)
	assert.NotContains(t, out, "user_1")

	_, err = run(t, runtime, "ls", "users", "--page", "0")
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

/*
TestAPIKey_Commands enforces the five key limit across commands.
*/
func TestAPIKey_Commands(t *testing.T) {
	runtime := offlineRuntime(t)
	login(t, runtime, sec.RoleBusinessAdmin)

	for range 2 {
		_, err := run(t, runtime, "apikey", "create", "--name", "extra")
		require.NoError(t, err)
	}

	_, err := run(t, runtime, "apikey", "create", "--name", "sixth")
	assert.ErrorIs(t, err, apikey.ErrLimitReached)
	assert.Equal(t, 5, runtime.Fixture.APIKeys.Len())

	out, err := run(t, runtime, "apikey", "toggle", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "API key 3 is now active")

	_, err = run(t, runtime, "apikey", "rm", "1")
	require.NoError(t, err)

	_, err = run(t, runtime, "apikey", "create", "--name", "replacement")
	require.NoError(t, err)
	assert.Equal(t, 5, runtime.Fixture.APIKeys.Len())
}

/*
TestSignConfig_Commands keeps exactly one configuration active.
*/
func TestSignConfig_Commands(t *testing.T) {
	runtime := offlineRuntime(t)
	login(t, runtime, sec.RoleBusinessAdmin)

	_, err := run(t, runtime, "signconfig", "rm", "1")
	assert.True(t, apperr.IsCode(err, apperr.CodeInvariant))

	_, err = run(t, runtime, "signconfig", "activate", "2")
	require.NoError(t, err)

	_, err = run(t, runtime, "signconfig", "rm", "1")
	require.NoError(t, err)

	out, err := run(t, runtime, "signconfig", "add", "--url", "https://sign-3.yc365.com", "--description", "Third")
	require.NoError(t, err)
	assert.Contains(t, out, "(inactive)")

	_, err = run(t, runtime, "signconfig", "add", "--url", "not a url", "--description", "Broken")
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

/*
TestPoints_Allocate debits the balance and refuses overdrafts.
*/
func TestPoints_Allocate(t *testing.T) {
	runtime := offlineRuntime(t)
	login(t, runtime, sec.RoleBusinessAdmin)

	_, err := run(t, runtime, "points", "allocate", "--user", "4", "--points", "60000")
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	out, err := run(t, runtime, "points", "allocate", "--user", "4", "--points", "5000", "--note", "bonus")
	require.NoError(t, err)
	assert.Contains(t, out, "Allocated 5,000 points to user_4")
	assert.Contains(t, out, "Remaining: 50,000")
}

/*
TestEvent_Settle moves events forward only.
*/
func TestEvent_Settle(t *testing.T) {
	runtime := offlineRuntime(t)
	login(t, runtime, sec.RoleBusinessAdmin)

	out, err := run(t, runtime, "event", "settle", "1", "--final-amount", "1000", "--final-points", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Event 1 is now settled")

	_, err = run(t, runtime, "event", "settle", "3", "--final-amount", "1000")
	assert.True(t, apperr.IsCode(err, apperr.CodeInvariant))

	out, err = run(t, runtime, "event", "create", "--name", "Summer Race", "--type", "trading",
		"--start", "2026-11-01", "--end", "2026-11-30", "--target", "5000", "--reward", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "Summer Race")
	assert.Equal(t, 4, runtime.Fixture.Events.Len())
}

/*
TestVersion prints the banner and version.
*/
func TestVersion(t *testing.T) {
	out, err := run(t, offlineRuntime(t), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "console test")
}

/*
TestSystemAdmin_RemoteLists lists and creates API keys and sign configs as a
system admin against a backend that forbids business admin routes to it.
*/
func TestSystemAdmin_RemoteLists(t *testing.T) {
	now := time.Now().UTC()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /system-admin/api-keys", func(writer http.ResponseWriter, _ *http.Request) {
		respond.OK(writer, []apikey.APIKey{{ID: "k1", Name: "Platform Key", Status: apikey.StatusActive, CreatedAt: now}})
	})
	mux.HandleFunc("POST /system-admin/api-keys", func(writer http.ResponseWriter, _ *http.Request) {
		respond.OK(writer, apikey.APIKey{ID: "k2", Name: "ops", Key: "yk_k2_secret", Status: apikey.StatusActive, CreatedAt: now})
	})
	mux.HandleFunc("GET /system-admin/sign-configs", func(writer http.ResponseWriter, _ *http.Request) {
		respond.OK(writer, []signconfig.Config{{ID: "s1", URL: "https://sign.yc365.com", Description: "Primary", IsActive: true, CreatedAt: now}})
	})
	mux.HandleFunc("/business-admin/", func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.Forbidden("Business admin role required"))
	})

	runtime := remoteRuntime(t, mux, auth.Identity{ID: "1", Account: "root", Role: sec.RoleSystemAdmin})

	out, err := run(t, runtime, "ls", "api-keys")
	require.NoError(t, err)
	assert.Contains(t, out, "Platform Key")

	out, err = run(t, runtime, "ls", "sign-config")
	require.NoError(t, err)
	assert.Contains(t, out, "https://sign.yc365.com")

	out, err = run(t, runtime, "apikey", "create", "--name", "ops")
	require.NoError(t, err)
	assert.Contains(t, out, "Created API key k2 (ops)")
}
