// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authgw_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/merchantdesk/internal/auth"
	"github.com/taibuivan/merchantdesk/internal/console/authgw"
	"github.com/taibuivan/merchantdesk/internal/console/resource"
	"github.com/taibuivan/merchantdesk/internal/console/session"
	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/respond"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
)

func credentials(role sec.Role) authgw.Credentials {
	return authgw.Credentials{
		MerchantDomain: "shop.example.com",
		Account:        "operator",
		Role:           role,
		Password:       "secret-password",
	}
}

/*
TestLogin_Offline derives permissions from the role and mints a mock token.
*/
func TestLogin_Offline(t *testing.T) {
	tests := []struct {
		name        string
		role        sec.Role
		permissions int
	}{
		{"system_admin", sec.RoleSystemAdmin, 0},
		{"business_admin", sec.RoleBusinessAdmin, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewStore(session.NewMemoryStorage())
			gateway := authgw.New(nil, store, true, zerolog.Nop())

			current, err := gateway.Login(context.Background(), credentials(tt.role))
			require.NoError(t, err)

			require.True(t, current.Authenticated)
			assert.Equal(t, tt.role, current.Identity.Role)
			assert.Len(t, current.Identity.Permissions, tt.permissions)
			assert.True(t, strings.HasPrefix(store.Token(), authgw.OfflineTokenPrefix))
		})
	}
}

/*
TestLogin_Validation never touches the session for incomplete forms.
*/
func TestLogin_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*authgw.Credentials)
	}{
		{"missing_domain", func(c *authgw.Credentials) { c.MerchantDomain = "  " }},
		{"missing_account", func(c *authgw.Credentials) { c.Account = "" }},
		{"missing_password", func(c *authgw.Credentials) { c.Password = "" }},
		{"unknown_role", func(c *authgw.Credentials) { c.Role = "auditor" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewStore(session.NewMemoryStorage())
			gateway := authgw.New(nil, store, true, zerolog.Nop())

			input := credentials(sec.RoleBusinessAdmin)
			tt.mutate(&input)

			current, err := gateway.Login(context.Background(), input)
			assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
			assert.False(t, current.Authenticated)
		})
	}
}

/*
TestLogin_Online stores the identity returned by the backend.
*/
func TestLogin_Online(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var body authgw.Credentials
		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, authgw.PathLogin, request.URL.Path)

		respond.OK(writer, auth.LoginResult{
			Token: "server-token",
			User: auth.Identity{
				ID:          "acc-9",
				Account:     body.Account,
				Role:        body.Role,
				Permissions: []sec.Permission{sec.PermViewAssets},
			},
		})
	}))
	defer server.Close()

	store := session.NewStore(session.NewMemoryStorage())
	client := resource.New(server.URL, time.Second, store)
	gateway := authgw.New(client, store, false, zerolog.Nop())

	current, err := gateway.Login(context.Background(), credentials(sec.RoleBusinessAdmin))
	require.NoError(t, err)

	assert.Equal(t, "acc-9", current.Identity.ID)
	assert.Equal(t, []sec.Permission{sec.PermViewAssets}, current.Identity.Permissions)
	assert.Equal(t, "server-token", store.Token())
}

/*
TestLogin_RejectedKeepsPreviousSession is atomic on failure.
*/
func TestLogin_RejectedKeepsPreviousSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		respond.Failure(writer, apperr.Unauthorized("Invalid account or password"))
	}))
	defer server.Close()

	store := session.NewStore(session.NewMemoryStorage())
	previous := auth.Identity{ID: "acc-1", Account: "before", Role: sec.RoleSystemAdmin}
	require.NoError(t, store.SetIdentity(context.Background(), previous, "old-token"))

	gateway := authgw.New(resource.New(server.URL, time.Second, store), store, false, zerolog.Nop())

	_, err := gateway.Login(context.Background(), credentials(sec.RoleBusinessAdmin))
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeGenericFailure))
	assert.Equal(t, "Invalid account or password", err.Error())

	current := store.Snapshot()
	require.True(t, current.Authenticated)
	assert.Equal(t, "before", current.Identity.Account)
	assert.Equal(t, "old-token", store.Token())
}

/*
TestLogout_ClearsThenNotifies sends the discarded token and ignores failures.
*/
func TestLogout_ClearsThenNotifies(t *testing.T) {
	var (
		calls     atomic.Int32
		gotBearer atomic.Value
	)
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		calls.Add(1)
		gotBearer.Store(request.Header.Get("Authorization"))
		respond.Failure(writer, apperr.Internal(nil))
	}))
	defer server.Close()

	store := session.NewStore(session.NewMemoryStorage())
	require.NoError(t, store.SetIdentity(context.Background(),
		auth.Identity{ID: "acc-1", Role: sec.RoleBusinessAdmin}, "live-token"))

	gateway := authgw.New(resource.New(server.URL, time.Second, store), store, false, zerolog.Nop())
	require.NoError(t, gateway.Logout(context.Background()))

	assert.False(t, store.Snapshot().Authenticated)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "Bearer live-token", gotBearer.Load())
}
