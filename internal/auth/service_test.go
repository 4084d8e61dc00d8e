// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/merchantdesk/internal/auth"
	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
)

// # Fakes

type memoryAccounts struct {
	mu       sync.RWMutex
	accounts map[string]*auth.Account
}

func (m *memoryAccounts) FindByLogin(_ context.Context, merchantDomain, account string, role sec.Role) (*auth.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, candidate := range m.accounts {
		if candidate.Account != account || candidate.Role != role {
			continue
		}
		if role == sec.RoleBusinessAdmin && candidate.MerchantDomain != merchantDomain {
			continue
		}
		copied := *candidate
		return &copied, nil
	}
	return nil, apperr.NotFound("Account")
}

func (m *memoryAccounts) FindByID(_ context.Context, id string) (*auth.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if account, ok := m.accounts[id]; ok {
		copied := *account
		return &copied, nil
	}
	return nil, apperr.NotFound("Account")
}

func (m *memoryAccounts) Create(_ context.Context, account *auth.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *memoryAccounts) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[id].PasswordHash = passwordHash
	return nil
}

func (m *memoryAccounts) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[id].LastLoginAt = &at
	return nil
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]string
}

func (m *memorySessions) Create(_ context.Context, sessionID, accountID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = accountID
	return nil
}

func (m *memorySessions) Exists(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[sessionID]
	return ok, nil
}

func (m *memorySessions) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *memorySessions) DeleteByAccount(_ context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, owner := range m.sessions {
		if owner == accountID {
			delete(m.sessions, id)
		}
	}
	return nil
}

type fixture struct {
	service  *auth.Service
	accounts *memoryAccounts
	sessions *memorySessions
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "merchantdesk.test")

	hash, err := sec.HashPassword("secret123")
	require.NoError(t, err)

	accounts := &memoryAccounts{accounts: map[string]*auth.Account{
		"sys-1": {ID: "sys-1", Account: "root", Role: sec.RoleSystemAdmin, PasswordHash: hash, Status: auth.StatusActive},
		"biz-1": {
			ID: "biz-1", Account: "merchant_ops", MerchantDomain: "test.yc365.com", Role: sec.RoleBusinessAdmin,
			Permissions: []sec.Permission{sec.PermViewPoints, sec.PermViewAssets}, PasswordHash: hash, Status: auth.StatusActive,
		},
		"biz-2": {
			ID: "biz-2", Account: "frozen", MerchantDomain: "test.yc365.com", Role: sec.RoleBusinessAdmin,
			PasswordHash: hash, Status: auth.StatusDisabled,
		},
	}}
	sessions := &memorySessions{sessions: map[string]string{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return fixture{
		service:  auth.NewService(accounts, sessions, tokens, time.Hour, logger),
		accounts: accounts,
		sessions: sessions,
	}
}

// # Tests

/*
TestLogin covers accepted and rejected credentials.
*/
func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		input    auth.LoginInput
		wantCode string
	}{
		{"system_admin", auth.LoginInput{MerchantDomain: "any.example.com", Account: "root", Role: sec.RoleSystemAdmin, Password: "secret123"}, ""},
		{"business_admin", auth.LoginInput{MerchantDomain: "test.yc365.com", Account: "merchant_ops", Role: sec.RoleBusinessAdmin, Password: "secret123"}, ""},
		{"wrong_password", auth.LoginInput{MerchantDomain: "test.yc365.com", Account: "merchant_ops", Role: sec.RoleBusinessAdmin, Password: "nope"}, apperr.CodeUnauthorized},
		{"wrong_domain", auth.LoginInput{MerchantDomain: "other.com", Account: "merchant_ops", Role: sec.RoleBusinessAdmin, Password: "secret123"}, apperr.CodeUnauthorized},
		{"wrong_role", auth.LoginInput{MerchantDomain: "test.yc365.com", Account: "root", Role: sec.RoleBusinessAdmin, Password: "secret123"}, apperr.CodeUnauthorized},
		{"disabled", auth.LoginInput{MerchantDomain: "test.yc365.com", Account: "frozen", Role: sec.RoleBusinessAdmin, Password: "secret123"}, apperr.CodeUnauthorized},
		{"missing_field", auth.LoginInput{Account: "root", Role: sec.RoleSystemAdmin, Password: "secret123"}, apperr.CodeValidation},
		{"unknown_role", auth.LoginInput{MerchantDomain: "x.com", Account: "root", Role: "owner", Password: "secret123"}, apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			result, err := f.service.Login(context.Background(), tt.input)
			if tt.wantCode != "" {
				assert.True(t, apperr.IsCode(err, tt.wantCode), "got %v", err)
				assert.Empty(t, f.sessions.sessions)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, result.Token)
			assert.Equal(t, tt.input.Role, result.User.Role)
			assert.NotNil(t, result.User.LastLoginAt)
			assert.Len(t, f.sessions.sessions, 1)
		})
	}
}

/*
TestLogin_PermissionsByRole issues stored permissions to business admins only.
*/
func TestLogin_PermissionsByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	business, err := f.service.Login(ctx, auth.LoginInput{MerchantDomain: "test.yc365.com", Account: "merchant_ops", Role: sec.RoleBusinessAdmin, Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, []sec.Permission{sec.PermViewAssets, sec.PermViewPoints}, business.User.Permissions)

	system, err := f.service.Login(ctx, auth.LoginInput{MerchantDomain: "x.com", Account: "root", Role: sec.RoleSystemAdmin, Password: "secret123"})
	require.NoError(t, err)
	assert.Empty(t, system.User.Permissions)
}

/*
TestVerifyToken_LogoutIsImmediate rejects a still-valid token once its session is gone.
*/
func TestVerifyToken_LogoutIsImmediate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, auth.LoginInput{MerchantDomain: "x.com", Account: "root", Role: sec.RoleSystemAdmin, Password: "secret123"})
	require.NoError(t, err)

	claims, err := f.service.VerifyToken(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, "sys-1", claims.UserID)

	require.NoError(t, f.service.Logout(ctx, claims))
	require.NoError(t, f.service.Logout(ctx, claims), "logout is idempotent")

	_, err = f.service.VerifyToken(ctx, result.Token)
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))

	_, err = f.service.VerifyToken(ctx, "garbage")
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))
}

/*
TestChangePassword verifies the old password and revokes the session.
*/
func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, auth.LoginInput{MerchantDomain: "x.com", Account: "root", Role: sec.RoleSystemAdmin, Password: "secret123"})
	require.NoError(t, err)
	claims, err := f.service.VerifyToken(ctx, result.Token)
	require.NoError(t, err)

	err = f.service.ChangePassword(ctx, claims, auth.ChangePasswordInput{OldPassword: "wrong", NewPassword: "brand-new-pass"})
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))

	err = f.service.ChangePassword(ctx, claims, auth.ChangePasswordInput{OldPassword: "secret123", NewPassword: "short"})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	err = f.service.ChangePassword(ctx, claims, auth.ChangePasswordInput{OldPassword: "secret123", NewPassword: "secret123"})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	require.NoError(t, f.service.ChangePassword(ctx, claims, auth.ChangePasswordInput{OldPassword: "secret123", NewPassword: "brand-new-pass"}))
	assert.True(t, sec.PasswordMatches(f.accounts.accounts["sys-1"].PasswordHash, "brand-new-pass"))

	_, err = f.service.VerifyToken(ctx, result.Token)
	assert.Error(t, err)
}

/*
TestEnsureSystemAdmin creates the account once.
*/
func TestEnsureSystemAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.EnsureSystemAdmin(ctx, "ops", "bootstrap-pass"))
	require.NoError(t, f.service.EnsureSystemAdmin(ctx, "ops", "other-pass"))

	count := 0
	for _, account := range f.accounts.accounts {
		if account.Account == "ops" {
			count++
			assert.True(t, sec.PasswordMatches(account.PasswordHash, "bootstrap-pass"))
		}
	}
	assert.Equal(t, 1, count)
}
