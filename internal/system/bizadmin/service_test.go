// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bizadmin_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/merchantdesk/internal/auth"
	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/audit"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
	"github.com/taibuivan/merchantdesk/internal/system/bizadmin"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

// # Fakes

type memoryRepository struct {
	mu       sync.RWMutex
	accounts []*auth.Account
}

func (m *memoryRepository) List(_ context.Context, criteria pagination.Criteria) ([]*auth.Account, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*auth.Account
	for _, account := range m.accounts {
		if criteria.MatchesKeyword(account.Account, account.MerchantDomain) &&
			criteria.MatchesStatus(string(account.Status)) &&
			criteria.MatchesTime(account.CreatedAt) {
			matched = append(matched, account)
		}
	}
	page := pagination.Slice(matched, criteria.Params)
	return page.List, page.Total, nil
}

func (m *memoryRepository) find(id string) (*auth.Account, int) {
	for i, account := range m.accounts {
		if account.ID == id {
			return account, i
		}
	}
	return nil, -1
}

func (m *memoryRepository) FindByID(_ context.Context, id string) (*auth.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if account, _ := m.find(id); account != nil {
		copied := *account
		return &copied, nil
	}
	return nil, apperr.NotFound("Business admin")
}

func (m *memoryRepository) Create(_ context.Context, account *auth.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Account == account.Account && existing.MerchantDomain == account.MerchantDomain {
			return apperr.Conflict("Business admin already exists")
		}
	}
	account.CreatedAt = time.Now().UTC()
	m.accounts = append(m.accounts, account)
	return nil
}

func (m *memoryRepository) mutate(id string, fn func(*auth.Account)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, _ := m.find(id)
	if account == nil {
		return apperr.NotFound("Business admin")
	}
	fn(account)
	return nil
}

func (m *memoryRepository) UpdatePassword(_ context.Context, id, hash string) error {
	return m.mutate(id, func(a *auth.Account) { a.PasswordHash = hash })
}

func (m *memoryRepository) UpdatePermissions(_ context.Context, id string, permissions []sec.Permission) error {
	return m.mutate(id, func(a *auth.Account) { a.Permissions = permissions })
}

func (m *memoryRepository) UpdateStatus(_ context.Context, id string, status auth.Status) error {
	return m.mutate(id, func(a *auth.Account) { a.Status = status })
}

func (m *memoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, index := m.find(id)
	if index < 0 {
		return apperr.NotFound("Business admin")
	}
	m.accounts = slices.Delete(m.accounts, index, index+1)
	return nil
}

func (m *memoryRepository) Count(context.Context) (bizadmin.Counts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := bizadmin.Counts{Total: len(m.accounts)}
	for _, account := range m.accounts {
		if account.Status == auth.StatusActive {
			counts.Active++
		}
	}
	return counts, nil
}

type revokingSessions struct {
	revoked []string
}

func (r *revokingSessions) Create(context.Context, string, string, time.Duration) error { return nil }
func (r *revokingSessions) Exists(context.Context, string) (bool, error)                { return true, nil }
func (r *revokingSessions) Delete(context.Context, string) error                        { return nil }
func (r *revokingSessions) DeleteByAccount(_ context.Context, accountID string) error {
	r.revoked = append(r.revoked, accountID)
	return nil
}

type recordingAudit struct {
	entries []audit.Entry
}

func (r *recordingAudit) Record(_ context.Context, entry audit.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

type fixture struct {
	service    *bizadmin.Service
	repository *memoryRepository
	sessions   *revokingSessions
	audit      *recordingAudit
}

func newFixture() fixture {
	f := fixture{
		repository: &memoryRepository{},
		sessions:   &revokingSessions{},
		audit:      &recordingAudit{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = bizadmin.NewService(f.repository, f.sessions, f.audit, logger)
	return f
}

func (f fixture) create(t *testing.T, account string) *bizadmin.BusinessAdmin {
	t.Helper()
	admin, err := f.service.Create(context.Background(), bizadmin.CreateInput{
		Account: account, Password: "password1", MerchantDomain: "test.yc365.com",
	})
	require.NoError(t, err)
	return admin
}

// # Tests

/*
TestCreate_Validation rejects malformed input before any write.
*/
func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input bizadmin.CreateInput
	}{
		{"short_account", bizadmin.CreateInput{Account: "ab", Password: "password1", MerchantDomain: "a.com"}},
		{"short_password", bizadmin.CreateInput{Account: "ops", Password: "short", MerchantDomain: "a.com"}},
		{"long_password", bizadmin.CreateInput{Account: "ops", Password: strings.Repeat("p", sec.MaxPasswordBytes+1), MerchantDomain: "a.com"}},
		{"bad_domain", bizadmin.CreateInput{Account: "ops", Password: "password1", MerchantDomain: "not a domain"}},
		{"unknown_permission", bizadmin.CreateInput{Account: "ops", Password: "password1", MerchantDomain: "a.com", Permissions: []sec.Permission{"fly"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.service.Create(context.Background(), tt.input)
			assert.True(t, apperr.IsCode(err, apperr.CodeValidation), "got %v", err)
			assert.Empty(t, f.repository.accounts)
		})
	}
}

/*
TestCreate_DefaultPermissions grants the full bundle when none are given
and honours an explicit empty list.
*/
func TestCreate_DefaultPermissions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	admin := f.create(t, "merchant_ops")
	assert.Equal(t, sec.AllPermissions, admin.Permissions)
	assert.Equal(t, auth.StatusActive, admin.Status)

	restricted, err := f.service.Create(ctx, bizadmin.CreateInput{
		Account: "viewer", Password: "password1", MerchantDomain: "test.yc365.com", Permissions: []sec.Permission{},
	})
	require.NoError(t, err)
	assert.Empty(t, restricted.Permissions)

	_, err = f.service.Create(ctx, bizadmin.CreateInput{Account: "viewer", Password: "password1", MerchantDomain: "test.yc365.com"})
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))

	assert.Len(t, f.audit.entries, 2)
}

/*
TestMutations_RevokeSessions checks which changes sign the administrator out.
*/
func TestMutations_RevokeSessions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.create(t, "merchant_ops")

	require.NoError(t, f.service.ResetPassword(ctx, admin.ID, "another-pass"))
	assert.Equal(t, []string{admin.ID}, f.sessions.revoked)

	updated, err := f.service.UpdatePermissions(ctx, admin.ID, []sec.Permission{sec.PermViewPoints, sec.PermViewAssets, sec.PermViewPoints})
	require.NoError(t, err)
	assert.Equal(t, []sec.Permission{sec.PermViewAssets, sec.PermViewPoints}, updated.Permissions)
	assert.Len(t, f.sessions.revoked, 2)

	_, err = f.service.SetStatus(ctx, admin.ID, auth.StatusActive)
	require.NoError(t, err)
	assert.Len(t, f.sessions.revoked, 2, "enabling keeps sessions")

	disabled, err := f.service.SetStatus(ctx, admin.ID, auth.StatusDisabled)
	require.NoError(t, err)
	assert.Equal(t, auth.StatusDisabled, disabled.Status)
	assert.Len(t, f.sessions.revoked, 3)

	_, err = f.service.SetStatus(ctx, admin.ID, "paused")
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	require.NoError(t, f.service.Delete(ctx, admin.ID))
	assert.Len(t, f.sessions.revoked, 4)

	_, err = f.service.Get(ctx, admin.ID)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

/*
TestList_FiltersAndCounts covers keyword, status and the dashboard counts.
*/
func TestList_FiltersAndCounts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.create(t, "alpha_ops")
	beta := f.create(t, "beta_ops")
	f.create(t, "gamma_finance")

	_, err := f.service.SetStatus(ctx, beta.ID, auth.StatusDisabled)
	require.NoError(t, err)

	page, err := f.service.List(ctx, pagination.Criteria{Params: pagination.Params{Page: 1, PageSize: 10}, Keyword: "OPS"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = f.service.List(ctx, pagination.Criteria{Params: pagination.Params{Page: 1, PageSize: 10}, Status: "disabled"})
	require.NoError(t, err)
	require.Len(t, page.List, 1)
	assert.Equal(t, "beta_ops", page.List[0].Account)

	counts, err := f.service.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, bizadmin.Counts{Total: 3, Active: 2}, counts)
}

/*
TestHandler_CreateEnvelope posts through the router and checks the envelope.
*/
func TestHandler_CreateEnvelope(t *testing.T) {
	f := newFixture()
	server := httptest.NewServer(bizadmin.NewHandler(f.service).Routes())
	defer server.Close()

	body := `{"account":"merchant_ops","password":"password1","merchantDomain":"test.yc365.com","permissions":["view_points"]}`
	response, err := http.Post(server.URL+"/", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusCreated, response.StatusCode)

	var envelope struct {
		Code    int                    `json:"code"`
		Message string                 `json:"message"`
		Data    bizadmin.BusinessAdmin `json:"data"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))
	assert.Equal(t, 0, envelope.Code)
	assert.Equal(t, "success", envelope.Message)
	assert.Equal(t, []sec.Permission{sec.PermViewPoints}, envelope.Data.Permissions)

	missing, err := http.Get(server.URL + "/does-not-exist")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}
