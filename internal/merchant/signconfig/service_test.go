// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signconfig_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/merchantdesk/internal/merchant/signconfig"
	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/audit"
)

const merchant = "test.yc365.com"

type memoryRepository struct {
	mu      sync.Mutex
	configs map[string][]signconfig.Config
}

func (m *memoryRepository) List(_ context.Context, merchantDomain string) ([]signconfig.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.configs[merchantDomain]), nil
}

func (m *memoryRepository) Apply(_ context.Context, merchantDomain string, decide func([]signconfig.Config) (signconfig.Plan, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := slices.Clone(m.configs[merchantDomain])
	plan, err := decide(slices.Clone(current))
	if err != nil {
		return err
	}

	if plan.DeleteID != "" {
		current = slices.DeleteFunc(current, func(c signconfig.Config) bool { return c.ID == plan.DeleteID })
	}
	for _, updated := range plan.Updates {
		for i := range current {
			if current[i].ID == updated.ID {
				current[i] = updated
			}
		}
	}
	if plan.Insert != nil {
		current = append(current, *plan.Insert)
	}

	active := 0
	for _, config := range current {
		if config.IsActive {
			active++
		}
	}
	if active > 1 {
		return apperr.Conflict("unique index violated")
	}

	m.configs[merchantDomain] = current
	return nil
}

type stubChecker struct{ result signconfig.TestResult }

func (s stubChecker) Check(context.Context, string) signconfig.TestResult { return s.result }

func newService(repository *memoryRepository) *signconfig.Service {
	return signconfig.NewService(repository, stubChecker{signconfig.TestResult{Success: true, Message: "ok"}},
		audit.Nop{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func activeIDs(configs []signconfig.Config) []string {
	var ids []string
	for _, config := range configs {
		if config.IsActive {
			ids = append(ids, config.ID)
		}
	}
	return ids
}

/*
TestLifecycle walks the first-active, activate and delete rules end to end.
*/
func TestLifecycle(t *testing.T) {
	repository := &memoryRepository{configs: map[string][]signconfig.Config{}}
	service := newService(repository)
	ctx := context.Background()

	first, err := service.Create(ctx, merchant, signconfig.Input{URL: "https://sign-a.example.com", Description: "Primary"})
	require.NoError(t, err)
	assert.True(t, first.IsActive, "first configuration starts active")

	second, err := service.Create(ctx, merchant, signconfig.Input{URL: " https://sign-b.example.com ", Description: "Backup"})
	require.NoError(t, err)
	assert.False(t, second.IsActive)
	assert.Equal(t, "https://sign-b.example.com", second.URL)

	err = service.Delete(ctx, merchant, first.ID)
	assert.True(t, apperr.IsCode(err, apperr.CodeInvariant))

	configs, err := service.List(ctx, merchant)
	require.NoError(t, err)
	assert.Len(t, configs, 2)
	assert.Equal(t, []string{first.ID}, activeIDs(configs))

	activated, err := service.Activate(ctx, merchant, second.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, activeIDs(activated))

	configs, err = service.List(ctx, merchant)
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, activeIDs(configs))

	require.NoError(t, service.Delete(ctx, merchant, first.ID))

	_, err = service.Update(ctx, merchant, first.ID, signconfig.Input{URL: "https://x.example.com", Description: "gone"})
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	updated, err := service.Update(ctx, merchant, second.ID, signconfig.Input{URL: "https://sign-c.example.com", Description: "Moved"})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
	assert.Equal(t, "Moved", updated.Description)
}

/*
TestCreate_MerchantsAreIsolated gives each merchant its own first active configuration.
*/
func TestCreate_MerchantsAreIsolated(t *testing.T) {
	repository := &memoryRepository{configs: map[string][]signconfig.Config{}}
	service := newService(repository)
	ctx := context.Background()

	a, err := service.Create(ctx, "a.example.com", signconfig.Input{URL: "https://a.example.com", Description: "A"})
	require.NoError(t, err)
	b, err := service.Create(ctx, "b.example.com", signconfig.Input{URL: "https://b.example.com", Description: "B"})
	require.NoError(t, err)

	assert.True(t, a.IsActive)
	assert.True(t, b.IsActive)
}

/*
TestHTTPChecker classifies reachable, failing and unreachable services.
*/
func TestHTTPChecker(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer healthy.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	unreachable := httptest.NewServer(http.NotFoundHandler())
	unreachableURL := unreachable.URL
	unreachable.Close()

	checker := signconfig.NewHTTPChecker(time.Second)
	ctx := context.Background()

	assert.True(t, checker.Check(ctx, healthy.URL).Success)
	assert.False(t, checker.Check(ctx, broken.URL).Success)

	result := checker.Check(ctx, unreachableURL)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Connection failed")
}

/*
TestTest rejects a malformed URL but never errors on the check outcome.
*/
func TestTest(t *testing.T) {
	service := newService(&memoryRepository{configs: map[string][]signconfig.Config{}})

	_, err := service.Test(context.Background(), "not a url")
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	result, err := service.Test(context.Background(), "https://sign.example.com")
	require.NoError(t, err)
	assert.True(t, result.Success)
}
