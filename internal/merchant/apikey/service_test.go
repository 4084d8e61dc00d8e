// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apikey_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/merchantdesk/internal/merchant/apikey"
	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/audit"
)

const merchant = "test.yc365.com"

type memoryRepository struct {
	mu   sync.Mutex
	keys map[string][]apikey.APIKey
}

func newRepository() *memoryRepository {
	return &memoryRepository{keys: map[string][]apikey.APIKey{}}
}

func (m *memoryRepository) List(_ context.Context, merchantDomain string) ([]apikey.APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.keys[merchantDomain]), nil
}

func (m *memoryRepository) Apply(_ context.Context, merchantDomain string, decide func([]apikey.APIKey) (apikey.Plan, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := slices.Clone(m.keys[merchantDomain])
	plan, err := decide(slices.Clone(current))
	if err != nil {
		return err
	}

	if plan.DeleteID != "" {
		current = slices.DeleteFunc(current, func(k apikey.APIKey) bool { return k.ID == plan.DeleteID })
	}
	if plan.Update != nil {
		for i := range current {
			if current[i].ID == plan.Update.ID {
				current[i] = *plan.Update
			}
		}
	}
	if plan.Insert != nil {
		current = append(current, *plan.Insert)
	}

	m.keys[merchantDomain] = current
	return nil
}

func newService(repository *memoryRepository) *apikey.Service {
	return apikey.NewService(repository, audit.Nop{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestCreate_SixthKeyRejected caps the collection at five keys, disabled ones
included.
*/
func TestCreate_SixthKeyRejected(t *testing.T) {
	repository := newRepository()
	service := newService(repository)
	ctx := context.Background()

	var created []*apikey.APIKey
	for i := range 5 {
		key, err := service.Create(ctx, merchant, fmt.Sprintf("key-%d", i))
		require.NoError(t, err)
		created = append(created, key)
	}

	_, err := service.Create(ctx, merchant, "key-6")
	assert.ErrorIs(t, err, apikey.ErrLimitReached)

	_, err = service.SetStatus(ctx, merchant, created[0].ID, apikey.StatusDisabled)
	require.NoError(t, err)

	_, err = service.Create(ctx, merchant, "replacement")
	assert.True(t, apperr.IsCode(err, apperr.CodeInvariant))

	keys, err := service.List(ctx, merchant)
	require.NoError(t, err)
	assert.Len(t, keys, 5)
	assert.Equal(t, 4, apikey.CountActive(keys))

	require.NoError(t, service.Delete(ctx, merchant, created[0].ID))
	_, err = service.Create(ctx, merchant, "replacement")
	assert.NoError(t, err)
}

/*
TestSetStatus_ReactivationRespectsLimit refuses a sixth active key in rows
that already exceed the cap.
*/
func TestSetStatus_ReactivationRespectsLimit(t *testing.T) {
	repository := newRepository()
	service := newService(repository)
	ctx := context.Background()

	for i := range 6 {
		status := apikey.StatusActive
		if i == 0 {
			status = apikey.StatusDisabled
		}
		repository.keys[merchant] = append(repository.keys[merchant], apikey.APIKey{
			ID: fmt.Sprintf("k-%d", i), Name: fmt.Sprintf("key-%d", i), Status: status, CreatedAt: time.Now(),
		})
	}

	_, err := service.SetStatus(ctx, merchant, "k-0", apikey.StatusActive)
	assert.ErrorIs(t, err, apikey.ErrLimitReached)

	// Re-enabling an already active key is not an additional activation.
	_, err = service.SetStatus(ctx, merchant, "k-1", apikey.StatusActive)
	assert.NoError(t, err)

	_, err = service.SetStatus(ctx, merchant, "k-1", "paused")
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	disabled, err := service.SetStatus(ctx, merchant, "k-1", apikey.StatusDisabled)
	require.NoError(t, err)
	assert.Equal(t, apikey.StatusDisabled, disabled.Status)

	_, err = service.SetStatus(ctx, merchant, "k-0", apikey.StatusActive)
	assert.NoError(t, err)
}

/*
TestCreate_Validation rejects empty and oversized names.
*/
func TestCreate_Validation(t *testing.T) {
	service := newService(newRepository())

	tests := []struct {
		name    string
		keyName string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"too_long", strings.Repeat("k", apikey.MaxNameLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), merchant, tt.keyName)
			assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
		})
	}
}

/*
TestRegenerate keeps the identity and replaces the secret.
*/
func TestRegenerate(t *testing.T) {
	service := newService(newRepository())
	ctx := context.Background()

	key, err := service.Create(ctx, merchant, "Production")
	require.NoError(t, err)

	regenerated, err := service.Regenerate(ctx, merchant, key.ID)
	require.NoError(t, err)

	assert.Equal(t, key.ID, regenerated.ID)
	assert.Equal(t, key.Name, regenerated.Name)
	assert.NotEqual(t, key.Key, regenerated.Key)

	_, err = service.Regenerate(ctx, merchant, "missing")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

/*
TestRenameAndDelete covers the remaining mutations.
*/
func TestRenameAndDelete(t *testing.T) {
	service := newService(newRepository())
	ctx := context.Background()

	key, err := service.Create(ctx, merchant, "Production")
	require.NoError(t, err)

	renamed, err := service.Rename(ctx, merchant, key.ID, "  Staging ")
	require.NoError(t, err)
	assert.Equal(t, "Staging", renamed.Name)
	assert.Equal(t, key.Key, renamed.Key)

	require.NoError(t, service.Delete(ctx, merchant, key.ID))
	assert.True(t, apperr.IsCode(service.Delete(ctx, merchant, key.ID), apperr.CodeNotFound))

	keys, err := service.List(ctx, merchant)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

/*
TestTraffic formats the stored byte count.
*/
func TestTraffic(t *testing.T) {
	lastUsed := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	repository := newRepository()
	repository.keys[merchant] = []apikey.APIKey{
		{ID: "k1", Key: "yk_1_abc", Name: "Production", Traffic: 1536, LastUsedAt: &lastUsed, Status: apikey.StatusActive},
	}
	service := newService(repository)

	report, err := service.Traffic(context.Background(), merchant, "k1")
	require.NoError(t, err)
	assert.Equal(t, int64(1536), report.Traffic)
	assert.Equal(t, "1.50 KB", report.Formatted)
	assert.Equal(t, &lastUsed, report.Details.LastUsedAt)

	_, err = service.Traffic(context.Background(), merchant, "k2")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

/*
TestGenerateKey checks the yk_<millis>_<base62> format.
*/
func TestGenerateKey(t *testing.T) {
	now := time.UnixMilli(1767225600000)

	key, err := apikey.GenerateKey(now)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^yk_1767225600000_[0-9A-Za-z]{32}$`), key)

	other, err := apikey.GenerateKey(now)
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}

/*
TestCheckCreate counts every key, not only active ones.
*/
func TestCheckCreate(t *testing.T) {
	keys := make([]apikey.APIKey, 0, 5)
	for i := range 4 {
		keys = append(keys, apikey.APIKey{ID: fmt.Sprint(i), Status: apikey.StatusActive})
	}
	assert.NoError(t, apikey.CheckCreate(keys))

	keys = append(keys, apikey.APIKey{ID: "4", Status: apikey.StatusDisabled})
	assert.ErrorIs(t, apikey.CheckCreate(keys), apikey.ErrLimitReached)
}

/*
TestCheckActivation is the rule shared with the console.
*/
func TestCheckActivation(t *testing.T) {
	assert.NoError(t, apikey.CheckActivation(4))
	assert.True(t, apperr.IsCode(apikey.CheckActivation(5), apperr.CodeInvariant))
}
