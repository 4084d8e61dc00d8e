// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package points_test

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/merchantdesk/internal/merchant/points"
	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/audit"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

const merchant = "test.yc365.com"

type memoryRepository struct {
	mu          sync.Mutex
	info        points.Info
	usernames   map[string]string
	allocations []*points.Allocation
}

func newRepository(total, used int64) *memoryRepository {
	return &memoryRepository{
		info:      points.NewInfo(total, used),
		usernames: map[string]string{"u1": "user_1", "u2": "user_2"},
	}
}

func (m *memoryRepository) Info(context.Context, string) (points.Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.info, nil
}

func (m *memoryRepository) ListAllocations(_ context.Context, _ string, criteria pagination.Criteria) ([]*points.Allocation, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*points.Allocation
	for _, allocation := range slices.Backward(m.allocations) {
		if criteria.MatchesKeyword(allocation.Username) {
			matched = append(matched, allocation)
		}
	}
	page := pagination.Slice(matched, criteria.Params)
	return page.List, page.Total, nil
}

func (m *memoryRepository) Allocate(_ context.Context, _ string, allocation *points.Allocation, check func(points.Info) error) (points.Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := check(m.info); err != nil {
		return points.Info{}, err
	}
	username, ok := m.usernames[allocation.UserID]
	if !ok {
		return points.Info{}, apperr.NotFound("User")
	}
	allocation.Username = username

	m.info = m.info.Spend(allocation.Points)
	m.allocations = append(m.allocations, allocation)
	return m.info, nil
}

func newService(repository *memoryRepository) *points.Service {
	return points.NewService(repository, audit.Nop{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestAllocate_Insufficient leaves the balance and history untouched.
*/
func TestAllocate_Insufficient(t *testing.T) {
	repository := newRepository(100000, 45000)
	service := newService(repository)
	ctx := context.Background()

	_, _, err := service.Allocate(ctx, merchant, "merchant_ops", points.AllocateInput{UserID: "u1", Points: 60000})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	assert.Contains(t, err.Error(), "insufficient points: remaining 55000")

	info, err := service.Info(ctx, merchant)
	require.NoError(t, err)
	assert.Equal(t, points.NewInfo(100000, 45000), info)
	assert.Empty(t, repository.allocations)
}

/*
TestAllocate_Success spends the balance and records who allocated.
*/
func TestAllocate_Success(t *testing.T) {
	repository := newRepository(100000, 45000)
	service := newService(repository)
	ctx := context.Background()

	allocation, info, err := service.Allocate(ctx, merchant, "merchant_ops", points.AllocateInput{UserID: "u2", Points: 55000, Note: " bonus "})
	require.NoError(t, err)

	assert.Equal(t, "user_2", allocation.Username)
	assert.Equal(t, "merchant_ops", allocation.AllocatedBy)
	assert.Equal(t, "bonus", allocation.Note)
	assert.NotEmpty(t, allocation.ID)
	assert.Equal(t, int64(0), info.RemainingPoints)
	assert.Equal(t, int64(100000), info.UsedPoints)

	_, _, err = service.Allocate(ctx, merchant, "merchant_ops", points.AllocateInput{UserID: "u1", Points: 1})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

/*
TestAllocate_Validation rejects malformed forms before touching storage.
*/
func TestAllocate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input points.AllocateInput
		code  string
	}{
		{"no_user", points.AllocateInput{Points: 10}, apperr.CodeValidation},
		{"zero_points", points.AllocateInput{UserID: "u1"}, apperr.CodeValidation},
		{"negative_points", points.AllocateInput{UserID: "u1", Points: -5}, apperr.CodeValidation},
		{"long_note", points.AllocateInput{UserID: "u1", Points: 1, Note: strings.Repeat("n", points.MaxNoteLength+1)}, apperr.CodeValidation},
		{"unknown_user", points.AllocateInput{UserID: "u404", Points: 1}, apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(newRepository(100, 0))
			_, _, err := service.Allocate(context.Background(), merchant, "ops", tt.input)
			assert.True(t, apperr.IsCode(err, tt.code), "got %v", err)
		})
	}
}

/*
TestListAllocations returns the newest allocation first.
*/
func TestListAllocations(t *testing.T) {
	service := newService(newRepository(1000, 0))
	ctx := context.Background()

	for _, userID := range []string{"u1", "u2", "u1"} {
		_, _, err := service.Allocate(ctx, merchant, "ops", points.AllocateInput{UserID: userID, Points: 10})
		require.NoError(t, err)
	}

	page, err := service.ListAllocations(ctx, merchant, pagination.Criteria{Params: pagination.Params{Page: 1, PageSize: 10}, Keyword: "USER_1"})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
	assert.True(t, page.List[0].AllocatedAt.After(page.List[1].AllocatedAt) || page.List[0].ID > page.List[1].ID)
}
