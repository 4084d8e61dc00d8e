// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/merchantdesk/internal/merchant/event"
	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/audit"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

const merchant = "test.yc365.com"

type memoryRepository struct {
	mu     sync.Mutex
	events map[string]event.Event
}

func (m *memoryRepository) List(_ context.Context, _ string, criteria pagination.Criteria) ([]*event.Event, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*event.Event
	for _, stored := range m.events {
		if criteria.MatchesKeyword(stored.Name, stored.Description) && criteria.MatchesStatus(string(stored.Status)) {
			copied := stored
			matched = append(matched, &copied)
		}
	}
	page := pagination.Slice(matched, criteria.Params)
	return page.List, page.Total, nil
}

func (m *memoryRepository) FindByID(_ context.Context, _, id string) (*event.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.events[id]
	if !ok {
		return nil, apperr.NotFound("Event")
	}
	return &stored, nil
}

func (m *memoryRepository) Create(_ context.Context, _ string, e *event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.ID] = *e
	return nil
}

func (m *memoryRepository) Modify(_ context.Context, _, id string, change func(*event.Event) error) (*event.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.events[id]
	if !ok {
		return nil, apperr.NotFound("Event")
	}
	if err := change(&stored); err != nil {
		return nil, err
	}
	m.events[id] = stored
	return &stored, nil
}

func newService() (*event.Service, *memoryRepository) {
	repository := &memoryRepository{events: map[string]event.Event{}}
	return event.NewService(repository, audit.Nop{}, slog.New(slog.NewTextHandler(io.Discard, nil))), repository
}

func validInput() event.CreateInput {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return event.CreateInput{
		Name:         "Prediction Market Event",
		Description:  "Predict the BTC price",
		Type:         event.TypePrediction,
		StartTime:    start,
		EndTime:      start.AddDate(0, 1, 0),
		TargetAmount: "1000000",
		RewardPoints: 5000,
	}
}

/*
TestCanTransition only allows leaving the active state.
*/
func TestCanTransition(t *testing.T) {
	statuses := []event.Status{event.StatusActive, event.StatusSettled, event.StatusEnded}
	allowed := map[[2]event.Status]bool{
		{event.StatusActive, event.StatusSettled}: true,
		{event.StatusActive, event.StatusEnded}:   true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			assert.Equal(t, allowed[[2]event.Status{from, to}], event.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

/*
TestCreate_Validation covers the time ordering and amount rules.
*/
func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*event.CreateInput)
	}{
		{"no_name", func(in *event.CreateInput) { in.Name = " " }},
		{"bad_type", func(in *event.CreateInput) { in.Type = "lottery" }},
		{"end_before_start", func(in *event.CreateInput) { in.EndTime = in.StartTime.Add(-time.Hour) }},
		{"end_equals_start", func(in *event.CreateInput) { in.EndTime = in.StartTime }},
		{"negative_target", func(in *event.CreateInput) { in.TargetAmount = "-1" }},
		{"garbage_target", func(in *event.CreateInput) { in.TargetAmount = "lots" }},
		{"negative_reward", func(in *event.CreateInput) { in.RewardPoints = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newService()
			input := validInput()
			tt.mutate(&input)

			_, err := service.Create(context.Background(), merchant, input)
			assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
		})
	}
}

/*
TestSettle_ForwardOnly settles once and rejects every later transition.
*/
func TestSettle_ForwardOnly(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	created, err := service.Create(ctx, merchant, validInput())
	require.NoError(t, err)
	assert.Equal(t, event.StatusActive, created.Status)

	settled, err := service.Settle(ctx, merchant, created.ID, event.SettleInput{FinalAmount: "950000.50", FinalPoints: 4800})
	require.NoError(t, err)
	assert.Equal(t, event.StatusSettled, settled.Status)
	require.NotNil(t, settled.FinalAmount)
	assert.Equal(t, "950000.5", *settled.FinalAmount)
	assert.Equal(t, int64(4800), *settled.FinalPoints)

	_, err = service.End(ctx, merchant, created.ID)
	assert.True(t, apperr.IsCode(err, apperr.CodeInvariant))

	_, err = service.Settle(ctx, merchant, created.ID, event.SettleInput{FinalAmount: "1", FinalPoints: 1})
	assert.True(t, apperr.IsCode(err, apperr.CodeInvariant))

	_, err = service.AdjustLiquidity(ctx, merchant, created.ID, event.LiquidityInput{Action: event.LiquidityAdd, Amount: "1"})
	assert.True(t, apperr.IsCode(err, apperr.CodeInvariant))
}

/*
TestAdjustLiquidity adds, removes and refuses to go below zero.
*/
func TestAdjustLiquidity(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	created, err := service.Create(ctx, merchant, validInput())
	require.NoError(t, err)

	updated, err := service.AdjustLiquidity(ctx, merchant, created.ID, event.LiquidityInput{Action: event.LiquidityAdd, Amount: "500.25"})
	require.NoError(t, err)
	assert.Equal(t, "500.25", updated.Liquidity)

	_, err = service.AdjustLiquidity(ctx, merchant, created.ID, event.LiquidityInput{Action: event.LiquidityRemove, Amount: "600"})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	updated, err = service.AdjustLiquidity(ctx, merchant, created.ID, event.LiquidityInput{Action: event.LiquidityRemove, Amount: "500.25"})
	require.NoError(t, err)
	assert.Equal(t, "0", updated.Liquidity)

	_, err = service.AdjustLiquidity(ctx, merchant, created.ID, event.LiquidityInput{Action: "double", Amount: "1"})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	_, err = service.AdjustLiquidity(ctx, merchant, created.ID, event.LiquidityInput{Action: event.LiquidityAdd, Amount: "0"})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

/*
TestAdjustLiquidity_Rule exercises the pure rule without storage.
*/
func TestAdjustLiquidity_Rule(t *testing.T) {
	e := &event.Event{Status: event.StatusActive, Liquidity: "10"}

	require.NoError(t, event.AdjustLiquidity(e, event.LiquidityRemove, decimal.NewFromInt(10)))
	assert.Equal(t, "0", e.Liquidity)

	require.NoError(t, event.End(e))
	assert.Error(t, event.AdjustLiquidity(e, event.LiquidityAdd, decimal.NewFromInt(1)))
}
