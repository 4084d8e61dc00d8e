// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/audit"
	"github.com/taibuivan/merchantdesk/internal/platform/validate"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
	"github.com/taibuivan/merchantdesk/pkg/uuid"
)

// Service implements event use cases.
type Service struct {
	repository Repository
	audit      audit.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service].
func NewService(repository Repository, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repository: repository, audit: recorder, logger: logger, now: time.Now}
}

// List returns one page of events.
func (service *Service) List(ctx context.Context, merchantDomain string, criteria pagination.Criteria) (pagination.Page[*Event], error) {
	events, total, err := service.repository.List(ctx, merchantDomain, criteria)
	if err != nil {
		return pagination.Page[*Event]{}, fmt.Errorf("event_service_list_failed: %w", err)
	}
	return pagination.NewPage(events, total, criteria.Params), nil
}

// Get returns one event.
func (service *Service) Get(ctx context.Context, merchantDomain, id string) (*Event, error) {
	event, err := service.repository.FindByID(ctx, merchantDomain, id)
	if err != nil {
		return nil, service.wrap("get", err)
	}
	return event, nil
}

// CreateInput holds the event form.
type CreateInput struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Type         Type      `json:"type"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	TargetAmount string    `json:"targetAmount"`
	RewardPoints int64     `json:"rewardPoints"`
}

// Validate checks the form and returns the parsed target amount.
func (input CreateInput) Validate() (decimal.Decimal, error) {
	target, parseErr := decimal.NewFromString(input.TargetAmount)

	types := make([]string, len(Types))
	for i, t := range Types {
		types[i] = string(t)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength).
		MaxLen(FieldDescription, input.Description, MaxDescriptionLength).
		OneOf(FieldType, string(input.Type), types...).
		Custom(FieldStartTime, input.StartTime.IsZero(), "Required").
		Custom(FieldEndTime, !input.EndTime.After(input.StartTime), "Must be after the start time").
		Custom(FieldTargetAmount, parseErr != nil || target.IsNegative(), "Must be a non-negative amount").
		Min(FieldRewardPoints, input.RewardPoints, 0)
	return target, validator.Err()
}

/*
Create registers a new active event.

Returns:
  - *Event: The stored event
  - error: ValidationError, or storage failures
*/
func (service *Service) Create(ctx context.Context, merchantDomain string, input CreateInput) (*Event, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	if input.TargetAmount == "" {
		input.TargetAmount = "0"
	}

	target, err := input.Validate()
	if err != nil {
		return nil, err
	}

	event := &Event{
		ID:            uuid.New(),
		Name:          input.Name,
		Description:   input.Description,
		Type:          input.Type,
		Status:        StatusActive,
		StartTime:     input.StartTime.UTC(),
		EndTime:       input.EndTime.UTC(),
		TargetAmount:  target.String(),
		CurrentAmount: "0",
		RewardPoints:  input.RewardPoints,
		Liquidity:     "0",
		CreatedAt:     service.now().UTC(),
	}
	if err := service.repository.Create(ctx, merchantDomain, event); err != nil {
		return nil, service.wrap("create", err)
	}

	audit.Write(ctx, service.audit, audit.Entry{Action: "event.create", EntityType: AuditEntity, EntityID: event.ID, After: event})
	service.logger.Info("event_created", slog.String("id", event.ID), slog.String("type", string(event.Type)))
	return event, nil
}

// SettleInput holds the settlement form.
type SettleInput struct {
	FinalAmount string `json:"finalAmount"`
	FinalPoints int64  `json:"finalPoints"`
}

// Settle moves an active event to settled with its final figures.
func (service *Service) Settle(ctx context.Context, merchantDomain, id string, input SettleInput) (*Event, error) {
	amount, parseErr := decimal.NewFromString(strings.TrimSpace(input.FinalAmount))

	validator := &validate.Validator{}
	validator.Custom(FieldFinalAmount, parseErr != nil || amount.IsNegative(), "Must be a non-negative amount").
		Min(FieldFinalPoints, input.FinalPoints, 0)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.modify(ctx, merchantDomain, id, "event.settle", func(event *Event) error {
		return Settle(event, amount, input.FinalPoints)
	})
}

// End moves an active event to ended.
func (service *Service) End(ctx context.Context, merchantDomain, id string) (*Event, error) {
	return service.modify(ctx, merchantDomain, id, "event.end", End)
}

// LiquidityInput holds the liquidity form.
type LiquidityInput struct {
	Action LiquidityAction `json:"action"`
	Amount string          `json:"amount"`
}

// AdjustLiquidity adds to or removes from an active event's liquidity.
func (service *Service) AdjustLiquidity(ctx context.Context, merchantDomain, id string, input LiquidityInput) (*Event, error) {
	validator := &validate.Validator{}
	validator.OneOf(FieldAction, string(input.Action), string(LiquidityAdd), string(LiquidityRemove)).
		Amount(FieldAmount, input.Amount)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	amount := decimal.RequireFromString(input.Amount)
	return service.modify(ctx, merchantDomain, id, "event.liquidity", func(event *Event) error {
		return AdjustLiquidity(event, input.Action, amount)
	})
}

func (service *Service) modify(ctx context.Context, merchantDomain, id, action string, change func(*Event) error) (*Event, error) {
	var before Event
	event, err := service.repository.Modify(ctx, merchantDomain, id, func(event *Event) error {
		before = *event
		return change(event)
	})
	if err != nil {
		return nil, service.wrap(strings.TrimPrefix(action, "event."), err)
	}

	audit.Write(ctx, service.audit, audit.Entry{Action: action, EntityType: AuditEntity, EntityID: id, Before: before, After: event})
	service.logger.Info("event_updated",
		slog.String("id", id),
		slog.String("action", action),
		slog.String("status", string(event.Status)),
	)
	return event, nil
}

func (service *Service) wrap(operation string, err error) error {
	if apperr.IsAppError(err) {
		return err
	}
	return fmt.Errorf("event_service_%s_failed: %w", operation, err)
}

