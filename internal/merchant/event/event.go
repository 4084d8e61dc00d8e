// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package event manages promotional events: creation, settlement, ending
// and liquidity adjustments.
//
// # Lifecycle
//
// Every event starts active. It leaves that state exactly once, either
// settled with final figures or ended without them. Liquidity may only be
// adjusted while the event is active and never drops below zero.
package event

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
)

// Type classifies an event.
type Type string

const (
	TypePrediction Type = "prediction"
	TypeTrading    Type = "trading"
	TypeReferral   Type = "referral"
	TypeLiquidity  Type = "liquidity"
	TypeOther      Type = "other"
)

// Types lists every event type.
var Types = []Type{TypePrediction, TypeTrading, TypeReferral, TypeLiquidity, TypeOther}

// Status is the lifecycle state of an event.
type Status string

const (
	StatusActive  Status = "active"
	StatusSettled Status = "settled"
	StatusEnded   Status = "ended"
)

// LiquidityAction is the direction of a liquidity adjustment.
type LiquidityAction string

const (
	LiquidityAdd    LiquidityAction = "add"
	LiquidityRemove LiquidityAction = "remove"
)

// Event is one promotional campaign. Amounts are decimal strings.
type Event struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Type          Type      `json:"type"`
	Status        Status    `json:"status"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	TargetAmount  string    `json:"targetAmount"`
	CurrentAmount string    `json:"currentAmount"`
	RewardPoints  int64     `json:"rewardPoints"`
	Liquidity     string    `json:"liquidity"`
	FinalAmount   *string   `json:"finalAmount,omitempty"`
	FinalPoints   *int64    `json:"finalPoints,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

const (
	FieldName         = "name"
	FieldDescription  = "description"
	FieldType         = "type"
	FieldStartTime    = "startTime"
	FieldEndTime      = "endTime"
	FieldTargetAmount = "targetAmount"
	FieldRewardPoints = "rewardPoints"
	FieldFinalAmount  = "finalAmount"
	FieldFinalPoints  = "finalPoints"
	FieldAction       = "action"
	FieldAmount       = "amount"

	MaxNameLength        = 100
	MaxDescriptionLength = 1000

	// AuditEntity is the entity type recorded in the audit trail.
	AuditEntity = "event"
)

// # Rules

// CanTransition reports whether an event may move from one status to another.
func CanTransition(from, to Status) bool {
	return from == StatusActive && (to == StatusSettled || to == StatusEnded)
}

func transition(event *Event, to Status) error {
	if !CanTransition(event.Status, to) {
		return apperr.InvariantViolation(fmt.Sprintf("Event cannot move from %s to %s", event.Status, to))
	}
	event.Status = to
	return nil
}

// Settle closes an active event with its final figures.
func Settle(event *Event, finalAmount decimal.Decimal, finalPoints int64) error {
	if err := transition(event, StatusSettled); err != nil {
		return err
	}
	amount := finalAmount.String()
	event.FinalAmount = &amount
	event.FinalPoints = &finalPoints
	return nil
}

// End closes an active event without final figures.
func End(event *Event) error {
	return transition(event, StatusEnded)
}

// AdjustLiquidity adds to or removes from the event's liquidity.
func AdjustLiquidity(event *Event, action LiquidityAction, amount decimal.Decimal) error {
	if event.Status != StatusActive {
		return apperr.InvariantViolation("Liquidity can only be adjusted on an active event")
	}

	current, err := decimal.NewFromString(event.Liquidity)
	if err != nil {
		current = decimal.Zero
	}

	switch action {
	case LiquidityAdd:
		current = current.Add(amount)
	case LiquidityRemove:
		if amount.GreaterThan(current) {
			return apperr.ValidationError(
				fmt.Sprintf("insufficient liquidity: current %s", current.String()),
				apperr.FieldError{Field: FieldAmount, Message: "exceeds current liquidity"},
			)
		}
		current = decimal.Max(current.Sub(amount), decimal.Zero)
	default:
		return apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: FieldAction, Message: "Must be one of: add, remove"})
	}

	event.Liquidity = current.String()
	return nil
}
