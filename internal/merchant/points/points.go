// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package points manages a merchant's loyalty points balance and the
// allocations made from it to individual users.
//
// # Invariants
//
// UsedPoints never exceeds TotalPoints. An allocation larger than the
// remaining balance is rejected without any state change.
package points

import (
	"fmt"
	"time"

	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/validate"
)

// Info is the points balance of one merchant.
type Info struct {
	TotalPoints     int64 `json:"totalPoints"`
	UsedPoints      int64 `json:"usedPoints"`
	RemainingPoints int64 `json:"remainingPoints"`
}

// NewInfo derives the remaining balance.
func NewInfo(total, used int64) Info {
	return Info{TotalPoints: total, UsedPoints: used, RemainingPoints: total - used}
}

// Spend returns the balance after allocating amount.
func (info Info) Spend(amount int64) Info {
	return NewInfo(info.TotalPoints, info.UsedPoints+amount)
}

// Allocation is one grant of points to a user.
type Allocation struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	Points      int64     `json:"points"`
	AllocatedAt time.Time `json:"allocatedAt"`
	AllocatedBy string    `json:"allocatedBy"`
	Note        string    `json:"note"`
}

// AllocateInput holds the allocation form.
type AllocateInput struct {
	UserID string `json:"userId"`
	Points int64  `json:"points"`
	Note   string `json:"note"`
}

const (
	FieldUserID = "userId"
	FieldPoints = "points"
	FieldNote   = "note"

	// MaxNoteLength bounds an allocation note.
	MaxNoteLength = 200

	// AuditEntity is the entity type recorded in the audit trail.
	AuditEntity = "points_allocation"
)

// Validate checks the form fields.
func (input AllocateInput) Validate() error {
	validator := &validate.Validator{}
	validator.Required(FieldUserID, input.UserID).
		Min(FieldPoints, input.Points, 1).
		MaxLen(FieldNote, input.Note, MaxNoteLength)
	return validator.Err()
}

// CheckAllocation rejects allocating more than the remaining balance.
func CheckAllocation(info Info, amount int64) error {
	if amount > info.RemainingPoints {
		return apperr.ValidationError(
			fmt.Sprintf("insufficient points: remaining %d", info.RemainingPoints),
			apperr.FieldError{Field: FieldPoints, Message: "exceeds remaining points"},
		)
	}
	return nil
}
