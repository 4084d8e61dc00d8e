// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package apikey issues and manages a merchant's API credentials.
//
// # Invariants
//
// A merchant holds at most [constants.MaxAPIKeys] keys, disabled ones
// included. Re-enabling a disabled key is also refused when that many keys
// are already active, which only rows written before the cap can reach.
package apikey

import (
	"fmt"
	"time"

	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/constants"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
	"github.com/taibuivan/merchantdesk/internal/platform/validate"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

// Status is the usability state of a key.
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// APIKey is one merchant credential.
type APIKey struct {
	ID         string     `json:"id"`
	Key        string     `json:"key"`
	Name       string     `json:"name"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	Traffic    int64      `json:"traffic"`
	Status     Status     `json:"status"`
}

// Traffic is the usage report of one key.
type Traffic struct {
	Traffic   int64          `json:"traffic"`
	Formatted string         `json:"formatted"`
	Details   TrafficDetails `json:"details"`
}

// TrafficDetails carries the supporting fields of a [Traffic] report.
type TrafficDetails struct {
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
}

const (
	FieldName   = "name"
	FieldStatus = "status"

	// MaxNameLength bounds a key name.
	MaxNameLength = 64

	// AuditEntity is the entity type recorded in the audit trail.
	AuditEntity = "api_key"
)

// ErrLimitReached is reported when a key would become the sixth one.
var ErrLimitReached = apperr.InvariantViolation(
	fmt.Sprintf("A merchant may hold at most %d API keys", constants.MaxAPIKeys))

// Matches applies list criteria to a key. Keys are listed whole, so
// filtering happens on the client.
func (key APIKey) Matches(criteria pagination.Criteria) bool {
	return criteria.MatchesKeyword(key.Name, key.Key) &&
		criteria.MatchesStatus(string(key.Status)) &&
		criteria.MatchesTime(key.CreatedAt)
}

// CountActive returns the number of active keys.
func CountActive(keys []APIKey) int {
	count := 0
	for _, key := range keys {
		if key.Status == StatusActive {
			count++
		}
	}
	return count
}

// CheckCreate rejects a new key once keys already holds the maximum,
// whatever their status.
func CheckCreate(keys []APIKey) error {
	if len(keys) >= constants.MaxAPIKeys {
		return ErrLimitReached
	}
	return CheckActivation(CountActive(keys))
}

// CheckActivation rejects adding one more active key to activeCount.
func CheckActivation(activeCount int) error {
	if activeCount >= constants.MaxAPIKeys {
		return ErrLimitReached
	}
	return nil
}

// ValidateName checks a key name.
func ValidateName(name string) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, MaxNameLength)
	return validator.Err()
}

// GenerateKey returns a key of the form yk_<unix millis>_<32 base62 chars>.
func GenerateKey(now time.Time) (string, error) {
	random, err := sec.RandomString(constants.APIKeyRandomLength)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d_%s", constants.APIKeyPrefix, now.UnixMilli(), random), nil
}
