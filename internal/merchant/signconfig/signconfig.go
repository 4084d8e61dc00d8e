// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package signconfig manages a merchant's Sign-service endpoints.
//
// # Invariants
//
// Once a merchant has any configuration, exactly one of them is active.
// The first configuration is created active, activation moves the flag
// atomically, and the active configuration can be neither deleted nor
// deactivated. The rule functions in rules.go are shared with the console
// so a screen rejects the same operations before any request is sent.
package signconfig

import (
	"time"

	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

// Config is one Sign-service endpoint.
type Config struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Status filter values. The stored flag is a boolean.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Status names the flag for list filtering.
func (config Config) Status() string {
	if config.IsActive {
		return StatusActive
	}
	return StatusInactive
}

// Matches applies list criteria to a configuration.
func (config Config) Matches(criteria pagination.Criteria) bool {
	return criteria.MatchesKeyword(config.URL, config.Description) &&
		criteria.MatchesStatus(config.Status()) &&
		criteria.MatchesTime(config.CreatedAt)
}

// Input holds the create and update form.
type Input struct {
	URL         string
	Description string
}

// TestResult is the outcome of a connectivity check.
type TestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const (
	FieldURL         = "url"
	FieldDescription = "description"

	// MaxDescriptionLength bounds the description text.
	MaxDescriptionLength = 200
)

// AuditEntity is the entity type recorded in the audit trail.
const AuditEntity = "sign_config"
