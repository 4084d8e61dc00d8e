// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package auth implements console sign-in for system and business
// administrators.
//
// # Architecture
//
// Accounts live in console.account. A successful login issues an RS256
// access token whose jti doubles as a session key in Redis; logout deletes
// that key, so a token stops working immediately even before it expires.
package auth

import (
	"time"

	"github.com/taibuivan/merchantdesk/internal/platform/sec"
)

// Status is the lifecycle state of a console account.
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusDisabled
}

// Account is a stored console account of either role.
type Account struct {
	ID             string           `json:"id"`
	Account        string           `json:"account"`
	MerchantDomain string           `json:"merchantDomain"`
	Role           sec.Role         `json:"role"`
	Permissions    []sec.Permission `json:"permissions"`
	PasswordHash   string           `json:"-"`
	Status         Status           `json:"status"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	LastLoginAt    *time.Time       `json:"lastLoginAt,omitempty"`
}

// Identity is the authenticated principal returned to the console.
type Identity struct {
	ID             string           `json:"id"`
	Account        string           `json:"account"`
	Role           sec.Role         `json:"role"`
	MerchantDomain string           `json:"merchantDomain"`
	Permissions    []sec.Permission `json:"permissions"`
	CreatedAt      time.Time        `json:"createdAt"`
	LastLoginAt    *time.Time       `json:"lastLoginAt,omitempty"`
}

// Identity projects the account into its public identity. System
// administrators never carry permissions.
func (account *Account) Identity() Identity {
	permissions := []sec.Permission{}
	if account.Role == sec.RoleBusinessAdmin {
		permissions = sec.NormalizePermissions(account.Permissions)
	}

	return Identity{
		ID:             account.ID,
		Account:        account.Account,
		Role:           account.Role,
		MerchantDomain: account.MerchantDomain,
		Permissions:    permissions,
		CreatedAt:      account.CreatedAt,
		LastLoginAt:    account.LastLoginAt,
	}
}

// Field names used in validation errors.
const (
	FieldMerchantDomain  = "merchantDomain"
	FieldAccount         = "account"
	FieldRole            = "role"
	FieldPassword        = "password"
	FieldOldPassword     = "oldPassword"
	FieldNewPassword     = "newPassword"
	NewPasswordMinLength = 8
)
