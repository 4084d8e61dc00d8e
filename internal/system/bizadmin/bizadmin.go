// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package bizadmin lets system administrators manage business administrator
// accounts: creation, password resets, permission bundles and status.
//
// # Architecture
//
// Business administrators are rows of console.account with the
// business_admin role. Any change that alters what a live token may do
// (password, permissions, status, deletion) revokes the account's sessions.
package bizadmin

import (
	"time"

	"github.com/taibuivan/merchantdesk/internal/auth"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
)

// AuditEntity is the entity type recorded in the audit trail.
const AuditEntity = "business_admin"

// BusinessAdmin is the public projection of a business administrator account.
type BusinessAdmin struct {
	ID             string           `json:"id"`
	Account        string           `json:"account"`
	MerchantDomain string           `json:"merchantDomain"`
	Permissions    []sec.Permission `json:"permissions"`
	Status         auth.Status      `json:"status"`
	CreatedAt      time.Time        `json:"createdAt"`
	LastLoginAt    *time.Time       `json:"lastLoginAt,omitempty"`
}

// FromAccount projects a stored account.
func FromAccount(account *auth.Account) BusinessAdmin {
	return BusinessAdmin{
		ID:             account.ID,
		Account:        account.Account,
		MerchantDomain: account.MerchantDomain,
		Permissions:    sec.NormalizePermissions(account.Permissions),
		Status:         account.Status,
		CreatedAt:      account.CreatedAt,
		LastLoginAt:    account.LastLoginAt,
	}
}

// Counts summarises the business administrator population.
type Counts struct {
	Total  int
	Active int
}

// Field names used in validation errors.
const (
	FieldAccount        = "account"
	FieldPassword       = "password"
	FieldNewPassword    = "newPassword"
	FieldMerchantDomain = "merchantDomain"
	FieldPermissions    = "permissions"
	FieldStatus         = "status"
)
