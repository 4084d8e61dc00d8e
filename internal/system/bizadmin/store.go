// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bizadmin

import (
	"context"

	"github.com/taibuivan/merchantdesk/internal/auth"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

// Repository defines the data access contract for business administrator accounts.
type Repository interface {

	/*
		List returns one page of business administrators.

		Description: keyword matches account or merchant domain, status is an
		exact match and the date range applies to createdat.

		Parameters:
		  - context: context.Context
		  - criteria: pagination.Criteria

		Returns:
		  - []*auth.Account: Rows of the page, newest first
		  - int: Total rows matching the filters
		  - error: Database errors
	*/
	List(context context.Context, criteria pagination.Criteria) ([]*auth.Account, int, error)

	// FindByID returns a business administrator account.
	FindByID(context context.Context, id string) (*auth.Account, error)

	// Create persists a new account. A duplicate account in the same merchant is a Conflict.
	Create(context context.Context, account *auth.Account) error

	// UpdatePassword replaces the password hash.
	UpdatePassword(context context.Context, id, passwordHash string) error

	// UpdatePermissions replaces the permission set.
	UpdatePermissions(context context.Context, id string, permissions []sec.Permission) error

	// UpdateStatus sets the account status.
	UpdateStatus(context context.Context, id string, status auth.Status) error

	// Delete removes the account.
	Delete(context context.Context, id string) error

	// Count returns the total and active population.
	Count(context context.Context) (Counts, error)
}
