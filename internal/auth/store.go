// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/merchantdesk/internal/platform/sec"
)

// # Account Data Access

// AccountRepository defines the data access contract for console accounts.
type AccountRepository interface {

	/*
		FindByLogin returns the account matching a login attempt.

		Parameters:
		  - context: context.Context
		  - merchantDomain: string (ignored for system administrators)
		  - account: string
		  - role: sec.Role

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or database errors
	*/
	FindByLogin(context context.Context, merchantDomain, account string, role sec.Role) (*Account, error)

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or database errors
	*/
	FindByID(context context.Context, id string) (*Account, error)

	// Create persists a new account.
	Create(context context.Context, account *Account) error

	// UpdatePassword replaces the password hash.
	UpdatePassword(context context.Context, id, passwordHash string) error

	// TouchLastLogin records a successful login time.
	TouchLastLogin(context context.Context, id string, at time.Time) error
}

// # Session Data Access

// SessionRepository tracks live access token sessions.
type SessionRepository interface {

	/*
		Create registers a session for the account until ttl elapses.

		Parameters:
		  - context: context.Context
		  - sessionID: string (the token jti)
		  - accountID: string
		  - ttl: time.Duration

		Returns:
		  - error: Storage failures
	*/
	Create(context context.Context, sessionID, accountID string, ttl time.Duration) error

	// Exists reports whether the session is still live.
	Exists(context context.Context, sessionID string) (bool, error)

	// Delete removes one session. Deleting a missing session succeeds.
	Delete(context context.Context, sessionID string) error

	// DeleteByAccount removes every session of an account.
	DeleteByAccount(context context.Context, accountID string) error
}
