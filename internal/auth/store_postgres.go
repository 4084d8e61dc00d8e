// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/merchantdesk/internal/platform/database/schema"
	"github.com/taibuivan/merchantdesk/internal/platform/dberr"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
)

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of [AccountRepository].
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

func selectAccount() string {
	return fmt.Sprintf(`SELECT %s FROM %s`,
		strings.Join(schema.ConsoleAccount.Columns(), ", "), schema.ConsoleAccount.Table)
}

// ScanAccount reads one console.account row in [schema.ConsoleAccount] column order.
func ScanAccount(row pgx.Row) (*Account, error) {
	account := &Account{}
	var permissions []string

	err := row.Scan(
		&account.ID,
		&account.Account,
		&account.MerchantDomain,
		&account.Role,
		&permissions,
		&account.PasswordHash,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}

	account.Permissions = make([]sec.Permission, 0, len(permissions))
	for _, permission := range permissions {
		account.Permissions = append(account.Permissions, sec.Permission(permission))
	}
	return account, nil
}

/*
FindByLogin retrieves the account matching a login attempt.

Description: System administrators are not bound to a merchant, so the
merchant domain only narrows business administrator lookups.

Parameters:
  - ctx: context.Context
  - merchantDomain: string
  - account: string
  - role: sec.Role

Returns:
  - *Account: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByLogin(ctx context.Context, merchantDomain, account string, role sec.Role) (*Account, error) {
	table := schema.ConsoleAccount
	query := selectAccount() + fmt.Sprintf(` WHERE %s = $1 AND %s = $2`, table.Account, table.Role)
	args := []any{account, role}

	if role == sec.RoleBusinessAdmin {
		query += fmt.Sprintf(` AND %s = $3`, table.MerchantDomain)
		args = append(args, merchantDomain)
	}

	found, err := ScanAccount(repository.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, dberr.Wrap(err, "Account")
	}
	return found, nil
}

// FindByID retrieves an account by primary key.
func (repository *PostgresAccountRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	query := selectAccount() + fmt.Sprintf(` WHERE %s = $1`, schema.ConsoleAccount.ID)

	found, err := ScanAccount(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Account")
	}
	return found, nil
}

// Create persists a new account row.
func (repository *PostgresAccountRepository) Create(ctx context.Context, account *Account) error {
	table := schema.ConsoleAccount
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		table.Table, strings.Join(table.Columns(), ", "))

	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		account.ID,
		account.Account,
		account.MerchantDomain,
		account.Role,
		PermissionStrings(account.Permissions),
		account.PasswordHash,
		account.Status,
		account.CreatedAt,
		account.UpdatedAt,
		account.LastLoginAt,
	)
	return dberr.Wrap(err, "Account")
}

// UpdatePassword replaces only the password hash.
func (repository *PostgresAccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	table := schema.ConsoleAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		table.Table, table.PasswordHash, table.UpdatedAt, table.ID)

	tag, err := repository.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return dberr.Wrap(err, "Account")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Account")
	}
	return nil
}

// TouchLastLogin stamps lastloginat.
func (repository *PostgresAccountRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	table := schema.ConsoleAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`, table.Table, table.LastLoginAt, table.ID)

	_, err := repository.pool.Exec(ctx, query, id, at)
	return dberr.Wrap(err, "Account")
}

// PermissionStrings converts permissions for a TEXT[] column.
func PermissionStrings(permissions []sec.Permission) []string {
	out := make([]string, 0, len(permissions))
	for _, permission := range permissions {
		out = append(out, string(permission))
	}
	return out
}
