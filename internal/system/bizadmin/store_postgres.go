// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bizadmin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/merchantdesk/internal/auth"
	"github.com/taibuivan/merchantdesk/internal/platform/database/schema"
	"github.com/taibuivan/merchantdesk/internal/platform/dberr"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
	"github.com/taibuivan/merchantdesk/pkg/query"
)

const resourceName = "Business admin"

// PostgresRepository implements [Repository] on console.account.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new [PostgresRepository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// scoped starts a filter restricted to the business_admin role.
func scoped() *query.Builder {
	return query.New().Eq(schema.ConsoleAccount.Role, string(sec.RoleBusinessAdmin))
}

// List implements [Repository].
func (repository *PostgresRepository) List(ctx context.Context, criteria pagination.Criteria) ([]*auth.Account, int, error) {
	table := schema.ConsoleAccount

	filter := scoped().
		Keyword(criteria.Keyword, table.Account, table.MerchantDomain).
		EqIf(table.Status, criteria.Status).
		Range(table.CreatedAt, criteria.Range)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, table.Table, filter.Where())
	if err := repository.pool.QueryRow(ctx, countQuery, filter.Args()...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	limit, args := filter.Paged(criteria.Params)
	listQuery := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s DESC%s`,
		strings.Join(table.Columns(), ", "), table.Table, filter.Where(), table.CreatedAt, limit)

	rows, err := repository.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}
	defer rows.Close()

	accounts := []*auth.Account{}
	for rows.Next() {
		account, err := auth.ScanAccount(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceName)
		}
		accounts = append(accounts, account)
	}
	return accounts, total, dberr.Wrap(rows.Err(), resourceName)
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*auth.Account, error) {
	table := schema.ConsoleAccount
	filter := scoped().Eq(table.ID, id)

	statement := fmt.Sprintf(`SELECT %s FROM %s%s`, strings.Join(table.Columns(), ", "), table.Table, filter.Where())
	account, err := auth.ScanAccount(repository.pool.QueryRow(ctx, statement, filter.Args()...))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return account, nil
}

// Create implements [Repository].
func (repository *PostgresRepository) Create(ctx context.Context, account *auth.Account) error {
	table := schema.ConsoleAccount
	columns := table.Columns()
	statement := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		table.Table, strings.Join(columns, ", "), query.Placeholders(1, len(columns)))

	now := time.Now().UTC()
	account.CreatedAt, account.UpdatedAt = now, now

	_, err := repository.pool.Exec(ctx, statement,
		account.ID,
		account.Account,
		account.MerchantDomain,
		account.Role,
		auth.PermissionStrings(account.Permissions),
		account.PasswordHash,
		account.Status,
		account.CreatedAt,
		account.UpdatedAt,
		account.LastLoginAt,
	)
	return dberr.Wrap(err, resourceName)
}

// UpdatePassword implements [Repository].
func (repository *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return repository.updateColumn(ctx, id, schema.ConsoleAccount.PasswordHash, passwordHash)
}

// UpdatePermissions implements [Repository].
func (repository *PostgresRepository) UpdatePermissions(ctx context.Context, id string, permissions []sec.Permission) error {
	return repository.updateColumn(ctx, id, schema.ConsoleAccount.Permissions, auth.PermissionStrings(permissions))
}

// UpdateStatus implements [Repository].
func (repository *PostgresRepository) UpdateStatus(ctx context.Context, id string, status auth.Status) error {
	return repository.updateColumn(ctx, id, schema.ConsoleAccount.Status, string(status))
}

func (repository *PostgresRepository) updateColumn(ctx context.Context, id, column string, value any) error {
	table := schema.ConsoleAccount
	statement := fmt.Sprintf(`UPDATE %s SET %s = $3, %s = NOW() WHERE %s = $1 AND %s = $2`,
		table.Table, column, table.UpdatedAt, table.ID, table.Role)

	tag, err := repository.pool.Exec(ctx, statement, id, string(sec.RoleBusinessAdmin), value)
	if err != nil {
		return dberr.Wrap(err, resourceName)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceName)
	}
	return nil
}

// Delete implements [Repository].
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	table := schema.ConsoleAccount
	statement := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, table.Table, table.ID, table.Role)

	tag, err := repository.pool.Exec(ctx, statement, id, string(sec.RoleBusinessAdmin))
	if err != nil {
		return dberr.Wrap(err, resourceName)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceName)
	}
	return nil
}

// Count implements [Repository].
func (repository *PostgresRepository) Count(ctx context.Context) (Counts, error) {
	table := schema.ConsoleAccount
	statement := fmt.Sprintf(`SELECT COUNT(*), COUNT(*) FILTER (WHERE %s = $2) FROM %s WHERE %s = $1`,
		table.Status, table.Table, table.Role)

	var counts Counts
	err := repository.pool.QueryRow(ctx, statement, string(sec.RoleBusinessAdmin), string(auth.StatusActive)).
		Scan(&counts.Total, &counts.Active)
	return counts, dberr.Wrap(err, resourceName)
}
