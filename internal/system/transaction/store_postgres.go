// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/taibuivan/merchantdesk/internal/platform/database/schema"
	"github.com/taibuivan/merchantdesk/internal/platform/dberr"
	"github.com/taibuivan/merchantdesk/internal/platform/postgres"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
	"github.com/taibuivan/merchantdesk/pkg/query"
)

const resourceName = "Transaction"

// withdrawLockKey serializes withdrawals through a transaction-scoped advisory lock.
const withdrawLockKey = 7_301_001

// PostgresRepository implements [Repository] on platform.transaction.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new [PostgresRepository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scan(row pgx.Row) (*Transaction, error) {
	transaction := &Transaction{}
	err := row.Scan(
		&transaction.ID,
		&transaction.Type,
		&transaction.Amount,
		&transaction.WalletAddress,
		&transaction.TxHash,
		&transaction.Status,
		&transaction.CreatedAt,
		&transaction.CompletedAt,
	)
	return transaction, err
}

// List implements [Repository].
func (repository *PostgresRepository) List(ctx context.Context, kind Type, criteria pagination.Criteria) ([]*Transaction, int, error) {
	table := schema.PlatformTransaction

	filter := query.New().
		Eq(table.Type, string(kind)).
		Keyword(criteria.Keyword, table.WalletAddress, table.TxHash).
		EqIf(table.Status, criteria.Status).
		Range(table.CreatedAt, criteria.Range)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, table.Table, filter.Where())
	if err := repository.pool.QueryRow(ctx, countQuery, filter.Args()...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	limit, args := filter.Paged(criteria.Params)
	listQuery := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s DESC%s`,
		query.Select(table.Columns(), table.Amount), table.Table, filter.Where(), table.ID, limit)

	rows, err := repository.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}
	defer rows.Close()

	transactions := []*Transaction{}
	for rows.Next() {
		transaction, err := scan(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceName)
		}
		transactions = append(transactions, transaction)
	}
	return transactions, total, dberr.Wrap(rows.Err(), resourceName)
}

// Create implements [Repository].
func (repository *PostgresRepository) Create(ctx context.Context, transaction *Transaction) error {
	statement, args := insertStatement(transaction)
	_, err := repository.pool.Exec(ctx, statement, args...)
	return dberr.Wrap(err, resourceName)
}

// CreateWithdrawal implements [Repository].
func (repository *PostgresRepository) CreateWithdrawal(ctx context.Context, transaction *Transaction, check func(decimal.Decimal) error) error {
	return postgres.WithTx(ctx, repository.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, withdrawLockKey); err != nil {
			return dberr.Wrap(err, resourceName)
		}

		available, err := available(ctx, tx)
		if err != nil {
			return err
		}
		if err := check(available); err != nil {
			return err
		}

		statement, args := insertStatement(transaction)
		_, err = tx.Exec(ctx, statement, args...)
		return dberr.Wrap(err, resourceName)
	})
}

// Available implements [Repository].
func (repository *PostgresRepository) Available(ctx context.Context) (decimal.Decimal, error) {
	return available(ctx, repository.pool)
}

// DepositVolume implements [Repository].
func (repository *PostgresRepository) DepositVolume(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	table := schema.PlatformTransaction
	statement := fmt.Sprintf(`SELECT COALESCE(SUM(%s), 0)::TEXT FROM %s WHERE %s = $1 AND %s = $2 AND %s >= $3 AND %s < $4`,
		table.Amount, table.Table, table.Type, table.Status, table.CreatedAt, table.CreatedAt)

	var raw string
	if err := repository.pool.QueryRow(ctx, statement, string(TypeDeposit), string(StatusCompleted), from, to).Scan(&raw); err != nil {
		return decimal.Zero, dberr.Wrap(err, resourceName)
	}
	return decimal.NewFromString(raw)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func available(ctx context.Context, db querier) (decimal.Decimal, error) {
	table := schema.PlatformTransaction
	statement := fmt.Sprintf(`SELECT COALESCE(SUM(CASE
		WHEN %[1]s = 'deposit' AND %[2]s = 'completed' THEN %[3]s
		WHEN %[1]s = 'withdraw' AND %[2]s <> 'failed' THEN -%[3]s
		ELSE 0 END), 0)::TEXT FROM %[4]s`,
		table.Type, table.Status, table.Amount, table.Table)

	var raw string
	if err := db.QueryRow(ctx, statement).Scan(&raw); err != nil {
		return decimal.Zero, dberr.Wrap(err, resourceName)
	}
	return decimal.NewFromString(raw)
}

func insertStatement(transaction *Transaction) (string, []any) {
	table := schema.PlatformTransaction
	columns := table.Columns()
	statement := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3::NUMERIC, $4, $5, $6, $7, $8)`,
		table.Table, strings.Join(columns, ", "))

	return statement, []any{
		transaction.ID,
		string(transaction.Type),
		transaction.Amount,
		transaction.WalletAddress,
		transaction.TxHash,
		string(transaction.Status),
		transaction.CreatedAt,
		transaction.CompletedAt,
	}
}
