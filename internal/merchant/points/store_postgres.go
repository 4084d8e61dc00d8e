// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package points

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/merchantdesk/internal/platform/database/schema"
	"github.com/taibuivan/merchantdesk/internal/platform/dberr"
	"github.com/taibuivan/merchantdesk/internal/platform/postgres"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
	"github.com/taibuivan/merchantdesk/pkg/query"
)

const resourceName = "Points"

// PostgresRepository implements [Repository] on merchant.points and
// merchant.pointsallocation.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new [PostgresRepository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Info implements [Repository].
func (repository *PostgresRepository) Info(ctx context.Context, merchantDomain string) (Info, error) {
	table := schema.MerchantPoints
	statement := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1`,
		table.TotalPoints, table.UsedPoints, table.Table, table.MerchantDomain)

	var total, used int64
	err := repository.pool.QueryRow(ctx, statement, merchantDomain).Scan(&total, &used)
	if errors.Is(err, pgx.ErrNoRows) {
		return NewInfo(0, 0), nil
	}
	if err != nil {
		return Info{}, dberr.Wrap(err, resourceName)
	}
	return NewInfo(total, used), nil
}

// ListAllocations implements [Repository].
func (repository *PostgresRepository) ListAllocations(ctx context.Context, merchantDomain string, criteria pagination.Criteria) ([]*Allocation, int, error) {
	table := schema.MerchantPointsAllocation

	filter := query.New().
		Eq(table.MerchantDomain, merchantDomain).
		Keyword(criteria.Keyword, table.Username).
		Range(table.AllocatedAt, criteria.Range)

	var total int
	countStatement := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, table.Table, filter.Where())
	if err := repository.pool.QueryRow(ctx, countStatement, filter.Args()...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	columns := []string{table.ID, table.UserID, table.Username, table.Points, table.AllocatedAt, table.AllocatedBy, table.Note}
	limit, args := filter.Paged(criteria.Params)
	listStatement := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s DESC, %s DESC%s`,
		strings.Join(columns, ", "), table.Table, filter.Where(), table.AllocatedAt, table.ID, limit)

	rows, err := repository.pool.Query(ctx, listStatement, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}
	defer rows.Close()

	allocations := []*Allocation{}
	for rows.Next() {
		allocation := &Allocation{}
		err := rows.Scan(
			&allocation.ID,
			&allocation.UserID,
			&allocation.Username,
			&allocation.Points,
			&allocation.AllocatedAt,
			&allocation.AllocatedBy,
			&allocation.Note,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceName)
		}
		allocations = append(allocations, allocation)
	}
	return allocations, total, dberr.Wrap(rows.Err(), resourceName)
}

// Allocate implements [Repository].
func (repository *PostgresRepository) Allocate(ctx context.Context, merchantDomain string, allocation *Allocation, check func(Info) error) (Info, error) {
	balance := schema.MerchantPoints
	allocations := schema.MerchantPointsAllocation
	users := schema.MerchantCustomer

	var after Info
	err := postgres.WithTx(ctx, repository.pool, func(tx pgx.Tx) error {
		lockStatement := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1 FOR UPDATE`,
			balance.TotalPoints, balance.UsedPoints, balance.Table, balance.MerchantDomain)

		var total, used int64
		err := tx.QueryRow(ctx, lockStatement, merchantDomain).Scan(&total, &used)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return dberr.Wrap(err, resourceName)
		}

		before := NewInfo(total, used)
		if err := check(before); err != nil {
			return err
		}

		userStatement := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
			users.Username, users.Table, users.ID, users.MerchantDomain)
		if err := tx.QueryRow(ctx, userStatement, allocation.UserID, merchantDomain).Scan(&allocation.Username); err != nil {
			return dberr.Wrap(err, "User")
		}

		updateStatement := fmt.Sprintf(`UPDATE %s SET %s = %s + $1, %s = $2 WHERE %s = $3`,
			balance.Table, balance.UsedPoints, balance.UsedPoints, balance.UpdatedAt, balance.MerchantDomain)
		if _, err := tx.Exec(ctx, updateStatement, allocation.Points, allocation.AllocatedAt, merchantDomain); err != nil {
			return dberr.Wrap(err, resourceName)
		}

		columns := allocations.Columns()
		insertStatement := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
			allocations.Table, strings.Join(columns, ", "), query.Placeholders(1, len(columns)))
		_, err = tx.Exec(ctx, insertStatement,
			allocation.ID,
			merchantDomain,
			allocation.UserID,
			allocation.Username,
			allocation.Points,
			allocation.AllocatedAt,
			allocation.AllocatedBy,
			allocation.Note,
		)
		if err != nil {
			return dberr.Wrap(err, resourceName)
		}

		after = before.Spend(allocation.Points)
		return nil
	})
	return after, err
}
