// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package customer

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/merchantdesk/internal/platform/database/schema"
	"github.com/taibuivan/merchantdesk/internal/platform/dberr"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
	"github.com/taibuivan/merchantdesk/pkg/query"
)

// PostgresRepository implements [Repository] on merchant.customer and
// merchant.customerorder.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new [PostgresRepository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// userSelect joins the order aggregates onto each user row. Aliases: c, o.
func userSelect() string {
	users, orders := schema.MerchantCustomer, schema.MerchantCustomerOrder
	return fmt.Sprintf(`SELECT c.%s, c.%s, c.%s, c.%s, c.%s, c.%s,
		COUNT(o.%s), COALESCE(SUM(o.%s) FILTER (WHERE o.%s = '%s'), 0)::TEXT
		FROM %s c LEFT JOIN %s o ON o.%s = c.%s`,
		users.ID, users.Username, users.Email, users.Phone, users.RegisteredAt, users.LastActiveAt,
		orders.ID, orders.Amount, orders.Status, OrderCompleted,
		users.Table, orders.Table, orders.UserID, users.ID)
}

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Phone,
		&user.RegisteredAt,
		&user.LastActiveAt,
		&user.OrderCount,
		&user.TotalSpent,
	)
	return user, err
}

func scanOrder(row pgx.Row) (*Order, error) {
	order := &Order{}
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.OrderNo,
		&order.Amount,
		&order.Status,
		&order.CreatedAt,
		&order.CompletedAt,
	)
	return order, err
}

// ListUsers implements [Repository].
func (repository *PostgresRepository) ListUsers(ctx context.Context, merchantDomain string, criteria pagination.Criteria) ([]*User, int, error) {
	table := schema.MerchantCustomer

	filter := query.New().
		Eq("c."+table.MerchantDomain, merchantDomain).
		Keyword(criteria.Keyword, "c."+table.Username, "c."+table.Email, "c."+table.Phone).
		Range("c."+table.RegisteredAt, criteria.Range)

	var total int
	countStatement := fmt.Sprintf(`SELECT COUNT(*) FROM %s c%s`, table.Table, filter.Where())
	if err := repository.pool.QueryRow(ctx, countStatement, filter.Args()...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, userResource)
	}

	limit, args := filter.Paged(criteria.Params)
	listStatement := fmt.Sprintf(`%s%s GROUP BY c.%s ORDER BY c.%s DESC, c.%s%s`,
		userSelect(), filter.Where(), table.ID, table.RegisteredAt, table.ID, limit)

	rows, err := repository.pool.Query(ctx, listStatement, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, userResource)
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, userResource)
		}
		users = append(users, user)
	}
	return users, total, dberr.Wrap(rows.Err(), userResource)
}

// FindUser implements [Repository].
func (repository *PostgresRepository) FindUser(ctx context.Context, merchantDomain, id string) (*User, error) {
	table := schema.MerchantCustomer
	statement := fmt.Sprintf(`%s WHERE c.%s = $1 AND c.%s = $2 GROUP BY c.%s`,
		userSelect(), table.ID, table.MerchantDomain, table.ID)

	user, err := scanUser(repository.pool.QueryRow(ctx, statement, id, merchantDomain))
	if err != nil {
		return nil, dberr.Wrap(err, userResource)
	}
	return user, nil
}

// ListOrders implements [Repository].
func (repository *PostgresRepository) ListOrders(ctx context.Context, merchantDomain, userID string, criteria pagination.Criteria) ([]*Order, int, error) {
	table := schema.MerchantCustomerOrder

	filter := query.New().
		Eq(table.MerchantDomain, merchantDomain).
		EqIf(table.UserID, userID).
		Keyword(criteria.Keyword, table.OrderNo).
		EqIf(table.Status, criteria.Status).
		Range(table.CreatedAt, criteria.Range)

	var total int
	countStatement := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, table.Table, filter.Where())
	if err := repository.pool.QueryRow(ctx, countStatement, filter.Args()...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, orderResource)
	}

	columns := []string{table.ID, table.UserID, table.OrderNo, table.Amount, table.Status, table.CreatedAt, table.CompletedAt}
	limit, args := filter.Paged(criteria.Params)
	listStatement := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s DESC, %s%s`,
		query.Select(columns, table.Amount), table.Table, filter.Where(), table.CreatedAt, table.ID, limit)

	rows, err := repository.pool.Query(ctx, listStatement, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, orderResource)
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, orderResource)
		}
		orders = append(orders, order)
	}
	return orders, total, dberr.Wrap(rows.Err(), orderResource)
}

// CountUsers implements [Repository].
func (repository *PostgresRepository) CountUsers(ctx context.Context, merchantDomain string) (int, error) {
	table := schema.MerchantCustomer
	statement := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, table.Table, table.MerchantDomain)

	var count int
	if err := repository.pool.QueryRow(ctx, statement, merchantDomain).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, userResource)
	}
	return count, nil
}
