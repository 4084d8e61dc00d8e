// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/merchantdesk/internal/platform/database/schema"
	"github.com/taibuivan/merchantdesk/internal/platform/dberr"
	"github.com/taibuivan/merchantdesk/internal/platform/postgres"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
	"github.com/taibuivan/merchantdesk/pkg/query"
)

const resourceName = "Event"

// PostgresRepository implements [Repository] on merchant.event.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new [PostgresRepository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func selectColumns() string {
	table := schema.MerchantEvent
	columns := []string{
		table.ID, table.Name, table.Description, table.Type, table.Status, table.StartTime, table.EndTime,
		table.TargetAmount, table.CurrentAmount, table.RewardPoints, table.Liquidity,
		table.FinalAmount, table.FinalPoints, table.CreatedAt,
	}
	return query.Select(columns, table.TargetAmount, table.CurrentAmount, table.Liquidity, table.FinalAmount)
}

func scan(row pgx.Row) (*Event, error) {
	event := &Event{}
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.Type,
		&event.Status,
		&event.StartTime,
		&event.EndTime,
		&event.TargetAmount,
		&event.CurrentAmount,
		&event.RewardPoints,
		&event.Liquidity,
		&event.FinalAmount,
		&event.FinalPoints,
		&event.CreatedAt,
	)
	return event, err
}

// List implements [Repository].
func (repository *PostgresRepository) List(ctx context.Context, merchantDomain string, criteria pagination.Criteria) ([]*Event, int, error) {
	table := schema.MerchantEvent

	filter := query.New().
		Eq(table.MerchantDomain, merchantDomain).
		Keyword(criteria.Keyword, table.Name, table.Description).
		EqIf(table.Status, criteria.Status).
		Range(table.StartTime, criteria.Range)

	var total int
	countStatement := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, table.Table, filter.Where())
	if err := repository.pool.QueryRow(ctx, countStatement, filter.Args()...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	limit, args := filter.Paged(criteria.Params)
	listStatement := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s DESC, %s%s`,
		selectColumns(), table.Table, filter.Where(), table.StartTime, table.ID, limit)

	rows, err := repository.pool.Query(ctx, listStatement, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		event, err := scan(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceName)
		}
		events = append(events, event)
	}
	return events, total, dberr.Wrap(rows.Err(), resourceName)
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(ctx context.Context, merchantDomain, id string) (*Event, error) {
	table := schema.MerchantEvent
	statement := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		selectColumns(), table.Table, table.ID, table.MerchantDomain)

	event, err := scan(repository.pool.QueryRow(ctx, statement, id, merchantDomain))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return event, nil
}

// Create implements [Repository].
func (repository *PostgresRepository) Create(ctx context.Context, merchantDomain string, event *Event) error {
	table := schema.MerchantEvent
	columns := []string{
		table.ID, table.MerchantDomain, table.Name, table.Description, table.Type, table.Status,
		table.StartTime, table.EndTime, table.TargetAmount, table.CurrentAmount, table.RewardPoints,
		table.Liquidity, table.CreatedAt, table.UpdatedAt,
	}
	statement := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::NUMERIC, $10::NUMERIC, $11, $12::NUMERIC, $13, $13)`,
		table.Table, strings.Join(columns, ", "))

	_, err := repository.pool.Exec(ctx, statement,
		event.ID,
		merchantDomain,
		event.Name,
		event.Description,
		string(event.Type),
		string(event.Status),
		event.StartTime,
		event.EndTime,
		event.TargetAmount,
		event.CurrentAmount,
		event.RewardPoints,
		event.Liquidity,
		event.CreatedAt,
	)
	return dberr.Wrap(err, resourceName)
}

// Modify implements [Repository].
func (repository *PostgresRepository) Modify(ctx context.Context, merchantDomain, id string, change func(event *Event) error) (*Event, error) {
	table := schema.MerchantEvent

	var modified *Event
	err := postgres.WithTx(ctx, repository.pool, func(tx pgx.Tx) error {
		lockStatement := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2 FOR UPDATE`,
			selectColumns(), table.Table, table.ID, table.MerchantDomain)

		event, err := scan(tx.QueryRow(ctx, lockStatement, id, merchantDomain))
		if err != nil {
			return dberr.Wrap(err, resourceName)
		}

		if err := change(event); err != nil {
			return err
		}

		updateStatement := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2::NUMERIC, %s = $3::NUMERIC, %s = $4, %s = $5 WHERE %s = $6`,
			table.Table, table.Status, table.Liquidity, table.FinalAmount, table.FinalPoints, table.UpdatedAt, table.ID)
		_, err = tx.Exec(ctx, updateStatement,
			string(event.Status),
			event.Liquidity,
			event.FinalAmount,
			event.FinalPoints,
			time.Now().UTC(),
			event.ID,
		)
		if err != nil {
			return dberr.Wrap(err, resourceName)
		}

		modified = event
		return nil
	})
	return modified, err
}
