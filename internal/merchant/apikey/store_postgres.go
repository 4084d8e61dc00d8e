// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apikey

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/merchantdesk/internal/platform/database/schema"
	"github.com/taibuivan/merchantdesk/internal/platform/dberr"
	"github.com/taibuivan/merchantdesk/internal/platform/postgres"
)

const resourceName = "API key"

// PostgresRepository implements [Repository] on merchant.apikey.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new [PostgresRepository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func list(ctx context.Context, db queryer, merchantDomain string, lock bool) ([]APIKey, error) {
	table := schema.MerchantAPIKey
	statement := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s, %s`,
		table.ID, table.Key, table.Name, table.CreatedAt, table.LastUsedAt, table.Traffic, table.Status,
		table.Table, table.MerchantDomain, table.CreatedAt, table.ID)
	if lock {
		statement += " FOR UPDATE"
	}

	rows, err := db.Query(ctx, statement, merchantDomain)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	defer rows.Close()

	keys := []APIKey{}
	for rows.Next() {
		var key APIKey
		if err := rows.Scan(&key.ID, &key.Key, &key.Name, &key.CreatedAt, &key.LastUsedAt, &key.Traffic, &key.Status); err != nil {
			return nil, dberr.Wrap(err, resourceName)
		}
		keys = append(keys, key)
	}
	return keys, dberr.Wrap(rows.Err(), resourceName)
}

// List implements [Repository].
func (repository *PostgresRepository) List(ctx context.Context, merchantDomain string) ([]APIKey, error) {
	return list(ctx, repository.pool, merchantDomain, false)
}

// Apply implements [Repository].
func (repository *PostgresRepository) Apply(ctx context.Context, merchantDomain string, decide func([]APIKey) (Plan, error)) error {
	table := schema.MerchantAPIKey

	return postgres.WithTx(ctx, repository.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, table.Table+":"+merchantDomain); err != nil {
			return dberr.Wrap(err, resourceName)
		}

		current, err := list(ctx, tx, merchantDomain, true)
		if err != nil {
			return err
		}

		plan, err := decide(current)
		if err != nil {
			return err
		}

		if plan.DeleteID != "" {
			statement := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, table.Table, table.MerchantDomain, table.ID)
			if _, err := tx.Exec(ctx, statement, merchantDomain, plan.DeleteID); err != nil {
				return dberr.Wrap(err, resourceName)
			}
		}

		if key := plan.Update; key != nil {
			statement := fmt.Sprintf(`UPDATE %s SET %s = $3, %s = $4, %s = $5, %s = NOW() WHERE %s = $1 AND %s = $2`,
				table.Table, table.Key, table.Name, table.Status, table.UpdatedAt, table.MerchantDomain, table.ID)
			if _, err := tx.Exec(ctx, statement, merchantDomain, key.ID, key.Key, key.Name, string(key.Status)); err != nil {
				return dberr.Wrap(err, resourceName)
			}
		}

		if key := plan.Insert; key != nil {
			statement := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
				table.Table, strings.Join(table.Columns(), ", "))
			if _, err := tx.Exec(ctx, statement, key.ID, merchantDomain, key.Key, key.Name, string(key.Status),
				key.Traffic, key.LastUsedAt, key.CreatedAt); err != nil {
				return dberr.Wrap(err, resourceName)
			}
		}

		return nil
	})
}
