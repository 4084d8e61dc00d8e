// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signconfig

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/merchantdesk/internal/platform/database/schema"
	"github.com/taibuivan/merchantdesk/internal/platform/dberr"
	"github.com/taibuivan/merchantdesk/internal/platform/postgres"
)

const resourceName = "Sign service configuration"

// PostgresRepository implements [Repository] on merchant.signconfig.
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

func list(ctx context.Context, db queryer, merchantDomain string, lock bool) ([]Config, error) {
	table := schema.MerchantSignConfig
	statement := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s, %s`,
		table.ID, table.URL, table.Description, table.IsActive, table.CreatedAt, table.UpdatedAt,
		table.Table, table.MerchantDomain, table.CreatedAt, table.ID)
	if lock {
		statement += " FOR UPDATE"
	}

	rows, err := db.Query(ctx, statement, merchantDomain)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	defer rows.Close()

	configs := []Config{}
	for rows.Next() {
		var config Config
		if err := rows.Scan(&config.ID, &config.URL, &config.Description, &config.IsActive, &config.CreatedAt, &config.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, resourceName)
		}
		configs = append(configs, config)
	}
	return configs, dberr.Wrap(rows.Err(), resourceName)
}

// List implements [Repository].
func (repository *PostgresRepository) List(ctx context.Context, merchantDomain string) ([]Config, error) {
	return list(ctx, repository.pool, merchantDomain, false)
}

/*
Apply implements [Repository].

Description: Deactivations are written before activations because the
one-active partial unique index is checked row by row.
*/
func (repository *PostgresRepository) Apply(ctx context.Context, merchantDomain string, decide func([]Config) (Plan, error)) error {
	table := schema.MerchantSignConfig

	return postgres.WithTx(ctx, repository.pool, func(tx pgx.Tx) error {
		// Serializes writers even when the merchant has no rows to lock yet.
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

		updates := append([]Config(nil), plan.Updates...)
		sort.SliceStable(updates, func(i, j int) bool { return !updates[i].IsActive && updates[j].IsActive })

		update := fmt.Sprintf(`UPDATE %s SET %s = $3, %s = $4, %s = $5, %s = $6 WHERE %s = $1 AND %s = $2`,
			table.Table, table.URL, table.Description, table.IsActive, table.UpdatedAt, table.MerchantDomain, table.ID)
		for _, config := range updates {
			if _, err := tx.Exec(ctx, update, merchantDomain, config.ID, config.URL, config.Description, config.IsActive, config.UpdatedAt); err != nil {
				return dberr.Wrap(err, resourceName)
			}
		}

		if plan.Insert != nil {
			statement := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				table.Table, strings.Join(table.Columns(), ", "))
			config := plan.Insert
			if _, err := tx.Exec(ctx, statement, config.ID, merchantDomain, config.URL, config.Description,
				config.IsActive, config.CreatedAt, config.UpdatedAt); err != nil {
				return dberr.Wrap(err, resourceName)
			}
		}

		return nil
	})
}
