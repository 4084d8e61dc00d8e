// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package domainconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/merchantdesk/internal/platform/database/schema"
	"github.com/taibuivan/merchantdesk/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on the single-row platform.domainconfig.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new [PostgresRepository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get implements [Repository].
func (repository *PostgresRepository) Get(ctx context.Context) (*DomainConfig, error) {
	table := schema.PlatformDomainConfig
	statement := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = 1`,
		table.MerchantDomain, table.CallbackURL, table.UpdatedAt, table.Table, table.ID)

	config := &DomainConfig{}
	err := repository.pool.QueryRow(ctx, statement).Scan(&config.MerchantDomain, &config.CallbackURL, &config.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &DomainConfig{}, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "Domain config")
	}
	return config, nil
}

// Put implements [Repository].
func (repository *PostgresRepository) Put(ctx context.Context, config *DomainConfig) error {
	table := schema.PlatformDomainConfig
	statement := fmt.Sprintf(`INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s, %[5]s) VALUES (1, $1, $2, $3)
		ON CONFLICT (%[2]s) DO UPDATE SET %[3]s = EXCLUDED.%[3]s, %[4]s = EXCLUDED.%[4]s, %[5]s = EXCLUDED.%[5]s`,
		table.Table, table.ID, table.MerchantDomain, table.CallbackURL, table.UpdatedAt)

	_, err := repository.pool.Exec(ctx, statement, config.MerchantDomain, config.CallbackURL, config.UpdatedAt)
	return dberr.Wrap(err, "Domain config")
}
