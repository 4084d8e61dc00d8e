// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/taibuivan/merchantdesk/internal/platform/database/schema"
	"github.com/taibuivan/merchantdesk/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on merchant.asset.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new [PostgresRepository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get implements [Repository]. The remaining amount is computed in NUMERIC.
func (repository *PostgresRepository) Get(ctx context.Context, merchantDomain string) (*Assets, error) {
	table := schema.MerchantAsset
	statement := fmt.Sprintf(`SELECT %[1]s::TEXT, %[2]s::TEXT, (%[1]s - %[2]s)::TEXT, %[3]s FROM %[4]s WHERE %[5]s = $1`,
		table.TotalAssets, table.UsedAssets, table.WalletAddress, table.Table, table.MerchantDomain)

	assets := &Assets{}
	err := repository.pool.QueryRow(ctx, statement, merchantDomain).Scan(
		&assets.TotalAssets,
		&assets.UsedAssets,
		&assets.RemainingAssets,
		&assets.WalletAddress,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return New(decimal.Zero, decimal.Zero, ""), nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "Assets")
	}
	return assets, nil
}
