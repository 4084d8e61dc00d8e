// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dashboard aggregates the headline figures of both consoles.
//
// Each figure comes from the service that owns it; the sources are queried
// concurrently and the first failure aborts the whole summary.
package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/merchantdesk/internal/merchant/apikey"
	"github.com/taibuivan/merchantdesk/internal/merchant/asset"
	"github.com/taibuivan/merchantdesk/internal/merchant/points"
	"github.com/taibuivan/merchantdesk/internal/system/bizadmin"
)

// SystemStats is the system administrator's dashboard.
type SystemStats struct {
	TotalAdmins   int     `json:"totalAdmins"`
	ActiveAdmins  int     `json:"activeAdmins"`
	TotalAssets   string  `json:"totalAssets"`
	MonthlyChange float64 `json:"monthlyChange"`
}

// BusinessStats is the business administrator's dashboard.
type BusinessStats struct {
	TotalAssets     string `json:"totalAssets"`
	UsedAssets      string `json:"usedAssets"`
	RemainingAssets string `json:"remainingAssets"`
	UserCount       int    `json:"userCount"`
	APIKeyCount     int    `json:"apiKeyCount"`
	TotalPoints     int64  `json:"totalPoints"`
}

// # Sources

// AdminCounter counts business administrators.
type AdminCounter interface {
	Counts(ctx context.Context) (bizadmin.Counts, error)
}

// Treasury reports platform funds.
type Treasury interface {
	Available(ctx context.Context) (decimal.Decimal, error)
	MonthlyChange(ctx context.Context) (float64, error)
}

// AssetReader reads a merchant's balance.
type AssetReader interface {
	Get(ctx context.Context, merchantDomain string) (*asset.Assets, error)
}

// UserCounter counts a merchant's users.
type UserCounter interface {
	CountUsers(ctx context.Context, merchantDomain string) (int, error)
}

// KeyLister lists a merchant's API keys.
type KeyLister interface {
	List(ctx context.Context, merchantDomain string) ([]apikey.APIKey, error)
}

// PointsReader reads a merchant's points balance.
type PointsReader interface {
	Info(ctx context.Context, merchantDomain string) (points.Info, error)
}

// Service builds both dashboards.
type Service struct {
	admins   AdminCounter
	treasury Treasury
	assets   AssetReader
	users    UserCounter
	keys     KeyLister
	points   PointsReader
}

// NewService constructs a new [Service].
func NewService(admins AdminCounter, treasury Treasury, assets AssetReader, users UserCounter, keys KeyLister, points PointsReader) *Service {
	return &Service{admins: admins, treasury: treasury, assets: assets, users: users, keys: keys, points: points}
}

// System returns the system administrator's figures.
func (service *Service) System(ctx context.Context) (*SystemStats, error) {
	stats := &SystemStats{}
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		counts, err := service.admins.Counts(ctx)
		stats.TotalAdmins, stats.ActiveAdmins = counts.Total, counts.Active
		return err
	})
	group.Go(func() error {
		available, err := service.treasury.Available(ctx)
		stats.TotalAssets = available.String()
		return err
	})
	group.Go(func() error {
		change, err := service.treasury.MonthlyChange(ctx)
		stats.MonthlyChange = change
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard_service_system_failed: %w", err)
	}
	return stats, nil
}

// Business returns the figures of one merchant.
func (service *Service) Business(ctx context.Context, merchantDomain string) (*BusinessStats, error) {
	stats := &BusinessStats{}
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		assets, err := service.assets.Get(ctx, merchantDomain)
		if err != nil {
			return err
		}
		stats.TotalAssets = assets.TotalAssets
		stats.UsedAssets = assets.UsedAssets
		stats.RemainingAssets = assets.RemainingAssets
		return nil
	})
	group.Go(func() error {
		count, err := service.users.CountUsers(ctx, merchantDomain)
		stats.UserCount = count
		return err
	})
	group.Go(func() error {
		keys, err := service.keys.List(ctx, merchantDomain)
		stats.APIKeyCount = len(keys)
		return err
	})
	group.Go(func() error {
		info, err := service.points.Info(ctx, merchantDomain)
		stats.TotalPoints = info.RemainingPoints
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard_service_business_failed: %w", err)
	}
	return stats, nil
}
