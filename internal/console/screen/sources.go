// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package screen

import (
	"context"

	"github.com/taibuivan/merchantdesk/internal/console/fixture"
	"github.com/taibuivan/merchantdesk/internal/console/listmgr"
	"github.com/taibuivan/merchantdesk/internal/dashboard"
	"github.com/taibuivan/merchantdesk/internal/merchant/apikey"
	"github.com/taibuivan/merchantdesk/internal/merchant/asset"
	"github.com/taibuivan/merchantdesk/internal/merchant/customer"
	"github.com/taibuivan/merchantdesk/internal/merchant/event"
	"github.com/taibuivan/merchantdesk/internal/merchant/points"
	"github.com/taibuivan/merchantdesk/internal/merchant/signconfig"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
	"github.com/taibuivan/merchantdesk/internal/system/bizadmin"
	"github.com/taibuivan/merchantdesk/internal/system/domainconfig"
	"github.com/taibuivan/merchantdesk/internal/system/transaction"
)

// Dashboard reads the headline figures of either role.
type Dashboard interface {
	System(ctx context.Context) (*dashboard.SystemStats, error)
	Business(ctx context.Context, merchantDomain string) (*dashboard.BusinessStats, error)
}

// PointsReader reads the merchant points balance.
type PointsReader interface {
	Info(ctx context.Context, merchantDomain string) (points.Info, error)
}

// AssetReader reads the merchant asset balance.
type AssetReader interface {
	Get(ctx context.Context, merchantDomain string) (*asset.Assets, error)
}

// DomainSettings reads and replaces the platform domain configuration.
type DomainSettings interface {
	Get(ctx context.Context) (*domainconfig.DomainConfig, error)
	Put(ctx context.Context, merchantDomain, callbackURL string) (*domainconfig.DomainConfig, error)
}

// KeyOperations are the API key actions outside the list contract.
type KeyOperations interface {
	Regenerate(ctx context.Context, id string) (apikey.APIKey, error)
	Traffic(ctx context.Context, id string) (*apikey.Traffic, error)
}

// SignTester checks a Sign-service URL.
type SignTester interface {
	Test(ctx context.Context, url string) (signconfig.TestResult, error)
}

// Sources is every backend the screens read from. [Offline] and [Remote]
// fill it from the fixture and from the API respectively.
type Sources struct {
	Admins      listmgr.DataSource[bizadmin.BusinessAdmin]
	Deposits    listmgr.DataSource[transaction.Transaction]
	Withdrawals listmgr.DataSource[transaction.Transaction]
	SignConfigs listmgr.DataSource[signconfig.Config]
	APIKeys     listmgr.DataSource[apikey.APIKey]
	Users       listmgr.DataSource[customer.User]
	Orders      listmgr.DataSource[customer.Order]
	UserOrders  func(userID string) listmgr.DataSource[customer.Order]
	Allocations listmgr.DataSource[points.Allocation]
	Events      listmgr.DataSource[event.Event]

	Dashboard Dashboard
	Points    PointsReader
	Assets    AssetReader
	Domain    DomainSettings
	Keys      KeyOperations
	Sign      SignTester

	scope func(role sec.Role) Sources
}

// For returns the sources a session of role works with. Sign-service
// configurations and API keys are served under each role's own API prefix;
// sources without role-specific routes are returned unchanged.
func (s Sources) For(role sec.Role) Sources {
	if s.scope == nil {
		return s
	}
	return s.scope(role)
}

// Offline serves every screen from an in-memory backend.
func Offline(backend *fixture.Backend) Sources {
	return Sources{
		Admins:      backend.Admins,
		Deposits:    backend.Transactions.Kind(transaction.TypeDeposit),
		Withdrawals: backend.Transactions.Kind(transaction.TypeWithdraw),
		SignConfigs: backend.SignConfigs,
		APIKeys:     backend.APIKeys,
		Users:       backend.Users,
		Orders:      backend.Orders,
		UserOrders: func(userID string) listmgr.DataSource[customer.Order] {
			return backend.UserOrders(userID)
		},
		Allocations: backend.Points,
		Events:      backend.Events,

		Dashboard: backend.Dashboard(),
		Points:    backend.Points,
		Assets:    offlineAssets{backend: backend},
		Domain:    backend.DomainConfig(),
		Keys:      backend.APIKeys,
		Sign:      backend.SignConfigs,
	}
}

type offlineAssets struct {
	backend *fixture.Backend
}

func (a offlineAssets) Get(ctx context.Context, _ string) (*asset.Assets, error) {
	return a.backend.Assets(ctx)
}
