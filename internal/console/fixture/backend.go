// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package fixture is the console's offline backend.

Every collection lives in memory behind a [Table] and is seeded with the same
rows on each start. Writes go through the domain rule helpers the API uses,
so an offline session refuses exactly what the server would refuse. Filtering
and paging use [pagination.Criteria], which keeps offline results identical
to a server query with the same criteria.

Latency and failure injection are set through [Options].
*/
package fixture

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taibuivan/merchantdesk/internal/dashboard"
	"github.com/taibuivan/merchantdesk/internal/merchant/apikey"
	"github.com/taibuivan/merchantdesk/internal/merchant/asset"
	"github.com/taibuivan/merchantdesk/internal/merchant/customer"
	"github.com/taibuivan/merchantdesk/internal/merchant/event"
	"github.com/taibuivan/merchantdesk/internal/merchant/points"
	"github.com/taibuivan/merchantdesk/internal/merchant/signconfig"
	"github.com/taibuivan/merchantdesk/internal/system/bizadmin"
	"github.com/taibuivan/merchantdesk/internal/system/domainconfig"
	"github.com/taibuivan/merchantdesk/internal/system/transaction"
)

// Collection names reported in [Op].
const (
	CollectionAdmins       = "business_admins"
	CollectionTransactions = "transactions"
	CollectionSignConfigs  = "sign_configs"
	CollectionAPIKeys      = "api_keys"
	CollectionUsers        = "users"
	CollectionOrders       = "orders"
	CollectionAllocations  = "points_allocations"
	CollectionEvents       = "events"
	CollectionDomain       = "domain_config"
	CollectionAssets       = "assets"
)

// Backend holds every offline collection.
type Backend struct {
	Admins       *Admins
	Transactions *Transactions
	SignConfigs  *SignConfigs
	APIKeys      *APIKeys
	Users        ReadOnly[customer.User]
	Orders       ReadOnly[customer.Order]
	Points       *Points
	Events       *Events
	Domain       *DomainConfigs

	options *Options
	assets  asset.Assets
}

// New seeds a backend. Options are shared by every collection.
func New(options Options) *Backend {
	shared := &options
	data := newSeed(shared.now().UTC())

	users := newTable(CollectionUsers, "User", shared, func(user customer.User) string { return user.ID }, matchUser, data.users)

	return &Backend{
		options: shared,
		assets:  data.assets,

		Admins: &Admins{newTable(CollectionAdmins, "Business admin", shared,
			func(admin bizadmin.BusinessAdmin) string { return admin.ID }, matchAdmin, data.admins)},
		Transactions: &Transactions{newTable(CollectionTransactions, "Transaction", shared,
			func(item transaction.Transaction) string { return item.ID }, matchTransaction, data.transactions)},
		SignConfigs: &SignConfigs{newTable(CollectionSignConfigs, signconfig.MessageNotFound, shared,
			func(config signconfig.Config) string { return config.ID }, matchSignConfig, data.signConfigs)},
		APIKeys: &APIKeys{newTable(CollectionAPIKeys, "API key", shared,
			func(key apikey.APIKey) string { return key.ID }, matchAPIKey, data.keys)},
		Users: ReadOnly[customer.User]{users},
		Orders: ReadOnly[customer.Order]{newTable(CollectionOrders, "Order", shared,
			func(order customer.Order) string { return order.ID }, matchOrder, data.orders)},
		Points: &Points{
			Table: newTable(CollectionAllocations, "Points", shared,
				func(allocation points.Allocation) string { return allocation.ID }, matchAllocation, data.allocations),
			info:  data.points,
			users: users,
			actor: "business_admin",
		},
		Events: &Events{newTable(CollectionEvents, "Event", shared,
			func(item event.Event) string { return item.ID }, matchEvent, data.events)},
		Domain: &DomainConfigs{options: shared, config: data.domain},
	}
}

// UserOrders returns the orders placed by one user.
func (b *Backend) UserOrders(userID string) Filtered[customer.Order] {
	return Filtered[customer.Order]{
		ReadOnly: b.Orders,
		keep:     func(order customer.Order) bool { return order.UserID == userID },
	}
}

// SetActor names the account recorded on new points allocations.
func (b *Backend) SetActor(account string) {
	b.Points.mu.Lock()
	defer b.Points.mu.Unlock()
	if account != "" {
		b.Points.actor = account
	}
}

// Dashboard builds the dashboard service on top of the offline collections.
func (b *Backend) Dashboard() *dashboard.Service {
	merchant := &merchantView{backend: b}
	return dashboard.NewService(b.Admins, b.Transactions, merchant, merchant, b.APIKeys, b.Points)
}

// DomainConfig wraps the offline configuration with the validating service.
func (b *Backend) DomainConfig() *domainconfig.Service {
	return domainconfig.NewService(b.Domain, nil, slog.New(slog.DiscardHandler))
}

// # Merchant View

// merchantView serves the dashboard figures that have no collection of their own.
type merchantView struct {
	backend *Backend
}

// Get returns the seeded asset balance.
func (m *merchantView) Get(ctx context.Context, _ string) (*asset.Assets, error) {
	if err := m.backend.options.enter(ctx, Op{Collection: CollectionAssets, Action: ActionLoad}); err != nil {
		return nil, err
	}
	assets := m.backend.assets
	return &assets, nil
}

// CountUsers returns the number of seeded users.
func (m *merchantView) CountUsers(context.Context, string) (int, error) {
	return m.backend.Users.Len(), nil
}

// Assets returns the seeded merchant balance.
func (b *Backend) Assets(ctx context.Context) (*asset.Assets, error) {
	return (&merchantView{backend: b}).Get(ctx, MerchantDomain)
}

// # Domain Configuration

// DomainConfigs stores the single platform domain configuration.
type DomainConfigs struct {
	mu      sync.RWMutex
	options *Options
	config  domainconfig.DomainConfig
}

// Get returns a copy of the stored configuration.
func (d *DomainConfigs) Get(ctx context.Context) (*domainconfig.DomainConfig, error) {
	if err := d.options.enter(ctx, Op{Collection: CollectionDomain, Action: ActionLoad}); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	config := d.config
	return &config, nil
}

// Put replaces the configuration.
func (d *DomainConfigs) Put(ctx context.Context, config *domainconfig.DomainConfig) error {
	if err := d.options.enter(ctx, Op{Collection: CollectionDomain, Action: ActionUpdate}); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.config = *config
	return nil
}
