// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package screen

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/merchantdesk/internal/auth"
	"github.com/taibuivan/merchantdesk/internal/console/listmgr"
	"github.com/taibuivan/merchantdesk/internal/console/resource"
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
	"github.com/taibuivan/merchantdesk/pkg/pagination"
	"github.com/taibuivan/merchantdesk/pkg/pointer"
)

// API paths relative to the client base URL.
const (
	PathSystemDashboard   = "/system-admin/dashboard"
	PathBusinessAdmins    = "/system-admin/business-admins"
	PathDeposits          = "/system-admin/deposits"
	PathWithdraws         = "/system-admin/withdraws"
	PathDomainConfig      = "/system-admin/domain-config"
	PathSystemSignConfigs = "/system-admin/sign-configs"
	PathSystemAPIKeys     = "/system-admin/api-keys"
	PathBusinessDashboard = "/business-admin/dashboard"
	PathSignConfigs       = "/business-admin/sign-configs"
	PathAPIKeys           = "/business-admin/api-keys"
	PathAssets            = "/business-admin/assets"
	PathUsers             = "/business-admin/users"
	PathOrders            = "/business-admin/orders"
	PathPoints            = "/business-admin/points"
	PathEvents            = "/business-admin/events"
)

// Remote serves every screen from the API behind client. Use [Sources.For]
// to reach the system administrator's sign-service and API key routes.
func Remote(client *resource.Client) Sources {
	return remoteFor(client, sec.RoleBusinessAdmin)
}

func remoteFor(client *resource.Client, role sec.Role) Sources {
	signPath, keyPath := PathSignConfigs, PathAPIKeys
	if role == sec.RoleSystemAdmin {
		signPath, keyPath = PathSystemSignConfigs, PathSystemAPIKeys
	}
	signConfigs := &remoteSignConfigs{client: client, path: signPath}
	keys := &remoteAPIKeys{client: client, path: keyPath}

	return Sources{
		Admins:      &remoteAdmins{client: client},
		Deposits:    &remoteLedger{remoteList: remoteList[transaction.Transaction]{client, PathDeposits}, create: "/system-admin/deposit"},
		Withdrawals: &remoteLedger{remoteList: remoteList[transaction.Transaction]{client, PathWithdraws}, create: "/system-admin/withdraw"},
		SignConfigs: signConfigs,
		APIKeys:     keys,
		Users:       remoteList[customer.User]{client, PathUsers},
		Orders:      remoteList[customer.Order]{client, PathOrders},
		UserOrders: func(userID string) listmgr.DataSource[customer.Order] {
			return remoteList[customer.Order]{client, PathUsers + "/" + url.PathEscape(userID) + "/orders"}
		},
		Allocations: &remoteAllocations{remoteList: remoteList[points.Allocation]{client, PathPoints + "/allocations"}},
		Events:      &remoteEvents{remoteList: remoteList[event.Event]{client, PathEvents}},

		Dashboard: remoteDashboard{client: client},
		Points:    remotePoints{client: client},
		Assets:    remoteAssets{client: client},
		Domain:    remoteDomain{client: client},
		Keys:      keys,
		Sign:      signConfigs,

		scope: func(role sec.Role) Sources { return remoteFor(client, role) },
	}
}

func member(base, id string) string {
	return base + "/" + url.PathEscape(id)
}

// # Paged Collections

// remoteList reads a server-paged collection. Writes are not exposed.
type remoteList[T any] struct {
	client *resource.Client
	path   string
}

func (r remoteList[T]) Load(ctx context.Context, criteria pagination.Criteria) (pagination.Page[T], error) {
	return resource.List[T](ctx, r.client, r.path, criteria)
}

func (r remoteList[T]) Create(context.Context, T) (T, error) {
	var zero T
	return zero, listmgr.ErrUnsupported
}

func (r remoteList[T]) Update(context.Context, string, T) (T, error) {
	var zero T
	return zero, listmgr.ErrUnsupported
}

func (r remoteList[T]) Remove(context.Context, string) error {
	return listmgr.ErrUnsupported
}

// loadAll fetches an unpaged collection and applies criteria on the client.
func loadAll[T any](ctx context.Context, client *resource.Client, path string, criteria pagination.Criteria, matches func(T, pagination.Criteria) bool) (pagination.Page[T], error) {
	var rows []T
	if err := client.Get(ctx, path, nil, &rows); err != nil {
		return pagination.Page[T]{}, err
	}

	criteria = criteria.WithDefaults()
	kept := make([]T, 0, len(rows))
	for _, row := range rows {
		if matches(row, criteria) {
			kept = append(kept, row)
		}
	}
	return pagination.Slice(kept, criteria.Params), nil
}

// # Business Admins

type remoteAdmins struct {
	client *resource.Client
}

func (r *remoteAdmins) Load(ctx context.Context, criteria pagination.Criteria) (pagination.Page[bizadmin.BusinessAdmin], error) {
	return resource.List[bizadmin.BusinessAdmin](ctx, r.client, PathBusinessAdmins, criteria)
}

// Create is not offered here; an account needs an initial password, which
// the list entity does not carry.
func (r *remoteAdmins) Create(context.Context, bizadmin.BusinessAdmin) (bizadmin.BusinessAdmin, error) {
	return bizadmin.BusinessAdmin{}, listmgr.ErrUnsupported
}

// Update writes the permission set, then the status.
func (r *remoteAdmins) Update(ctx context.Context, id string, admin bizadmin.BusinessAdmin) (bizadmin.BusinessAdmin, error) {
	body := struct {
		Permissions []sec.Permission `json:"permissions"`
	}{admin.Permissions}
	if err := r.client.Put(ctx, member(PathBusinessAdmins, id)+"/permissions", body, nil); err != nil {
		return bizadmin.BusinessAdmin{}, err
	}
	return r.ToggleStatus(ctx, id, admin)
}

func (r *remoteAdmins) ToggleStatus(ctx context.Context, id string, admin bizadmin.BusinessAdmin) (bizadmin.BusinessAdmin, error) {
	body := struct {
		Status auth.Status `json:"status"`
	}{admin.Status}
	return resource.Do[bizadmin.BusinessAdmin](ctx, r.client, http.MethodPatch, member(PathBusinessAdmins, id)+"/status", body)
}

func (r *remoteAdmins) Remove(ctx context.Context, id string) error {
	return r.client.Delete(ctx, member(PathBusinessAdmins, id), nil)
}

// # Transactions

type remoteLedger struct {
	remoteList[transaction.Transaction]
	create string
}

func (r *remoteLedger) Create(ctx context.Context, item transaction.Transaction) (transaction.Transaction, error) {
	body := struct {
		Amount        string `json:"amount"`
		WalletAddress string `json:"walletAddress"`
	}{item.Amount, item.WalletAddress}
	return resource.Do[transaction.Transaction](ctx, r.client, http.MethodPost, r.create, body)
}

// # Sign Configurations

type remoteSignConfigs struct {
	client *resource.Client
	path   string
}

type configBody struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

func (r *remoteSignConfigs) Load(ctx context.Context, criteria pagination.Criteria) (pagination.Page[signconfig.Config], error) {
	return loadAll(ctx, r.client, r.path, criteria, signconfig.Config.Matches)
}

func (r *remoteSignConfigs) Create(ctx context.Context, config signconfig.Config) (signconfig.Config, error) {
	return resource.Do[signconfig.Config](ctx, r.client, http.MethodPost, r.path, configBody{config.URL, config.Description})
}

// Update edits URL and description. The active flag moves only through SetFlag.
func (r *remoteSignConfigs) Update(ctx context.Context, id string, config signconfig.Config) (signconfig.Config, error) {
	return resource.Do[signconfig.Config](ctx, r.client, http.MethodPut, member(r.path, id), configBody{config.URL, config.Description})
}

func (r *remoteSignConfigs) Remove(ctx context.Context, id string) error {
	return r.client.Delete(ctx, member(r.path, id), nil)
}

func (r *remoteSignConfigs) SetFlag(ctx context.Context, id, flag string) error {
	if flag != FlagActive {
		return fmt.Errorf("%w: %s", listmgr.ErrUnknownFlag, flag)
	}
	return r.client.Post(ctx, member(r.path, id)+"/activate", nil, nil)
}

func (r *remoteSignConfigs) Test(ctx context.Context, target string) (signconfig.TestResult, error) {
	body := struct {
		URL string `json:"url"`
	}{target}
	return resource.Do[signconfig.TestResult](ctx, r.client, http.MethodPost, r.path+"/test", body)
}

// # API Keys

type remoteAPIKeys struct {
	client *resource.Client
	path   string
}

type nameBody struct {
	Name string `json:"name"`
}

func (r *remoteAPIKeys) Load(ctx context.Context, criteria pagination.Criteria) (pagination.Page[apikey.APIKey], error) {
	return loadAll(ctx, r.client, r.path, criteria, apikey.APIKey.Matches)
}

func (r *remoteAPIKeys) Create(ctx context.Context, key apikey.APIKey) (apikey.APIKey, error) {
	return resource.Do[apikey.APIKey](ctx, r.client, http.MethodPost, r.path, nameBody{key.Name})
}

// Update renames a key.
func (r *remoteAPIKeys) Update(ctx context.Context, id string, key apikey.APIKey) (apikey.APIKey, error) {
	return resource.Do[apikey.APIKey](ctx, r.client, http.MethodPatch, member(r.path, id), nameBody{key.Name})
}

func (r *remoteAPIKeys) ToggleStatus(ctx context.Context, id string, key apikey.APIKey) (apikey.APIKey, error) {
	body := struct {
		Status apikey.Status `json:"status"`
	}{key.Status}
	return resource.Do[apikey.APIKey](ctx, r.client, http.MethodPatch, member(r.path, id)+"/status", body)
}

func (r *remoteAPIKeys) Remove(ctx context.Context, id string) error {
	return r.client.Delete(ctx, member(r.path, id), nil)
}

func (r *remoteAPIKeys) Regenerate(ctx context.Context, id string) (apikey.APIKey, error) {
	return resource.Do[apikey.APIKey](ctx, r.client, http.MethodPost, member(r.path, id)+"/regenerate", nil)
}

func (r *remoteAPIKeys) Traffic(ctx context.Context, id string) (*apikey.Traffic, error) {
	report := &apikey.Traffic{}
	if err := r.client.Get(ctx, member(r.path, id)+"/traffic", nil, report); err != nil {
		return nil, err
	}
	return report, nil
}

// # Points

type remoteAllocations struct {
	remoteList[points.Allocation]
}

func (r *remoteAllocations) Create(ctx context.Context, allocation points.Allocation) (points.Allocation, error) {
	input := points.AllocateInput{UserID: allocation.UserID, Points: allocation.Points, Note: allocation.Note}

	var result struct {
		Allocation points.Allocation `json:"allocation"`
		Info       points.Info       `json:"info"`
	}
	if err := r.client.Post(ctx, PathPoints+"/allocate", input, &result); err != nil {
		return points.Allocation{}, err
	}
	return result.Allocation, nil
}

type remotePoints struct {
	client *resource.Client
}

func (r remotePoints) Info(ctx context.Context, _ string) (points.Info, error) {
	return resource.Do[points.Info](ctx, r.client, http.MethodGet, PathPoints, nil)
}

// # Events

type remoteEvents struct {
	remoteList[event.Event]
}

func (r *remoteEvents) Create(ctx context.Context, item event.Event) (event.Event, error) {
	input := event.CreateInput{
		Name:         item.Name,
		Description:  item.Description,
		Type:         item.Type,
		StartTime:    item.StartTime,
		EndTime:      item.EndTime,
		TargetAmount: item.TargetAmount,
		RewardPoints: item.RewardPoints,
	}
	return resource.Do[event.Event](ctx, r.client, http.MethodPost, PathEvents, input)
}

// Update maps the target state onto the settle, end and liquidity actions.
func (r *remoteEvents) Update(ctx context.Context, id string, item event.Event) (event.Event, error) {
	path := member(PathEvents, id)

	switch item.Status {
	case event.StatusSettled:
		input := event.SettleInput{FinalAmount: pointer.Val(item.FinalAmount), FinalPoints: pointer.Val(item.FinalPoints)}
		return resource.Do[event.Event](ctx, r.client, http.MethodPost, path+"/settle", input)
	case event.StatusEnded:
		return resource.Do[event.Event](ctx, r.client, http.MethodPost, path+"/end", nil)
	}

	current, err := resource.Do[event.Event](ctx, r.client, http.MethodGet, path, nil)
	if err != nil {
		return event.Event{}, err
	}
	input, changed := liquidityDelta(current.Liquidity, item.Liquidity)
	if !changed {
		return current, nil
	}
	return resource.Do[event.Event](ctx, r.client, http.MethodPost, path+"/liquidity", input)
}

func (r *remoteEvents) Remove(context.Context, string) error {
	return listmgr.ErrUnsupported
}

func liquidityDelta(have, want string) (event.LiquidityInput, bool) {
	current, err := decimal.NewFromString(have)
	if err != nil {
		current = decimal.Zero
	}
	target, err := decimal.NewFromString(want)
	if err != nil {
		return event.LiquidityInput{}, false
	}

	delta := target.Sub(current)
	switch {
	case delta.IsZero():
		return event.LiquidityInput{}, false
	case delta.IsNegative():
		return event.LiquidityInput{Action: event.LiquidityRemove, Amount: delta.Neg().String()}, true
	default:
		return event.LiquidityInput{Action: event.LiquidityAdd, Amount: delta.String()}, true
	}
}

// # Read Models

type remoteDashboard struct {
	client *resource.Client
}

func (r remoteDashboard) System(ctx context.Context) (*dashboard.SystemStats, error) {
	stats := &dashboard.SystemStats{}
	if err := r.client.Get(ctx, PathSystemDashboard, nil, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r remoteDashboard) Business(ctx context.Context, _ string) (*dashboard.BusinessStats, error) {
	stats := &dashboard.BusinessStats{}
	if err := r.client.Get(ctx, PathBusinessDashboard, nil, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

type remoteAssets struct {
	client *resource.Client
}

func (r remoteAssets) Get(ctx context.Context, _ string) (*asset.Assets, error) {
	assets := &asset.Assets{}
	if err := r.client.Get(ctx, PathAssets, nil, assets); err != nil {
		return nil, err
	}
	return assets, nil
}

type remoteDomain struct {
	client *resource.Client
}

func (r remoteDomain) Get(ctx context.Context) (*domainconfig.DomainConfig, error) {
	config := &domainconfig.DomainConfig{}
	if err := r.client.Get(ctx, PathDomainConfig, nil, config); err != nil {
		return nil, err
	}
	return config, nil
}

func (r remoteDomain) Put(ctx context.Context, merchantDomain, callbackURL string) (*domainconfig.DomainConfig, error) {
	body := struct {
		MerchantDomain string `json:"merchantDomain"`
		CallbackURL    string `json:"callbackUrl"`
	}{merchantDomain, callbackURL}

	config := &domainconfig.DomainConfig{}
	if err := r.client.Put(ctx, PathDomainConfig, body, config); err != nil {
		return nil, err
	}
	return config, nil
}
