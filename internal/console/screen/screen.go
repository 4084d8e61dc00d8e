// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package screen builds the list manager behind each console screen.

Every factory installs the rules of its entity so that a screen refuses an
invariant breach locally, before any request leaves the console:

  - API keys: at most five active; status toggles.
  - Sign configurations: at least one active once any exists; "active" is
    an exclusive flag.
  - Business admins: status toggles.
  - Events: status only moves forward.
  - Points allocations: never more than the remaining balance.

The data source decides where rows live. [Offline] and [Remote] build the
same [Sources] from the fixture and the API.
*/
package screen

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/taibuivan/merchantdesk/internal/auth"
	"github.com/taibuivan/merchantdesk/internal/console/listmgr"
	"github.com/taibuivan/merchantdesk/internal/console/resource"
	"github.com/taibuivan/merchantdesk/internal/merchant/apikey"
	"github.com/taibuivan/merchantdesk/internal/merchant/customer"
	"github.com/taibuivan/merchantdesk/internal/merchant/event"
	"github.com/taibuivan/merchantdesk/internal/merchant/points"
	"github.com/taibuivan/merchantdesk/internal/merchant/signconfig"
	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/system/bizadmin"
	"github.com/taibuivan/merchantdesk/internal/system/transaction"
)

// FlagActive is the exclusive flag of sign configurations.
const FlagActive = "active"

func common[T any](name string, logger zerolog.Logger) []listmgr.Option[T] {
	return []listmgr.Option[T]{
		listmgr.WithName[T](name),
		listmgr.WithDegrade[T](resource.Degrade),
		listmgr.WithLogger[T](logger.With().Str("screen", name).Logger()),
	}
}

// # API Keys

// APIKeys manages the merchant's credentials.
func APIKeys(source listmgr.DataSource[apikey.APIKey], logger zerolog.Logger) *listmgr.Manager[apikey.APIKey] {
	rules := listmgr.Rules[apikey.APIKey]{
		Validate: func(key apikey.APIKey) error {
			return apikey.ValidateName(key.Name)
		},
		BeforeCreate: func(view []apikey.APIKey, _ apikey.APIKey) error {
			return apikey.CheckCreate(view)
		},
		BeforeUpdate: func(view []apikey.APIKey, before, after apikey.APIKey) error {
			if before.Status != apikey.StatusActive && after.Status == apikey.StatusActive {
				return apikey.CheckActivation(apikey.CountActive(view))
			}
			return nil
		},
	}

	options := append(common[apikey.APIKey]("API key", logger),
		listmgr.WithRules(rules),
		listmgr.WithToggle(listmgr.Toggle[apikey.APIKey]{Flip: func(key apikey.APIKey) apikey.APIKey {
			if key.Status == apikey.StatusActive {
				key.Status = apikey.StatusDisabled
			} else {
				key.Status = apikey.StatusActive
			}
			return key
		}}),
	)

	return listmgr.New(source, listmgr.Identity[apikey.APIKey]{
		Key:    func(key apikey.APIKey) string { return key.ID },
		SetKey: func(key apikey.APIKey, id string) apikey.APIKey { key.ID = id; return key },
	}, options...)
}

// # Sign Configurations

// SignConfigs manages the Sign-service endpoints.
func SignConfigs(source listmgr.DataSource[signconfig.Config], logger zerolog.Logger) *listmgr.Manager[signconfig.Config] {
	rules := listmgr.Rules[signconfig.Config]{
		Validate: func(config signconfig.Config) error {
			return signconfig.Validate(signconfig.Input{URL: config.URL, Description: config.Description})
		},
		BeforeUpdate: func(view []signconfig.Config, before, after signconfig.Config) error {
			if before.IsActive && !after.IsActive {
				return signconfig.CheckDeactivate(view, before.ID)
			}
			if !before.IsActive && after.IsActive {
				return apperr.InvariantViolation("Use activate to move the active configuration")
			}
			return nil
		},
		BeforeRemove: func(view []signconfig.Config, id string) error {
			return signconfig.CheckRemove(view, id)
		},
		BeforeFlag: func(view []signconfig.Config, id, _ string) error {
			_, err := signconfig.Activate(view, id)
			return err
		},
	}

	options := append(common[signconfig.Config]("Sign service configuration", logger),
		listmgr.WithRules(rules),
		listmgr.WithFlag(FlagActive, listmgr.Flag[signconfig.Config]{
			Has: func(config signconfig.Config) bool { return config.IsActive },
			Set: func(config signconfig.Config, active bool) signconfig.Config { config.IsActive = active; return config },
		}),
	)

	return listmgr.New(source, listmgr.Identity[signconfig.Config]{
		Key:    func(config signconfig.Config) string { return config.ID },
		SetKey: func(config signconfig.Config, id string) signconfig.Config { config.ID = id; return config },
	}, options...)
}

// # Business Admins

// Admins manages business administrator accounts.
func Admins(source listmgr.DataSource[bizadmin.BusinessAdmin], logger zerolog.Logger) *listmgr.Manager[bizadmin.BusinessAdmin] {
	options := append(common[bizadmin.BusinessAdmin]("Business admin", logger),
		listmgr.WithRules(listmgr.Rules[bizadmin.BusinessAdmin]{
			Validate: func(admin bizadmin.BusinessAdmin) error {
				if !admin.Status.Valid() {
					return apperr.ValidationError("Invalid status",
						apperr.FieldError{Field: bizadmin.FieldStatus, Message: "Must be active or disabled"})
				}
				return nil
			},
		}),
		listmgr.WithToggle(listmgr.Toggle[bizadmin.BusinessAdmin]{Flip: func(admin bizadmin.BusinessAdmin) bizadmin.BusinessAdmin {
			if admin.Status == auth.StatusActive {
				admin.Status = auth.StatusDisabled
			} else {
				admin.Status = auth.StatusActive
			}
			return admin
		}}),
	)

	return listmgr.New(source, listmgr.Identity[bizadmin.BusinessAdmin]{
		Key:    func(admin bizadmin.BusinessAdmin) string { return admin.ID },
		SetKey: func(admin bizadmin.BusinessAdmin, id string) bizadmin.BusinessAdmin { admin.ID = id; return admin },
	}, options...)
}

// # Events

// Events manages promotional campaigns.
func Events(source listmgr.DataSource[event.Event], logger zerolog.Logger) *listmgr.Manager[event.Event] {
	options := append(common[event.Event]("Event", logger),
		listmgr.WithRules(listmgr.Rules[event.Event]{
			BeforeUpdate: func(_ []event.Event, before, after event.Event) error {
				if before.Status != after.Status && !event.CanTransition(before.Status, after.Status) {
					return apperr.InvariantViolation(
						fmt.Sprintf("Event cannot move from %s to %s", before.Status, after.Status))
				}
				return nil
			},
		}),
	)

	return listmgr.New(source, listmgr.Identity[event.Event]{
		Key:    func(item event.Event) string { return item.ID },
		SetKey: func(item event.Event, id string) event.Event { item.ID = id; return item },
	}, options...)
}

// # Read-mostly Screens

// Transactions lists deposits or withdrawals.
func Transactions(source listmgr.DataSource[transaction.Transaction], logger zerolog.Logger) *listmgr.Manager[transaction.Transaction] {
	return listmgr.New(source, listmgr.Identity[transaction.Transaction]{
		Key:    func(item transaction.Transaction) string { return item.ID },
		SetKey: func(item transaction.Transaction, id string) transaction.Transaction { item.ID = id; return item },
	}, append(common[transaction.Transaction]("Transaction", logger),
		listmgr.WithRules(listmgr.Rules[transaction.Transaction]{
			Validate: func(item transaction.Transaction) error {
				return transaction.MoveInput{Amount: item.Amount, WalletAddress: item.WalletAddress}.Validate()
			},
		}),
	)...)
}

// Users lists the merchant's end users.
func Users(source listmgr.DataSource[customer.User], logger zerolog.Logger) *listmgr.Manager[customer.User] {
	return listmgr.New(source, listmgr.Identity[customer.User]{
		Key:    func(user customer.User) string { return user.ID },
		SetKey: func(user customer.User, id string) customer.User { user.ID = id; return user },
	}, common[customer.User]("User", logger)...)
}

// Orders lists orders, either all of them or one user's.
func Orders(source listmgr.DataSource[customer.Order], logger zerolog.Logger) *listmgr.Manager[customer.Order] {
	return listmgr.New(source, listmgr.Identity[customer.Order]{
		Key:    func(order customer.Order) string { return order.ID },
		SetKey: func(order customer.Order, id string) customer.Order { order.ID = id; return order },
	}, common[customer.Order]("Order", logger)...)
}

// # Points

// Balance is the last known points balance of the merchant.
type Balance struct {
	mu   sync.RWMutex
	info points.Info
}

// Info returns the balance.
func (b *Balance) Info() points.Info {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.info
}

// Set replaces the balance.
func (b *Balance) Set(info points.Info) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.info = info
}

func (b *Balance) spend(amount int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.info = b.info.Spend(amount)
}

// Points is the allocation screen: the ledger plus the balance it draws on.
type Points struct {
	*listmgr.Manager[points.Allocation]

	balance *Balance
	reader  PointsReader
	domain  string
}

// NewPoints builds the allocation screen. Allocations beyond the balance
// last read by Refresh are refused before any request is sent.
func NewPoints(source listmgr.DataSource[points.Allocation], reader PointsReader, merchantDomain string, logger zerolog.Logger) *Points {
	balance := &Balance{}

	options := append(common[points.Allocation]("Points", logger),
		listmgr.WithRules(listmgr.Rules[points.Allocation]{
			Validate: func(allocation points.Allocation) error {
				return points.AllocateInput{UserID: allocation.UserID, Points: allocation.Points, Note: allocation.Note}.Validate()
			},
			BeforeCreate: func(_ []points.Allocation, allocation points.Allocation) error {
				return points.CheckAllocation(balance.Info(), allocation.Points)
			},
		}),
	)

	manager := listmgr.New(source, listmgr.Identity[points.Allocation]{
		Key:    func(allocation points.Allocation) string { return allocation.ID },
		SetKey: func(allocation points.Allocation, id string) points.Allocation { allocation.ID = id; return allocation },
	}, options...)

	return &Points{Manager: manager, balance: balance, reader: reader, domain: merchantDomain}
}

// Balance returns the balance the screen checks allocations against.
func (p *Points) Balance() points.Info {
	return p.balance.Info()
}

// Refresh reads the balance from the backend.
func (p *Points) Refresh(ctx context.Context) (points.Info, error) {
	info, err := p.reader.Info(ctx, p.domain)
	if err != nil {
		return points.Info{}, err
	}
	p.balance.Set(info)
	return info, nil
}

// Allocate grants points to a user and debits the local balance on success.
func (p *Points) Allocate(ctx context.Context, input points.AllocateInput) (points.Allocation, error) {
	created, err := p.Create(ctx, points.Allocation{UserID: input.UserID, Points: input.Points, Note: input.Note})
	if err != nil {
		return points.Allocation{}, err
	}
	p.balance.spend(created.Points)
	return created, nil
}
