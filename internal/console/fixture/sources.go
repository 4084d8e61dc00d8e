// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fixture

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/merchantdesk/internal/auth"
	"github.com/taibuivan/merchantdesk/internal/merchant/apikey"
	"github.com/taibuivan/merchantdesk/internal/merchant/customer"
	"github.com/taibuivan/merchantdesk/internal/merchant/event"
	"github.com/taibuivan/merchantdesk/internal/merchant/points"
	"github.com/taibuivan/merchantdesk/internal/merchant/signconfig"
	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
	"github.com/taibuivan/merchantdesk/internal/platform/validate"
	"github.com/taibuivan/merchantdesk/internal/system/bizadmin"
	"github.com/taibuivan/merchantdesk/internal/system/transaction"
	"github.com/taibuivan/merchantdesk/pkg/format"
	"github.com/taibuivan/merchantdesk/pkg/ids"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
	"github.com/taibuivan/merchantdesk/pkg/pointer"
	"github.com/taibuivan/merchantdesk/pkg/uuid"
)

// Flag names understood by [SignConfigs.SetFlag].
const FlagActive = "active"

const changeWindow = 30 * 24 * time.Hour

// # Business Admins

// Admins is the system administrator's account list.
type Admins struct {
	*Table[bizadmin.BusinessAdmin]
}

func matchAdmin(criteria pagination.Criteria, admin bizadmin.BusinessAdmin) bool {
	return criteria.MatchesKeyword(admin.Account, admin.MerchantDomain) &&
		criteria.MatchesStatus(string(admin.Status)) &&
		criteria.MatchesTime(admin.CreatedAt)
}

// Create registers an account with the default bundle when none is given.
func (a *Admins) Create(ctx context.Context, admin bizadmin.BusinessAdmin) (bizadmin.BusinessAdmin, error) {
	admin.Account = strings.TrimSpace(admin.Account)
	validator := &validate.Validator{}
	validator.Required(bizadmin.FieldAccount, admin.Account).
		Domain(bizadmin.FieldMerchantDomain, admin.MerchantDomain)
	if err := validator.Err(); err != nil {
		return bizadmin.BusinessAdmin{}, err
	}

	if admin.Permissions == nil {
		admin.Permissions = sec.DefaultPermissions(sec.RoleBusinessAdmin)
	}
	admin.Permissions = sec.NormalizePermissions(admin.Permissions)
	admin.ID = uuid.New()
	admin.Status = auth.StatusActive
	admin.CreatedAt = a.options.now().UTC()

	return a.insert(ctx, admin, func(rows []bizadmin.BusinessAdmin) error {
		for _, row := range rows {
			if row.MerchantDomain == admin.MerchantDomain && row.Account == admin.Account {
				return apperr.Conflict("Account already exists for this merchant domain")
			}
		}
		return nil
	})
}

// Update stores permissions and status changes.
func (a *Admins) Update(ctx context.Context, id string, admin bizadmin.BusinessAdmin) (bizadmin.BusinessAdmin, error) {
	if !admin.Status.Valid() {
		return bizadmin.BusinessAdmin{}, apperr.ValidationError("Invalid status",
			apperr.FieldError{Field: bizadmin.FieldStatus, Message: "Must be active or disabled"})
	}
	return a.replace(ctx, id, func(_ []bizadmin.BusinessAdmin, current bizadmin.BusinessAdmin) (bizadmin.BusinessAdmin, error) {
		current.Permissions = sec.NormalizePermissions(admin.Permissions)
		current.Status = admin.Status
		return current, nil
	})
}

// Remove deletes an account.
func (a *Admins) Remove(ctx context.Context, id string) error {
	return a.drop(ctx, id, nil)
}

// Counts implements the dashboard admin counter.
func (a *Admins) Counts(context.Context) (bizadmin.Counts, error) {
	counts := bizadmin.Counts{}
	for _, admin := range a.All() {
		counts.Total++
		if admin.Status == auth.StatusActive {
			counts.Active++
		}
	}
	return counts, nil
}

// # API Keys

// APIKeys holds the merchant's credentials and enforces the active limit
// the same way the API does.
type APIKeys struct {
	*Table[apikey.APIKey]
}

func matchAPIKey(criteria pagination.Criteria, key apikey.APIKey) bool {
	return key.Matches(criteria)
}

// Create issues a new active key.
func (k *APIKeys) Create(ctx context.Context, key apikey.APIKey) (apikey.APIKey, error) {
	name := strings.TrimSpace(key.Name)
	if err := apikey.ValidateName(name); err != nil {
		return apikey.APIKey{}, err
	}

	now := k.options.now().UTC()
	secret, err := apikey.GenerateKey(now)
	if err != nil {
		return apikey.APIKey{}, err
	}

	created := apikey.APIKey{ID: uuid.New(), Key: secret, Name: name, CreatedAt: now, Status: apikey.StatusActive}
	return k.insert(ctx, created, apikey.CheckCreate)
}

// Update renames a key or changes its status.
func (k *APIKeys) Update(ctx context.Context, id string, key apikey.APIKey) (apikey.APIKey, error) {
	name := strings.TrimSpace(key.Name)
	if err := apikey.ValidateName(name); err != nil {
		return apikey.APIKey{}, err
	}
	if key.Status != apikey.StatusActive && key.Status != apikey.StatusDisabled {
		return apikey.APIKey{}, apperr.ValidationError("Invalid status",
			apperr.FieldError{Field: apikey.FieldStatus, Message: "Must be active or disabled"})
	}

	return k.replace(ctx, id, func(rows []apikey.APIKey, current apikey.APIKey) (apikey.APIKey, error) {
		if current.Status != apikey.StatusActive && key.Status == apikey.StatusActive {
			if err := apikey.CheckActivation(apikey.CountActive(rows)); err != nil {
				return current, err
			}
		}
		current.Name = name
		current.Status = key.Status
		return current, nil
	})
}

// ToggleStatus applies a status flip computed by the caller.
func (k *APIKeys) ToggleStatus(ctx context.Context, id string, next apikey.APIKey) (apikey.APIKey, error) {
	return k.Update(ctx, id, next)
}

// Regenerate replaces the secret of a key.
func (k *APIKeys) Regenerate(ctx context.Context, id string) (apikey.APIKey, error) {
	return k.replace(ctx, id, func(_ []apikey.APIKey, current apikey.APIKey) (apikey.APIKey, error) {
		secret, err := apikey.GenerateKey(k.options.now().UTC())
		if err != nil {
			return current, err
		}
		current.Key = secret
		return current, nil
	})
}

// Traffic reports the usage of a key.
func (k *APIKeys) Traffic(ctx context.Context, id string) (*apikey.Traffic, error) {
	if err := k.enter(ctx, ActionLoad, id); err != nil {
		return nil, err
	}
	key, err := k.Find(id)
	if err != nil {
		return nil, err
	}
	return &apikey.Traffic{
		Traffic:   key.Traffic,
		Formatted: format.Traffic(key.Traffic),
		Details:   apikey.TrafficDetails{LastUsedAt: key.LastUsedAt},
	}, nil
}

// Remove deletes a key.
func (k *APIKeys) Remove(ctx context.Context, id string) error {
	return k.drop(ctx, id, nil)
}

// List implements the dashboard key lister.
func (k *APIKeys) List(context.Context, string) ([]apikey.APIKey, error) {
	return k.All(), nil
}

// # Sign Configurations

// SignConfigs keeps exactly one active configuration once any exists.
type SignConfigs struct {
	*Table[signconfig.Config]
}

func matchSignConfig(criteria pagination.Criteria, config signconfig.Config) bool {
	return config.Matches(criteria)
}

// Create adds a configuration. The first one is created active.
func (s *SignConfigs) Create(ctx context.Context, config signconfig.Config) (signconfig.Config, error) {
	input := signconfig.Input{URL: strings.TrimSpace(config.URL), Description: strings.TrimSpace(config.Description)}
	if err := signconfig.Validate(input); err != nil {
		return signconfig.Config{}, err
	}

	now := s.options.now().UTC()
	created := signconfig.Config{
		ID:          uuid.New(),
		URL:         input.URL,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var stored signconfig.Config
	err := s.mutate(ctx, ActionCreate, "", func(rows []signconfig.Config) ([]signconfig.Config, error) {
		created.IsActive = signconfig.ShouldActivateNew(rows)
		stored = created
		return append(rows, created), nil
	})
	return stored, err
}

// Update edits URL and description. Clearing the flag of the only active
// configuration is refused; setting it deactivates the others.
func (s *SignConfigs) Update(ctx context.Context, id string, config signconfig.Config) (signconfig.Config, error) {
	input := signconfig.Input{URL: strings.TrimSpace(config.URL), Description: strings.TrimSpace(config.Description)}
	if err := signconfig.Validate(input); err != nil {
		return signconfig.Config{}, err
	}

	var stored signconfig.Config
	err := s.mutate(ctx, ActionUpdate, id, func(rows []signconfig.Config) ([]signconfig.Config, error) {
		current, ok := findConfig(rows, id)
		if !ok {
			return nil, apperr.NotFound(signconfig.MessageNotFound)
		}

		if current.IsActive && !config.IsActive {
			if err := signconfig.CheckDeactivate(rows, id); err != nil {
				return nil, err
			}
		}
		if config.IsActive && !current.IsActive {
			activated, err := signconfig.Activate(rows, id)
			if err != nil {
				return nil, err
			}
			rows = activated
		}

		for i := range rows {
			if rows[i].ID == id {
				rows[i].URL = input.URL
				rows[i].Description = input.Description
				rows[i].IsActive = config.IsActive
				rows[i].UpdatedAt = s.options.now().UTC()
				stored = rows[i]
			}
		}
		return rows, nil
	})
	return stored, err
}

// Remove deletes a configuration unless it is the only active one.
func (s *SignConfigs) Remove(ctx context.Context, id string) error {
	return s.drop(ctx, id, func(rows []signconfig.Config) error {
		return signconfig.CheckRemove(rows, id)
	})
}

// SetFlag activates id and deactivates every other configuration.
func (s *SignConfigs) SetFlag(ctx context.Context, id, flag string) error {
	if flag != FlagActive {
		return apperr.ValidationError(fmt.Sprintf("Unknown flag %q", flag))
	}
	return s.mutate(ctx, ActionFlag, id, func(rows []signconfig.Config) ([]signconfig.Config, error) {
		return signconfig.Activate(rows, id)
	})
}

// Test validates the URL without contacting it.
func (s *SignConfigs) Test(ctx context.Context, url string) (signconfig.TestResult, error) {
	if err := s.enter(ctx, ActionLoad, ""); err != nil {
		return signconfig.TestResult{}, err
	}
	validator := &validate.Validator{}
	validator.Required(signconfig.FieldURL, url).URL(signconfig.FieldURL, url)
	if err := validator.Err(); err != nil {
		return signconfig.TestResult{Success: false, Message: "Invalid URL"}, nil
	}
	return signconfig.TestResult{Success: true, Message: "Connection successful"}, nil
}

func findConfig(rows []signconfig.Config, id string) (signconfig.Config, bool) {
	for _, row := range rows {
		if row.ID == id {
			return row, true
		}
	}
	return signconfig.Config{}, false
}

// # Events

// Events holds promotional campaigns. Status only moves forward.
type Events struct {
	*Table[event.Event]
}

func matchEvent(criteria pagination.Criteria, item event.Event) bool {
	return criteria.MatchesKeyword(item.Name, item.Description) &&
		criteria.MatchesStatus(string(item.Status)) &&
		criteria.MatchesTime(item.CreatedAt)
}

// Create opens a new active event.
func (e *Events) Create(ctx context.Context, item event.Event) (event.Event, error) {
	input := event.CreateInput{
		Name:         strings.TrimSpace(item.Name),
		Description:  strings.TrimSpace(item.Description),
		Type:         item.Type,
		StartTime:    item.StartTime,
		EndTime:      item.EndTime,
		TargetAmount: item.TargetAmount,
		RewardPoints: item.RewardPoints,
	}
	if input.TargetAmount == "" {
		input.TargetAmount = "0"
	}
	target, err := input.Validate()
	if err != nil {
		return event.Event{}, err
	}

	created := event.Event{
		ID:            uuid.New(),
		Name:          input.Name,
		Description:   input.Description,
		Type:          input.Type,
		Status:        event.StatusActive,
		StartTime:     input.StartTime.UTC(),
		EndTime:       input.EndTime.UTC(),
		TargetAmount:  target.String(),
		CurrentAmount: "0",
		RewardPoints:  input.RewardPoints,
		Liquidity:     "0",
		CreatedAt:     e.options.now().UTC(),
	}
	return e.insert(ctx, created, nil)
}

// Update applies a settle or end transition, or a liquidity change on an
// active event.
func (e *Events) Update(ctx context.Context, id string, item event.Event) (event.Event, error) {
	return e.replace(ctx, id, func(_ []event.Event, current event.Event) (event.Event, error) {
		switch {
		case item.Status == event.StatusSettled && current.Status != event.StatusSettled:
			amount, err := decimal.NewFromString(pointer.Val(item.FinalAmount))
			if err != nil {
				return current, apperr.ValidationError("Invalid final amount",
					apperr.FieldError{Field: event.FieldFinalAmount, Message: "Must be a decimal amount"})
			}
			err = event.Settle(&current, amount, pointer.Val(item.FinalPoints))
			return current, err
		case item.Status == event.StatusEnded && current.Status != event.StatusEnded:
			err := event.End(&current)
			return current, err
		case item.Status != current.Status:
			return current, apperr.InvariantViolation(
				fmt.Sprintf("Event cannot move from %s to %s", current.Status, item.Status))
		case item.Liquidity != current.Liquidity:
			return adjustLiquidity(current, item.Liquidity)
		}
		return current, nil
	})
}

func adjustLiquidity(current event.Event, target string) (event.Event, error) {
	want, err := decimal.NewFromString(target)
	if err != nil {
		return current, apperr.ValidationError("Invalid liquidity",
			apperr.FieldError{Field: event.FieldAmount, Message: "Must be a decimal amount"})
	}
	have, err := decimal.NewFromString(current.Liquidity)
	if err != nil {
		have = decimal.Zero
	}

	action, delta := event.LiquidityAdd, want.Sub(have)
	if delta.IsNegative() {
		action, delta = event.LiquidityRemove, delta.Neg()
	}
	err = event.AdjustLiquidity(&current, action, delta)
	return current, err
}

// Remove is not offered for events; they are ended instead.
func (e *Events) Remove(context.Context, string) error {
	return ErrReadOnly
}

// # Points

// Points tracks the merchant balance and the allocation ledger.
type Points struct {
	*Table[points.Allocation]

	mu    sync.Mutex
	info  points.Info
	users *Table[customer.User]
	actor string
}

func matchAllocation(criteria pagination.Criteria, allocation points.Allocation) bool {
	return criteria.MatchesKeyword(allocation.Username, allocation.UserID, allocation.Note) &&
		criteria.MatchesTime(allocation.AllocatedAt)
}

// Info implements the dashboard points reader.
func (p *Points) Info(context.Context, string) (points.Info, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.info, nil
}

// Create allocates points to a user, refusing more than the remaining balance.
func (p *Points) Create(ctx context.Context, allocation points.Allocation) (points.Allocation, error) {
	input := points.AllocateInput{UserID: allocation.UserID, Points: allocation.Points, Note: allocation.Note}
	if err := input.Validate(); err != nil {
		return points.Allocation{}, err
	}

	user, err := p.users.Find(input.UserID)
	if err != nil {
		return points.Allocation{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := points.CheckAllocation(p.info, input.Points); err != nil {
		return points.Allocation{}, err
	}

	now := p.options.now().UTC()
	created := points.Allocation{
		ID:          ids.NewAt(now),
		UserID:      user.ID,
		Username:    user.Username,
		Points:      input.Points,
		AllocatedAt: now,
		AllocatedBy: p.actor,
		Note:        strings.TrimSpace(input.Note),
	}

	stored, err := p.insert(ctx, created, nil)
	if err != nil {
		return points.Allocation{}, err
	}
	p.info = p.info.Spend(input.Points)
	return stored, nil
}

// Update is not offered; allocations are append-only.
func (p *Points) Update(context.Context, string, points.Allocation) (points.Allocation, error) {
	return points.Allocation{}, ErrReadOnly
}

// Remove is not offered; allocations are append-only.
func (p *Points) Remove(context.Context, string) error {
	return ErrReadOnly
}

// # Transactions

// Transactions is the ledger of platform deposits and withdrawals.
type Transactions struct {
	*Table[transaction.Transaction]
}

func matchTransaction(criteria pagination.Criteria, item transaction.Transaction) bool {
	return criteria.MatchesKeyword(item.WalletAddress, item.TxHash, item.Amount) &&
		criteria.MatchesStatus(string(item.Status)) &&
		criteria.MatchesTime(item.CreatedAt)
}

// Kind narrows the ledger to one transaction type.
func (t *Transactions) Kind(kind transaction.Type) *Ledger {
	return &Ledger{transactions: t, kind: kind}
}

// Available implements the dashboard treasury balance.
func (t *Transactions) Available(context.Context) (decimal.Decimal, error) {
	return transaction.Balance(t.pointers()), nil
}

// MonthlyChange compares completed deposits of the last window with the
// window before.
func (t *Transactions) MonthlyChange(context.Context) (float64, error) {
	now := t.options.now().UTC()
	current, previous := decimal.Zero, decimal.Zero

	for _, item := range t.All() {
		if item.Type != transaction.TypeDeposit || item.Status != transaction.StatusCompleted {
			continue
		}
		amount, err := decimal.NewFromString(item.Amount)
		if err != nil {
			continue
		}
		switch age := now.Sub(item.CreatedAt); {
		case age < changeWindow:
			current = current.Add(amount)
		case age < 2*changeWindow:
			previous = previous.Add(amount)
		}
	}
	return transaction.PercentChange(previous, current), nil
}

func (t *Transactions) pointers() []*transaction.Transaction {
	rows := t.All()
	out := make([]*transaction.Transaction, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}

// Ledger is the deposit or withdrawal view of [Transactions].
type Ledger struct {
	transactions *Transactions
	kind         transaction.Type
}

// Load pages the transactions of one kind.
func (l *Ledger) Load(ctx context.Context, criteria pagination.Criteria) (pagination.Page[transaction.Transaction], error) {
	if err := l.transactions.enter(ctx, ActionLoad, ""); err != nil {
		return pagination.Page[transaction.Transaction]{}, err
	}
	return l.transactions.Query(criteria, func(item transaction.Transaction) bool { return item.Type == l.kind }), nil
}

// Create records a pending movement. Withdrawals may not exceed the balance.
func (l *Ledger) Create(ctx context.Context, item transaction.Transaction) (transaction.Transaction, error) {
	input := transaction.MoveInput{Amount: strings.TrimSpace(item.Amount), WalletAddress: strings.TrimSpace(item.WalletAddress)}
	if err := input.Validate(); err != nil {
		return transaction.Transaction{}, err
	}

	now := l.transactions.options.now().UTC()
	created := transaction.Transaction{
		ID:            ids.NewAt(now),
		Type:          l.kind,
		Amount:        input.Amount,
		WalletAddress: input.WalletAddress,
		Status:        transaction.StatusPending,
		CreatedAt:     now,
	}

	return l.transactions.insert(ctx, created, func(rows []transaction.Transaction) error {
		if l.kind != transaction.TypeWithdraw {
			return nil
		}
		ledger := make([]*transaction.Transaction, len(rows))
		for i := range rows {
			ledger[i] = &rows[i]
		}
		available := transaction.Balance(ledger)
		amount, _ := decimal.NewFromString(input.Amount)
		if amount.GreaterThan(available) {
			return apperr.ValidationError(fmt.Sprintf("insufficient balance: available %s", available.String()),
				apperr.FieldError{Field: transaction.FieldAmount, Message: "Exceeds the available balance"})
		}
		return nil
	})
}

// Update is not offered; settlement happens on chain.
func (l *Ledger) Update(context.Context, string, transaction.Transaction) (transaction.Transaction, error) {
	return transaction.Transaction{}, ErrReadOnly
}

// Remove is not offered; the ledger is append-only.
func (l *Ledger) Remove(context.Context, string) error {
	return ErrReadOnly
}

// # Customers

func matchUser(criteria pagination.Criteria, user customer.User) bool {
	return criteria.MatchesKeyword(user.Username, user.Email, user.Phone) &&
		criteria.MatchesTime(user.RegisteredAt)
}

func matchOrder(criteria pagination.Criteria, order customer.Order) bool {
	return criteria.MatchesKeyword(order.OrderNo, order.UserID) &&
		criteria.MatchesStatus(string(order.Status)) &&
		criteria.MatchesTime(order.CreatedAt)
}
