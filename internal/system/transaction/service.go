// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/audit"
	"github.com/taibuivan/merchantdesk/internal/platform/validate"
	"github.com/taibuivan/merchantdesk/pkg/ids"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

// changeWindow is the comparison window of the dashboard's monthly change.
const changeWindow = 30 * 24 * time.Hour

// Service implements deposit and withdrawal use cases.
type Service struct {
	repository Repository
	audit      audit.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service].
func NewService(repository Repository, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repository: repository, audit: recorder, logger: logger, now: time.Now}
}

// List returns one page of deposits or withdrawals.
func (service *Service) List(ctx context.Context, kind Type, criteria pagination.Criteria) (pagination.Page[*Transaction], error) {
	transactions, total, err := service.repository.List(ctx, kind, criteria)
	if err != nil {
		return pagination.Page[*Transaction]{}, fmt.Errorf("transaction_service_list_failed: %w", err)
	}
	return pagination.NewPage(transactions, total, criteria.Params), nil
}

// MoveInput holds a deposit or withdrawal form.
type MoveInput struct {
	Amount        string
	WalletAddress string
}

// Validate checks the amount format and wallet address.
func (input MoveInput) Validate() error {
	validator := &validate.Validator{}
	validator.Required(FieldAmount, input.Amount).
		Amount(FieldAmount, input.Amount).
		Required(FieldWalletAddress, input.WalletAddress).
		WalletAddress(FieldWalletAddress, input.WalletAddress)
	return validator.Err()
}

func (service *Service) newTransaction(kind Type, input MoveInput) *Transaction {
	now := service.now().UTC()
	return &Transaction{
		ID:            ids.NewAt(now),
		Type:          kind,
		Amount:        input.Amount,
		WalletAddress: input.WalletAddress,
		Status:        StatusPending,
		CreatedAt:     now,
	}
}

// Deposit records a pending deposit.
func (service *Service) Deposit(ctx context.Context, input MoveInput) (*Transaction, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	transaction := service.newTransaction(TypeDeposit, input)
	if err := service.repository.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("transaction_service_deposit_failed: %w", err)
	}

	service.recorded(ctx, transaction)
	return transaction, nil
}

/*
Withdraw records a pending withdrawal.

Description: The amount may not exceed the available balance at the time
of the insert. The check runs inside the repository's serialized section.

Parameters:
  - ctx: context.Context
  - input: MoveInput

Returns:
  - *Transaction: The pending withdrawal
  - error: ValidationError (format or insufficient balance), storage failures
*/
func (service *Service) Withdraw(ctx context.Context, input MoveInput) (*Transaction, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		return nil, validate.RequiredError(FieldAmount, "Must be a positive amount with up to 6 decimals")
	}

	transaction := service.newTransaction(TypeWithdraw, input)
	err = service.repository.CreateWithdrawal(ctx, transaction, func(available decimal.Decimal) error {
		if amount.GreaterThan(available) {
			return apperr.ValidationError(fmt.Sprintf("insufficient balance: available %s", available.String()),
				apperr.FieldError{Field: FieldAmount, Message: "Exceeds the available balance"})
		}
		return nil
	})
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("transaction_service_withdraw_failed: %w", err)
	}

	service.recorded(ctx, transaction)
	return transaction, nil
}

func (service *Service) recorded(ctx context.Context, transaction *Transaction) {
	audit.Write(ctx, service.audit, audit.Entry{
		Action: "transaction." + string(transaction.Type), EntityType: AuditEntity, EntityID: transaction.ID, After: transaction,
	})
	service.logger.Info("transaction_recorded",
		slog.String("id", transaction.ID),
		slog.String("type", string(transaction.Type)),
		slog.String("amount", transaction.Amount),
	)
}

// Available returns the platform available balance.
func (service *Service) Available(ctx context.Context) (decimal.Decimal, error) {
	return service.repository.Available(ctx)
}

/*
MonthlyChange compares completed deposit volume of the last 30 days with
the 30 days before, as a percentage rounded to two decimals. A window with
no prior volume reports 100 when anything was deposited and 0 otherwise.
*/
func (service *Service) MonthlyChange(ctx context.Context) (float64, error) {
	now := service.now().UTC()

	current, err := service.repository.DepositVolume(ctx, now.Add(-changeWindow), now)
	if err != nil {
		return 0, fmt.Errorf("transaction_service_volume_failed: %w", err)
	}
	previous, err := service.repository.DepositVolume(ctx, now.Add(-2*changeWindow), now.Add(-changeWindow))
	if err != nil {
		return 0, fmt.Errorf("transaction_service_volume_failed: %w", err)
	}

	return PercentChange(previous, current), nil
}

// PercentChange returns (current - previous) / previous in percent.
func PercentChange(previous, current decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}
	change, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return change
}
