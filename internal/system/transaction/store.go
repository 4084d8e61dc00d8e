// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package transaction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

// Repository defines the data access contract for platform transactions.
type Repository interface {

	/*
		List returns one page of transactions of a type, newest first.

		Parameters:
		  - context: context.Context
		  - kind: Type
		  - criteria: pagination.Criteria (keyword on wallet address or tx hash,
		    status, date range on createdat)

		Returns:
		  - []*Transaction: The page
		  - int: Total matching rows
		  - error: Database errors
	*/
	List(context context.Context, kind Type, criteria pagination.Criteria) ([]*Transaction, int, error)

	// Create inserts a deposit.
	Create(context context.Context, transaction *Transaction) error

	/*
		CreateWithdrawal inserts a withdrawal after check approves the current
		available balance. The balance read and the insert are serialized
		against other withdrawals.

		Parameters:
		  - context: context.Context
		  - transaction: *Transaction
		  - check: func(available decimal.Decimal) error

		Returns:
		  - error: The check's error, or database errors
	*/
	CreateWithdrawal(context context.Context, transaction *Transaction, check func(available decimal.Decimal) error) error

	// Available returns the current available balance.
	Available(context context.Context) (decimal.Decimal, error)

	// DepositVolume sums completed deposits created in [from, to).
	DepositVolume(context context.Context, from, to time.Time) (decimal.Decimal, error)
}
