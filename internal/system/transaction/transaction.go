// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package transaction records platform deposits and withdrawals.
//
// # Balance
//
// The available balance is the sum of completed deposits minus completed
// and pending withdrawals. A pending withdrawal already reserves its amount,
// so two concurrent requests can never overdraw the platform.
package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type distinguishes deposits from withdrawals.
type Type string

const (
	TypeDeposit  Type = "deposit"
	TypeWithdraw Type = "withdraw"
)

// Status is the settlement state of a transaction.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Transaction is one platform fund movement.
type Transaction struct {
	ID            string     `json:"id"`
	Type          Type       `json:"type"`
	Amount        string     `json:"amount"`
	WalletAddress string     `json:"walletAddress"`
	TxHash        string     `json:"txHash,omitempty"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

// Balance applies the platform balance rule to a set of transactions.
func Balance(transactions []*Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, transaction := range transactions {
		amount, err := decimal.NewFromString(transaction.Amount)
		if err != nil {
			continue
		}
		switch {
		case transaction.Type == TypeDeposit && transaction.Status == StatusCompleted:
			balance = balance.Add(amount)
		case transaction.Type == TypeWithdraw && transaction.Status != StatusFailed:
			balance = balance.Sub(amount)
		}
	}
	return balance
}

// Field names used in validation errors.
const (
	FieldAmount        = "amount"
	FieldWalletAddress = "walletAddress"
)

// AuditEntity is the entity type recorded in the audit trail.
const AuditEntity = "transaction"
