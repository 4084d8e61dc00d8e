// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package asset exposes the merchant's asset balance.
package asset

import (
	"context"

	"github.com/shopspring/decimal"
)

// Assets is the balance of one merchant. Amounts are decimal strings.
type Assets struct {
	TotalAssets     string `json:"totalAssets"`
	UsedAssets      string `json:"usedAssets"`
	RemainingAssets string `json:"remainingAssets"`
	WalletAddress   string `json:"walletAddress"`
}

// New derives the remaining amount from total and used.
func New(total, used decimal.Decimal, walletAddress string) *Assets {
	return &Assets{
		TotalAssets:     total.String(),
		UsedAssets:      used.String(),
		RemainingAssets: total.Sub(used).String(),
		WalletAddress:   walletAddress,
	}
}

// Repository reads merchant balances.
type Repository interface {

	// Get returns the balance of merchantDomain, zeroed when none is recorded.
	Get(context context.Context, merchantDomain string) (*Assets, error)
}
