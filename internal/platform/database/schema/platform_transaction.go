// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// PlatformTransactionTable represents the 'platform.transaction' table, deposits and withdrawals
type PlatformTransactionTable struct {
	Table         string
	ID            string
	Type          string
	Amount        string
	WalletAddress string
	TxHash        string
	Status        string
	CreatedAt     string
	CompletedAt   string
}

// PlatformTransaction is the schema definition for platform.transaction
var PlatformTransaction = PlatformTransactionTable{
	Table:         "platform.transaction",
	ID:            "id",
	Type:          "type",
	Amount:        "amount",
	WalletAddress: "walletaddress",
	TxHash:        "txhash",
	Status:        "status",
	CreatedAt:     "createdat",
	CompletedAt:   "completedat",
}

// Columns lists the columns in scan order.
func (t PlatformTransactionTable) Columns() []string {
	return []string{
		t.ID, t.Type, t.Amount, t.WalletAddress, t.TxHash, t.Status, t.CreatedAt, t.CompletedAt,
	}
}
