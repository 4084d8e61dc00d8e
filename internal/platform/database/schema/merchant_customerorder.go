// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// MerchantCustomerOrderTable represents the 'merchant.customerorder' table
type MerchantCustomerOrderTable struct {
	Table          string
	ID             string
	MerchantDomain string
	UserID         string
	OrderNo        string
	Amount         string
	Status         string
	CreatedAt      string
	CompletedAt    string
}

// MerchantCustomerOrder is the schema definition for merchant.customerorder
var MerchantCustomerOrder = MerchantCustomerOrderTable{
	Table:          "merchant.customerorder",
	ID:             "id",
	MerchantDomain: "merchantdomain",
	UserID:         "userid",
	OrderNo:        "orderno",
	Amount:         "amount",
	Status:         "status",
	CreatedAt:      "createdat",
	CompletedAt:    "completedat",
}

// Columns lists the columns in scan order.
func (t MerchantCustomerOrderTable) Columns() []string {
	return []string{
		t.ID, t.MerchantDomain, t.UserID, t.OrderNo, t.Amount, t.Status, t.CreatedAt, t.CompletedAt,
	}
}
