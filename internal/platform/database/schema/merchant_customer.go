// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// MerchantCustomerTable represents the 'merchant.customer' table
type MerchantCustomerTable struct {
	Table          string
	ID             string
	MerchantDomain string
	Username       string
	Email          string
	Phone          string
	RegisteredAt   string
	LastActiveAt   string
}

var MerchantCustomer = MerchantCustomerTable{
	Table:          "merchant.customer",
	ID:             "id",
	MerchantDomain: "merchantdomain",
	Username:       "username",
	Email:          "email",
	Phone:          "phone",
	RegisteredAt:   "registeredat",
	LastActiveAt:   "lastactiveat",
}

// Columns returns all standard column names
func (t MerchantCustomerTable) Columns() []string {
	return []string{
		t.ID, t.MerchantDomain, t.Username, t.Email, t.Phone, t.RegisteredAt, t.LastActiveAt,
	}
}
