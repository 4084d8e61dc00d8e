// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// PlatformDomainConfigTable represents the 'platform.domainconfig' table, a single-row table
type PlatformDomainConfigTable struct {
	Table          string
	ID             string
	MerchantDomain string
	CallbackURL    string
	UpdatedAt      string
}

var PlatformDomainConfig = PlatformDomainConfigTable{
	Table:          "platform.domainconfig",
	ID:             "id",
	MerchantDomain: "merchantdomain",
	CallbackURL:    "callbackurl",
	UpdatedAt:      "updatedat",
}

// Columns returns all standard column names
func (t PlatformDomainConfigTable) Columns() []string {
	return []string{
		t.ID, t.MerchantDomain, t.CallbackURL, t.UpdatedAt,
	}
}
