// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// MerchantSignConfigTable represents the 'merchant.signconfig' table
type MerchantSignConfigTable struct {
	Table          string
	ID             string
	MerchantDomain string
	URL            string
	Description    string
	IsActive       string
	CreatedAt      string
	UpdatedAt      string
}

// MerchantSignConfig is the schema definition for merchant.signconfig
var MerchantSignConfig = MerchantSignConfigTable{
	Table:          "merchant.signconfig",
	ID:             "id",
	MerchantDomain: "merchantdomain",
	URL:            "url",
	Description:    "description",
	IsActive:       "isactive",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

// Columns lists the columns in scan order.
func (t MerchantSignConfigTable) Columns() []string {
	return []string{
		t.ID, t.MerchantDomain, t.URL, t.Description, t.IsActive, t.CreatedAt, t.UpdatedAt,
	}
}
