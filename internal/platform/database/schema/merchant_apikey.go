// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// MerchantAPIKeyTable represents the 'merchant.apikey' table
type MerchantAPIKeyTable struct {
	Table          string
	ID             string
	MerchantDomain string
	Key            string
	Name           string
	Status         string
	Traffic        string
	LastUsedAt     string
	CreatedAt      string
	UpdatedAt      string
}

// MerchantAPIKey is the schema definition for merchant.apikey
var MerchantAPIKey = MerchantAPIKeyTable{
	Table:          "merchant.apikey",
	ID:             "id",
	MerchantDomain: "merchantdomain",
	Key:            "apikey",
	Name:           "name",
	Status:         "status",
	Traffic:        "traffic",
	LastUsedAt:     "lastusedat",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

// Columns returns all standard column names
func (t MerchantAPIKeyTable) Columns() []string {
	return []string{
		t.ID, t.MerchantDomain, t.Key, t.Name, t.Status, t.Traffic, t.LastUsedAt, t.CreatedAt, t.UpdatedAt,
	}
}
