// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// MerchantAssetTable represents the 'merchant.asset' table, one row per merchant, amounts in NUMERIC
type MerchantAssetTable struct {
	Table          string
	MerchantDomain string
	TotalAssets    string
	UsedAssets     string
	WalletAddress  string
	UpdatedAt      string
}

// MerchantAsset is the schema definition for merchant.asset
var MerchantAsset = MerchantAssetTable{
	Table:          "merchant.asset",
	MerchantDomain: "merchantdomain",
	TotalAssets:    "totalassets",
	UsedAssets:     "usedassets",
	WalletAddress:  "walletaddress",
	UpdatedAt:      "updatedat",
}

// Columns lists the columns in scan order.
func (t MerchantAssetTable) Columns() []string {
	return []string{
		t.MerchantDomain, t.TotalAssets, t.UsedAssets, t.WalletAddress, t.UpdatedAt,
	}
}
