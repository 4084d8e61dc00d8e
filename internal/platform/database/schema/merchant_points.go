// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// MerchantPointsTable represents the 'merchant.points' table, the points balance of one merchant
type MerchantPointsTable struct {
	Table          string
	MerchantDomain string
	TotalPoints    string
	UsedPoints     string
	UpdatedAt      string
}

var MerchantPoints = MerchantPointsTable{
	Table:          "merchant.points",
	MerchantDomain: "merchantdomain",
	TotalPoints:    "totalpoints",
	UsedPoints:     "usedpoints",
	UpdatedAt:      "updatedat",
}

// Columns lists the columns in scan order.
func (t MerchantPointsTable) Columns() []string {
	return []string{
		t.MerchantDomain, t.TotalPoints, t.UsedPoints, t.UpdatedAt,
	}
}
