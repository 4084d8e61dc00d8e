// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// MerchantPointsAllocationTable represents the 'merchant.pointsallocation' table
type MerchantPointsAllocationTable struct {
	Table          string
	ID             string
	MerchantDomain string
	UserID         string
	Username       string
	Points         string
	AllocatedAt    string
	AllocatedBy    string
	Note           string
}

// MerchantPointsAllocation is the schema definition for merchant.pointsallocation
var MerchantPointsAllocation = MerchantPointsAllocationTable{
	Table:          "merchant.pointsallocation",
	ID:             "id",
	MerchantDomain: "merchantdomain",
	UserID:         "userid",
	Username:       "username",
	Points:         "points",
	AllocatedAt:    "allocatedat",
	AllocatedBy:    "allocatedby",
	Note:           "note",
}

// Columns returns all standard column names
func (t MerchantPointsAllocationTable) Columns() []string {
	return []string{
		t.ID, t.MerchantDomain, t.UserID, t.Username, t.Points, t.AllocatedAt, t.AllocatedBy, t.Note,
	}
}
