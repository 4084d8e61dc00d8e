// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// MerchantEventTable represents the 'merchant.event' table
type MerchantEventTable struct {
	Table          string
	ID             string
	MerchantDomain string
	Name           string
	Description    string
	Type           string
	Status         string
	StartTime      string
	EndTime        string
	TargetAmount   string
	CurrentAmount  string
	RewardPoints   string
	Liquidity      string
	FinalAmount    string
	FinalPoints    string
	CreatedAt      string
	UpdatedAt      string
}

// MerchantEvent is the schema definition for merchant.event
var MerchantEvent = MerchantEventTable{
	Table:          "merchant.event",
	ID:             "id",
	MerchantDomain: "merchantdomain",
	Name:           "name",
	Description:    "description",
	Type:           "type",
	Status:         "status",
	StartTime:      "starttime",
	EndTime:        "endtime",
	TargetAmount:   "targetamount",
	CurrentAmount:  "currentamount",
	RewardPoints:   "rewardpoints",
	Liquidity:      "liquidity",
	FinalAmount:    "finalamount",
	FinalPoints:    "finalpoints",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

// Columns returns all standard column names
func (t MerchantEventTable) Columns() []string {
	return []string{
		t.ID, t.MerchantDomain, t.Name, t.Description, t.Type, t.Status, t.StartTime, t.EndTime, t.TargetAmount, t.CurrentAmount, t.RewardPoints, t.Liquidity, t.FinalAmount, t.FinalPoints, t.CreatedAt, t.UpdatedAt,
	}
}
