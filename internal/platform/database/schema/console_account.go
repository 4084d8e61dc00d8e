// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ConsoleAccountTable represents the 'console.account' table, shared by system and business administrators
type ConsoleAccountTable struct {
	Table          string
	ID             string
	Account        string
	MerchantDomain string
	Role           string
	Permissions    string
	PasswordHash   string
	Status         string
	CreatedAt      string
	UpdatedAt      string
	LastLoginAt    string
}

// ConsoleAccount is the schema definition for console.account
var ConsoleAccount = ConsoleAccountTable{
	Table:          "console.account",
	ID:             "id",
	Account:        "account",
	MerchantDomain: "merchantdomain",
	Role:           "role",
	Permissions:    "permissions",
	PasswordHash:   "passwordhash",
	Status:         "status",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
	LastLoginAt:    "lastloginat",
}

// Columns returns all standard column names
func (t ConsoleAccountTable) Columns() []string {
	return []string{
		t.ID, t.Account, t.MerchantDomain, t.Role, t.Permissions, t.PasswordHash, t.Status, t.CreatedAt, t.UpdatedAt, t.LastLoginAt,
	}
}
