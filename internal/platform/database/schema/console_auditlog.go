// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ConsoleAuditLogTable represents the 'console.auditlog' table
type ConsoleAuditLogTable struct {
	Table      string
	ID         string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Before     string
	After      string
	IPAddress  string
	CreatedAt  string
}

var ConsoleAuditLog = ConsoleAuditLogTable{
	Table:      "console.auditlog",
	ID:         "id",
	ActorID:    "actorid",
	Action:     "action",
	EntityType: "entitytype",
	EntityID:   "entityid",
	Before:     "before",
	After:      "after",
	IPAddress:  "ipaddress",
	CreatedAt:  "createdat",
}

// Columns lists the columns in scan order.
func (t ConsoleAuditLogTable) Columns() []string {
	return []string{
		t.ID, t.ActorID, t.Action, t.EntityType, t.EntityID, t.Before, t.After, t.IPAddress, t.CreatedAt,
	}
}
