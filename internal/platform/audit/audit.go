// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package audit records administrative mutations into console.auditlog.

Every write performed by a system or business administrator (account
changes, key issuance, sign-service activation, points allocation, fund
movements) appends one [Entry] with before/after JSON snapshots.

The writer uses database/sql through the pgx stdlib driver so it can run on
a handle separate from the request pool.
*/
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/merchantdesk/internal/platform/ctxutil"
	"github.com/taibuivan/merchantdesk/internal/platform/database/schema"
	"github.com/taibuivan/merchantdesk/pkg/ids"
)

// Entry is one audited mutation.
type Entry struct {
	ID         string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Before     any
	After      any
	IPAddress  string
	CreatedAt  time.Time
}

// Recorder appends audit entries.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// SQLRecorder writes entries with database/sql.
type SQLRecorder struct {
	db *sql.DB
}

// NewSQLRecorder returns a [SQLRecorder] over db.
func NewSQLRecorder(db *sql.DB) *SQLRecorder {
	return &SQLRecorder{db: db}
}

/*
Record inserts one entry.

Description: Fills the ID (ULID), timestamp, and the actor and IP address
from the request context when the caller left them empty.

Parameters:
  - ctx: context.Context
  - entry: Entry

Returns:
  - error: Marshalling or execution failures
*/
func (recorder *SQLRecorder) Record(ctx context.Context, entry Entry) error {
	entry = complete(ctx, entry)

	before, err := snapshot(entry.Before)
	if err != nil {
		return fmt.Errorf("audit_marshal_before_failed: %w", err)
	}
	after, err := snapshot(entry.After)
	if err != nil {
		return fmt.Errorf("audit_marshal_after_failed: %w", err)
	}

	table := schema.ConsoleAuditLog
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		table.Table, strings.Join(table.Columns(), ", "),
	)

	_, err = recorder.db.ExecContext(ctx, query,
		entry.ID, entry.ActorID, entry.Action, entry.EntityType, entry.EntityID,
		before, after, entry.IPAddress, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("audit_record_failed: %w", err)
	}
	return nil
}

/*
ListByEntity returns the trail of one entity, newest first.

Parameters:
  - ctx: context.Context
  - entityType: string
  - entityID: string

Returns:
  - []Entry: Entries with Before/After as raw JSON
  - error: Query failures
*/
func (recorder *SQLRecorder) ListByEntity(ctx context.Context, entityType, entityID string) ([]Entry, error) {
	table := schema.ConsoleAuditLog
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2 ORDER BY %s DESC`,
		strings.Join(table.Columns(), ", "), table.Table, table.EntityType, table.EntityID, table.CreatedAt,
	)

	rows, err := recorder.db.QueryContext(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("audit_list_failed: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry         Entry
			before, after []byte
		)
		if err := rows.Scan(&entry.ID, &entry.ActorID, &entry.Action, &entry.EntityType, &entry.EntityID,
			&before, &after, &entry.IPAddress, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit_scan_failed: %w", err)
		}
		entry.Before = json.RawMessage(before)
		entry.After = json.RawMessage(after)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Write records entry and logs, rather than returns, a failure. An audit
// outage must not undo a mutation that already committed.
func Write(ctx context.Context, recorder Recorder, entry Entry) {
	if recorder == nil {
		return
	}
	if err := recorder.Record(ctx, entry); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "audit_write_failed",
			slog.String("action", entry.Action),
			slog.String("entity_id", entry.EntityID),
			slog.Any("error", err),
		)
	}
}

// Nop discards every entry.
type Nop struct{}

// Record implements [Recorder].
func (Nop) Record(context.Context, Entry) error { return nil }

func complete(ctx context.Context, entry Entry) Entry {
	if entry.ID == "" {
		entry.ID = ids.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.ActorID == "" {
		if claims := ctxutil.GetClaims(ctx); claims != nil {
			entry.ActorID = claims.UserID
		}
	}
	if entry.IPAddress == "" {
		entry.IPAddress = ctxutil.GetClientIP(ctx)
	}
	return entry
}

// snapshot encodes v as JSON; nil stays SQL NULL.
func snapshot(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return encoded, nil
}
