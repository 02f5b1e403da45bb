package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AuditEntry is one row of the booking audit trail.
type AuditEntry struct {
	ID        string
	TenantID  string
	Action    string
	SlotStart time.Time
	SlotEnd   time.Time
	EventID   string
	Detail    string
	CreatedAt time.Time
}

// InsertAuditEntry appends an entry to the booking audit trail.
func (db *DB) InsertAuditEntry(ctx context.Context, entry *AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO booking_audit (id, tenant_id, action, slot_start, slot_end, event_id, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.TenantID, entry.Action,
		entry.SlotStart, entry.SlotEnd, entry.EventID, entry.Detail, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListAuditEntries returns audit entries created within [from, to), oldest
// first.
func (db *DB) ListAuditEntries(ctx context.Context, from, to time.Time) ([]AuditEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, tenant_id, action, slot_start, slot_end, event_id, detail, created_at
		FROM booking_audit
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at ASC`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var slotStart, slotEnd sql.NullTime
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Action, &slotStart, &slotEnd, &e.EventID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if slotStart.Valid {
			e.SlotStart = slotStart.Time
		}
		if slotEnd.Valid {
			e.SlotEnd = slotEnd.Time
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
