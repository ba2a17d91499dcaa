package db

import (
	"context"
	"database/sql"
	"fmt"
)

// GetSlot returns the payload stored under slot. The second return value
// reports whether the slot exists; a missing slot is not an error.
func (d *Database) GetSlot(ctx context.Context, slot string) (string, bool, error) {
	var payload string
	err := d.DB.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE slot = ?`, slot).Scan(&payload)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get slot %q: %w", slot, err)
	}
	return payload, true, nil
}

// PutSlot replaces the payload stored under slot.
func (d *Database) PutSlot(ctx context.Context, slot, payload string) error {
	_, err := d.DB.ExecContext(ctx, `
		INSERT INTO snapshots (slot, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(slot) DO UPDATE SET
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP
	`, slot, payload)
	if err != nil {
		return fmt.Errorf("put slot %q: %w", slot, err)
	}
	return nil
}

// DeleteSlot removes a slot entirely. Deleting an absent slot is a no-op.
func (d *Database) DeleteSlot(ctx context.Context, slot string) error {
	if _, err := d.DB.ExecContext(ctx, `DELETE FROM snapshots WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("delete slot %q: %w", slot, err)
	}
	return nil
}
