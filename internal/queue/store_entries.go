package queue

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"barberq/internal/roles"
	"barberq/internal/storage"
)

var nameCaser = cases.Title(language.Und, cases.NoLower)

func normalizeName(name string) string {
	return nameCaser.String(strings.TrimSpace(name))
}

// Create inserts a barber at the next available position. Admin capability
// required. Busy statuses stamp busy_since at creation.
func (s *Store) Create(ctx context.Context, name string, status Status, actor roles.Role) (*Entry, error) {
	if !actor.CanManageRoster() {
		return nil, Wrap(ErrForbidden, "create entry", "insufficient_role", nil)
	}
	name = normalizeName(name)
	if name == "" {
		return nil, Wrap(ErrInvalidInput, "create entry", "name is required", nil)
	}
	if status == "" {
		status = StatusAvailable
	}
	if _, ok := ParseStatus(string(status)); !ok {
		return nil, Wrap(ErrInvalidInput, "create entry", fmt.Sprintf("invalid status %q", status), nil)
	}

	var created *Entry
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		now := s.now()
		timestamp := storage.FormatTime(now)

		max, err := maxPositionTx(ctx, tx)
		if err != nil {
			return err
		}

		var busySince any
		if status.IsBusy() {
			busySince = timestamp
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO barbers (name, status, position, busy_since, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?)`,
			name, status, max+1, busySince, timestamp, timestamp,
		)
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}

		if err := normalizePositionsTx(ctx, tx, now); err != nil {
			return err
		}

		created, err = getByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if created == nil {
			return Wrap(ErrConflict, "create entry", "entry missing after insert", nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// EntryUpdate carries the editable fields of an entry. Nil fields are left
// unchanged. Position is deliberately absent; ordering belongs to the engine.
type EntryUpdate struct {
	Name   *string
	Status *Status
}

// Update edits name and/or status. Admin capability required. A status edit
// sets busy_since for busy states and clears it otherwise, mirroring the
// direct-edit path rather than the transition table.
func (s *Store) Update(ctx context.Context, id int64, fields EntryUpdate, actor roles.Role) (*Entry, error) {
	if !actor.CanManageRoster() {
		return nil, Wrap(ErrForbidden, "update entry", "insufficient_role", nil)
	}
	if fields.Status != nil {
		if _, ok := ParseStatus(string(*fields.Status)); !ok {
			return nil, Wrap(ErrInvalidInput, "update entry", fmt.Sprintf("invalid status %q", *fields.Status), nil)
		}
	}
	if fields.Name != nil {
		trimmed := normalizeName(*fields.Name)
		if trimmed == "" {
			return nil, Wrap(ErrInvalidInput, "update entry", "name is required", nil)
		}
		fields.Name = &trimmed
	}

	var updated *Entry
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		entry, err := getByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return Wrap(ErrNotFound, "update entry", fmt.Sprintf("id %d", id), nil)
		}

		now := s.now()
		timestamp := storage.FormatTime(now)

		name := entry.Name
		if fields.Name != nil {
			name = *fields.Name
		}
		status := entry.Status
		busySince := storage.NullableTime(entry.BusySince)
		if fields.Status != nil {
			status = *fields.Status
			if status.IsBusy() {
				busySince = timestamp
			} else {
				busySince = nil
			}
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE barbers SET name = ?, status = ?, busy_since = ?, updated_at = ? WHERE id = ?`,
			name, status, busySince, timestamp, id,
		); err != nil {
			return fmt.Errorf("update entry: %w", err)
		}

		if err := normalizePositionsTx(ctx, tx, now); err != nil {
			return err
		}

		updated, err = getByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if updated == nil {
			return Wrap(ErrConflict, "update entry", "entry missing after update", nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an entry and renumbers the remaining queue. Admin
// capability required.
func (s *Store) Delete(ctx context.Context, id int64, actor roles.Role) error {
	if !actor.CanManageRoster() {
		return Wrap(ErrForbidden, "delete entry", "insufficient_role", nil)
	}

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM barbers WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete entry: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return Wrap(ErrNotFound, "delete entry", fmt.Sprintf("id %d", id), nil)
		}
		return normalizePositionsTx(ctx, tx, s.now())
	})
}
