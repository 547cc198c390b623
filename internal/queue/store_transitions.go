package queue

import (
	"context"
	"database/sql"
	"fmt"

	"barberq/internal/roles"
	"barberq/internal/storage"
)

// ApplyTransition moves one entry to the target status and applies the
// ordering side effects of the transition table. Front-desk capability
// required. Requesting the entry's current status is an idempotent no-op
// that touches nothing, including updated_at.
func (s *Store) ApplyTransition(ctx context.Context, id int64, target Status, actor roles.Role) (*Entry, error) {
	if !actor.CanManageQueue() {
		return nil, Wrap(ErrForbidden, "apply transition", "insufficient_role", nil)
	}
	target, ok := ParseStatus(string(target))
	if !ok {
		return nil, Wrap(ErrInvalidInput, "apply transition", "invalid status", nil)
	}

	var result *Entry
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		entry, err := getByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return Wrap(ErrNotFound, "apply transition", fmt.Sprintf("id %d", id), nil)
		}

		if entry.Status == target {
			result = entry
			return nil
		}

		eff, known := transitionEffects[entry.Status][target]
		if !known {
			return Wrap(ErrInvalidInput, "apply transition",
				fmt.Sprintf("no transition from %s to %s", entry.Status, target), nil)
		}

		now := s.now()
		timestamp := storage.FormatTime(now)

		var busySince any
		switch {
		case eff.stampBusy:
			busySince = timestamp
		case eff.clearBusy:
			busySince = nil
		default:
			busySince = storage.NullableTime(entry.BusySince)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE barbers SET status = ?, busy_since = ?, updated_at = ? WHERE id = ?`,
			target, busySince, timestamp, id,
		); err != nil {
			return fmt.Errorf("write transition: %w", err)
		}

		if eff.moveToBottom {
			if err := moveToBottomTx(ctx, tx, id, now); err != nil {
				return err
			}
			if err := normalizePositionsTx(ctx, tx, now); err != nil {
				return err
			}
		}

		result, err = getByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if result == nil {
			return Wrap(ErrConflict, "apply transition", "entry vanished mid-transition", nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CycleStatus advances an entry one step around the tap rotation:
// available -> busy_appointment -> available. Walk-in barbers cycle back to
// available, and tapping an inactive barber reactivates them at the bottom
// of the queue, so a tap always lands somewhere useful.
func (s *Store) CycleStatus(ctx context.Context, id int64, actor roles.Role) (*Entry, error) {
	if !actor.CanManageQueue() {
		return nil, Wrap(ErrForbidden, "cycle status", "insufficient_role", nil)
	}

	entry, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.ApplyTransition(ctx, id, NextCycleStatus(entry.Status), actor)
}
