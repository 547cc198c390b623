package queue

import (
	"context"
	"database/sql"
	"fmt"

	"barberq/internal/roles"
	"barberq/internal/storage"
)

// Reorder rewrites the queue ordering from an ordered id list. Listed ids
// take positions 1..k in the given order; entries omitted from the list keep
// their relative order and follow after. Duplicate and unknown ids are
// dropped from the request; a request that names no known entry is invalid.
// Front-desk capability required.
func (s *Store) Reorder(ctx context.Context, orderedIDs []int64, actor roles.Role) ([]*Entry, error) {
	if !actor.CanManageQueue() {
		return nil, Wrap(ErrForbidden, "reorder", "insufficient_role", nil)
	}

	requested := make([]int64, 0, len(orderedIDs))
	seen := make(map[int64]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if id <= 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		requested = append(requested, id)
	}
	if len(requested) == 0 {
		return nil, Wrap(ErrInvalidOrder, "reorder", "no usable ids in order list", nil)
	}

	var entries []*Entry
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id, position FROM barbers ORDER BY position ASC, id ASC`)
		if err != nil {
			return fmt.Errorf("read ordering: %w", err)
		}
		var currentIDs []int64
		maxPos := 0
		for rows.Next() {
			var id int64
			var pos int
			if err := rows.Scan(&id, &pos); err != nil {
				rows.Close()
				return err
			}
			currentIDs = append(currentIDs, id)
			if pos > maxPos {
				maxPos = pos
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		known := make(map[int64]struct{}, len(currentIDs))
		for _, id := range currentIDs {
			known[id] = struct{}{}
		}

		finalOrder := make([]int64, 0, len(currentIDs))
		placed := make(map[int64]struct{}, len(currentIDs))
		for _, id := range requested {
			if _, ok := known[id]; !ok {
				continue
			}
			finalOrder = append(finalOrder, id)
			placed[id] = struct{}{}
		}
		if len(finalOrder) == 0 {
			return Wrap(ErrInvalidOrder, "reorder", "order list names no known entries", nil)
		}
		for _, id := range currentIDs {
			if _, ok := placed[id]; !ok {
				finalOrder = append(finalOrder, id)
			}
		}

		// Two phases keep the unique position index satisfied: first
		// shift everything into a range no final position can touch,
		// then assign the final 1..N sequence.
		offset := maxPos
		if len(finalOrder) > offset {
			offset = len(finalOrder)
		}
		offset += 10
		for i, id := range finalOrder {
			if _, err := tx.ExecContext(ctx,
				`UPDATE barbers SET position = ? WHERE id = ?`, offset+i+1, id,
			); err != nil {
				return fmt.Errorf("stage position for id %d: %w", id, err)
			}
		}
		now := s.now()
		timestamp := storage.FormatTime(now)
		for i, id := range finalOrder {
			if _, err := tx.ExecContext(ctx,
				`UPDATE barbers SET position = ?, updated_at = ? WHERE id = ?`, i+1, timestamp, id,
			); err != nil {
				return fmt.Errorf("assign position for id %d: %w", id, err)
			}
		}
		return normalizePositionsTx(ctx, tx, now)
	})
	if err != nil {
		return nil, err
	}

	entries, err = s.List(ctx)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
