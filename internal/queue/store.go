package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"barberq/internal/storage"
)

// Store manages the barber roster and its queue ordering. All position
// writes happen here; no other component touches the position column.
type Store struct {
	db  *storage.DB
	now func() time.Time
}

// NewStore wraps the shared database.
func NewStore(db *storage.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// WithClock overrides the commit timestamp source. Test hook.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

const entryColumns = "id, name, status, position, busy_since, created_at, updated_at"

type rowScanner interface{ Scan(dest ...any) error }

func scanEntry(scanner rowScanner) (*Entry, error) {
	var (
		id        int64
		name      string
		statusStr string
		position  int
		busyRaw   sql.NullString
		createdAt string
		updatedAt string
	)
	if err := scanner.Scan(&id, &name, &statusStr, &position, &busyRaw, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:       id,
		Name:     name,
		Status:   Status(statusStr),
		Position: position,
	}
	if busyRaw.Valid {
		if busy, err := storage.ParseTime(busyRaw.String); err == nil {
			entry.BusySince = &busy
		}
	}
	if created, err := storage.ParseTime(createdAt); err == nil {
		entry.CreatedAt = created
	}
	if updated, err := storage.ParseTime(updatedAt); err == nil {
		entry.UpdatedAt = updated
	}
	return entry, nil
}

// List returns every entry ordered by (position, id). Pure read.
func (s *Store) List(ctx context.Context) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM barbers ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetByID fetches an entry by identifier. A missing row is ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM barbers WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Wrap(ErrNotFound, "get entry", fmt.Sprintf("id %d", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

func getByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*Entry, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM barbers WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return entry, err
}

func maxPositionTx(ctx context.Context, tx *sql.Tx) (int, error) {
	var max int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) FROM barbers`).Scan(&max); err != nil {
		return 0, fmt.Errorf("max position: %w", err)
	}
	return max, nil
}

// normalizePositionsTx reassigns positions 1..N in (position asc, id asc)
// order, refreshing updated_at on every row it moves. Processing rows in
// ascending order never transits through a duplicate, so the unique index on
// position stays satisfied throughout.
func normalizePositionsTx(ctx context.Context, tx *sql.Tx, now time.Time) error {
	rows, err := tx.QueryContext(ctx, `SELECT id, position FROM barbers ORDER BY position ASC, id ASC`)
	if err != nil {
		return fmt.Errorf("read ordering: %w", err)
	}

	type slot struct {
		id       int64
		position int
	}
	var slots []slot
	for rows.Next() {
		var s slot
		if err := rows.Scan(&s.id, &s.position); err != nil {
			rows.Close()
			return err
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	timestamp := storage.FormatTime(now)
	for i, s := range slots {
		want := i + 1
		if s.position == want {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE barbers SET position = ?, updated_at = ? WHERE id = ?`, want, timestamp, s.id,
		); err != nil {
			return fmt.Errorf("normalize position for id %d: %w", s.id, err)
		}
	}
	return nil
}

// moveToBottomTx sets the entry's position past the current maximum. The
// follow-up normalization pass compacts the sequence.
func moveToBottomTx(ctx context.Context, tx *sql.Tx, id int64, now time.Time) error {
	max, err := maxPositionTx(ctx, tx)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE barbers SET position = ?, updated_at = ? WHERE id = ?`,
		max+1, storage.FormatTime(now), id,
	); err != nil {
		return fmt.Errorf("move to bottom: %w", err)
	}
	return nil
}
