package queue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"barberq/internal/queue"
	"barberq/internal/roles"
	"barberq/internal/testsupport"
)

func newStore(t *testing.T) *queue.Store {
	t.Helper()
	return testsupport.NewQueueStore(t, testsupport.NewConfig(t))
}

func assertDensePositions(t *testing.T, store *queue.Store) []*queue.Entry {
	t.Helper()
	entries, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i, entry := range entries {
		if entry.Position != i+1 {
			t.Fatalf("position invariant broken: entry %d (%s) has position %d, want %d",
				entry.ID, entry.Name, entry.Position, i+1)
		}
	}
	return entries
}

func TestCreateAssignsSequentialPositions(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	names := []string{"Alice", "Bob", "Carol"}
	for i, name := range names {
		entry, err := store.Create(ctx, name, queue.StatusAvailable, roles.Admin)
		if err != nil {
			t.Fatalf("Create(%s): %v", name, err)
		}
		if entry.Position != i+1 {
			t.Fatalf("Create(%s) position = %d, want %d", name, entry.Position, i+1)
		}
	}
	assertDensePositions(t, store)
}

func TestCreateNormalizesName(t *testing.T) {
	store := newStore(t)

	entry, err := store.Create(context.Background(), "  jean-luc mcRae  ", queue.StatusAvailable, roles.Admin)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if entry.Name != "Jean-Luc McRae" {
		t.Fatalf("normalized name = %q, want %q", entry.Name, "Jean-Luc McRae")
	}
}

func TestCreateBusyStatusStampsBusySince(t *testing.T) {
	store := newStore(t)

	entry, err := store.Create(context.Background(), "Dana", queue.StatusBusyWalkin, roles.Admin)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if entry.BusySince == nil {
		t.Fatal("busy entry should carry busy_since")
	}
}

func TestCreateValidation(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, "   ", queue.StatusAvailable, roles.Admin); !errors.Is(err, queue.ErrInvalidInput) {
		t.Fatalf("blank name error = %v, want ErrInvalidInput", err)
	}
	if _, err := store.Create(ctx, "Eve", queue.Status("on_break"), roles.Admin); !errors.Is(err, queue.ErrInvalidInput) {
		t.Fatalf("unknown status error = %v, want ErrInvalidInput", err)
	}
	if _, err := store.Create(ctx, "Eve", queue.StatusAvailable, roles.FrontDesk); !errors.Is(err, queue.ErrForbidden) {
		t.Fatalf("front-desk create error = %v, want ErrForbidden", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	store := newStore(t)

	if _, err := store.GetByID(context.Background(), 404); !errors.Is(err, queue.ErrNotFound) {
		t.Fatalf("missing entry error = %v, want ErrNotFound", err)
	}
}

func TestUpdateStatusEditRewritesBusySince(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	entry := testsupport.SeedBarber(t, store, "Frank", queue.StatusBusyAppointment)
	if entry.BusySince == nil {
		t.Fatal("seeded busy entry should carry busy_since")
	}

	target := queue.StatusAvailable
	updated, err := store.Update(ctx, entry.ID, queue.EntryUpdate{Status: &target}, roles.Admin)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.BusySince != nil {
		t.Fatal("available entry should not carry busy_since")
	}
	if updated.Position != entry.Position {
		t.Fatalf("direct status edit moved position %d -> %d", entry.Position, updated.Position)
	}
}

func TestUpdateRenamesWithoutTouchingOrder(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	testsupport.SeedBarber(t, store, "Gina", queue.StatusAvailable)
	second := testsupport.SeedBarber(t, store, "Hugo", queue.StatusAvailable)

	name := "hugo santos"
	updated, err := store.Update(ctx, second.ID, queue.EntryUpdate{Name: &name}, roles.Owner)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Hugo Santos" {
		t.Fatalf("renamed to %q, want %q", updated.Name, "Hugo Santos")
	}
	if updated.Position != 2 {
		t.Fatalf("rename moved position to %d", updated.Position)
	}
}

func TestUpdateGuards(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	entry := testsupport.SeedBarber(t, store, "Iris", queue.StatusAvailable)

	name := "Iris"
	if _, err := store.Update(ctx, entry.ID, queue.EntryUpdate{Name: &name}, roles.FrontDesk); !errors.Is(err, queue.ErrForbidden) {
		t.Fatalf("front-desk update error = %v, want ErrForbidden", err)
	}
	if _, err := store.Update(ctx, 9000, queue.EntryUpdate{Name: &name}, roles.Admin); !errors.Is(err, queue.ErrNotFound) {
		t.Fatalf("missing entry error = %v, want ErrNotFound", err)
	}
	bad := queue.Status("nope")
	if _, err := store.Update(ctx, entry.ID, queue.EntryUpdate{Status: &bad}, roles.Admin); !errors.Is(err, queue.ErrInvalidInput) {
		t.Fatalf("bad status error = %v, want ErrInvalidInput", err)
	}
}

func TestDeleteRenumbersRemaining(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	testsupport.SeedBarber(t, store, "Jack", queue.StatusAvailable)
	middle := testsupport.SeedBarber(t, store, "Kim", queue.StatusAvailable)
	testsupport.SeedBarber(t, store, "Leo", queue.StatusAvailable)

	if err := store.Delete(ctx, middle.ID, roles.Admin); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	entries := assertDensePositions(t, store)
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Name != "Jack" || entries[1].Name != "Leo" {
		t.Fatalf("order after delete = [%s %s], want [Jack Leo]", entries[0].Name, entries[1].Name)
	}
}

func TestDeleteGuards(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	entry := testsupport.SeedBarber(t, store, "Mia", queue.StatusAvailable)

	if err := store.Delete(ctx, entry.ID, roles.FrontDesk); !errors.Is(err, queue.ErrForbidden) {
		t.Fatalf("front-desk delete error = %v, want ErrForbidden", err)
	}
	if err := store.Delete(ctx, 9000, roles.Admin); !errors.Is(err, queue.ErrNotFound) {
		t.Fatalf("missing entry error = %v, want ErrNotFound", err)
	}
}

func TestPositionShiftsRefreshUpdatedAt(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	current := base
	store.WithClock(func() time.Time { return current })

	head := testsupport.SeedBarber(t, store, "Paula", queue.StatusAvailable)
	middle := testsupport.SeedBarber(t, store, "Quinn", queue.StatusAvailable)
	tail := testsupport.SeedBarber(t, store, "Rosa", queue.StatusAvailable)

	current = base.Add(30 * time.Minute)
	if err := store.Delete(ctx, middle.ID, roles.Admin); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	shifted, err := store.GetByID(ctx, tail.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !shifted.UpdatedAt.Equal(current) {
		t.Fatalf("renumbered entry updated_at = %s, want %s", shifted.UpdatedAt, current)
	}

	unmoved, err := store.GetByID(ctx, head.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !unmoved.UpdatedAt.Equal(base) {
		t.Fatalf("unmoved entry updated_at = %s, want %s", unmoved.UpdatedAt, base)
	}

	current = base.Add(time.Hour)
	entries, err := store.Reorder(ctx, []int64{tail.ID, head.ID}, roles.FrontDesk)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	for _, entry := range entries {
		if !entry.UpdatedAt.Equal(current) {
			t.Fatalf("reordered entry %s updated_at = %s, want %s", entry.Name, entry.UpdatedAt, current)
		}
	}
}

func TestListOrdersByPositionThenID(t *testing.T) {
	store := newStore(t)

	a := testsupport.SeedBarber(t, store, "Nora", queue.StatusAvailable)
	b := testsupport.SeedBarber(t, store, "Omar", queue.StatusAvailable)

	entries := assertDensePositions(t, store)
	if entries[0].ID != a.ID || entries[1].ID != b.ID {
		t.Fatalf("list order = [%d %d], want [%d %d]", entries[0].ID, entries[1].ID, a.ID, b.ID)
	}
}
