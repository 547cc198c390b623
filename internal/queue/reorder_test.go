package queue_test

import (
	"context"
	"errors"
	"testing"

	"barberq/internal/queue"
	"barberq/internal/roles"
	"barberq/internal/testsupport"
)

func seedTrio(t *testing.T, store *queue.Store) (a, b, c *queue.Entry) {
	t.Helper()
	a = testsupport.SeedBarber(t, store, "Alice", queue.StatusAvailable)
	b = testsupport.SeedBarber(t, store, "Bob", queue.StatusAvailable)
	c = testsupport.SeedBarber(t, store, "Carol", queue.StatusAvailable)
	return a, b, c
}

func TestReorderFullList(t *testing.T) {
	store := newStore(t)
	a, b, c := seedTrio(t, store)

	entries, err := store.Reorder(context.Background(), []int64{c.ID, a.ID, b.ID}, roles.FrontDesk)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	got := []int64{entries[0].ID, entries[1].ID, entries[2].ID}
	want := []int64{c.ID, a.ID, b.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	assertDensePositions(t, store)
}

func TestReorderRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	a, b, c := seedTrio(t, store)

	if _, err := store.Reorder(ctx, []int64{b.ID, c.ID, a.ID}, roles.FrontDesk); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	entries, err := store.Reorder(ctx, []int64{a.ID, b.ID, c.ID}, roles.FrontDesk)
	if err != nil {
		t.Fatalf("Reorder back: %v", err)
	}
	want := []string{"Alice", "Bob", "Carol"}
	for i, entry := range entries {
		if entry.Name != want[i] {
			t.Fatalf("round trip order at %d = %s, want %s", i, entry.Name, want[i])
		}
	}
}

func TestReorderPartialListAppendsOmitted(t *testing.T) {
	store := newStore(t)
	a, b, c := seedTrio(t, store)
	d := testsupport.SeedBarber(t, store, "Dana", queue.StatusAvailable)

	// Listed ids lead; omitted entries keep their relative order after them.
	entries, err := store.Reorder(context.Background(), []int64{d.ID, b.ID}, roles.FrontDesk)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	want := []int64{d.ID, b.ID, a.ID, c.ID}
	for i := range want {
		if entries[i].ID != want[i] {
			t.Fatalf("order at %d = %d, want %d", i, entries[i].ID, want[i])
		}
	}
	assertDensePositions(t, store)
}

func TestReorderIgnoresDuplicatesAndUnknownIDs(t *testing.T) {
	store := newStore(t)
	a, b, c := seedTrio(t, store)

	entries, err := store.Reorder(context.Background(), []int64{b.ID, 999, b.ID, a.ID, -4}, roles.FrontDesk)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	want := []int64{b.ID, a.ID, c.ID}
	for i := range want {
		if entries[i].ID != want[i] {
			t.Fatalf("order at %d = %d, want %d", i, entries[i].ID, want[i])
		}
	}
}

func TestReorderRejectsEmptyAndAllUnknown(t *testing.T) {
	store := newStore(t)
	seedTrio(t, store)
	ctx := context.Background()

	if _, err := store.Reorder(ctx, nil, roles.FrontDesk); !errors.Is(err, queue.ErrInvalidOrder) {
		t.Fatalf("empty list error = %v, want ErrInvalidOrder", err)
	}
	if _, err := store.Reorder(ctx, []int64{777, 888}, roles.FrontDesk); !errors.Is(err, queue.ErrInvalidOrder) {
		t.Fatalf("all-unknown list error = %v, want ErrInvalidOrder", err)
	}

	// The dedicated marker still classifies as invalid input for callers
	// that only know the shared taxonomy.
	if _, err := store.Reorder(ctx, nil, roles.FrontDesk); !errors.Is(err, queue.ErrInvalidInput) {
		t.Fatalf("empty list error = %v, want ErrInvalidInput as well", err)
	}
}

func TestReorderRequiresFrontDesk(t *testing.T) {
	store := newStore(t)
	a, _, _ := seedTrio(t, store)

	if _, err := store.Reorder(context.Background(), []int64{a.ID}, roles.Viewer); !errors.Is(err, queue.ErrForbidden) {
		t.Fatalf("viewer reorder error = %v, want ErrForbidden", err)
	}
}

func TestReorderPreservesStatuses(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	a, b, _ := seedTrio(t, store)

	if _, err := store.ApplyTransition(ctx, a.ID, queue.StatusBusyAppointment, roles.FrontDesk); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}

	entries, err := store.Reorder(ctx, []int64{b.ID, a.ID}, roles.FrontDesk)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	for _, entry := range entries {
		if entry.ID == a.ID && entry.Status != queue.StatusBusyAppointment {
			t.Fatalf("reorder rewrote status to %s", entry.Status)
		}
	}
}
