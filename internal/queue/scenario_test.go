package queue_test

import (
	"context"
	"testing"

	"barberq/internal/queue"
	"barberq/internal/roles"
	"barberq/internal/testsupport"
)

// Walks one shift's worth of activity through a three-chair shop and checks
// the ordering after every step.
func TestShiftScenario(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	a := testsupport.SeedBarber(t, store, "Ana", queue.StatusAvailable)
	b := testsupport.SeedBarber(t, store, "Ben", queue.StatusAvailable)
	c := testsupport.SeedBarber(t, store, "Cory", queue.StatusBusyAppointment)

	// A walk-in sits down in Ana's chair: she drops to the back.
	updated, err := store.ApplyTransition(ctx, a.ID, queue.StatusBusyWalkin, roles.FrontDesk)
	if err != nil {
		t.Fatalf("walk-in transition: %v", err)
	}
	if updated.BusySince == nil {
		t.Fatal("walk-in should stamp busy_since")
	}
	entries := assertDensePositions(t, store)
	wantOrder(t, entries, b.ID, c.ID, a.ID)

	// The desk drags Cory to the front and Ben to the back.
	if _, err := store.Reorder(ctx, []int64{c.ID, a.ID, b.ID}, roles.FrontDesk); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	entries = assertDensePositions(t, store)
	wantOrder(t, entries, c.ID, a.ID, b.ID)

	// Ben quits mid-shift; the remaining two close ranks.
	if err := store.Delete(ctx, b.ID, roles.Admin); err != nil {
		t.Fatalf("delete: %v", err)
	}
	entries = assertDensePositions(t, store)
	wantOrder(t, entries, c.ID, a.ID)
}

func wantOrder(t *testing.T, entries []*queue.Entry, ids ...int64) {
	t.Helper()
	if len(entries) != len(ids) {
		t.Fatalf("len(entries) = %d, want %d", len(entries), len(ids))
	}
	for i, id := range ids {
		if entries[i].ID != id {
			got := make([]int64, len(entries))
			for j, e := range entries {
				got[j] = e.ID
			}
			t.Fatalf("order = %v, want %v", got, ids)
		}
	}
}
