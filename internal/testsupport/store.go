package testsupport

import (
	"context"
	"testing"

	"barberq/internal/config"
	"barberq/internal/queue"
	"barberq/internal/roles"
	"barberq/internal/storage"
)

// MustOpenDB opens the sqlite database for tests and registers cleanup.
func MustOpenDB(t testing.TB, cfg *config.Config) *storage.DB {
	t.Helper()

	db, err := storage.Open(cfg)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// NewQueueStore opens a queue store backed by a fresh test database.
func NewQueueStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()
	return queue.NewStore(MustOpenDB(t, cfg))
}

// SeedBarber creates a roster entry for tests using the provided store.
func SeedBarber(t testing.TB, store *queue.Store, name string, status queue.Status) *queue.Entry {
	t.Helper()

	entry, err := store.Create(context.Background(), name, status, roles.Owner)
	if err != nil {
		t.Fatalf("seed barber %q: %v", name, err)
	}
	return entry
}
