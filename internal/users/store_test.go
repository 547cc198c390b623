package users_test

import (
	"context"
	"errors"
	"testing"

	"barberq/internal/roles"
	"barberq/internal/services"
	"barberq/internal/testsupport"
	"barberq/internal/users"
)

func newStore(t *testing.T) *users.Store {
	t.Helper()
	return users.NewStore(testsupport.MustOpenDB(t, testsupport.NewConfig(t)))
}

func seedOwner(t *testing.T, store *users.Store) *users.User {
	t.Helper()
	owner, err := store.SeedOwner(context.Background(), "Olive Owner", "owner@shop.test", "hunter2hunter2")
	if err != nil {
		t.Fatalf("SeedOwner: %v", err)
	}
	if owner == nil {
		t.Fatal("SeedOwner returned nil on empty table")
	}
	return owner
}

func TestSeedOwnerOnlyRunsOnce(t *testing.T) {
	store := newStore(t)
	seedOwner(t, store)

	again, err := store.SeedOwner(context.Background(), "Other", "other@shop.test", "pw123456")
	if err != nil {
		t.Fatalf("SeedOwner second call: %v", err)
	}
	if again != nil {
		t.Fatal("SeedOwner should be a no-op when users exist")
	}

	all, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("len(users) = %d, want 1", len(all))
	}
	if all[0].Role != roles.Owner {
		t.Fatalf("seeded role = %s, want owner", all[0].Role)
	}
}

func TestCreateNormalizesEmailAndDefaultsRole(t *testing.T) {
	store := newStore(t)
	seedOwner(t, store)

	user, err := store.Create(context.Background(), users.NewUser{
		Name:  "Desk One",
		Email: "  Desk@Shop.Test  ",
	}, roles.Admin)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.Email != "desk@shop.test" {
		t.Fatalf("email = %q", user.Email)
	}
	if user.Role != roles.Viewer {
		t.Fatalf("default role = %s, want viewer", user.Role)
	}
}

func TestCreateGuards(t *testing.T) {
	store := newStore(t)
	seedOwner(t, store)
	ctx := context.Background()

	if _, err := store.Create(ctx, users.NewUser{Name: "X", Email: "x@shop.test"}, roles.FrontDesk); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("front-desk create error = %v, want ErrForbidden", err)
	}
	if _, err := store.Create(ctx, users.NewUser{Name: "X", Email: "x@shop.test", Role: roles.Owner}, roles.Admin); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("admin minting owner error = %v, want ErrForbidden", err)
	}
	if _, err := store.Create(ctx, users.NewUser{Name: "", Email: ""}, roles.Admin); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("blank fields error = %v, want ErrInvalidInput", err)
	}
	if _, err := store.Create(ctx, users.NewUser{Name: "Dup", Email: "owner@shop.test"}, roles.Admin); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("duplicate email error = %v, want ErrConflict", err)
	}
}

func TestAuthenticate(t *testing.T) {
	store := newStore(t)
	seedOwner(t, store)
	ctx := context.Background()

	user, err := store.Authenticate(ctx, "owner@shop.test", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.Role != roles.Owner {
		t.Fatalf("authenticated role = %s, want owner", user.Role)
	}

	if _, err := store.Authenticate(ctx, "owner@shop.test", "wrong"); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("bad password error = %v, want ErrUnauthorized", err)
	}
	if _, err := store.Authenticate(ctx, "ghost@shop.test", "hunter2hunter2"); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("unknown account error = %v, want ErrUnauthorized", err)
	}
	if _, err := store.Authenticate(ctx, "", ""); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("empty credentials error = %v, want ErrUnauthorized", err)
	}
}

func TestAuthenticateByUsername(t *testing.T) {
	store := newStore(t)
	seedOwner(t, store)
	ctx := context.Background()

	if _, err := store.Create(ctx, users.NewUser{
		Name:     "Desk One",
		Email:    "desk@shop.test",
		Username: "desk1",
		Password: "frontdeskpw",
		Role:     roles.FrontDesk,
	}, roles.Owner); err != nil {
		t.Fatalf("Create: %v", err)
	}

	user, err := store.Authenticate(ctx, "desk1", "frontdeskpw")
	if err != nil {
		t.Fatalf("Authenticate by username: %v", err)
	}
	if user.Role != roles.FrontDesk {
		t.Fatalf("role = %s, want frontdesk", user.Role)
	}
}

func TestUpdateChangesRoleAndPassword(t *testing.T) {
	store := newStore(t)
	seedOwner(t, store)
	ctx := context.Background()

	created, err := store.Create(ctx, users.NewUser{
		Name:     "Desk One",
		Email:    "desk@shop.test",
		Password: "oldpassword",
		Role:     roles.Viewer,
	}, roles.Owner)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	role := roles.FrontDesk
	password := "newpassword"
	updated, err := store.Update(ctx, created.ID, users.UserUpdate{Role: &role, Password: &password}, roles.Owner)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Role != roles.FrontDesk {
		t.Fatalf("role = %s, want frontdesk", updated.Role)
	}
	if _, err := store.Authenticate(ctx, "desk@shop.test", "newpassword"); err != nil {
		t.Fatalf("Authenticate after rotate: %v", err)
	}
	if _, err := store.Authenticate(ctx, "desk@shop.test", "oldpassword"); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("old password error = %v, want ErrUnauthorized", err)
	}
}

func TestUpdateGuardsRoleBalance(t *testing.T) {
	store := newStore(t)
	owner := seedOwner(t, store)
	ctx := context.Background()

	demoted := roles.Admin
	if _, err := store.Update(ctx, owner.ID, users.UserUpdate{Role: &demoted}, roles.Owner); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("demote last owner error = %v, want ErrConflict", err)
	}
	if _, err := store.Update(ctx, owner.ID, users.UserUpdate{Name: strPtr("New Name")}, roles.Admin); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("admin editing owner error = %v, want ErrForbidden", err)
	}
}

func TestRoleBalanceKeepsOneManager(t *testing.T) {
	db := testsupport.MustOpenDB(t, testsupport.NewConfig(t))
	store := users.NewStore(db)
	ctx := context.Background()

	// Seed a lone admin directly; external provisioning can leave the table
	// without an owner, and the balance guard still has to hold.
	res, err := db.ExecContext(ctx,
		`INSERT INTO users (name, email, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		"Ada Admin", "ada@shop.test", "admin", "2026-09-01T09:00:00Z", "2026-09-01T09:00:00Z",
	)
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}

	demoted := roles.FrontDesk
	if _, err := store.Update(ctx, id, users.UserUpdate{Role: &demoted}, roles.Admin); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("demote last admin error = %v, want ErrConflict", err)
	}
	if err := store.Delete(ctx, id, roles.Admin); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("delete last admin error = %v, want ErrConflict", err)
	}
}

func TestDeleteGuards(t *testing.T) {
	store := newStore(t)
	owner := seedOwner(t, store)
	ctx := context.Background()

	if err := store.Delete(ctx, owner.ID, roles.Owner); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("delete last owner error = %v, want ErrConflict", err)
	}

	second, err := store.Create(ctx, users.NewUser{
		Name:  "Second Owner",
		Email: "second@shop.test",
		Role:  roles.Owner,
	}, roles.Owner)
	if err != nil {
		t.Fatalf("Create second owner: %v", err)
	}
	if err := store.Delete(ctx, second.ID, roles.Admin); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("admin deleting owner error = %v, want ErrForbidden", err)
	}
	if err := store.Delete(ctx, second.ID, roles.Owner); err != nil {
		t.Fatalf("Delete second owner: %v", err)
	}
	if err := store.Delete(ctx, 9000, roles.Owner); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing user error = %v, want ErrNotFound", err)
	}
}

func strPtr(s string) *string { return &s }
