// Package users manages staff accounts: credentials, role assignment, and
// the balance rules that keep at least one owner able to sign in.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"barberq/internal/roles"
	"barberq/internal/services"
	"barberq/internal/storage"
)

// User is a staff account. PasswordHash never leaves this package.
type User struct {
	ID        int64
	Name      string
	Email     string
	Username  string
	Role      roles.Role
	CreatedAt time.Time
	UpdatedAt time.Time

	passwordHash string
}

// Store reads and writes staff accounts.
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

const userColumns = "id, name, email, username, role, password_hash, created_at, updated_at"

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(scanner rowScanner) (*User, error) {
	var (
		user        User
		usernameRaw sql.NullString
		hashRaw     sql.NullString
		roleStr     string
		createdAt   string
		updatedAt   string
	)
	if err := scanner.Scan(&user.ID, &user.Name, &user.Email, &usernameRaw, &roleStr, &hashRaw, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	user.Username = usernameRaw.String
	user.passwordHash = hashRaw.String
	user.Role, _ = roles.Parse(roleStr)
	if created, err := storage.ParseTime(createdAt); err == nil {
		user.CreatedAt = created
	}
	if updated, err := storage.ParseTime(updatedAt); err == nil {
		user.UpdatedAt = updated
	}
	return &user, nil
}

// List returns every account ordered by creation.
func (s *Store) List(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

// GetByID fetches an account by identifier. A missing row is ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "users", "get", fmt.Sprintf("id %d", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Count returns the number of accounts. Used by the bootstrap seed.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// NewUser carries the fields for account creation.
type NewUser struct {
	Name     string
	Email    string
	Username string
	Password string
	Role     roles.Role
}

// Create inserts an account. Admin capability required, and nobody may mint
// an account above their own role. Duplicate email or username is a conflict.
func (s *Store) Create(ctx context.Context, fields NewUser, actor roles.Role) (*User, error) {
	if !actor.CanManageRoster() {
		return nil, services.Wrap(services.ErrForbidden, "users", "create", "insufficient_role", nil)
	}

	name := strings.TrimSpace(fields.Name)
	email := normalizeEmail(fields.Email)
	username := strings.TrimSpace(fields.Username)
	if name == "" || email == "" {
		return nil, services.Wrap(services.ErrInvalidInput, "users", "create", "name and email are required", nil)
	}
	role := fields.Role
	if role == "" {
		role = roles.Viewer
	}
	if _, ok := roles.Parse(string(role)); !ok {
		return nil, services.Wrap(services.ErrInvalidInput, "users", "create", fmt.Sprintf("invalid role %q", role), nil)
	}
	if !actor.AtLeast(role) {
		return nil, services.Wrap(services.ErrForbidden, "users", "create", "cannot assign a role above your own", nil)
	}

	var hash any
	if fields.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(fields.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = string(hashed)
	}

	timestamp := storage.FormatTime(s.now())
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, email, username, role, password_hash, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		name, email, storage.NullableString(username), role, hash, timestamp, timestamp,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, services.Wrap(services.ErrConflict, "users", "create", "email or username already taken", nil)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// UserUpdate carries editable account fields. Nil fields are left unchanged.
type UserUpdate struct {
	Name     *string
	Email    *string
	Username *string
	Password *string
	Role     *roles.Role
}

// Update edits an account. Admin capability required; accounts above the
// actor's role are off limits, as is promoting anyone above the actor.
// Demoting the last owner is a conflict.
func (s *Store) Update(ctx context.Context, id int64, fields UserUpdate, actor roles.Role) (*User, error) {
	if !actor.CanManageRoster() {
		return nil, services.Wrap(services.ErrForbidden, "users", "update", "insufficient_role", nil)
	}
	if fields.Role != nil {
		if _, ok := roles.Parse(string(*fields.Role)); !ok {
			return nil, services.Wrap(services.ErrInvalidInput, "users", "update", fmt.Sprintf("invalid role %q", *fields.Role), nil)
		}
		if !actor.AtLeast(*fields.Role) {
			return nil, services.Wrap(services.ErrForbidden, "users", "update", "cannot assign a role above your own", nil)
		}
	}

	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
		user, err := scanUser(row)
		if errors.Is(err, sql.ErrNoRows) {
			return services.Wrap(services.ErrNotFound, "users", "update", fmt.Sprintf("id %d", id), nil)
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if !actor.AtLeast(user.Role) {
			return services.Wrap(services.ErrForbidden, "users", "update", "cannot edit an account above your own role", nil)
		}

		if fields.Role != nil && user.Role == roles.Owner && *fields.Role != roles.Owner {
			owners, err := countRoleTx(ctx, tx, roles.Owner)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return services.Wrap(services.ErrConflict, "users", "update", "cannot demote the last owner", nil)
			}
		}
		if fields.Role != nil && user.Role.CanManageRoster() && !fields.Role.CanManageRoster() {
			managers, err := countManagersTx(ctx, tx)
			if err != nil {
				return err
			}
			if managers <= 1 {
				return services.Wrap(services.ErrConflict, "users", "update", "cannot demote the last admin or owner", nil)
			}
		}

		name := user.Name
		if fields.Name != nil {
			if trimmed := strings.TrimSpace(*fields.Name); trimmed != "" {
				name = trimmed
			}
		}
		email := user.Email
		if fields.Email != nil {
			normalized := normalizeEmail(*fields.Email)
			if normalized == "" {
				return services.Wrap(services.ErrInvalidInput, "users", "update", "email is required", nil)
			}
			email = normalized
		}
		username := user.Username
		if fields.Username != nil {
			username = strings.TrimSpace(*fields.Username)
		}
		role := user.Role
		if fields.Role != nil {
			role = *fields.Role
		}
		hash := user.passwordHash
		if fields.Password != nil && *fields.Password != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*fields.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			hash = string(hashed)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE users SET name = ?, email = ?, username = ?, role = ?, password_hash = ?, updated_at = ? WHERE id = ?`,
			name, email, storage.NullableString(username), role,
			storage.NullableString(hash), storage.FormatTime(s.now()), id,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return services.Wrap(services.ErrConflict, "users", "update", "email or username already taken", nil)
			}
			return fmt.Errorf("write user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes an account. Admin capability required; accounts above the
// actor are off limits, and the last owner cannot be removed.
func (s *Store) Delete(ctx context.Context, id int64, actor roles.Role) error {
	if !actor.CanManageRoster() {
		return services.Wrap(services.ErrForbidden, "users", "delete", "insufficient_role", nil)
	}

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
		user, err := scanUser(row)
		if errors.Is(err, sql.ErrNoRows) {
			return services.Wrap(services.ErrNotFound, "users", "delete", fmt.Sprintf("id %d", id), nil)
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if !actor.AtLeast(user.Role) {
			return services.Wrap(services.ErrForbidden, "users", "delete", "cannot delete an account above your own role", nil)
		}
		if user.Role == roles.Owner {
			owners, err := countRoleTx(ctx, tx, roles.Owner)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return services.Wrap(services.ErrConflict, "users", "delete", "cannot delete the last owner", nil)
			}
		}
		if user.Role.CanManageRoster() {
			managers, err := countManagersTx(ctx, tx)
			if err != nil {
				return err
			}
			if managers <= 1 {
				return services.Wrap(services.ErrConflict, "users", "delete", "cannot remove the last admin or owner", nil)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

// Authenticate checks a login against the stored bcrypt hash. The identifier
// matches email first, then username. Failures are indistinguishable.
func (s *Store) Authenticate(ctx context.Context, identifier, password string) (*User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, services.Wrap(services.ErrUnauthorized, "users", "authenticate", "invalid credentials", nil)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? OR username = ? LIMIT 1`,
		strings.ToLower(identifier), identifier,
	)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrUnauthorized, "users", "authenticate", "invalid credentials", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user.passwordHash == "" {
		return nil, services.Wrap(services.ErrUnauthorized, "users", "authenticate", "invalid credentials", nil)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.passwordHash), []byte(password)) != nil {
		return nil, services.Wrap(services.ErrUnauthorized, "users", "authenticate", "invalid credentials", nil)
	}
	return user, nil
}

// SeedOwner creates the initial owner account when the users table is empty.
// Subsequent calls are no-ops.
func (s *Store) SeedOwner(ctx context.Context, name, email, password string) (*User, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}
	return s.Create(ctx, NewUser{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     roles.Owner,
	}, roles.Owner)
}

func countRoleTx(ctx context.Context, tx *sql.Tx, role roles.Role) (int, error) {
	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = ?`, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("count role %s: %w", role, err)
	}
	return count, nil
}

func countManagersTx(ctx context.Context, tx *sql.Tx) (int, error) {
	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role IN (?, ?)`, roles.Admin, roles.Owner,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count admins and owners: %w", err)
	}
	return count, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "constraint failed")
}
