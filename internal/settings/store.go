// Package settings manages the single shop-wide settings row: display name,
// logo, theme, TV poll cadence, and the rotating TV access token.
package settings

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"barberq/internal/roles"
	"barberq/internal/services"
	"barberq/internal/storage"
)

// Theme values accepted for the queue and TV pages.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Poll interval bounds in milliseconds. Values outside are clamped.
const (
	MinPollIntervalMS = 1000
	MaxPollIntervalMS = 10000
)

// Settings is the singleton shop configuration row.
type Settings struct {
	ShopName       string
	LogoURL        string
	Theme          string
	PollIntervalMS int
	TVToken        string
	UpdatedAt      time.Time
}

// Store reads and writes the settings row.
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

const settingsColumns = "shop_name, logo_url, theme, poll_interval_ms, tv_token, updated_at"

func scanSettings(row *sql.Row) (*Settings, error) {
	var (
		out       Settings
		logoRaw   sql.NullString
		updatedAt string
	)
	if err := row.Scan(&out.ShopName, &logoRaw, &out.Theme, &out.PollIntervalMS, &out.TVToken, &updatedAt); err != nil {
		return nil, err
	}
	out.LogoURL = logoRaw.String
	if updated, err := storage.ParseTime(updatedAt); err == nil {
		out.UpdatedAt = updated
	}
	return &out, nil
}

// Get returns the settings row. The schema seeds it, so a missing row means
// the database was tampered with.
func (s *Store) Get(ctx context.Context) (*Settings, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+settingsColumns+` FROM settings WHERE id = 1`)
	out, err := scanSettings(row)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "settings", "get", "settings row missing", err)
	}
	return out, nil
}

// Update carries the editable settings fields. Nil fields are left unchanged.
type Update struct {
	ShopName       *string
	LogoURL        *string
	Theme          *string
	PollIntervalMS *int
}

// Apply writes the provided fields. Owner capability required. The poll
// interval is clamped to its bounds rather than rejected; an unknown theme
// is an input error.
func (s *Store) Apply(ctx context.Context, fields Update, actor roles.Role) (*Settings, error) {
	if !actor.AtLeast(roles.Owner) {
		return nil, services.Wrap(services.ErrForbidden, "settings", "update", "insufficient_role", nil)
	}
	if fields.Theme != nil {
		theme := strings.ToLower(strings.TrimSpace(*fields.Theme))
		if theme != ThemeLight && theme != ThemeDark {
			return nil, services.Wrap(services.ErrInvalidInput, "settings", "update",
				fmt.Sprintf("invalid theme %q", *fields.Theme), nil)
		}
		fields.Theme = &theme
	}
	if fields.ShopName != nil {
		trimmed := strings.TrimSpace(*fields.ShopName)
		if trimmed == "" {
			return nil, services.Wrap(services.ErrInvalidInput, "settings", "update", "shop name is required", nil)
		}
		fields.ShopName = &trimmed
	}

	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		current, err := scanSettings(tx.QueryRowContext(ctx, `SELECT `+settingsColumns+` FROM settings WHERE id = 1`))
		if err != nil {
			return services.Wrap(services.ErrNotFound, "settings", "update", "settings row missing", err)
		}

		if fields.ShopName != nil {
			current.ShopName = *fields.ShopName
		}
		if fields.LogoURL != nil {
			current.LogoURL = strings.TrimSpace(*fields.LogoURL)
		}
		if fields.Theme != nil {
			current.Theme = *fields.Theme
		}
		if fields.PollIntervalMS != nil {
			current.PollIntervalMS = clampPollInterval(*fields.PollIntervalMS)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE settings SET shop_name = ?, logo_url = ?, theme = ?, poll_interval_ms = ?, updated_at = ? WHERE id = 1`,
			current.ShopName, storage.NullableString(current.LogoURL), current.Theme,
			current.PollIntervalMS, storage.FormatTime(s.now()),
		)
		if err != nil {
			return fmt.Errorf("write settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx)
}

// RegenerateTVToken rotates the TV access token, invalidating every TV link
// in circulation. Owner capability required.
func (s *Store) RegenerateTVToken(ctx context.Context, actor roles.Role) (*Settings, error) {
	if !actor.AtLeast(roles.Owner) {
		return nil, services.Wrap(services.ErrForbidden, "settings", "regenerate tv token", "insufficient_role", nil)
	}

	token := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`UPDATE settings SET tv_token = ?, updated_at = ? WHERE id = 1`,
		token, storage.FormatTime(s.now()),
	)
	if err != nil {
		return nil, fmt.Errorf("rotate tv token: %w", err)
	}
	return s.Get(ctx)
}

// MatchesTVToken reports whether the presented token grants read-only TV
// access. Empty presentations never match.
func (s *Store) MatchesTVToken(ctx context.Context, token string) (bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return false, nil
	}
	current, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	return current.TVToken == token, nil
}

func clampPollInterval(value int) int {
	if value < MinPollIntervalMS {
		return MinPollIntervalMS
	}
	if value > MaxPollIntervalMS {
		return MaxPollIntervalMS
	}
	return value
}
