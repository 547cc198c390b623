package api

import (
	"time"

	"barberq/internal/queue"
	"barberq/internal/settings"
	"barberq/internal/users"
)

// Barber describes a queue entry in a transport-friendly format.
type Barber struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Position  int    `json:"position"`
	BusySince string `json:"busy_since,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ShopSettings carries the display settings the queue and TV pages render.
type ShopSettings struct {
	ShopName       string `json:"shop_name"`
	LogoURL        string `json:"logo_url,omitempty"`
	Theme          string `json:"theme"`
	PollIntervalMS int    `json:"poll_interval_ms"`
}

// QueueResponse is the payload of GET /api/barbers.
type QueueResponse struct {
	Data           []Barber     `json:"data"`
	ServerTime     string       `json:"server_time"`
	PollIntervalMS int          `json:"poll_interval_ms"`
	Access         string       `json:"access"`
	Settings       ShopSettings `json:"settings"`
}

// EntryResponse wraps a single mutated entry.
type EntryResponse struct {
	Data Barber `json:"data"`
}

// SuccessResponse acknowledges an operation with no entity payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// User describes a staff account without credential material.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Username  string `json:"username,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// LoginRequest is the payload of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse reports the authenticated account.
type SessionResponse struct {
	User User `json:"user"`
}

// StatusRequest is the payload of POST /api/barbers/status.
type StatusRequest struct {
	BarberID int64  `json:"barber_id"`
	Status   string `json:"status"`
}

// CycleRequest is the payload of POST /api/barbers/cycle.
type CycleRequest struct {
	BarberID int64 `json:"barber_id"`
}

// OrderRequest is the payload of POST /api/barbers/order.
type OrderRequest struct {
	Order []int64 `json:"order"`
}

// CreateBarberRequest is the payload of POST /api/barbers.
type CreateBarberRequest struct {
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

// UpdateBarberRequest is the payload of PUT /api/barbers/:id.
type UpdateBarberRequest struct {
	Name   *string `json:"name,omitempty"`
	Status *string `json:"status,omitempty"`
}

// UpdateSettingsRequest is the payload of PUT /api/settings.
type UpdateSettingsRequest struct {
	ShopName       *string `json:"shop_name,omitempty"`
	LogoURL        *string `json:"logo_url,omitempty"`
	Theme          *string `json:"theme,omitempty"`
	PollIntervalMS *int    `json:"poll_interval_ms,omitempty"`
}

// SettingsResponse is the payload of GET /api/settings.
type SettingsResponse struct {
	Settings  ShopSettings `json:"settings"`
	TVToken   string       `json:"tv_token,omitempty"`
	UpdatedAt string       `json:"updated_at,omitempty"`
}

// TVTokenResponse is the payload of POST /api/settings/tv-token.
type TVTokenResponse struct {
	TVToken string `json:"tv_token"`
}

// UpsertUserRequest covers POST /api/users and PUT /api/users/:id. Empty
// strings mean "leave unchanged" on update.
type UpsertUserRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
}

// UsersResponse is the payload of GET /api/users.
type UsersResponse struct {
	Data []User `json:"data"`
}

// UserResponse wraps a single account.
type UserResponse struct {
	Data User `json:"data"`
}

// ErrorBody is the uniform error payload: a machine-readable code and a
// human-readable reason.
type ErrorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// HealthResponse is the payload of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// BarberFromEntry converts a queue entry to its wire form.
func BarberFromEntry(entry *queue.Entry) Barber {
	out := Barber{
		ID:        entry.ID,
		Name:      entry.Name,
		Status:    string(entry.Status),
		Position:  entry.Position,
		CreatedAt: formatTime(entry.CreatedAt),
		UpdatedAt: formatTime(entry.UpdatedAt),
	}
	if entry.BusySince != nil {
		out.BusySince = formatTime(*entry.BusySince)
	}
	return out
}

// BarbersFromEntries converts a queue listing, never returning nil so the
// JSON renders as [] rather than null.
func BarbersFromEntries(entries []*queue.Entry) []Barber {
	out := make([]Barber, 0, len(entries))
	for _, entry := range entries {
		out = append(out, BarberFromEntry(entry))
	}
	return out
}

// ShopSettingsFrom converts the settings row to its public wire form. The
// TV token is deliberately excluded; it travels only in SettingsResponse
// for owner-level callers.
func ShopSettingsFrom(s *settings.Settings) ShopSettings {
	return ShopSettings{
		ShopName:       s.ShopName,
		LogoURL:        s.LogoURL,
		Theme:          s.Theme,
		PollIntervalMS: s.PollIntervalMS,
	}
}

// UserFrom converts an account to its wire form.
func UserFrom(u *users.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role.String(),
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
}

// UsersFrom converts an account listing.
func UsersFrom(list []*users.User) []User {
	out := make([]User, 0, len(list))
	for _, u := range list {
		out = append(out, UserFrom(u))
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
