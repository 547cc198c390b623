// Package roles defines the closed set of account roles and their
// ordered capability levels.
package roles

import "strings"

// Role identifies an account's privilege tier.
type Role string

const (
	Viewer    Role = "viewer"
	FrontDesk Role = "frontdesk"
	Admin     Role = "admin"
	Owner     Role = "owner"
)

var levels = map[Role]int{
	Viewer:    0,
	FrontDesk: 1,
	Admin:     2,
	Owner:     3,
}

// All returns the known roles ordered by ascending capability.
func All() []Role {
	return []Role{Viewer, FrontDesk, Admin, Owner}
}

// Parse converts a string into a known Role.
func Parse(value string) (Role, bool) {
	normalized := Role(strings.ToLower(strings.TrimSpace(value)))
	_, ok := levels[normalized]
	return normalized, ok
}

// Level returns the role's capability level. Unknown roles rank below Viewer.
func (r Role) Level() int {
	level, ok := levels[r]
	if !ok {
		return -1
	}
	return level
}

// AtLeast reports whether r grants the capabilities of required.
func (r Role) AtLeast(required Role) bool {
	return r.Level() >= required.Level()
}

// CanManageQueue reports whether r may apply transitions and reorder the queue.
func (r Role) CanManageQueue() bool {
	return r.AtLeast(FrontDesk)
}

// CanManageRoster reports whether r may create, edit, or delete barbers and users.
func (r Role) CanManageRoster() bool {
	return r.AtLeast(Admin)
}

func (r Role) String() string {
	return string(r)
}
