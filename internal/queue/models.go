package queue

import (
	"strings"
	"time"
)

// Status represents a barber's live serving state.
type Status string

const (
	StatusAvailable       Status = "available"
	StatusBusyWalkin      Status = "busy_walkin"
	StatusBusyAppointment Status = "busy_appointment"
	StatusInactive        Status = "inactive"
)

var allStatuses = []Status{
	StatusAvailable,
	StatusBusyWalkin,
	StatusBusyAppointment,
	StatusInactive,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsBusy reports whether the status represents an in-progress cut.
func (s Status) IsBusy() bool {
	return s == StatusBusyWalkin || s == StatusBusyAppointment
}

// Entry is one barber slot in the serving queue.
type Entry struct {
	ID        int64
	Name      string
	Status    Status
	Position  int
	BusySince *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// effect describes what a transition does beyond changing the status value.
// At most one of stampBusy/clearBusy is set.
type effect struct {
	stampBusy    bool
	clearBusy    bool
	moveToBottom bool
}

// transitionEffects encodes the full transition table. Same-state requests
// never reach the table; they are handled as idempotent no-ops. Walk-ins
// always send the barber to the back of the line; appointments keep the
// barber's spot; leaving inactive re-enters at the bottom.
var transitionEffects = map[Status]map[Status]effect{
	StatusAvailable: {
		StatusBusyAppointment: {stampBusy: true},
		StatusBusyWalkin:      {stampBusy: true, moveToBottom: true},
		StatusInactive:        {clearBusy: true},
	},
	StatusBusyAppointment: {
		StatusAvailable:  {clearBusy: true},
		StatusBusyWalkin: {stampBusy: true, moveToBottom: true},
		StatusInactive:   {clearBusy: true},
	},
	StatusBusyWalkin: {
		StatusAvailable:       {clearBusy: true},
		StatusBusyAppointment: {stampBusy: true},
		StatusInactive:        {clearBusy: true},
	},
	StatusInactive: {
		StatusAvailable:       {stampBusy: true, moveToBottom: true},
		StatusBusyAppointment: {stampBusy: true, moveToBottom: true},
		StatusBusyWalkin:      {stampBusy: true, moveToBottom: true},
	},
}

// NextCycleStatus returns the status a tap-to-advance rotation moves to.
func NextCycleStatus(current Status) Status {
	switch current {
	case StatusAvailable:
		return StatusBusyAppointment
	case StatusBusyAppointment, StatusBusyWalkin:
		return StatusAvailable
	default:
		return StatusAvailable
	}
}
