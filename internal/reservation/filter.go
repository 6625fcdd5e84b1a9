package reservation

import (
	"fmt"
	"strings"
	"time"

	"parksystem-backend/internal/model"
)

// Tab is the view filter selected by the operator.
type Tab string

const (
	TabToday     Tab = "today"
	TabActive    Tab = "all-active"
	TabCompleted Tab = "completed"
)

// ParseTab accepts the tab names used by clients. "all" is an alias of "all-active";
// an empty string selects today's tab.
func ParseTab(s string) (Tab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(TabToday):
		return TabToday, nil
	case "all", string(TabActive), "active":
		return TabActive, nil
	case string(TabCompleted):
		return TabCompleted, nil
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

// Paginated reports whether the tab's list is truncated to the visible count.
func (t Tab) Paginated() bool {
	return t == TabActive || t == TabCompleted
}

// Filter returns the reservations of all that belong to tab and match query, in input order.
// The calendar day of "today" is taken from now and its location.
func Filter(all []model.Reservation, tab Tab, query string, now time.Time) []model.Reservation {
	out := make([]model.Reservation, 0, len(all))
	for _, r := range all {
		if inTab(r, tab, now) && MatchesQuery(r, query) {
			out = append(out, r)
		}
	}
	return out
}

func inTab(r model.Reservation, tab Tab, now time.Time) bool {
	switch tab {
	case TabToday:
		return !r.IsCompleted && sameDay(r.ReturnDate, now, now.Location())
	case TabActive:
		return !r.IsCompleted
	case TabCompleted:
		return r.IsCompleted
	}
	return false
}

// MatchesQuery reports whether the license plate or the customer name contains query,
// ignoring case. A blank query matches everything.
func MatchesQuery(r model.Reservation, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.LicensePlate), q) ||
		strings.Contains(strings.ToLower(r.CustomerName), q)
}
