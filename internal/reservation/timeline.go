package reservation

import (
	"time"

	"parksystem-backend/internal/model"
)

// ClusterWindow is the largest gap between consecutive pickups drawn as one timeline marker.
const ClusterWindow = 15 * time.Minute

// TimelineEntry is one of today's pickups placed on the day axis.
type TimelineEntry struct {
	Reservation model.Reservation
	Status      TimelineStatus
	Position    float64 // percent of the day elapsed at the return time
}

// Today returns today's active pickups in chronological order with their timeline status.
func Today(all []model.Reservation, now time.Time) []TimelineEntry {
	todays := sortedByReturnDate(Filter(all, TabToday, "", now))
	entries := make([]TimelineEntry, 0, len(todays))
	for _, r := range todays {
		entries = append(entries, TimelineEntry{
			Reservation: r,
			Status:      TimelineOf(r.ReturnDate, now),
			Position:    DayPosition(r.ReturnDate.In(now.Location())),
		})
	}
	return entries
}

// DayPosition returns how far into its day t is, in percent.
func DayPosition(t time.Time) float64 {
	minutes := t.Hour()*60 + t.Minute()
	return float64(minutes) / (24 * 60) * 100
}

// Clusters splits chronologically ordered entries into runs whose consecutive return times
// are less than ClusterWindow apart.
func Clusters(entries []TimelineEntry) [][]TimelineEntry {
	if len(entries) == 0 {
		return nil
	}
	var clusters [][]TimelineEntry
	current := []TimelineEntry{entries[0]}
	for _, e := range entries[1:] {
		last := current[len(current)-1]
		if e.Reservation.ReturnDate.Sub(last.Reservation.ReturnDate) < ClusterWindow {
			current = append(current, e)
			continue
		}
		clusters = append(clusters, current)
		current = []TimelineEntry{e}
	}
	return append(clusters, current)
}

// NextPickup returns the active reservation with the earliest return after now.
func NextPickup(all []model.Reservation, now time.Time) (model.Reservation, bool) {
	var next model.Reservation
	found := false
	for _, r := range all {
		if r.IsCompleted || !r.ReturnDate.After(now) {
			continue
		}
		if !found || r.ReturnDate.Before(next.ReturnDate) {
			next, found = r, true
		}
	}
	return next, found
}

// LastPickup returns the active reservation with the latest return before now.
func LastPickup(all []model.Reservation, now time.Time) (model.Reservation, bool) {
	var last model.Reservation
	found := false
	for _, r := range all {
		if r.IsCompleted || !r.HasReturnDate() || !r.ReturnDate.Before(now) {
			continue
		}
		if !found || r.ReturnDate.After(last.ReturnDate) {
			last, found = r, true
		}
	}
	return last, found
}

// Countdown is a duration split the way the countdown widgets show it.
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Split breaks d into days, hours, minutes and seconds. Negative durations count as zero.
func Split(d time.Duration) Countdown {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return Countdown{
		Days:    total / 86400,
		Hours:   total / 3600 % 24,
		Minutes: total / 60 % 60,
		Seconds: total % 60,
	}
}

// Summary holds the dashboard counters.
type Summary struct {
	Active    int
	Completed int
	Today     int
}

// Summarize counts active, completed and today's reservations.
func Summarize(all []model.Reservation, now time.Time) Summary {
	var s Summary
	for _, r := range all {
		if r.IsCompleted {
			s.Completed++
			continue
		}
		s.Active++
		if sameDay(r.ReturnDate, now, now.Location()) {
			s.Today++
		}
	}
	return s
}

// UsageLevel returns the usage percentage of limit and its colour band.
func UsageLevel(usage, limit int) (int, string) {
	if limit <= 0 {
		return 0, "green"
	}
	percent := int(float64(usage)/float64(limit)*100 + 0.5)
	switch {
	case percent >= 90:
		return percent, "red"
	case percent >= 70:
		return percent, "yellow"
	}
	return percent, "green"
}
