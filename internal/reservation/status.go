package reservation

import "time"

// Urgency is the display emphasis of a reservation in the list.
type Urgency string

const (
	UrgencyToday    Urgency = "today"
	UrgencyTomorrow Urgency = "tomorrow"
	UrgencyOther    Urgency = "other"
)

// UrgencyOf compares the calendar day of returnDate with today and tomorrow in now's location.
func UrgencyOf(returnDate, now time.Time) Urgency {
	loc := now.Location()
	y, m, d := now.Date()
	// noon keeps the next day correct across DST shifts
	tomorrow := time.Date(y, m, d+1, 12, 0, 0, 0, loc)

	switch {
	case sameDay(returnDate, now, loc):
		return UrgencyToday
	case sameDay(returnDate, tomorrow, loc):
		return UrgencyTomorrow
	}
	return UrgencyOther
}

// TimelineStatus is the state of a pickup on today's timeline.
type TimelineStatus string

const (
	StatusPlanned TimelineStatus = "planned"
	StatusCurrent TimelineStatus = "current"
	StatusOverdue TimelineStatus = "overdue"
)

// CurrentWindow is how long after the return time a pickup counts as current.
const CurrentWindow = 60 * time.Minute

// TimelineOf classifies returnDate against now: before it is planned, within the following
// hour (inclusive) current, later overdue. An unknown return date is planned.
func TimelineOf(returnDate, now time.Time) TimelineStatus {
	if returnDate.IsZero() {
		return StatusPlanned
	}
	diff := now.Sub(returnDate)
	switch {
	case diff < 0:
		return StatusPlanned
	case diff <= CurrentWindow:
		return StatusCurrent
	}
	return StatusOverdue
}
