package reservation

import (
	"time"

	"parksystem-backend/internal/model"
)

// ApplyCompletion returns a copy of all where the entry of updated is replaced by updated and
// its completion state is set on every reservation grouped with it by SameFlightDay. It is meant
// to run after the backend confirmed the toggle, with the reservation the backend returned.
func ApplyCompletion(all []model.Reservation, updated model.Reservation, loc *time.Location) []model.Reservation {
	out := make([]model.Reservation, len(all))
	for i, r := range all {
		if r.ID == updated.ID {
			out[i] = updated
			continue
		}
		if SameFlightDay(updated, r, loc) {
			r.IsCompleted = updated.IsCompleted
		}
		out[i] = r
	}
	return out
}

// Companions returns the reservations of all that share target's flight and day, target excluded.
func Companions(all []model.Reservation, target model.Reservation, loc *time.Location) []model.Reservation {
	var out []model.Reservation
	for _, r := range all {
		if r.ID != target.ID && SameFlightDay(target, r, loc) {
			out = append(out, r)
		}
	}
	return out
}
