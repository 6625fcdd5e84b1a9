// Package reservation turns a snapshot of reservations and the operator's current filter
// into the list shown on screen, and classifies reservations by how close their return is.
// Everything here is a pure function of its inputs.
package reservation

import (
	"fmt"
	"slices"
	"time"

	"parksystem-backend/internal/model"
)

// Group is a set of two or more reservations returning on the same flight and day.
type Group struct {
	ID           string
	FlightNumber string
	Reservations []model.Reservation
}

// Item is one entry of the display list: either a standalone reservation or a group.
type Item struct {
	Reservation *model.Reservation
	Group       *Group
}

// IsGroup reports whether the item is a flight group.
func (it Item) IsGroup() bool {
	return it.Group != nil
}

// EffectiveTime is the time the item is ordered by: the first member's return for a group,
// the reservation's own return otherwise.
func (it Item) EffectiveTime() time.Time {
	if it.Group != nil {
		return it.Group.Reservations[0].ReturnDate
	}
	return it.Reservation.ReturnDate
}

// Members returns the reservations the item stands for.
func (it Item) Members() []model.Reservation {
	if it.Group != nil {
		return it.Group.Reservations
	}
	return []model.Reservation{*it.Reservation}
}

// SameFlightDay reports whether a and b belong together: both carry the same non-empty
// trimmed flight number and return on the same calendar day in loc.
func SameFlightDay(a, b model.Reservation, loc *time.Location) bool {
	flight := a.Flight()
	return flight != "" && flight == b.Flight() && sameDay(a.ReturnDate, b.ReturnDate, loc)
}

// GroupByFlight partitions candidates into standalone reservations and flight groups,
// ordered by effective time. Every candidate ends up in exactly one item.
func GroupByFlight(candidates []model.Reservation, loc *time.Location) []Item {
	sorted := sortedByReturnDate(candidates)
	assigned := make([]bool, len(sorted))
	items := make([]Item, 0, len(sorted))

	for i := range sorted {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		res := sorted[i]

		if res.Flight() == "" || !res.HasReturnDate() {
			items = append(items, standalone(res))
			continue
		}

		members := []int{i}
		for j := i + 1; j < len(sorted); j++ {
			if !assigned[j] && SameFlightDay(res, sorted[j], loc) {
				members = append(members, j)
			}
		}
		if len(members) < 2 {
			items = append(items, standalone(res))
			continue
		}

		group := &Group{
			ID:           groupID(res.Flight(), res.ReturnDate, loc),
			FlightNumber: res.Flight(),
			Reservations: make([]model.Reservation, 0, len(members)),
		}
		for _, j := range members {
			assigned[j] = true
			group.Reservations = append(group.Reservations, sorted[j])
		}
		items = append(items, Item{Group: group})
	}

	slices.SortStableFunc(items, func(a, b Item) int {
		return compareReturn(a.EffectiveTime(), b.EffectiveTime())
	})
	return items
}

func standalone(r model.Reservation) Item {
	return Item{Reservation: &r}
}

func groupID(flight string, day time.Time, loc *time.Location) string {
	return fmt.Sprintf("group-%s-%s", flight, day.In(loc).Format(time.DateOnly))
}

// sortedByReturnDate returns a stably sorted copy; reservations without a return date go last.
func sortedByReturnDate(in []model.Reservation) []model.Reservation {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b model.Reservation) int {
		return compareReturn(a.ReturnDate, b.ReturnDate)
	})
	return out
}

func compareReturn(a, b time.Time) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return 1
	case b.IsZero():
		return -1
	}
	return a.Compare(b)
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
