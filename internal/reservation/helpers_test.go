package reservation

import (
	"time"

	"parksystem-backend/internal/model"
)

var warsaw = time.FixedZone("CEST", 2*60*60)

// clock is the fixed "now" used across the package tests: 19 Oct 2026, 10:00 local time.
var clock = time.Date(2026, 10, 19, 10, 0, 0, 0, warsaw)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 10, day, hour, minute, 0, 0, warsaw)
}

func res(id int64, flight string, returnDate time.Time) model.Reservation {
	return model.Reservation{
		ID:             id,
		LicensePlate:   "WA" + string(rune('A'+id%26)) + "1234",
		CustomerName:   "Customer",
		FlightNumber:   flight,
		ReturnDate:     returnDate,
		PassengerCount: 1,
	}
}

func ids(rs []model.Reservation) []int64 {
	out := make([]int64, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}
