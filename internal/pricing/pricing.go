// Package pricing computes rental prices from a user's price list.
package pricing

import (
	"errors"
	"math"
	"time"

	"parksystem-backend/internal/model"
)

// ErrNegativePrice is returned when a patch would store a negative amount.
var ErrNegativePrice = errors.New("prices must not be negative")

// Days returns the number of started 24h periods between from and to. Periods in the past
// count as zero.
func Days(from, to time.Time) int {
	if to.IsZero() || !to.After(from) {
		return 0
	}
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

// Price returns the price of a rental of days using p. Rentals longer than a week cost the
// seven day price plus the extra day rate for every further day.
func Price(p model.PricingSettings, days int) float64 {
	switch {
	case days <= 0:
		return 0
	case days <= 7:
		return p.Tier(days)
	}
	return p.Day7 + p.ExtraDay*float64(days-7)
}

// Estimate is the suggested price of a reservation returning at to, booked at from.
func Estimate(p model.PricingSettings, from, to time.Time) (int, float64) {
	days := Days(from, to)
	return days, Price(p, days)
}

// Patch is a partial update of a price list. Nil fields are left unchanged.
type Patch struct {
	Day1     *float64 `json:"day_1"`
	Day2     *float64 `json:"day_2"`
	Day3     *float64 `json:"day_3"`
	Day4     *float64 `json:"day_4"`
	Day5     *float64 `json:"day_5"`
	Day6     *float64 `json:"day_6"`
	Day7     *float64 `json:"day_7"`
	ExtraDay *float64 `json:"extra_day"`
}

// Apply returns p with the patch applied.
func (pt Patch) Apply(p model.PricingSettings) (model.PricingSettings, error) {
	fields := []struct {
		src *float64
		dst *float64
	}{
		{pt.Day1, &p.Day1}, {pt.Day2, &p.Day2}, {pt.Day3, &p.Day3}, {pt.Day4, &p.Day4},
		{pt.Day5, &p.Day5}, {pt.Day6, &p.Day6}, {pt.Day7, &p.Day7}, {pt.ExtraDay, &p.ExtraDay},
	}
	for _, f := range fields {
		if f.src == nil {
			continue
		}
		if *f.src < 0 {
			return p, ErrNegativePrice
		}
		*f.dst = *f.src
	}
	return p, nil
}
