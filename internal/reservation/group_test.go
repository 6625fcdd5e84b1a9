package reservation

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parksystem-backend/internal/model"
)

func TestGroupByFlight_SameFlightMorning(t *testing.T) {
	input := []model.Reservation{
		res(3, "", at(19, 9, 0)),
		res(2, "LO1", at(19, 8, 5)),
		res(1, "LO1", at(19, 8, 0)),
	}

	items := GroupByFlight(input, warsaw)

	require.Len(t, items, 2)
	require.True(t, items[0].IsGroup())
	assert.Equal(t, "group-LO1-2026-10-19", items[0].Group.ID)
	assert.Equal(t, "LO1", items[0].Group.FlightNumber)
	assert.Equal(t, []int64{1, 2}, ids(items[0].Group.Reservations))
	assert.Equal(t, at(19, 8, 0), items[0].EffectiveTime())

	require.False(t, items[1].IsGroup())
	assert.Equal(t, int64(3), items[1].Reservation.ID)
}

func TestGroupByFlight_Cases(t *testing.T) {
	testCases := []struct {
		name       string
		input      []model.Reservation
		wantGroups [][]int64
		wantOrder  []int64 // first member id of every item
	}{
		{
			name:       "single match stays standalone",
			input:      []model.Reservation{res(1, "LO1", at(19, 8, 0)), res(2, "LO2", at(19, 8, 0))},
			wantGroups: nil,
			wantOrder:  []int64{1, 2},
		},
		{
			name:       "whitespace flight numbers are never grouped",
			input:      []model.Reservation{res(1, "  ", at(19, 8, 0)), res(2, "  ", at(19, 8, 30))},
			wantGroups: nil,
			wantOrder:  []int64{1, 2},
		},
		{
			name:       "flight numbers compare trimmed",
			input:      []model.Reservation{res(1, " LO1", at(19, 8, 0)), res(2, "LO1 ", at(19, 23, 59))},
			wantGroups: [][]int64{{1, 2}},
			wantOrder:  []int64{1},
		},
		{
			name:       "same flight on another day is a separate unit",
			input:      []model.Reservation{res(1, "LO1", at(19, 8, 0)), res(2, "LO1", at(20, 8, 0)), res(3, "LO1", at(20, 9, 0))},
			wantGroups: [][]int64{{2, 3}},
			wantOrder:  []int64{1, 2},
		},
		{
			name: "group ordered by its first member",
			input: []model.Reservation{
				res(1, "FR3", at(19, 7, 0)),
				res(2, "", at(19, 9, 0)),
				res(3, "FR3", at(19, 12, 0)),
				res(4, "", at(19, 6, 0)),
			},
			wantGroups: [][]int64{{1, 3}},
			wantOrder:  []int64{4, 1, 2},
		},
		{
			name:       "missing return date goes last and is never grouped",
			input:      []model.Reservation{res(1, "LO1", time.Time{}), res(2, "LO1", at(19, 8, 0)), res(3, "LO1", time.Time{})},
			wantGroups: nil,
			wantOrder:  []int64{2, 1, 3},
		},
		{
			name:       "equal timestamps keep input order",
			input:      []model.Reservation{res(5, "", at(19, 8, 0)), res(4, "", at(19, 8, 0)), res(6, "", at(19, 8, 0))},
			wantGroups: nil,
			wantOrder:  []int64{5, 4, 6},
		},
		{
			name:       "empty input",
			input:      nil,
			wantGroups: nil,
			wantOrder:  []int64{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			items := GroupByFlight(tc.input, warsaw)

			var groups [][]int64
			order := []int64{}
			for _, it := range items {
				order = append(order, it.Members()[0].ID)
				if it.IsGroup() {
					groups = append(groups, ids(it.Group.Reservations))
				}
			}
			assert.Equal(t, tc.wantGroups, groups)
			assert.Equal(t, tc.wantOrder, order)
		})
	}
}

func TestGroupByFlight_Properties(t *testing.T) {
	flights := []string{"", " ", "LO1", "LO1 ", "LO2", "FR3"}
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		var input []model.Reservation
		n := rng.Intn(40)
		for i := 0; i < n; i++ {
			when := at(18+rng.Intn(3), rng.Intn(24), rng.Intn(4)*15)
			input = append(input, res(int64(i+1), flights[rng.Intn(len(flights))], when))
		}

		items := GroupByFlight(input, warsaw)

		// partition: every reservation appears exactly once
		seen := map[int64]int{}
		itemOf := map[int64]int{}
		for idx, it := range items {
			for _, m := range it.Members() {
				seen[m.ID]++
				itemOf[m.ID] = idx
			}
			if it.IsGroup() {
				require.GreaterOrEqual(t, len(it.Group.Reservations), 2)
				first := it.Group.Reservations[0]
				for _, m := range it.Group.Reservations {
					require.NotEmpty(t, m.Flight())
					require.True(t, SameFlightDay(first, m, warsaw))
				}
			}
		}
		require.Len(t, seen, len(input))
		for id, count := range seen {
			require.Equal(t, 1, count, "reservation %d", id)
		}

		// grouped together if and only if same trimmed flight and day
		for _, a := range input {
			for _, b := range input {
				if a.ID == b.ID {
					continue
				}
				require.Equal(t, SameFlightDay(a, b, warsaw), itemOf[a.ID] == itemOf[b.ID], "pair %d/%d", a.ID, b.ID)
			}
		}

		// non-decreasing effective time
		for i := 1; i < len(items); i++ {
			require.False(t, items[i].EffectiveTime().Before(items[i-1].EffectiveTime()))
		}
	}
}
