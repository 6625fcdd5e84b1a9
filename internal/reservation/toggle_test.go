package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"parksystem-backend/internal/model"
)

func completedIDs(all []model.Reservation) []int64 {
	var out []int64
	for _, r := range all {
		if r.IsCompleted {
			out = append(out, r.ID)
		}
	}
	return out
}

func TestApplyCompletion(t *testing.T) {
	all := []model.Reservation{
		res(1, "LO1", at(19, 8, 0)),
		res(2, " LO1", at(19, 8, 5)),
		res(3, "LO1", at(19, 22, 0)),
		res(4, "LO1", at(20, 8, 0)),
		res(5, "", at(19, 8, 0)),
		res(6, "", at(19, 8, 0)),
	}

	t.Run("propagates to the whole flight group", func(t *testing.T) {
		updated := all[1]
		updated.IsCompleted = true

		got := ApplyCompletion(all, updated, warsaw)

		assert.Equal(t, []int64{1, 2, 3}, completedIDs(got))
		assert.Empty(t, completedIDs(all), "input is not modified")
	})

	t.Run("flight-less reservation updates only itself", func(t *testing.T) {
		updated := all[4]
		updated.IsCompleted = true

		got := ApplyCompletion(all, updated, warsaw)

		assert.Equal(t, []int64{5}, completedIDs(got))
	})

	t.Run("toggled entry takes the returned record", func(t *testing.T) {
		updated := all[0]
		updated.CustomerName = "Anna Nowak"
		updated.IsPaid = true
		updated.IsCompleted = true

		got := ApplyCompletion(all, updated, warsaw)

		assert.Equal(t, updated, got[0])
		assert.Equal(t, "Customer", got[1].CustomerName)
		assert.True(t, got[1].IsCompleted)
		assert.False(t, got[1].IsPaid)
	})

	t.Run("reopening clears the group", func(t *testing.T) {
		closed := ApplyCompletion(all, model.Reservation{ID: 1, FlightNumber: "LO1", ReturnDate: at(19, 8, 0), IsCompleted: true}, warsaw)
		reopened := ApplyCompletion(closed, model.Reservation{ID: 3, FlightNumber: "LO1", ReturnDate: at(19, 22, 0)}, warsaw)

		assert.Empty(t, completedIDs(reopened))
	})

	t.Run("agrees with grouping", func(t *testing.T) {
		updated := all[0]
		updated.IsCompleted = true
		got := ApplyCompletion(all, updated, warsaw)

		for _, item := range GroupByFlight(got, warsaw) {
			members := item.Members()
			for _, m := range members {
				assert.Equal(t, members[0].IsCompleted, m.IsCompleted, "item %d", members[0].ID)
			}
		}
	})
}

func TestCompanions(t *testing.T) {
	all := []model.Reservation{
		res(1, "LO1", at(19, 8, 0)),
		res(2, "LO1", at(19, 9, 0)),
		res(3, "LO1", at(20, 8, 0)),
	}
	assert.Equal(t, []int64{2}, ids(Companions(all, all[0], warsaw)))
	assert.Empty(t, Companions(all, all[2], warsaw))
}
