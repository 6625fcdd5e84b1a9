package reservation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parksystem-backend/internal/model"
)

func validDraft() Draft {
	return Draft{
		LicensePlate: "WA 12345",
		CustomerName: "Jan Kowalski",
		ReturnDate:   at(20, 8, 0),
	}
}

func TestDraft_Validate(t *testing.T) {
	negative := -1.0
	testCases := []struct {
		name  string
		edit  func(d *Draft)
		field string
	}{
		{name: "valid", edit: func(d *Draft) {}},
		{name: "valid without flight", edit: func(d *Draft) { d.FlightNumber = "" }},
		{name: "blank plate", edit: func(d *Draft) { d.LicensePlate = "  " }, field: "licensePlate"},
		{name: "long plate", edit: func(d *Draft) { d.LicensePlate = strings.Repeat("X", 21) }, field: "licensePlate"},
		{name: "missing customer", edit: func(d *Draft) { d.CustomerName = "" }, field: "customerName"},
		{name: "missing return date", edit: func(d *Draft) { d.ReturnDate = time.Time{} }, field: "returnDate"},
		{name: "long flight", edit: func(d *Draft) { d.FlightNumber = "LO12345678X" }, field: "flightNumber"},
		{name: "negative passengers", edit: func(d *Draft) { d.PassengerCount = -2 }, field: "passenger_count"},
		{name: "negative price", edit: func(d *Draft) { d.Price = &negative }, field: "price"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			tc.edit(&d)
			err := d.Validate()
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidDraft)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestDraft_NormalizeAndApply(t *testing.T) {
	d := Draft{
		LicensePlate: "  KR 1ABC ",
		CustomerName: " Anna Nowak",
		FlightNumber: " lo 281 ",
		ReturnDate:   at(21, 6, 15),
	}
	d.Normalize()

	assert.Equal(t, "KR 1ABC", d.LicensePlate)
	assert.Equal(t, "Anna Nowak", d.CustomerName)
	assert.Equal(t, "lo 281", d.FlightNumber)
	assert.Equal(t, 1, d.PassengerCount)

	r := model.Reservation{ID: 7, OwnerID: 3, IsCompleted: true}
	d.ApplyTo(&r)
	assert.Equal(t, int64(7), r.ID)
	assert.True(t, r.IsCompleted, "completion is not part of a draft")
	assert.Equal(t, DraftOf(r), d)
}
