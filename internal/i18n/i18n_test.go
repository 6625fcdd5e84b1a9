package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	testCases := []struct {
		prefs []string
		want  string
	}{
		{prefs: nil, want: "pl"},
		{prefs: []string{""}, want: "pl"},
		{prefs: []string{"en"}, want: "en"},
		{prefs: []string{"", "uk-UA,uk;q=0.9,en;q=0.5"}, want: "uk"},
		{prefs: []string{"en-GB,en;q=0.8"}, want: "en"},
		{prefs: []string{"not a tag!!"}, want: "pl"},
		{prefs: []string{"de"}, want: "pl"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, Match(tc.prefs...).String(), "prefs %v", tc.prefs)
	}
}

func TestTranslator(t *testing.T) {
	assert.Equal(t, "Flight LO281: 3 reservations, arriving at 08:15",
		For("en").T(ReminderGroup, "LO281", 3, "08:15"))
	assert.Equal(t, "Zbliża się odbiór", For("").T(ReminderHead))
	assert.Equal(t, "Рейс LO281", For("uk").T(SheetFlight, "LO281"))
	assert.Equal(t, "uk", For("uk").Language())
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("pl"))
	assert.True(t, Valid("uk"))
	assert.False(t, Valid("de"))
	assert.False(t, Valid(""))
}
