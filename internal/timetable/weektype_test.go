package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edupanel/timetable-api/internal/models"
)

func TestWeekTypesCompatible(t *testing.T) {
	cases := []struct {
		name       string
		a, b       models.WeekType
		compatible bool
	}{
		{"all vs all", models.WeekTypeAll, models.WeekTypeAll, true},
		{"all vs odd", models.WeekTypeAll, models.WeekTypeOdd, true},
		{"all vs even", models.WeekTypeAll, models.WeekTypeEven, true},
		{"odd vs all", models.WeekTypeOdd, models.WeekTypeAll, true},
		{"odd vs odd", models.WeekTypeOdd, models.WeekTypeOdd, true},
		{"even vs even", models.WeekTypeEven, models.WeekTypeEven, true},
		{"odd vs even", models.WeekTypeOdd, models.WeekTypeEven, false},
		{"even vs odd", models.WeekTypeEven, models.WeekTypeOdd, false},
		{"unset vs odd", "", models.WeekTypeOdd, true},
		{"even vs unset", models.WeekTypeEven, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.compatible, WeekTypesCompatible(tc.a, tc.b))
		})
	}
}

func TestParseWeekTypeDefaultsToAll(t *testing.T) {
	w, ok := models.ParseWeekType("")
	assert.True(t, ok)
	assert.Equal(t, models.WeekTypeAll, w)

	w, ok = models.ParseWeekType("odd")
	assert.True(t, ok)
	assert.Equal(t, models.WeekTypeOdd, w)

	_, ok = models.ParseWeekType("fortnightly")
	assert.False(t, ok)
}
