package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinutes(t *testing.T) {
	assert.Equal(t, 0, ToMinutes("00:00"))
	assert.Equal(t, 8*60, ToMinutes("08:00"))
	assert.Equal(t, 9*60+30, ToMinutes("09:30"))
	assert.Equal(t, 24*60, ToMinutes("24:00"))
	assert.Equal(t, -1, ToMinutes("garbage"))
	assert.Equal(t, -1, ToMinutes("25:00"))
	assert.Equal(t, -1, ToMinutes("10:65"))
}

func TestIntervalsOverlapSymmetry(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     int
		overlap                        bool
	}{
		{"identical", 600, 690, 600, 690, true},
		{"partial", 600, 690, 660, 720, true},
		{"contained", 600, 720, 630, 660, true},
		{"disjoint", 600, 660, 720, 780, false},
		{"adjacent", 480, 570, 570, 660, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlap, IntervalsOverlap(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			assert.Equal(t, tc.overlap, IntervalsOverlap(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd), "overlap must be symmetric")
		})
	}
}

func TestIntervalsOverlapBoundary(t *testing.T) {
	// A lesson ending exactly when another begins does not conflict.
	assert.False(t, IntervalsOverlap(ToMinutes("08:00"), ToMinutes("09:30"), ToMinutes("09:30"), ToMinutes("11:00")))
}

func TestParseSlot(t *testing.T) {
	start, end, err := ParseSlot("10:00-11:30")
	require.NoError(t, err)
	assert.Equal(t, 600, start)
	assert.Equal(t, 690, end)

	_, _, err = ParseSlot("10:00")
	assert.Error(t, err)

	_, _, err = ParseSlot("10:00-xx:yy")
	assert.Error(t, err)
}
