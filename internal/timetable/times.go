// Package timetable implements the recurring-schedule rules engine: wall
// clock arithmetic, the week-type compatibility rule, lesson time validation,
// pairwise conflict detection within and across group schedules, and bulk
// expansion of compact lesson specifications.
//
// The package is pure: every operation is a deterministic function over
// in-memory lesson collections supplied by the caller. Persistence, caching
// and transport live in the surrounding service layer.
package timetable

import (
	"fmt"
	"strconv"
	"strings"
)

// ToMinutes converts an "HH:mm" wall-clock string into minutes from
// midnight. Callers are expected to supply well-formed input; malformed
// strings yield -1, which never falls inside a valid operating window.
func ToMinutes(clock string) int {
	h, m, ok := splitClock(clock)
	if !ok {
		return -1
	}
	return h*60 + m
}

// IntervalsOverlap reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect. A lesson ending exactly when another begins does
// not overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// ParseSlot parses a "HH:mm-HH:mm" time-slot string into start and end
// minute offsets.
func ParseSlot(slot string) (start, end int, err error) {
	parts := strings.SplitN(strings.TrimSpace(slot), "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time slot %q", slot)
	}
	start = ToMinutes(parts[0])
	end = ToMinutes(parts[1])
	if start < 0 || end < 0 {
		return 0, 0, fmt.Errorf("invalid time slot %q", slot)
	}
	return start, end, nil
}

func splitClock(clock string) (h, m int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	m, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	if h < 0 || h > 24 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
