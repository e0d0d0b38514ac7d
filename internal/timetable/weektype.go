package timetable

import "github.com/edupanel/timetable-api/internal/models"

// WeekTypesCompatible reports whether two recurrence modifiers can coincide
// on the same calendar week. The rule, preserved exactly from the production
// behaviour:
//
//	- an unset modifier is treated as compatible with anything (conservative:
//	  assume a possible collision),
//	- ALL collides with anything,
//	- two non-ALL modifiers collide only when they are the same value; ODD
//	  and EVEN weeks never share a physical week.
func WeekTypesCompatible(a, b models.WeekType) bool {
	if a == "" || b == "" {
		return true
	}
	if a == models.WeekTypeAll || b == models.WeekTypeAll {
		return true
	}
	return a == b
}
