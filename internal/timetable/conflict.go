package timetable

import "github.com/edupanel/timetable-api/internal/models"

// Detector runs exhaustive conflict detection over schedules. It holds no
// mutable state and is safe for concurrent use.
type Detector struct {
	window Window
}

// NewDetector builds a detector for the given operating window.
func NewDetector(window Window) *Detector {
	if window.Open >= window.Close {
		window = DefaultWindow()
	}
	return &Detector{window: window}
}

// Window exposes the detector's operating window.
func (d *Detector) Window() Window {
	return d.window
}

// ValidateSchedule checks the target schedule for internal consistency and
// for collisions against the supplied sibling schedules. Every violation is
// reported; there is no early termination. The scan order is deterministic:
// lessons in slice order, the inner index after the outer, room check before
// teacher check, the intra-schedule pass before the cross-schedule pass.
func (d *Detector) ValidateSchedule(target models.Schedule, others []models.Schedule) []models.LessonIssue {
	issues := []models.LessonIssue{}

	// Time gate: lessons failing their own time validation are excluded
	// from the pairwise passes.
	valid := make([]bool, len(target.Lessons))
	for i, lesson := range target.Lessons {
		if issue := ValidateLessonTime(lesson, d.window); issue != nil {
			issues = append(issues, *issue)
			continue
		}
		valid[i] = true
	}

	for i := range target.Lessons {
		if !valid[i] {
			continue
		}
		for j := i + 1; j < len(target.Lessons); j++ {
			if !valid[j] {
				continue
			}
			issues = append(issues, pairIssues(target.Lessons[i], target.Lessons[j],
				"room already occupied within this schedule",
				"teacher already occupied within this schedule")...)
		}
	}

	for _, other := range others {
		if other.ID == target.ID {
			continue
		}
		for i := range target.Lessons {
			if !valid[i] {
				continue
			}
			for j := range other.Lessons {
				issues = append(issues, pairIssues(target.Lessons[i], other.Lessons[j],
					"room conflict with another group's schedule",
					"teacher conflict with another group's schedule")...)
			}
		}
	}

	return issues
}

// weekNumbersCoincide reports whether two week-scoped lessons can share a
// calendar week. Zero means every week and matches anything; two concrete
// week numbers coincide only when equal.
func weekNumbersCoincide(a, b int) bool {
	if a == 0 || b == 0 {
		return true
	}
	return a == b
}

// pairIssues applies the full conflict predicate to a lesson pair and emits
// issues attributed to the first lesson. A single overlapping pair can emit
// both a room and a teacher conflict.
func pairIssues(a, b models.Lesson, roomMsg, teacherMsg string) []models.LessonIssue {
	if a.DayOfWeek != b.DayOfWeek {
		return nil
	}
	if !WeekTypesCompatible(a.WeekType, b.WeekType) {
		return nil
	}
	if !weekNumbersCoincide(a.WeekNumber, b.WeekNumber) {
		return nil
	}
	if !IntervalsOverlap(ToMinutes(a.StartTime), ToMinutes(a.EndTime), ToMinutes(b.StartTime), ToMinutes(b.EndTime)) {
		return nil
	}

	var issues []models.LessonIssue
	if a.Room == b.Room {
		issues = append(issues, models.LessonIssue{
			Type:     models.IssueRoomConflict,
			Message:  roomMsg,
			LessonID: a.ID,
		})
	}
	if a.TeacherID == b.TeacherID {
		issues = append(issues, models.LessonIssue{
			Type:     models.IssueTeacherConflict,
			Message:  teacherMsg,
			LessonID: a.ID,
		})
	}
	return issues
}
