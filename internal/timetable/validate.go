package timetable

import "github.com/edupanel/timetable-api/internal/models"

// Window is the institution's operating window in minutes from midnight.
type Window struct {
	Open  int
	Close int
}

// DefaultWindow returns the standard 08:00-20:00 operating window.
func DefaultWindow() Window {
	return Window{Open: 8 * 60, Close: 20 * 60}
}

// NewWindow builds a window from "HH:mm" bounds, falling back to the default
// window when either bound is malformed or the pair is inverted.
func NewWindow(open, close string) Window {
	o := ToMinutes(open)
	c := ToMinutes(close)
	if o < 0 || c < 0 || o >= c {
		return DefaultWindow()
	}
	return Window{Open: o, Close: c}
}

// ValidateLessonTime checks a single lesson's own time range: the range must
// be non-empty and fall inside the operating window. It returns nil when the
// lesson passes. A failing lesson is not checked further for room or teacher
// conflicts in the same pass.
func ValidateLessonTime(lesson models.Lesson, window Window) *models.LessonIssue {
	start := ToMinutes(lesson.StartTime)
	end := ToMinutes(lesson.EndTime)

	if start >= end {
		return &models.LessonIssue{
			Type:     models.IssueInvalidTime,
			Message:  "end time must be after start time",
			LessonID: lesson.ID,
		}
	}
	if start < window.Open || end > window.Close {
		return &models.LessonIssue{
			Type:     models.IssueInvalidTime,
			Message:  "lesson time must be within operating hours",
			LessonID: lesson.ID,
		}
	}
	return nil
}
