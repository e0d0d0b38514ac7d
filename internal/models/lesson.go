package models

import (
	"strings"
	"time"
)

// WeekType is the recurrence modifier of a lesson: every week, odd weeks
// only, or even weeks only.
type WeekType string

const (
	WeekTypeAll  WeekType = "ALL"
	WeekTypeOdd  WeekType = "ODD"
	WeekTypeEven WeekType = "EVEN"
)

// ParseWeekType normalises raw input into a WeekType. An empty value maps to
// WeekTypeAll so comparison sites never see an unset modifier.
func ParseWeekType(raw string) (WeekType, bool) {
	switch WeekType(strings.ToUpper(strings.TrimSpace(raw))) {
	case "", WeekTypeAll:
		return WeekTypeAll, true
	case WeekTypeOdd:
		return WeekTypeOdd, true
	case WeekTypeEven:
		return WeekTypeEven, true
	default:
		return "", false
	}
}

// Normalized maps the zero value to WeekTypeAll.
func (w WeekType) Normalized() WeekType {
	if w == "" {
		return WeekTypeAll
	}
	return WeekType(strings.ToUpper(string(w)))
}

// LessonType is the session kind. It is carried for display and exports and
// plays no part in conflict detection.
type LessonType string

const (
	LessonTypeLecture  LessonType = "LECTURE"
	LessonTypePractice LessonType = "PRACTICE"
	LessonTypeLab      LessonType = "LAB"
	LessonTypeSeminar  LessonType = "SEMINAR"
	LessonTypeExam     LessonType = "EXAM"
)

// ParseLessonType validates a raw session kind.
func ParseLessonType(raw string) (LessonType, bool) {
	switch LessonType(strings.ToUpper(strings.TrimSpace(raw))) {
	case LessonTypeLecture:
		return LessonTypeLecture, true
	case LessonTypePractice:
		return LessonTypePractice, true
	case LessonTypeLab:
		return LessonTypeLab, true
	case LessonTypeSeminar:
		return LessonTypeSeminar, true
	case LessonTypeExam:
		return LessonTypeExam, true
	default:
		return "", false
	}
}

// Weekday codes used by lessons. Sunday is not schedulable in this domain.
const (
	MinDayOfWeek = 1 // Monday
	MaxDayOfWeek = 6 // Saturday
)

// ValidDayOfWeek reports whether d is a schedulable weekday code.
func ValidDayOfWeek(d int) bool {
	return d >= MinDayOfWeek && d <= MaxDayOfWeek
}

// DayName returns the English weekday name for a day code.
func DayName(d int) string {
	names := [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	if !ValidDayOfWeek(d) {
		return "Unknown"
	}
	return names[d-1]
}

// Lesson is one recurring weekly class occurrence for a group.
type Lesson struct {
	ID         string     `db:"id" json:"id"`
	GroupID    string     `db:"group_id" json:"group_id"`
	SubjectID  string     `db:"subject_id" json:"subject_id"`
	TeacherID  string     `db:"teacher_id" json:"teacher_id"`
	Room       string     `db:"room" json:"room"`
	DayOfWeek  int        `db:"day_of_week" json:"day_of_week"`
	StartTime  string     `db:"start_time" json:"start_time"`
	EndTime    string     `db:"end_time" json:"end_time"`
	Type       LessonType `db:"lesson_type" json:"type"`
	WeekType   WeekType   `db:"week_type" json:"week_type"`
	WeekNumber int        `db:"week_number" json:"week_number,omitempty"`
	SemesterID string     `db:"semester_id" json:"semester_id"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// LessonFilter describes query params for listing lessons.
type LessonFilter struct {
	GroupID    string
	SemesterID string
	SubjectID  string
	TeacherID  string
	Room       string
	DayOfWeek  int
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
