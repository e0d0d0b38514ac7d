package models

import "fmt"

// Schedule is the complete lesson set for one group within one semester. It
// is an assembled view, not a storage entity of its own.
type Schedule struct {
	ID         string   `json:"id"`
	GroupID    string   `json:"group_id"`
	SemesterID string   `json:"semester_id"`
	Lessons    []Lesson `json:"lessons"`
}

// ScheduleID derives the deterministic identifier of a group's schedule
// within a semester.
func ScheduleID(groupID, semesterID string) string {
	return groupID + ":" + semesterID
}

// NewSchedule assembles a schedule view from its lessons.
func NewSchedule(groupID, semesterID string, lessons []Lesson) Schedule {
	return Schedule{
		ID:         ScheduleID(groupID, semesterID),
		GroupID:    groupID,
		SemesterID: semesterID,
		Lessons:    lessons,
	}
}

// IssueType tags a lesson validation finding.
type IssueType string

const (
	IssueInvalidTime     IssueType = "invalid_time"
	IssueRoomConflict    IssueType = "room_conflict"
	IssueTeacherConflict IssueType = "teacher_conflict"
)

// LessonIssue is a single validation finding attributed to a lesson.
// Expected validation failures travel as values of this type rather than as
// errors; an empty slice means the checked schedule is consistent.
type LessonIssue struct {
	Type     IssueType `json:"type"`
	Message  string    `json:"message"`
	LessonID string    `json:"lesson_id"`
}

// ConflictError carries the full issue list when a write is rejected because
// validation found blocking problems.
type ConflictError struct {
	Issues []LessonIssue `json:"issues"`
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("schedule validation failed with %d issue(s)", len(e.Issues))
}
