package timetable

import "github.com/edupanel/timetable-api/internal/models"

// CanAddLesson answers whether a candidate lesson could join the schedule
// without creating conflicts, considering all other known schedules. It
// builds a hypothetical copy of the schedule with the candidate appended and
// delegates to ValidateSchedule; the original schedule is never mutated.
//
// The result is advisory: validation and the subsequent write are separate
// steps, so the integrating service must re-check inside its write
// transaction or rely on a storage-side uniqueness backstop.
func (d *Detector) CanAddLesson(candidate models.Lesson, schedule models.Schedule, others []models.Schedule) []models.LessonIssue {
	hypothetical := models.Schedule{
		ID:         schedule.ID,
		GroupID:    schedule.GroupID,
		SemesterID: schedule.SemesterID,
		Lessons:    make([]models.Lesson, 0, len(schedule.Lessons)+1),
	}
	hypothetical.Lessons = append(hypothetical.Lessons, schedule.Lessons...)
	hypothetical.Lessons = append(hypothetical.Lessons, candidate)

	return d.ValidateSchedule(hypothetical, others)
}
