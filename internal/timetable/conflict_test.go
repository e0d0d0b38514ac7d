package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupanel/timetable-api/internal/models"
)

func lessonFixture(id string, mutate func(*models.Lesson)) models.Lesson {
	lesson := models.Lesson{
		ID:         id,
		GroupID:    "group-1",
		SubjectID:  "subj-1",
		TeacherID:  "teacher-1",
		Room:       "204",
		DayOfWeek:  2,
		StartTime:  "10:00",
		EndTime:    "11:30",
		Type:       models.LessonTypeLecture,
		WeekType:   models.WeekTypeAll,
		SemesterID: "sem-1",
	}
	if mutate != nil {
		mutate(&lesson)
	}
	return lesson
}

func TestValidateScheduleTimeBounds(t *testing.T) {
	detector := NewDetector(DefaultWindow())

	cases := []struct {
		name       string
		start, end string
	}{
		{"starts before opening", "07:00", "08:00"},
		{"ends after closing", "19:00", "20:30"},
		{"empty range", "10:00", "10:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			schedule := models.NewSchedule("group-1", "sem-1", []models.Lesson{
				lessonFixture("l1", func(l *models.Lesson) {
					l.StartTime = tc.start
					l.EndTime = tc.end
				}),
			})
			issues := detector.ValidateSchedule(schedule, nil)
			require.Len(t, issues, 1)
			assert.Equal(t, models.IssueInvalidTime, issues[0].Type)
			assert.Equal(t, "l1", issues[0].LessonID)
		})
	}
}

func TestValidateScheduleTimeGateShortCircuits(t *testing.T) {
	detector := NewDetector(DefaultWindow())

	// The invalid lesson shares day/room with the valid one but must only
	// produce its own invalid_time issue.
	schedule := models.NewSchedule("group-1", "sem-1", []models.Lesson{
		lessonFixture("bad", func(l *models.Lesson) { l.StartTime = "07:00"; l.EndTime = "11:00" }),
		lessonFixture("good", nil),
	})

	issues := detector.ValidateSchedule(schedule, nil)
	require.Len(t, issues, 1)
	assert.Equal(t, models.IssueInvalidTime, issues[0].Type)
	assert.Equal(t, "bad", issues[0].LessonID)
}

func TestValidateScheduleRoomConflict(t *testing.T) {
	detector := NewDetector(DefaultWindow())

	schedule := models.NewSchedule("group-1", "sem-1", []models.Lesson{
		lessonFixture("l1", nil),
		lessonFixture("l2", func(l *models.Lesson) {
			l.TeacherID = "teacher-2"
			l.StartTime = "11:00"
			l.EndTime = "12:00"
		}),
	})

	issues := detector.ValidateSchedule(schedule, nil)
	require.Len(t, issues, 1)
	assert.Equal(t, models.IssueRoomConflict, issues[0].Type)
	assert.Equal(t, "l1", issues[0].LessonID)
}

func TestValidateScheduleRoomAndTeacherConflictOnSamePair(t *testing.T) {
	detector := NewDetector(DefaultWindow())

	schedule := models.NewSchedule("group-1", "sem-1", []models.Lesson{
		lessonFixture("l1", nil),
		lessonFixture("l2", func(l *models.Lesson) {
			l.StartTime = "11:00"
			l.EndTime = "12:00"
		}),
	})

	issues := detector.ValidateSchedule(schedule, nil)
	require.Len(t, issues, 2)
	assert.Equal(t, models.IssueRoomConflict, issues[0].Type)
	assert.Equal(t, models.IssueTeacherConflict, issues[1].Type)
}

func TestValidateScheduleNoConflictAcrossDays(t *testing.T) {
	detector := NewDetector(DefaultWindow())

	schedule := models.NewSchedule("group-1", "sem-1", []models.Lesson{
		lessonFixture("l1", nil),
		lessonFixture("l2", func(l *models.Lesson) { l.DayOfWeek = 3 }),
	})

	assert.Empty(t, detector.ValidateSchedule(schedule, nil))
}

func TestValidateScheduleOddEvenNeverCoincide(t *testing.T) {
	detector := NewDetector(DefaultWindow())

	schedule := models.NewSchedule("group-1", "sem-1", []models.Lesson{
		lessonFixture("l1", func(l *models.Lesson) { l.WeekType = models.WeekTypeOdd }),
		lessonFixture("l2", func(l *models.Lesson) { l.WeekType = models.WeekTypeEven }),
	})
	assert.Empty(t, detector.ValidateSchedule(schedule, nil))

	// Same parity does collide: both lessons occur on the same physical weeks.
	schedule.Lessons[1].WeekType = models.WeekTypeOdd
	issues := detector.ValidateSchedule(schedule, nil)
	require.Len(t, issues, 2)
	assert.Equal(t, models.IssueRoomConflict, issues[0].Type)
	assert.Equal(t, models.IssueTeacherConflict, issues[1].Type)
}

func TestValidateScheduleDistinctWeekNumbersNeverCoincide(t *testing.T) {
	detector := NewDetector(DefaultWindow())

	schedule := models.NewSchedule("group-1", "sem-1", []models.Lesson{
		lessonFixture("l1", func(l *models.Lesson) { l.WeekNumber = 2 }),
		lessonFixture("l2", func(l *models.Lesson) { l.WeekNumber = 3 }),
	})
	assert.Empty(t, detector.ValidateSchedule(schedule, nil))

	// A weekly lesson occupies every week, including week 2.
	schedule.Lessons[1].WeekNumber = 0
	issues := detector.ValidateSchedule(schedule, nil)
	require.Len(t, issues, 2)

	// Equal concrete weeks collide too.
	schedule.Lessons[1].WeekNumber = 2
	require.Len(t, detector.ValidateSchedule(schedule, nil), 2)
}

func TestValidateScheduleCrossScheduleSymmetry(t *testing.T) {
	detector := NewDetector(DefaultWindow())

	scheduleA := models.NewSchedule("group-x", "sem-1", []models.Lesson{
		lessonFixture("lesson-a", func(l *models.Lesson) {
			l.GroupID = "group-x"
			l.Room = "101"
		}),
	})
	scheduleB := models.NewSchedule("group-y", "sem-1", []models.Lesson{
		lessonFixture("lesson-b", func(l *models.Lesson) {
			l.GroupID = "group-y"
			l.Room = "102"
			l.StartTime = "10:30"
			l.EndTime = "12:00"
		}),
	})

	issuesA := detector.ValidateSchedule(scheduleA, []models.Schedule{scheduleB})
	require.Len(t, issuesA, 1)
	assert.Equal(t, models.IssueTeacherConflict, issuesA[0].Type)
	assert.Equal(t, "lesson-a", issuesA[0].LessonID)

	issuesB := detector.ValidateSchedule(scheduleB, []models.Schedule{scheduleA})
	require.Len(t, issuesB, 1)
	assert.Equal(t, models.IssueTeacherConflict, issuesB[0].Type)
	assert.Equal(t, "lesson-b", issuesB[0].LessonID)
}

func TestValidateScheduleSkipsSelfInOthers(t *testing.T) {
	detector := NewDetector(DefaultWindow())

	schedule := models.NewSchedule("group-1", "sem-1", []models.Lesson{lessonFixture("l1", nil)})

	// Passing the target itself among the others must not make every lesson
	// conflict with its own copy.
	assert.Empty(t, detector.ValidateSchedule(schedule, []models.Schedule{schedule}))
}

func TestValidateScheduleIdempotent(t *testing.T) {
	detector := NewDetector(DefaultWindow())

	schedule := models.NewSchedule("group-1", "sem-1", []models.Lesson{
		lessonFixture("l1", nil),
		lessonFixture("l2", func(l *models.Lesson) { l.StartTime = "11:00"; l.EndTime = "12:30" }),
		lessonFixture("l3", func(l *models.Lesson) { l.StartTime = "07:00"; l.EndTime = "08:00" }),
	})
	other := models.NewSchedule("group-2", "sem-1", []models.Lesson{
		lessonFixture("l4", func(l *models.Lesson) { l.GroupID = "group-2" }),
	})

	first := detector.ValidateSchedule(schedule, []models.Schedule{other})
	second := detector.ValidateSchedule(schedule, []models.Schedule{other})
	assert.Equal(t, first, second, "repeated validation must yield an order-stable issue list")
}
