package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupanel/timetable-api/internal/models"
)

func TestCanAddLessonAuthorizesFreeSlot(t *testing.T) {
	detector := NewDetector(DefaultWindow())

	schedule := models.NewSchedule("group-1", "sem-1", []models.Lesson{lessonFixture("l1", nil)})
	candidate := lessonFixture("l2", func(l *models.Lesson) {
		l.StartTime = "11:30"
		l.EndTime = "13:00"
	})

	assert.Empty(t, detector.CanAddLesson(candidate, schedule, nil))
}

func TestCanAddLessonBlocksConflictingCandidate(t *testing.T) {
	detector := NewDetector(DefaultWindow())

	schedule := models.NewSchedule("group-1", "sem-1", []models.Lesson{lessonFixture("l1", nil)})
	candidate := lessonFixture("l2", func(l *models.Lesson) {
		l.TeacherID = "teacher-2"
		l.StartTime = "11:00"
		l.EndTime = "12:00"
	})

	issues := detector.CanAddLesson(candidate, schedule, nil)
	require.Len(t, issues, 1)
	assert.Equal(t, models.IssueRoomConflict, issues[0].Type)
	// Attributed to the outer lesson of the deterministic pairwise scan.
	assert.Equal(t, "l1", issues[0].LessonID)
}

func TestCanAddLessonConsidersOtherSchedules(t *testing.T) {
	detector := NewDetector(DefaultWindow())

	schedule := models.NewSchedule("group-1", "sem-1", nil)
	other := models.NewSchedule("group-2", "sem-1", []models.Lesson{
		lessonFixture("theirs", func(l *models.Lesson) {
			l.GroupID = "group-2"
			l.Room = "305"
		}),
	})
	candidate := lessonFixture("mine", func(l *models.Lesson) { l.Room = "305" })

	issues := detector.CanAddLesson(candidate, schedule, []models.Schedule{other})
	require.Len(t, issues, 2)
	assert.Equal(t, models.IssueRoomConflict, issues[0].Type)
	assert.Equal(t, models.IssueTeacherConflict, issues[1].Type)
	assert.Equal(t, "mine", issues[0].LessonID)
}

func TestCanAddLessonDoesNotMutateSchedule(t *testing.T) {
	detector := NewDetector(DefaultWindow())

	schedule := models.NewSchedule("group-1", "sem-1", []models.Lesson{lessonFixture("l1", nil)})
	candidate := lessonFixture("l2", nil)

	_ = detector.CanAddLesson(candidate, schedule, nil)
	require.Len(t, schedule.Lessons, 1)
	assert.Equal(t, "l1", schedule.Lessons[0].ID)
}
