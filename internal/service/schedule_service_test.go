package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupanel/timetable-api/internal/models"
)

func newScheduleService(store *mockLessonStore, cache *mockScheduleCache) *ScheduleService {
	return NewScheduleService(
		store,
		&mockGroupReader{},
		&mockSubjectCatalog{},
		&mockTeacherCatalog{},
		cache,
		nil,
		0,
		nil,
	)
}

func TestScheduleServiceGetServesSecondReadFromCache(t *testing.T) {
	store := &mockLessonStore{lessons: []models.Lesson{
		storedLesson("l1", "group-1", nil),
	}}
	cache := &mockScheduleCache{}
	svc := newScheduleService(store, cache)

	first, err := svc.Get(context.Background(), "group-1", "sem-1")
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleID("group-1", "sem-1"), first.ID)
	assert.Len(t, first.Lessons, 1)
	assert.Equal(t, 1, store.listCalls)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.Get(context.Background(), "group-1", "sem-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.Lessons, 1)
	assert.Equal(t, 1, store.listCalls)
}

func TestScheduleServiceValidateReportsCrossGroupConflict(t *testing.T) {
	store := &mockLessonStore{lessons: []models.Lesson{
		storedLesson("l1", "group-1", nil),
		storedLesson("l2", "group-2", func(l *models.Lesson) { l.TeacherID = "teacher-2" }),
	}}
	svc := newScheduleService(store, &mockScheduleCache{})

	report, err := svc.Validate(context.Background(), "group-1", "sem-1")
	require.NoError(t, err)
	assert.False(t, report.Valid)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, models.IssueRoomConflict, report.Issues[0].Type)
	assert.Equal(t, "l1", report.Issues[0].LessonID)
}

func TestScheduleServiceValidateCleanSchedule(t *testing.T) {
	store := &mockLessonStore{lessons: []models.Lesson{
		storedLesson("l1", "group-1", nil),
		storedLesson("l2", "group-1", func(l *models.Lesson) { l.DayOfWeek = 4 }),
	}}
	svc := newScheduleService(store, &mockScheduleCache{})

	report, err := svc.Validate(context.Background(), "group-1", "sem-1")
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Issues)
}

func TestScheduleServiceExportCSVResolvesCatalogNames(t *testing.T) {
	store := &mockLessonStore{lessons: []models.Lesson{
		storedLesson("l1", "group-1", nil),
	}}
	svc := newScheduleService(store, &mockScheduleCache{})

	payload, filename, err := svc.ExportCSV(context.Background(), "group-1", "sem-1")
	require.NoError(t, err)
	assert.Equal(t, "timetable-Group group-1.csv", filename)

	content := string(payload)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Day,Start,End,Subject,Teacher,Room,Type,Weeks", lines[0])
	assert.Contains(t, lines[1], "Tuesday")
	assert.Contains(t, lines[1], "Subject subj-1")
	assert.Contains(t, lines[1], "Teacher teacher-1")
}

func TestScheduleServiceExportPDFProducesDocument(t *testing.T) {
	store := &mockLessonStore{lessons: []models.Lesson{
		storedLesson("l1", "group-1", nil),
	}}
	svc := newScheduleService(store, &mockScheduleCache{})

	payload, filename, err := svc.ExportPDF(context.Background(), "group-1", "sem-1")
	require.NoError(t, err)
	assert.Equal(t, "timetable-Group group-1.pdf", filename)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}
