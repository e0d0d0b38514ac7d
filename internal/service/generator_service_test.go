package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupanel/timetable-api/internal/models"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
)

func newGeneratorService(store *mockLessonStore, cache *mockScheduleCache, notifier *mockNotifier) *GeneratorService {
	return NewGeneratorService(
		nil, nil,
		store,
		&mockGroupReader{},
		&mockSemesterReader{},
		cache,
		notifier,
		nil, nil,
	)
}

func generatePayload(mutate func(*GenerateRequest)) GenerateRequest {
	req := GenerateRequest{
		GroupID:    "group-1",
		SemesterID: "sem-1",
		SubjectID:  "subj-1",
		TeacherID:  "teacher-1",
		Room:       "204",
		Type:       "PRACTICE",
		Days:       []int{1, 3},
		Slots:      []string{"08:00-09:30", "10:00-11:30"},
	}
	if mutate != nil {
		mutate(&req)
	}
	return req
}

func TestGeneratorServiceStrictCommitsWholeBatch(t *testing.T) {
	store := &mockLessonStore{}
	cache := &mockScheduleCache{}
	notifier := &mockNotifier{}
	svc := newGeneratorService(store, cache, notifier)

	result, err := svc.Generate(context.Background(), generatePayload(nil))
	require.NoError(t, err)
	assert.Len(t, result.Created, 4)
	assert.Empty(t, result.Skipped)
	require.Len(t, store.bulkBatches, 1)
	assert.Len(t, store.bulkBatches[0], 4)
	assert.Contains(t, cache.patterns, "schedule:sem-1:*")
	assert.Len(t, notifier.calls, 1)
}

func TestGeneratorServiceStrictRejectsOnConflict(t *testing.T) {
	store := &mockLessonStore{lessons: []models.Lesson{
		storedLesson("existing", "group-1", func(l *models.Lesson) {
			l.DayOfWeek = 1
			l.StartTime = "08:00"
			l.EndTime = "09:30"
		}),
	}}
	svc := newGeneratorService(store, &mockScheduleCache{}, &mockNotifier{})

	_, err := svc.Generate(context.Background(), generatePayload(nil))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.bulkBatches)
}

func TestGeneratorServicePartialSkipsConflictedCandidates(t *testing.T) {
	store := &mockLessonStore{lessons: []models.Lesson{
		storedLesson("existing", "group-1", func(l *models.Lesson) {
			l.DayOfWeek = 1
			l.StartTime = "08:00"
			l.EndTime = "09:30"
		}),
	}}
	svc := newGeneratorService(store, &mockScheduleCache{}, &mockNotifier{})

	result, err := svc.Generate(context.Background(), generatePayload(func(r *GenerateRequest) {
		r.PartialOnError = true
	}))
	require.NoError(t, err)
	assert.Len(t, result.Created, 3)
	require.Len(t, result.Skipped, 1)
	skipped := result.Skipped[0]
	assert.Equal(t, 1, skipped.Lesson.DayOfWeek)
	assert.Equal(t, "08:00", skipped.Lesson.StartTime)
	assert.NotEmpty(t, skipped.Issues)
	require.Len(t, store.bulkBatches, 1)
	assert.Len(t, store.bulkBatches[0], 3)
}

func TestGeneratorServiceRejectsEmptySlots(t *testing.T) {
	svc := newGeneratorService(&mockLessonStore{}, &mockScheduleCache{}, &mockNotifier{})
	_, err := svc.Generate(context.Background(), generatePayload(func(r *GenerateRequest) {
		r.Slots = nil
	}))
	require.Error(t, err)
	failure := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, failure.Code)
	assert.Equal(t, "no time slots selected", failure.Message)
}

func TestGeneratorServiceRejectsUnknownGroup(t *testing.T) {
	svc := NewGeneratorService(nil, nil, &mockLessonStore{},
		&mockGroupReader{missing: map[string]bool{"group-1": true}},
		&mockSemesterReader{}, nil, nil, nil, nil)

	_, err := svc.Generate(context.Background(), generatePayload(nil))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGeneratorServiceWeekRangeMultipliesBatch(t *testing.T) {
	store := &mockLessonStore{}
	svc := newGeneratorService(store, &mockScheduleCache{}, &mockNotifier{})

	result, err := svc.Generate(context.Background(), generatePayload(func(r *GenerateRequest) {
		r.Days = []int{1}
		r.Slots = []string{"08:00-09:30"}
		r.WeekStart = 2
		r.WeekEnd = 4
	}))
	require.NoError(t, err)
	assert.Len(t, result.Created, 3)
	weeks := make([]int, 0, 3)
	for _, lesson := range result.Created {
		weeks = append(weeks, lesson.WeekNumber)
	}
	assert.ElementsMatch(t, []int{2, 3, 4}, weeks)
}
