package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupanel/timetable-api/internal/models"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
)

func newTemplateService(store *mockLessonStore, cache *mockScheduleCache, notifier *mockNotifier) *TemplateService {
	return NewTemplateService(
		store,
		&mockGroupReader{},
		&mockSemesterReader{},
		nil,
		cache,
		notifier,
		nil, nil,
	)
}

func TestTemplateServiceAppliesWithWeekTypeOverride(t *testing.T) {
	store := &mockLessonStore{lessons: []models.Lesson{
		storedLesson("src-1", "group-1", func(l *models.Lesson) { l.WeekType = models.WeekTypeOdd }),
		storedLesson("src-2", "group-1", func(l *models.Lesson) {
			l.WeekType = models.WeekTypeOdd
			l.DayOfWeek = 4
		}),
	}}
	cache := &mockScheduleCache{}
	notifier := &mockNotifier{}
	svc := newTemplateService(store, cache, notifier)

	result, err := svc.Apply(context.Background(), ApplyTemplateRequest{
		SemesterID:     "sem-1",
		SourceGroupID:  "group-1",
		TargetGroupIDs: []string{"group-2"},
		WeekType:       "even",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"group-2"}, result.Applied)
	assert.Empty(t, result.Failed)

	require.Len(t, store.bulkBatches, 1)
	for _, clone := range store.bulkBatches[0] {
		assert.Equal(t, "group-2", clone.GroupID)
		assert.Equal(t, models.WeekTypeEven, clone.WeekType)
		assert.NotEqual(t, "src-1", clone.ID)
		assert.NotEqual(t, "src-2", clone.ID)
	}
	assert.Contains(t, cache.patterns, "schedule:sem-1:*")
	assert.Len(t, notifier.calls, 1)
}

func TestTemplateServiceReportsConflictedTarget(t *testing.T) {
	// A verbatim copy shares rooms and teachers with its source at the same
	// times, so applying without a week-type override must fail validation.
	store := &mockLessonStore{lessons: []models.Lesson{
		storedLesson("src-1", "group-1", nil),
	}}
	svc := newTemplateService(store, &mockScheduleCache{}, &mockNotifier{})

	result, err := svc.Apply(context.Background(), ApplyTemplateRequest{
		SemesterID:     "sem-1",
		SourceGroupID:  "group-1",
		TargetGroupIDs: []string{"group-2"},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Applied)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "group-2", result.Failed[0].GroupID)
	assert.NotEmpty(t, result.Failed[0].Issues)
	assert.Empty(t, store.bulkBatches)
}

func TestTemplateServiceLaterTargetsSeeEarlierCommits(t *testing.T) {
	store := &mockLessonStore{lessons: []models.Lesson{
		storedLesson("src-1", "group-1", func(l *models.Lesson) { l.WeekType = models.WeekTypeOdd }),
	}}
	svc := newTemplateService(store, &mockScheduleCache{}, &mockNotifier{})

	// Both targets receive EVEN copies of the same room and teacher; the
	// second must collide with the copy committed for the first.
	result, err := svc.Apply(context.Background(), ApplyTemplateRequest{
		SemesterID:     "sem-1",
		SourceGroupID:  "group-1",
		TargetGroupIDs: []string{"group-2", "group-3"},
		WeekType:       "EVEN",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"group-2"}, result.Applied)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "group-3", result.Failed[0].GroupID)
}

func TestTemplateServiceRejectsSourceAsTarget(t *testing.T) {
	svc := newTemplateService(&mockLessonStore{}, &mockScheduleCache{}, &mockNotifier{})
	_, err := svc.Apply(context.Background(), ApplyTemplateRequest{
		SemesterID:     "sem-1",
		SourceGroupID:  "group-1",
		TargetGroupIDs: []string{"group-1"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTemplateServiceRejectsEmptySource(t *testing.T) {
	svc := newTemplateService(&mockLessonStore{}, &mockScheduleCache{}, &mockNotifier{})
	_, err := svc.Apply(context.Background(), ApplyTemplateRequest{
		SemesterID:     "sem-1",
		SourceGroupID:  "group-1",
		TargetGroupIDs: []string{"group-2"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
