package timetable

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupanel/timetable-api/internal/models"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
)

func batchSpecFixture(mutate func(*BatchSpec)) BatchSpec {
	spec := BatchSpec{
		GroupID:    "group-1",
		SemesterID: "sem-1",
		SubjectID:  "subj-1",
		TeacherID:  "teacher-1",
		Room:       "204",
		Type:       models.LessonTypePractice,
		WeekType:   models.WeekTypeAll,
		Days:       []int{1, 3},
		Slots:      []string{"08:00-09:30", "09:45-11:15", "11:30-13:00"},
	}
	if mutate != nil {
		mutate(&spec)
	}
	return spec
}

func TestExpandArity(t *testing.T) {
	generator := NewGenerator(0)

	lessons, err := generator.Expand(batchSpecFixture(nil))
	require.NoError(t, err)
	require.Len(t, lessons, 6, "2 days x 3 slots")

	seen := map[string]struct{}{}
	for _, lesson := range lessons {
		key := fmt.Sprintf("%d|%s|%s", lesson.DayOfWeek, lesson.StartTime, lesson.EndTime)
		_, dup := seen[key]
		assert.False(t, dup, "day/time combination %s generated twice", key)
		seen[key] = struct{}{}

		assert.NotEmpty(t, lesson.ID)
		assert.Equal(t, "subj-1", lesson.SubjectID)
		assert.Equal(t, "teacher-1", lesson.TeacherID)
		assert.Equal(t, "204", lesson.Room)
		assert.Equal(t, models.LessonTypePractice, lesson.Type)
		assert.Equal(t, models.WeekTypeAll, lesson.WeekType)
		assert.Equal(t, "group-1", lesson.GroupID)
		assert.Equal(t, "sem-1", lesson.SemesterID)
	}
}

func TestExpandWithWeekRange(t *testing.T) {
	generator := NewGenerator(16)

	lessons, err := generator.Expand(batchSpecFixture(func(s *BatchSpec) {
		s.Days = []int{2}
		s.Slots = []string{"10:00-11:30"}
		s.WeekStart = 3
		s.WeekEnd = 5
	}))
	require.NoError(t, err)
	require.Len(t, lessons, 3)
	for i, lesson := range lessons {
		assert.Equal(t, 3+i, lesson.WeekNumber)
	}
}

func TestExpandNormalizesWeekType(t *testing.T) {
	generator := NewGenerator(0)

	lessons, err := generator.Expand(batchSpecFixture(func(s *BatchSpec) { s.WeekType = "" }))
	require.NoError(t, err)
	for _, lesson := range lessons {
		assert.Equal(t, models.WeekTypeAll, lesson.WeekType)
	}
}

func TestExpandRejectsIncompleteSpecs(t *testing.T) {
	generator := NewGenerator(16)

	cases := []struct {
		name   string
		mutate func(*BatchSpec)
	}{
		{"no subject", func(s *BatchSpec) { s.SubjectID = "" }},
		{"no room", func(s *BatchSpec) { s.Room = "" }},
		{"no days", func(s *BatchSpec) { s.Days = nil }},
		{"no slots", func(s *BatchSpec) { s.Slots = nil }},
		{"sunday", func(s *BatchSpec) { s.Days = []int{7} }},
		{"inverted week range", func(s *BatchSpec) { s.WeekStart = 5; s.WeekEnd = 3 }},
		{"week range above bound", func(s *BatchSpec) { s.WeekStart = 1; s.WeekEnd = 17 }},
		{"week range below bound", func(s *BatchSpec) { s.WeekStart = -2; s.WeekEnd = -1 }},
		{"malformed slot", func(s *BatchSpec) { s.Slots = []string{"morning"} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := generator.Expand(batchSpecFixture(tc.mutate))
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}
