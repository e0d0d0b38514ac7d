package timetable

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/edupanel/timetable-api/internal/models"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
)

// DefaultMaxWeek is the highest supported semester week number.
const DefaultMaxWeek = 16

// BatchSpec is a compact description of many lessons: one subject, teacher
// and room over a set of selected days and time slots, optionally repeated
// across a range of semester weeks.
type BatchSpec struct {
	GroupID    string
	SemesterID string
	SubjectID  string
	TeacherID  string
	Room       string
	Type       models.LessonType
	WeekType   models.WeekType
	Days       []int
	Slots      []string
	WeekStart  int
	WeekEnd    int
}

// Generator expands batch specifications into concrete lesson records.
type Generator struct {
	maxWeek int
}

// NewGenerator builds a generator honouring the given week bound. Values
// below 1 fall back to DefaultMaxWeek.
func NewGenerator(maxWeek int) *Generator {
	if maxWeek < 1 {
		maxWeek = DefaultMaxWeek
	}
	return &Generator{maxWeek: maxWeek}
}

// Expand produces the cartesian product of selected days, selected time
// slots and, when a week range is given, week numbers. All generated lessons
// share the spec's subject, teacher, room, type and week type. The batch is
// not validated against existing schedules here; callers run the conflict
// detector over the result before committing.
func (g *Generator) Expand(spec BatchSpec) ([]models.Lesson, error) {
	if spec.SubjectID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no subject selected")
	}
	if spec.Room == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no room given")
	}
	if len(spec.Days) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no days selected")
	}
	if len(spec.Slots) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no time slots selected")
	}
	for _, day := range spec.Days {
		if !models.ValidDayOfWeek(day) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid day of week %d", day))
		}
	}

	weeks := []int{0}
	if spec.WeekStart != 0 || spec.WeekEnd != 0 {
		if spec.WeekStart < 1 || spec.WeekEnd > g.maxWeek || spec.WeekStart > spec.WeekEnd {
			return nil, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("week range must lie within 1-%d and not be inverted", g.maxWeek))
		}
		weeks = weeks[:0]
		for w := spec.WeekStart; w <= spec.WeekEnd; w++ {
			weeks = append(weeks, w)
		}
	}

	type slotTimes struct {
		start string
		end   string
	}
	parsed := make([]slotTimes, 0, len(spec.Slots))
	for _, slot := range spec.Slots {
		if _, _, err := ParseSlot(slot); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time slot")
		}
		parts := strings.SplitN(strings.TrimSpace(slot), "-", 2)
		parsed = append(parsed, slotTimes{start: strings.TrimSpace(parts[0]), end: strings.TrimSpace(parts[1])})
	}

	lessons := make([]models.Lesson, 0, len(spec.Days)*len(parsed)*len(weeks))
	for _, day := range spec.Days {
		for _, slot := range parsed {
			for _, week := range weeks {
				lessons = append(lessons, models.Lesson{
					ID:         uuid.NewString(),
					GroupID:    spec.GroupID,
					SubjectID:  spec.SubjectID,
					TeacherID:  spec.TeacherID,
					Room:       spec.Room,
					DayOfWeek:  day,
					StartTime:  slot.start,
					EndTime:    slot.end,
					Type:       spec.Type,
					WeekType:   spec.WeekType.Normalized(),
					WeekNumber: week,
					SemesterID: spec.SemesterID,
				})
			}
		}
	}
	return lessons, nil
}
