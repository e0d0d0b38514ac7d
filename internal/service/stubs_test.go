package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/edupanel/timetable-api/internal/models"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
)

// mockLessonStore backs lesson, schedule, generator, template and import
// service tests with an in-memory lesson table.
type mockLessonStore struct {
	lessons      []models.Lesson
	created      []models.Lesson
	updated      []models.Lesson
	deleted      []string
	listCalls    int
	bulkErr      error
	semesterErr  error
	bulkBatches  [][]models.Lesson
	failBulkOnce bool
}

func (m *mockLessonStore) List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, int, error) {
	var out []models.Lesson
	for _, lesson := range m.lessons {
		if filter.GroupID != "" && lesson.GroupID != filter.GroupID {
			continue
		}
		if filter.SemesterID != "" && lesson.SemesterID != filter.SemesterID {
			continue
		}
		out = append(out, lesson)
	}
	return out, len(out), nil
}

func (m *mockLessonStore) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	for _, lesson := range m.lessons {
		if lesson.ID == id {
			found := lesson
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockLessonStore) ListBySemester(ctx context.Context, semesterID string) ([]models.Lesson, error) {
	if m.semesterErr != nil {
		return nil, m.semesterErr
	}
	m.listCalls++
	var out []models.Lesson
	for _, lesson := range m.lessons {
		if lesson.SemesterID == semesterID {
			out = append(out, lesson)
		}
	}
	return out, nil
}

func (m *mockLessonStore) ListByTeacher(ctx context.Context, teacherID string) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, lesson := range m.lessons {
		if lesson.TeacherID == teacherID {
			out = append(out, lesson)
		}
	}
	return out, nil
}

func (m *mockLessonStore) ListByGroupSemester(ctx context.Context, groupID, semesterID string) ([]models.Lesson, error) {
	m.listCalls++
	var out []models.Lesson
	for _, lesson := range m.lessons {
		if lesson.GroupID == groupID && lesson.SemesterID == semesterID {
			out = append(out, lesson)
		}
	}
	return out, nil
}

func (m *mockLessonStore) Create(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = "created-lesson"
	}
	m.lessons = append(m.lessons, *lesson)
	m.created = append(m.created, *lesson)
	return nil
}

func (m *mockLessonStore) BulkCreate(ctx context.Context, lessons []models.Lesson) error {
	if m.bulkErr != nil {
		err := m.bulkErr
		if m.failBulkOnce {
			m.bulkErr = nil
		}
		return err
	}
	m.lessons = append(m.lessons, lessons...)
	m.created = append(m.created, lessons...)
	m.bulkBatches = append(m.bulkBatches, lessons)
	return nil
}

func (m *mockLessonStore) Update(ctx context.Context, lesson *models.Lesson) error {
	for i := range m.lessons {
		if m.lessons[i].ID == lesson.ID {
			m.lessons[i] = *lesson
		}
	}
	m.updated = append(m.updated, *lesson)
	return nil
}

func (m *mockLessonStore) Delete(ctx context.Context, id string) error {
	kept := m.lessons[:0]
	for _, lesson := range m.lessons {
		if lesson.ID != id {
			kept = append(kept, lesson)
		}
	}
	m.lessons = kept
	m.deleted = append(m.deleted, id)
	return nil
}

type mockGroupReader struct {
	missing map[string]bool
}

func (m *mockGroupReader) FindByID(ctx context.Context, id string) (*models.Group, error) {
	if m.missing[id] {
		return nil, sql.ErrNoRows
	}
	return &models.Group{ID: id, Name: "Group " + id, Active: true}, nil
}

type mockSubjectCatalog struct {
	missing  map[string]bool
	subjects []models.Subject
}

func (m *mockSubjectCatalog) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if m.missing[id] {
		return nil, sql.ErrNoRows
	}
	return &models.Subject{ID: id, Name: "Subject " + id}, nil
}

func (m *mockSubjectCatalog) List(ctx context.Context) ([]models.Subject, error) {
	return m.subjects, nil
}

type mockTeacherCatalog struct {
	missing  map[string]bool
	teachers []models.Teacher
}

func (m *mockTeacherCatalog) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if m.missing[id] {
		return nil, sql.ErrNoRows
	}
	return &models.Teacher{ID: id, FullName: "Teacher " + id, Active: true}, nil
}

func (m *mockTeacherCatalog) List(ctx context.Context) ([]models.Teacher, error) {
	return m.teachers, nil
}

type mockSemesterReader struct {
	missing map[string]bool
}

func (m *mockSemesterReader) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	if m.missing[id] {
		return nil, sql.ErrNoRows
	}
	return &models.Semester{ID: id, Name: "Semester " + id, WeekCount: 16, Active: true}, nil
}

type mockScheduleCache struct {
	data     map[string][]byte
	patterns []string
	sets     int
}

func (m *mockScheduleCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockScheduleCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	m.sets++
	return nil
}

func (m *mockScheduleCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	m.data = nil
	return nil
}

type notifierCall struct {
	GroupID    string
	SemesterID string
	Title      string
}

type mockNotifier struct {
	calls []notifierCall
}

func (m *mockNotifier) ScheduleChanged(ctx context.Context, groupID, semesterID, title, body string) {
	m.calls = append(m.calls, notifierCall{GroupID: groupID, SemesterID: semesterID, Title: title})
}

// storedLesson builds an in-store lesson with sane defaults.
func storedLesson(id, groupID string, mutate func(*models.Lesson)) models.Lesson {
	lesson := models.Lesson{
		ID:         id,
		GroupID:    groupID,
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
