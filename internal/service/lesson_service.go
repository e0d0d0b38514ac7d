package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edupanel/timetable-api/internal/models"
	"github.com/edupanel/timetable-api/internal/timetable"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
)

type lessonRepository interface {
	List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, int, error)
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
	ListBySemester(ctx context.Context, semesterID string) ([]models.Lesson, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id string) error
}

type groupReader interface {
	FindByID(ctx context.Context, id string) (*models.Group, error)
}

type subjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type teacherReader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type semesterReader interface {
	FindByID(ctx context.Context, id string) (*models.Semester, error)
}

type scheduleCacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

type scheduleChangeNotifier interface {
	ScheduleChanged(ctx context.Context, groupID, semesterID, title, body string)
}

// LessonService manages single-lesson mutations. Every write runs the
// candidate through the conflict detector against the full semester universe
// before touching storage.
type LessonService struct {
	lessons   lessonRepository
	groups    groupReader
	subjects  subjectReader
	teachers  teacherReader
	semesters semesterReader
	cache     scheduleCacheInvalidator
	notifier  scheduleChangeNotifier
	detector  *timetable.Detector
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLessonService wires lesson dependencies.
func NewLessonService(
	lessons lessonRepository,
	groups groupReader,
	subjects subjectReader,
	teachers teacherReader,
	semesters semesterReader,
	cache scheduleCacheInvalidator,
	notifier scheduleChangeNotifier,
	detector *timetable.Detector,
	validate *validator.Validate,
	logger *zap.Logger,
) *LessonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if detector == nil {
		detector = timetable.NewDetector(timetable.DefaultWindow())
	}
	return &LessonService{
		lessons:   lessons,
		groups:    groups,
		subjects:  subjects,
		teachers:  teachers,
		semesters: semesters,
		cache:     cache,
		notifier:  notifier,
		detector:  detector,
		validator: validate,
		logger:    logger,
	}
}

// LessonRequest describes a create or update payload.
type LessonRequest struct {
	GroupID    string `json:"group_id" validate:"required"`
	SubjectID  string `json:"subject_id" validate:"required"`
	TeacherID  string `json:"teacher_id" validate:"required"`
	Room       string `json:"room" validate:"required"`
	DayOfWeek  int    `json:"day_of_week" validate:"required,min=1,max=6"`
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time" validate:"required"`
	Type       string `json:"type" validate:"required"`
	WeekType   string `json:"week_type"`
	WeekNumber int    `json:"week_number" validate:"min=0"`
	SemesterID string `json:"semester_id" validate:"required"`
}

// LessonListRequest describes listing filters.
type LessonListRequest struct {
	GroupID    string
	SemesterID string
	SubjectID  string
	TeacherID  string
	Room       string
	DayOfWeek  int
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// List returns lessons with pagination.
func (s *LessonService) List(ctx context.Context, req LessonListRequest) ([]models.Lesson, *models.Pagination, error) {
	filter := models.LessonFilter{
		GroupID:    req.GroupID,
		SemesterID: req.SemesterID,
		SubjectID:  req.SubjectID,
		TeacherID:  req.TeacherID,
		Room:       req.Room,
		DayOfWeek:  req.DayOfWeek,
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	rows, total, err := s.lessons.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return rows, pagination, nil
}

// ListForTeacher returns a teacher's lessons across every group.
func (s *LessonService) ListForTeacher(ctx context.Context, teacherID string) ([]models.Lesson, error) {
	if s.teachers != nil {
		if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
		}
	}
	rows, err := s.lessons.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher lessons")
	}
	return rows, nil
}

// Get returns a single lesson.
func (s *LessonService) Get(ctx context.Context, id string) (*models.Lesson, error) {
	lesson, err := s.lessons.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	return lesson, nil
}

// Create validates and persists one lesson.
func (s *LessonService) Create(ctx context.Context, req LessonRequest) (*models.Lesson, error) {
	candidate, err := s.buildLesson("", req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureReferences(ctx, req); err != nil {
		return nil, err
	}

	target, others, err := s.semesterUniverse(ctx, req.SemesterID, req.GroupID, "")
	if err != nil {
		return nil, err
	}
	if issues := s.detector.CanAddLesson(*candidate, target, others); len(issues) > 0 {
		return nil, conflictError(issues)
	}

	if err := s.lessons.Create(ctx, candidate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist lesson")
	}
	s.invalidate(ctx, req.SemesterID)
	s.notify(ctx, req.GroupID, req.SemesterID, "Lesson added",
		fmt.Sprintf("%s lesson added on %s %s-%s", candidate.Type, models.DayName(candidate.DayOfWeek), candidate.StartTime, candidate.EndTime))
	return candidate, nil
}

// Update replaces an existing lesson after re-validating the new version
// against the universe with the old version removed.
func (s *LessonService) Update(ctx context.Context, id string, req LessonRequest) (*models.Lesson, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.buildLesson(existing.ID, req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureReferences(ctx, req); err != nil {
		return nil, err
	}

	target, others, err := s.semesterUniverse(ctx, req.SemesterID, req.GroupID, existing.ID)
	if err != nil {
		return nil, err
	}
	if issues := s.detector.CanAddLesson(*updated, target, others); len(issues) > 0 {
		return nil, conflictError(issues)
	}

	updated.CreatedAt = existing.CreatedAt
	if err := s.lessons.Update(ctx, updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lesson")
	}
	s.invalidate(ctx, req.SemesterID)
	if existing.SemesterID != req.SemesterID {
		s.invalidate(ctx, existing.SemesterID)
	}
	s.notify(ctx, req.GroupID, req.SemesterID, "Lesson updated",
		fmt.Sprintf("%s lesson moved to %s %s-%s", updated.Type, models.DayName(updated.DayOfWeek), updated.StartTime, updated.EndTime))
	return updated, nil
}

// Delete removes a lesson.
func (s *LessonService) Delete(ctx context.Context, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.lessons.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lesson")
	}
	s.invalidate(ctx, existing.SemesterID)
	s.notify(ctx, existing.GroupID, existing.SemesterID, "Lesson removed",
		fmt.Sprintf("%s lesson removed from %s %s-%s", existing.Type, models.DayName(existing.DayOfWeek), existing.StartTime, existing.EndTime))
	return nil
}

func (s *LessonService) buildLesson(id string, req LessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}
	lessonType, ok := models.ParseLessonType(req.Type)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown lesson type %q", req.Type))
	}
	weekType, ok := models.ParseWeekType(req.WeekType)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown week type %q", req.WeekType))
	}
	return &models.Lesson{
		ID:         id,
		GroupID:    req.GroupID,
		SubjectID:  req.SubjectID,
		TeacherID:  req.TeacherID,
		Room:       req.Room,
		DayOfWeek:  req.DayOfWeek,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Type:       lessonType,
		WeekType:   weekType,
		WeekNumber: req.WeekNumber,
		SemesterID: req.SemesterID,
	}, nil
}

func (s *LessonService) ensureReferences(ctx context.Context, req LessonRequest) error {
	checks := []struct {
		name string
		load func() error
	}{
		{"group", func() error { _, err := s.groups.FindByID(ctx, req.GroupID); return err }},
		{"subject", func() error { _, err := s.subjects.FindByID(ctx, req.SubjectID); return err }},
		{"teacher", func() error { _, err := s.teachers.FindByID(ctx, req.TeacherID); return err }},
		{"semester", func() error { _, err := s.semesters.FindByID(ctx, req.SemesterID); return err }},
	}
	for _, check := range checks {
		if err := check.load(); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, check.name+" not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+check.name)
		}
	}
	return nil
}

// semesterUniverse assembles the target group's schedule and all sibling
// schedules for the semester. excludeLessonID drops the stored version of a
// lesson being edited so it cannot collide with its own replacement.
func (s *LessonService) semesterUniverse(ctx context.Context, semesterID, groupID, excludeLessonID string) (models.Schedule, []models.Schedule, error) {
	lessons, err := s.lessons.ListBySemester(ctx, semesterID)
	if err != nil {
		return models.Schedule{}, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester lessons")
	}
	target, others := splitUniverse(lessons, groupID, semesterID, excludeLessonID)
	return target, others, nil
}

func splitUniverse(lessons []models.Lesson, groupID, semesterID, excludeLessonID string) (models.Schedule, []models.Schedule) {
	byGroup := make(map[string][]models.Lesson)
	order := make([]string, 0)
	for _, lesson := range lessons {
		if lesson.ID == excludeLessonID {
			continue
		}
		if _, seen := byGroup[lesson.GroupID]; !seen {
			order = append(order, lesson.GroupID)
		}
		byGroup[lesson.GroupID] = append(byGroup[lesson.GroupID], lesson)
	}

	target := models.NewSchedule(groupID, semesterID, byGroup[groupID])
	others := make([]models.Schedule, 0, len(order))
	for _, gid := range order {
		if gid == groupID {
			continue
		}
		others = append(others, models.NewSchedule(gid, semesterID, byGroup[gid]))
	}
	return target, others
}

func (s *LessonService) invalidate(ctx context.Context, semesterID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, scheduleCachePattern(semesterID)); err != nil {
		s.logger.Warn("failed to invalidate schedule cache", zap.String("semester_id", semesterID), zap.Error(err))
	}
}

func (s *LessonService) notify(ctx context.Context, groupID, semesterID, title, body string) {
	if s.notifier == nil {
		return
	}
	s.notifier.ScheduleChanged(ctx, groupID, semesterID, title, body)
}

func conflictError(issues []models.LessonIssue) error {
	return appErrors.Wrap(&models.ConflictError{Issues: issues}, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "schedule conflicts detected")
}

func scheduleCacheKey(groupID, semesterID string) string {
	return "schedule:" + semesterID + ":" + groupID
}

func scheduleCachePattern(semesterID string) string {
	return "schedule:" + semesterID + ":*"
}
