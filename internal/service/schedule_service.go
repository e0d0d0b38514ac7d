package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/edupanel/timetable-api/internal/models"
	"github.com/edupanel/timetable-api/internal/timetable"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
	"github.com/edupanel/timetable-api/pkg/export"
)

type scheduleLessonReader interface {
	ListByGroupSemester(ctx context.Context, groupID, semesterID string) ([]models.Lesson, error)
	ListBySemester(ctx context.Context, semesterID string) ([]models.Lesson, error)
}

type scheduleCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ScheduleService assembles, validates and exports group schedules.
type ScheduleService struct {
	lessons  scheduleLessonReader
	groups   groupReader
	subjects subjectReader
	teachers teacherReader
	cache    scheduleCache
	detector *timetable.Detector
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewScheduleService wires schedule dependencies.
func NewScheduleService(
	lessons scheduleLessonReader,
	groups groupReader,
	subjects subjectReader,
	teachers teacherReader,
	cache scheduleCache,
	detector *timetable.Detector,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if detector == nil {
		detector = timetable.NewDetector(timetable.DefaultWindow())
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ScheduleService{
		lessons:  lessons,
		groups:   groups,
		subjects: subjects,
		teachers: teachers,
		cache:    cache,
		detector: detector,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Get assembles a group's schedule for a semester, served from cache when
// possible.
func (s *ScheduleService) Get(ctx context.Context, groupID, semesterID string) (*models.Schedule, error) {
	if groupID == "" || semesterID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "group id and semester id are required")
	}

	key := scheduleCacheKey(groupID, semesterID)
	if s.cache != nil {
		var cached models.Schedule
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("schedule cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	if err := s.ensureGroup(ctx, groupID); err != nil {
		return nil, err
	}
	lessons, err := s.lessons.ListByGroupSemester(ctx, groupID, semesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule lessons")
	}
	schedule := models.NewSchedule(groupID, semesterID, lessons)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, schedule, s.cacheTTL); err != nil {
			s.logger.Warn("schedule cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return &schedule, nil
}

// ValidationReport is the result of an on-demand schedule validation.
type ValidationReport struct {
	ScheduleID string               `json:"schedule_id"`
	Valid      bool                 `json:"valid"`
	Issues     []models.LessonIssue `json:"issues"`
}

// Validate runs the conflict detector over a group's schedule against the
// whole semester universe. Issues are data, not an error: a schedule full of
// conflicts still validates successfully as an operation.
func (s *ScheduleService) Validate(ctx context.Context, groupID, semesterID string) (*ValidationReport, error) {
	if groupID == "" || semesterID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "group id and semester id are required")
	}
	if err := s.ensureGroup(ctx, groupID); err != nil {
		return nil, err
	}

	lessons, err := s.lessons.ListBySemester(ctx, semesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester lessons")
	}
	target, others := splitUniverse(lessons, groupID, semesterID, "")
	issues := s.detector.ValidateSchedule(target, others)

	return &ValidationReport{
		ScheduleID: target.ID,
		Valid:      len(issues) == 0,
		Issues:     issues,
	}, nil
}

// ExportCSV renders a group's weekly timetable as CSV.
func (s *ScheduleService) ExportCSV(ctx context.Context, groupID, semesterID string) ([]byte, string, error) {
	schedule, group, err := s.exportInput(ctx, groupID, semesterID)
	if err != nil {
		return nil, "", err
	}
	dataset, err := s.timetableDataset(ctx, schedule)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
	}
	return payload, fmt.Sprintf("timetable-%s.csv", group.Name), nil
}

// ExportPDF renders a group's weekly timetable as a landscape PDF.
func (s *ScheduleService) ExportPDF(ctx context.Context, groupID, semesterID string) ([]byte, string, error) {
	schedule, group, err := s.exportInput(ctx, groupID, semesterID)
	if err != nil {
		return nil, "", err
	}
	dataset, err := s.timetableDataset(ctx, schedule)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.pdf.Render(dataset, fmt.Sprintf("Timetable %s", group.Name))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
	}
	return payload, fmt.Sprintf("timetable-%s.pdf", group.Name), nil
}

func (s *ScheduleService) exportInput(ctx context.Context, groupID, semesterID string) (*models.Schedule, *models.Group, error) {
	schedule, err := s.Get(ctx, groupID, semesterID)
	if err != nil {
		return nil, nil, err
	}
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}
	return schedule, group, nil
}

var timetableExportHeaders = []string{"Day", "Start", "End", "Subject", "Teacher", "Room", "Type", "Weeks"}

func (s *ScheduleService) timetableDataset(ctx context.Context, schedule *models.Schedule) (export.Dataset, error) {
	subjectNames := make(map[string]string)
	teacherNames := make(map[string]string)

	rows := make([]map[string]string, 0, len(schedule.Lessons))
	for _, lesson := range schedule.Lessons {
		subjectName, err := s.subjectLabel(ctx, subjectNames, lesson.SubjectID)
		if err != nil {
			return export.Dataset{}, err
		}
		teacherName, err := s.teacherLabel(ctx, teacherNames, lesson.TeacherID)
		if err != nil {
			return export.Dataset{}, err
		}
		rows = append(rows, map[string]string{
			"Day":     models.DayName(lesson.DayOfWeek),
			"Start":   lesson.StartTime,
			"End":     lesson.EndTime,
			"Subject": subjectName,
			"Teacher": teacherName,
			"Room":    lesson.Room,
			"Type":    string(lesson.Type),
			"Weeks":   weeksLabel(lesson),
		})
	}
	return export.Dataset{Headers: timetableExportHeaders, Rows: rows}, nil
}

func (s *ScheduleService) subjectLabel(ctx context.Context, memo map[string]string, id string) (string, error) {
	if name, ok := memo[id]; ok {
		return name, nil
	}
	subject, err := s.subjects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			memo[id] = id
			return id, nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	memo[id] = subject.Name
	return subject.Name, nil
}

func (s *ScheduleService) teacherLabel(ctx context.Context, memo map[string]string, id string) (string, error) {
	if name, ok := memo[id]; ok {
		return name, nil
	}
	teacher, err := s.teachers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			memo[id] = id
			return id, nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	memo[id] = teacher.FullName
	return teacher.FullName, nil
}

func weeksLabel(lesson models.Lesson) string {
	label := string(lesson.WeekType.Normalized())
	if lesson.WeekNumber > 0 {
		label = fmt.Sprintf("%s (week %d)", label, lesson.WeekNumber)
	}
	return label
}

func (s *ScheduleService) ensureGroup(ctx context.Context, groupID string) error {
	if s.groups == nil {
		return nil
	}
	if _, err := s.groups.FindByID(ctx, groupID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}
	return nil
}
