package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/extrame/xls"
	"go.uber.org/zap"

	"github.com/edupanel/timetable-api/internal/models"
	"github.com/edupanel/timetable-api/internal/timetable"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
)

type subjectLister interface {
	List(ctx context.Context) ([]models.Subject, error)
}

type teacherLister interface {
	List(ctx context.Context) ([]models.Teacher, error)
}

// ImportService parses institutional XLS timetable workbooks into candidate
// lessons and pushes them through the same validation path as bulk
// generation. Expected columns: day name, time range "HH:mm-HH:mm", subject
// name, teacher name, room, optional lesson type and week type.
type ImportService struct {
	lessons  bulkLessonWriter
	subjects subjectLister
	teachers teacherLister
	detector *timetable.Detector
	cache    scheduleCacheInvalidator
	notifier scheduleChangeNotifier
	maxSize  int64
	logger   *zap.Logger
}

// NewImportService wires import dependencies.
func NewImportService(
	lessons bulkLessonWriter,
	subjects subjectLister,
	teachers teacherLister,
	detector *timetable.Detector,
	cache scheduleCacheInvalidator,
	notifier scheduleChangeNotifier,
	maxSize int64,
	logger *zap.Logger,
) *ImportService {
	if detector == nil {
		detector = timetable.NewDetector(timetable.DefaultWindow())
	}
	if maxSize <= 0 {
		maxSize = 5 << 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{
		lessons:  lessons,
		subjects: subjects,
		teachers: teachers,
		detector: detector,
		cache:    cache,
		notifier: notifier,
		maxSize:  maxSize,
		logger:   logger,
	}
}

// MaxFileSize returns the configured workbook size cap in bytes.
func (s *ImportService) MaxFileSize() int64 {
	return s.maxSize
}

// ImportRequest scopes an uploaded workbook to one group schedule.
type ImportRequest struct {
	GroupID        string
	SemesterID     string
	PartialOnError bool
}

// Import reads the workbook, resolves catalog names and commits the parsed
// lessons through conflict validation.
func (s *ImportService) Import(ctx context.Context, req ImportRequest, size int64, r io.ReadSeeker) (*GenerateResult, error) {
	if req.GroupID == "" || req.SemesterID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "group id and semester id are required")
	}
	if size > s.maxSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("workbook exceeds the %d byte limit", s.maxSize))
	}

	workbook, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to open xls workbook")
	}
	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "workbook has no sheets")
	}

	subjectIDs, err := s.subjectIndex(ctx)
	if err != nil {
		return nil, err
	}
	teacherIDs, err := s.teacherIndex(ctx)
	if err != nil {
		return nil, err
	}

	batch := make([]models.Lesson, 0)
	for rowIndex := 1; rowIndex <= int(sheet.MaxRow); rowIndex++ {
		row := sheet.Row(rowIndex)
		if row == nil {
			continue
		}
		lesson, rowErr := s.parseRow(row, rowIndex, req, subjectIDs, teacherIDs)
		if rowErr != nil {
			return nil, rowErr
		}
		if lesson == nil {
			continue
		}
		batch = append(batch, *lesson)
	}
	if len(batch) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "workbook contains no lesson rows")
	}

	existing, err := s.lessons.ListBySemester(ctx, req.SemesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester lessons")
	}
	target, others := splitUniverse(existing, req.GroupID, req.SemesterID, "")

	result := &GenerateResult{Created: []models.Lesson{}, Skipped: []SkippedLesson{}}
	if req.PartialOnError {
		for _, candidate := range batch {
			issues := s.detector.CanAddLesson(candidate, target, others)
			if len(issues) > 0 {
				result.Skipped = append(result.Skipped, SkippedLesson{Lesson: candidate, Issues: issues})
				continue
			}
			target.Lessons = append(target.Lessons, candidate)
			result.Created = append(result.Created, candidate)
		}
	} else {
		hypothetical := models.NewSchedule(req.GroupID, req.SemesterID, append(target.Lessons, batch...))
		if issues := s.detector.ValidateSchedule(hypothetical, others); len(issues) > 0 {
			return nil, conflictError(issues)
		}
		result.Created = batch
	}

	if len(result.Created) > 0 {
		if err := s.lessons.BulkCreate(ctx, result.Created); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist imported lessons")
		}
		if s.cache != nil {
			if err := s.cache.DeleteByPattern(ctx, scheduleCachePattern(req.SemesterID)); err != nil {
				s.logger.Warn("failed to invalidate schedule cache", zap.String("semester_id", req.SemesterID), zap.Error(err))
			}
		}
		if s.notifier != nil {
			s.notifier.ScheduleChanged(ctx, req.GroupID, req.SemesterID, "Schedule imported",
				fmt.Sprintf("%d lessons imported from a workbook", len(result.Created)))
		}
	}

	s.logger.Info("xls import completed",
		zap.String("group_id", req.GroupID),
		zap.String("semester_id", req.SemesterID),
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

func (s *ImportService) parseRow(row *xls.Row, rowIndex int, req ImportRequest, subjectIDs, teacherIDs map[string]string) (*models.Lesson, error) {
	day := strings.TrimSpace(row.Col(0))
	timeRange := strings.TrimSpace(row.Col(1))
	subjectName := strings.TrimSpace(row.Col(2))
	teacherName := strings.TrimSpace(row.Col(3))
	room := strings.TrimSpace(row.Col(4))
	rawType := strings.TrimSpace(row.Col(5))
	rawWeekType := strings.TrimSpace(row.Col(6))

	if day == "" && timeRange == "" && subjectName == "" {
		return nil, nil
	}

	dayOfWeek := parseDayName(day)
	if dayOfWeek == 0 {
		return nil, rowError(rowIndex, fmt.Sprintf("unknown day %q", day))
	}
	if _, _, err := timetable.ParseSlot(timeRange); err != nil {
		return nil, rowError(rowIndex, fmt.Sprintf("invalid time range %q", timeRange))
	}
	parts := strings.SplitN(timeRange, "-", 2)

	subjectID, ok := subjectIDs[strings.ToLower(subjectName)]
	if !ok {
		return nil, rowError(rowIndex, fmt.Sprintf("unknown subject %q", subjectName))
	}
	teacherID, ok := teacherIDs[strings.ToLower(teacherName)]
	if !ok {
		return nil, rowError(rowIndex, fmt.Sprintf("unknown teacher %q", teacherName))
	}
	if room == "" {
		return nil, rowError(rowIndex, "missing room")
	}

	lessonType := models.LessonTypeLecture
	if rawType != "" {
		parsed, ok := models.ParseLessonType(rawType)
		if !ok {
			return nil, rowError(rowIndex, fmt.Sprintf("unknown lesson type %q", rawType))
		}
		lessonType = parsed
	}
	weekType, ok := models.ParseWeekType(rawWeekType)
	if !ok {
		return nil, rowError(rowIndex, fmt.Sprintf("unknown week type %q", rawWeekType))
	}

	return &models.Lesson{
		GroupID:    req.GroupID,
		SubjectID:  subjectID,
		TeacherID:  teacherID,
		Room:       room,
		DayOfWeek:  dayOfWeek,
		StartTime:  strings.TrimSpace(parts[0]),
		EndTime:    strings.TrimSpace(parts[1]),
		Type:       lessonType,
		WeekType:   weekType,
		SemesterID: req.SemesterID,
	}, nil
}

func (s *ImportService) subjectIndex(ctx context.Context) (map[string]string, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	index := make(map[string]string, len(subjects))
	for _, subject := range subjects {
		index[strings.ToLower(subject.Name)] = subject.ID
		if subject.ShortName != "" {
			index[strings.ToLower(subject.ShortName)] = subject.ID
		}
	}
	return index, nil
}

func (s *ImportService) teacherIndex(ctx context.Context) (map[string]string, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	index := make(map[string]string, len(teachers))
	for _, teacher := range teachers {
		index[strings.ToLower(teacher.FullName)] = teacher.ID
	}
	return index, nil
}

func rowError(rowIndex int, message string) error {
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("row %d: %s", rowIndex+1, message))
}

func parseDayName(raw string) int {
	for day := models.MinDayOfWeek; day <= models.MaxDayOfWeek; day++ {
		if strings.EqualFold(raw, models.DayName(day)) {
			return day
		}
	}
	return 0
}
