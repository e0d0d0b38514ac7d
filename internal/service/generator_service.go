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

type bulkLessonWriter interface {
	ListBySemester(ctx context.Context, semesterID string) ([]models.Lesson, error)
	BulkCreate(ctx context.Context, lessons []models.Lesson) error
}

// GeneratorService expands batch lesson specifications, validates the
// expansion against the stored semester universe and commits accepted
// lessons in one transaction.
type GeneratorService struct {
	generator *timetable.Generator
	detector  *timetable.Detector
	lessons   bulkLessonWriter
	groups    groupReader
	semesters semesterReader
	cache     scheduleCacheInvalidator
	notifier  scheduleChangeNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGeneratorService wires generator dependencies.
func NewGeneratorService(
	generator *timetable.Generator,
	detector *timetable.Detector,
	lessons bulkLessonWriter,
	groups groupReader,
	semesters semesterReader,
	cache scheduleCacheInvalidator,
	notifier scheduleChangeNotifier,
	validate *validator.Validate,
	logger *zap.Logger,
) *GeneratorService {
	if generator == nil {
		generator = timetable.NewGenerator(timetable.DefaultMaxWeek)
	}
	if detector == nil {
		detector = timetable.NewDetector(timetable.DefaultWindow())
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeneratorService{
		generator: generator,
		detector:  detector,
		lessons:   lessons,
		groups:    groups,
		semesters: semesters,
		cache:     cache,
		notifier:  notifier,
		validator: validate,
		logger:    logger,
	}
}

// GenerateRequest describes a bulk generation payload.
type GenerateRequest struct {
	GroupID        string   `json:"group_id" validate:"required"`
	SemesterID     string   `json:"semester_id" validate:"required"`
	SubjectID      string   `json:"subject_id"`
	TeacherID      string   `json:"teacher_id" validate:"required"`
	Room           string   `json:"room"`
	Type           string   `json:"type" validate:"required"`
	WeekType       string   `json:"week_type"`
	Days           []int    `json:"days"`
	Slots          []string `json:"slots"`
	WeekStart      int      `json:"week_start"`
	WeekEnd        int      `json:"week_end"`
	PartialOnError bool     `json:"partial_on_error"`
}

// SkippedLesson pairs a rejected candidate with the issues that blocked it.
type SkippedLesson struct {
	Lesson models.Lesson        `json:"lesson"`
	Issues []models.LessonIssue `json:"issues"`
}

// GenerateResult reports committed and skipped candidates.
type GenerateResult struct {
	Created []models.Lesson `json:"created"`
	Skipped []SkippedLesson `json:"skipped"`
}

// Generate expands the batch and commits it. In strict mode any conflict in
// the expanded batch rejects the whole request; with PartialOnError set,
// clean candidates are committed and conflicted ones reported back.
func (s *GeneratorService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}
	lessonType, ok := models.ParseLessonType(req.Type)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown lesson type %q", req.Type))
	}
	weekType, ok := models.ParseWeekType(req.WeekType)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown week type %q", req.WeekType))
	}
	if err := s.ensureGroupAndSemester(ctx, req.GroupID, req.SemesterID); err != nil {
		return nil, err
	}

	batch, err := s.generator.Expand(timetable.BatchSpec{
		GroupID:    req.GroupID,
		SemesterID: req.SemesterID,
		SubjectID:  req.SubjectID,
		TeacherID:  req.TeacherID,
		Room:       req.Room,
		Type:       lessonType,
		WeekType:   weekType,
		Days:       req.Days,
		Slots:      req.Slots,
		WeekStart:  req.WeekStart,
		WeekEnd:    req.WeekEnd,
	})
	if err != nil {
		return nil, err
	}

	existing, err := s.lessons.ListBySemester(ctx, req.SemesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester lessons")
	}
	target, others := splitUniverse(existing, req.GroupID, req.SemesterID, "")

	result := &GenerateResult{Created: []models.Lesson{}, Skipped: []SkippedLesson{}}
	if req.PartialOnError {
		// Accepted candidates join the working schedule so later candidates
		// in the same batch are checked against them too.
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
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist generated lessons")
		}
		if s.cache != nil {
			if err := s.cache.DeleteByPattern(ctx, scheduleCachePattern(req.SemesterID)); err != nil {
				s.logger.Warn("failed to invalidate schedule cache", zap.String("semester_id", req.SemesterID), zap.Error(err))
			}
		}
		if s.notifier != nil {
			s.notifier.ScheduleChanged(ctx, req.GroupID, req.SemesterID, "Schedule generated",
				fmt.Sprintf("%d lessons added to the schedule", len(result.Created)))
		}
	}

	s.logger.Info("bulk generation completed",
		zap.String("group_id", req.GroupID),
		zap.String("semester_id", req.SemesterID),
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

func (s *GeneratorService) ensureGroupAndSemester(ctx context.Context, groupID, semesterID string) error {
	if s.groups != nil {
		if _, err := s.groups.FindByID(ctx, groupID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "group not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
		}
	}
	if s.semesters != nil {
		if _, err := s.semesters.FindByID(ctx, semesterID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "semester not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
		}
	}
	return nil
}
