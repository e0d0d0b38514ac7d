package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edupanel/timetable-api/internal/models"
	"github.com/edupanel/timetable-api/internal/timetable"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
)

// TemplateService copies one group's schedule onto other groups within the
// same semester. Application is all-or-nothing per target group.
type TemplateService struct {
	lessons   bulkLessonWriter
	groups    groupReader
	semesters semesterReader
	detector  *timetable.Detector
	cache     scheduleCacheInvalidator
	notifier  scheduleChangeNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTemplateService wires template dependencies.
func NewTemplateService(
	lessons bulkLessonWriter,
	groups groupReader,
	semesters semesterReader,
	detector *timetable.Detector,
	cache scheduleCacheInvalidator,
	notifier scheduleChangeNotifier,
	validate *validator.Validate,
	logger *zap.Logger,
) *TemplateService {
	if detector == nil {
		detector = timetable.NewDetector(timetable.DefaultWindow())
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{
		lessons:   lessons,
		groups:    groups,
		semesters: semesters,
		detector:  detector,
		cache:     cache,
		notifier:  notifier,
		validator: validate,
		logger:    logger,
	}
}

// ApplyTemplateRequest selects a source schedule and its targets. WeekType,
// when set, replaces the week type on every copied lesson; copying an
// odd-week schedule onto even weeks is the usual way a template lands
// without colliding with its source rooms and teachers.
type ApplyTemplateRequest struct {
	SemesterID     string   `json:"semester_id" validate:"required"`
	SourceGroupID  string   `json:"source_group_id" validate:"required"`
	TargetGroupIDs []string `json:"target_group_ids" validate:"required,min=1,dive,required"`
	WeekType       string   `json:"week_type"`
}

// TemplateFailure records why one target group was left untouched.
type TemplateFailure struct {
	GroupID string               `json:"group_id"`
	Issues  []models.LessonIssue `json:"issues"`
}

// ApplyTemplateResult reports the outcome per target group.
type ApplyTemplateResult struct {
	Applied []string          `json:"applied"`
	Failed  []TemplateFailure `json:"failed"`
}

// Apply copies the source group's lessons onto each target group. Each
// target is validated against the whole semester universe, with earlier
// successful targets included, before its copy is committed.
func (s *TemplateService) Apply(ctx context.Context, req ApplyTemplateRequest) (*ApplyTemplateResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}
	for _, targetID := range req.TargetGroupIDs {
		if targetID == req.SourceGroupID {
			return nil, appErrors.Clone(appErrors.ErrValidation, "target groups must differ from the source group")
		}
	}
	var weekTypeOverride models.WeekType
	if req.WeekType != "" {
		parsed, ok := models.ParseWeekType(req.WeekType)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown week type %q", req.WeekType))
		}
		weekTypeOverride = parsed
	}
	if err := s.ensureGroups(ctx, req); err != nil {
		return nil, err
	}

	universe, err := s.lessons.ListBySemester(ctx, req.SemesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester lessons")
	}

	source, _ := splitUniverse(universe, req.SourceGroupID, req.SemesterID, "")
	if len(source.Lessons) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "source schedule has no lessons to apply")
	}

	result := &ApplyTemplateResult{Applied: []string{}, Failed: []TemplateFailure{}}
	for _, targetID := range req.TargetGroupIDs {
		clones := cloneLessons(source.Lessons, targetID, weekTypeOverride)
		target, others := splitUniverse(universe, targetID, req.SemesterID, "")
		hypothetical := models.NewSchedule(targetID, req.SemesterID, append(target.Lessons, clones...))
		if issues := s.detector.ValidateSchedule(hypothetical, others); len(issues) > 0 {
			result.Failed = append(result.Failed, TemplateFailure{GroupID: targetID, Issues: issues})
			continue
		}

		if err := s.lessons.BulkCreate(ctx, clones); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist template lessons")
		}
		// Later targets must see the lessons just committed.
		universe = append(universe, clones...)
		result.Applied = append(result.Applied, targetID)

		if s.notifier != nil {
			s.notifier.ScheduleChanged(ctx, targetID, req.SemesterID, "Schedule applied",
				fmt.Sprintf("%d lessons copied from another group's schedule", len(clones)))
		}
	}

	if len(result.Applied) > 0 && s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, scheduleCachePattern(req.SemesterID)); err != nil {
			s.logger.Warn("failed to invalidate schedule cache", zap.String("semester_id", req.SemesterID), zap.Error(err))
		}
	}

	s.logger.Info("template application completed",
		zap.String("semester_id", req.SemesterID),
		zap.String("source_group_id", req.SourceGroupID),
		zap.Int("applied", len(result.Applied)),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

func cloneLessons(source []models.Lesson, targetGroupID string, weekType models.WeekType) []models.Lesson {
	clones := make([]models.Lesson, 0, len(source))
	for _, lesson := range source {
		clone := lesson
		clone.ID = uuid.NewString()
		clone.GroupID = targetGroupID
		if weekType != "" {
			clone.WeekType = weekType
		}
		clones = append(clones, clone)
	}
	return clones
}

func (s *TemplateService) ensureGroups(ctx context.Context, req ApplyTemplateRequest) error {
	if s.groups == nil {
		return nil
	}
	ids := append([]string{req.SourceGroupID}, req.TargetGroupIDs...)
	for _, id := range ids {
		if _, err := s.groups.FindByID(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("group %s not found", id))
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
		}
	}
	if s.semesters != nil {
		if _, err := s.semesters.FindByID(ctx, req.SemesterID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "semester not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
		}
	}
	return nil
}
