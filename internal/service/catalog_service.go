package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edupanel/timetable-api/internal/models"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
)

type groupStore interface {
	List(ctx context.Context, filter models.GroupFilter) ([]models.Group, int, error)
	FindByID(ctx context.Context, id string) (*models.Group, error)
	Create(ctx context.Context, group *models.Group) error
	Update(ctx context.Context, group *models.Group) error
}

type subjectStore interface {
	List(ctx context.Context) ([]models.Subject, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
}

type teacherStore interface {
	List(ctx context.Context) ([]models.Teacher, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
}

type semesterStore interface {
	List(ctx context.Context) ([]models.Semester, error)
	FindByID(ctx context.Context, id string) (*models.Semester, error)
	Create(ctx context.Context, semester *models.Semester) error
}

// CatalogService exposes the reference data lessons point at: groups,
// subjects, teachers and semesters.
type CatalogService struct {
	groups    groupStore
	subjects  subjectStore
	teachers  teacherStore
	semesters semesterStore
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(
	groups groupStore,
	subjects subjectStore,
	teachers teacherStore,
	semesters semesterStore,
	validate *validator.Validate,
	logger *zap.Logger,
) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		groups:    groups,
		subjects:  subjects,
		teachers:  teachers,
		semesters: semesters,
		validate:  validate,
		logger:    logger,
	}
}

// GroupRequest describes a group create or update payload.
type GroupRequest struct {
	Name   string `json:"name" validate:"required"`
	Course int    `json:"course" validate:"required,min=1,max=6"`
	Active *bool  `json:"active"`
}

// SubjectRequest describes a subject create payload.
type SubjectRequest struct {
	Name      string `json:"name" validate:"required"`
	ShortName string `json:"short_name"`
}

// TeacherRequest describes a teacher create payload.
type TeacherRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
}

// SemesterRequest describes a semester create payload.
type SemesterRequest struct {
	Name      string `json:"name" validate:"required"`
	StartsOn  string `json:"starts_on" validate:"required,datetime=2006-01-02"`
	WeekCount int    `json:"week_count" validate:"required,min=1,max=52"`
	Active    bool   `json:"active"`
}

// ListGroups returns groups filtered and paginated.
func (s *CatalogService) ListGroups(ctx context.Context, filter models.GroupFilter) ([]models.Group, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	groups, total, err := s.groups.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list groups")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return groups, pagination, nil
}

// GetGroup returns one group.
func (s *CatalogService) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	group, err := s.groups.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}
	return group, nil
}

// CreateGroup stores a new group.
func (s *CatalogService) CreateGroup(ctx context.Context, req GroupRequest) (*models.Group, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid group payload")
	}
	group := &models.Group{Name: req.Name, Course: req.Course, Active: true}
	if req.Active != nil {
		group.Active = *req.Active
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create group")
	}
	return group, nil
}

// UpdateGroup modifies an existing group.
func (s *CatalogService) UpdateGroup(ctx context.Context, id string, req GroupRequest) (*models.Group, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid group payload")
	}
	group, err := s.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	group.Name = req.Name
	group.Course = req.Course
	if req.Active != nil {
		group.Active = *req.Active
	}
	if err := s.groups.Update(ctx, group); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update group")
	}
	return group, nil
}

// ListSubjects returns all subjects ordered by name.
func (s *CatalogService) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}

// CreateSubject stores a new subject.
func (s *CatalogService) CreateSubject(ctx context.Context, req SubjectRequest) (*models.Subject, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject := &models.Subject{Name: req.Name, ShortName: req.ShortName}
	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	return subject, nil
}

// ListTeachers returns all teachers ordered by name.
func (s *CatalogService) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, nil
}

// CreateTeacher stores a new teacher.
func (s *CatalogService) CreateTeacher(ctx context.Context, req TeacherRequest) (*models.Teacher, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	teacher := &models.Teacher{FullName: req.FullName, Email: req.Email, Phone: req.Phone, Active: true}
	if err := s.teachers.Create(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}
	return teacher, nil
}

// ListSemesters returns all semesters, newest first.
func (s *CatalogService) ListSemesters(ctx context.Context) ([]models.Semester, error) {
	semesters, err := s.semesters.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semesters")
	}
	return semesters, nil
}

// CreateSemester stores a new semester.
func (s *CatalogService) CreateSemester(ctx context.Context, req SemesterRequest) (*models.Semester, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester payload")
	}
	startsOn, err := time.Parse("2006-01-02", req.StartsOn)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "starts_on must be a YYYY-MM-DD date")
	}
	semester := &models.Semester{
		Name:      req.Name,
		StartsOn:  startsOn,
		WeekCount: req.WeekCount,
		Active:    req.Active,
	}
	if err := s.semesters.Create(ctx, semester); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create semester")
	}
	return semester, nil
}
