package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edupanel/timetable-api/internal/models"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
)

type newsRepository interface {
	List(ctx context.Context, filter models.NewsFilter) ([]models.News, int, error)
	FindByID(ctx context.Context, id string) (*models.News, error)
	Create(ctx context.Context, item *models.News) error
	Update(ctx context.Context, item *models.News) error
	Delete(ctx context.Context, id string) error
}

// NewsService handles institutional news workflows.
type NewsService struct {
	repo      newsRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNewsService constructs the service.
func NewNewsService(repo newsRepository, validate *validator.Validate, logger *zap.Logger) *NewsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &NewsService{repo: repo, validator: validate, logger: logger}
	svc.validator.RegisterValidation("audience", func(fl validator.FieldLevel) bool {
		switch models.NewsAudience(strings.ToUpper(fl.Field().String())) {
		case models.NewsAudienceAll, models.NewsAudienceTeachers, models.NewsAudienceStudents, models.NewsAudienceGroup:
			return true
		default:
			return false
		}
	})
	svc.validator.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		switch models.NewsPriority(strings.ToUpper(fl.Field().String())) {
		case models.NewsPriorityLow, models.NewsPriorityNormal, models.NewsPriorityHigh:
			return true
		default:
			return false
		}
	})
	return svc
}

// NewsListRequest describes filters for listing news.
type NewsListRequest struct {
	Audience      string `json:"audience"`
	GroupID       string `json:"group_id"`
	Priority      string `json:"priority"`
	PublishedOnly bool   `json:"published_only"`
	Page          int    `json:"page"`
	PageSize      int    `json:"page_size"`
}

// NewsRequest describes a create or update payload.
type NewsRequest struct {
	Title    string  `json:"title" validate:"required"`
	Body     string  `json:"body" validate:"required"`
	Audience string  `json:"audience" validate:"required,audience"`
	GroupID  *string `json:"group_id"`
	Priority string  `json:"priority" validate:"required,priority"`
	Publish  bool    `json:"publish"`
}

// List returns news items with pagination.
func (s *NewsService) List(ctx context.Context, req NewsListRequest) ([]models.News, *models.Pagination, error) {
	filter := models.NewsFilter{
		Audience:      strings.ToUpper(req.Audience),
		GroupID:       req.GroupID,
		Priority:      strings.ToUpper(req.Priority),
		PublishedOnly: req.PublishedOnly,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list news")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return rows, pagination, nil
}

// Get returns one news item.
func (s *NewsService) Get(ctx context.Context, id string) (*models.News, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "news item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load news item")
	}
	return item, nil
}

// Create stores a news item.
func (s *NewsService) Create(ctx context.Context, req NewsRequest) (*models.News, error) {
	item, err := s.buildNews(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create news item")
	}
	return item, nil
}

// Update modifies a news item.
func (s *NewsService) Update(ctx context.Context, id string, req NewsRequest) (*models.News, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item, err := s.buildNews(req)
	if err != nil {
		return nil, err
	}
	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	if item.PublishedAt == nil {
		item.PublishedAt = existing.PublishedAt
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update news item")
	}
	return item, nil
}

// Delete removes a news item.
func (s *NewsService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete news item")
	}
	return nil
}

func (s *NewsService) buildNews(req NewsRequest) (*models.News, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid news payload")
	}
	audience := models.NewsAudience(strings.ToUpper(req.Audience))
	if audience == models.NewsAudienceGroup && (req.GroupID == nil || *req.GroupID == "") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "group id is required for group-scoped news")
	}
	item := &models.News{
		Title:    req.Title,
		Body:     req.Body,
		Audience: audience,
		GroupID:  req.GroupID,
		Priority: models.NewsPriority(strings.ToUpper(req.Priority)),
	}
	if req.Publish {
		now := time.Now().UTC()
		item.PublishedAt = &now
	}
	return item, nil
}
