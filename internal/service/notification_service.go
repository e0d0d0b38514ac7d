package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/edupanel/timetable-api/internal/models"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
	"github.com/edupanel/timetable-api/pkg/jobs"
)

type notificationRepository interface {
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error)
	Create(ctx context.Context, item *models.Notification) error
	UpdateStatus(ctx context.Context, id string, status models.NotificationStatus) error
}

// NotificationService records schedule-change notifications and hands them
// to the in-memory dispatch queue. Delivery itself is a logged boundary;
// push providers live outside this service.
type NotificationService struct {
	repo    notificationRepository
	queue   *jobs.Queue
	enabled bool
	logger  *zap.Logger
}

// NewNotificationService builds the service and its queue.
func NewNotificationService(repo notificationRepository, cfg jobs.QueueConfig, enabled bool, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &NotificationService{repo: repo, enabled: enabled, logger: logger}
	cfg.Logger = logger
	svc.queue = jobs.NewQueue("notifications", svc.dispatch, cfg)
	return svc
}

// Start launches the dispatch workers.
func (s *NotificationService) Start(ctx context.Context) {
	if !s.enabled {
		s.logger.Info("notification dispatch disabled")
		return
	}
	s.queue.Start(ctx)
}

// Stop drains the dispatch workers.
func (s *NotificationService) Stop() {
	if !s.enabled {
		return
	}
	s.queue.Stop()
}

// NotificationListRequest describes listing filters.
type NotificationListRequest struct {
	GroupID  string `json:"group_id"`
	Status   string `json:"status"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// List returns notification records with pagination.
func (s *NotificationService) List(ctx context.Context, req NotificationListRequest) ([]models.Notification, *models.Pagination, error) {
	filter := models.NotificationFilter{
		GroupID:  req.GroupID,
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return rows, pagination, nil
}

// ScheduleChanged records and queues a schedule-change notification. Failures
// are logged, never propagated: notification delivery must not block
// timetable writes.
func (s *NotificationService) ScheduleChanged(ctx context.Context, groupID, semesterID, title, body string) {
	record := &models.Notification{
		Topic:      "schedule." + groupID,
		Title:      title,
		Body:       body,
		GroupID:    groupID,
		SemesterID: semesterID,
		Status:     models.NotificationStatusQueued,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("failed to record notification", zap.String("group_id", groupID), zap.Error(err))
		return
	}
	if !s.enabled {
		return
	}
	if err := s.queue.Enqueue(jobs.Job{ID: record.ID, Type: "schedule_changed", Payload: *record}); err != nil {
		s.logger.Error("failed to enqueue notification", zap.String("notification_id", record.ID), zap.Error(err))
	}
}

// dispatch is the queue handler. Delivery to a push provider is a logged
// no-op boundary; the record is moved to SENT on success.
func (s *NotificationService) dispatch(ctx context.Context, job jobs.Job) error {
	record, ok := job.Payload.(models.Notification)
	if !ok {
		s.logger.Error("unexpected notification payload", zap.String("job_id", job.ID))
		return nil
	}
	s.logger.Info("dispatching notification",
		zap.String("notification_id", record.ID),
		zap.String("topic", record.Topic),
		zap.String("title", record.Title),
	)
	if err := s.repo.UpdateStatus(ctx, record.ID, models.NotificationStatusSent); err != nil {
		return err
	}
	return nil
}
