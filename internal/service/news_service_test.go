package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupanel/timetable-api/internal/models"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
)

type mockNewsRepo struct {
	items map[string]models.News
}

func (m *mockNewsRepo) List(ctx context.Context, filter models.NewsFilter) ([]models.News, int, error) {
	var out []models.News
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, len(out), nil
}

func (m *mockNewsRepo) FindByID(ctx context.Context, id string) (*models.News, error) {
	if item, ok := m.items[id]; ok {
		return &item, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockNewsRepo) Create(ctx context.Context, item *models.News) error {
	if m.items == nil {
		m.items = make(map[string]models.News)
	}
	if item.ID == "" {
		item.ID = "news-1"
	}
	m.items[item.ID] = *item
	return nil
}

func (m *mockNewsRepo) Update(ctx context.Context, item *models.News) error {
	m.items[item.ID] = *item
	return nil
}

func (m *mockNewsRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func newsPayload(mutate func(*NewsRequest)) NewsRequest {
	req := NewsRequest{
		Title:    "Semester starts",
		Body:     "Lessons begin on Monday.",
		Audience: "ALL",
		Priority: "NORMAL",
	}
	if mutate != nil {
		mutate(&req)
	}
	return req
}

func TestNewsServiceCreatePublishSetsTimestamp(t *testing.T) {
	repo := &mockNewsRepo{}
	svc := NewNewsService(repo, nil, nil)

	item, err := svc.Create(context.Background(), newsPayload(func(r *NewsRequest) {
		r.Publish = true
	}))
	require.NoError(t, err)
	assert.Equal(t, models.NewsAudienceAll, item.Audience)
	assert.Equal(t, models.NewsPriorityNormal, item.Priority)
	require.NotNil(t, item.PublishedAt)
}

func TestNewsServiceCreateRejectsUnknownAudience(t *testing.T) {
	svc := NewNewsService(&mockNewsRepo{}, nil, nil)
	_, err := svc.Create(context.Background(), newsPayload(func(r *NewsRequest) {
		r.Audience = "EVERYONE"
	}))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestNewsServiceGroupAudienceRequiresGroupID(t *testing.T) {
	svc := NewNewsService(&mockNewsRepo{}, nil, nil)
	_, err := svc.Create(context.Background(), newsPayload(func(r *NewsRequest) {
		r.Audience = "GROUP"
	}))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestNewsServiceUpdateKeepsCreationMetadata(t *testing.T) {
	repo := &mockNewsRepo{}
	svc := NewNewsService(repo, nil, nil)

	created, err := svc.Create(context.Background(), newsPayload(func(r *NewsRequest) {
		r.Publish = true
	}))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, newsPayload(func(r *NewsRequest) {
		r.Title = "Semester postponed"
		r.Priority = "HIGH"
	}))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, created.PublishedAt, updated.PublishedAt)
	assert.Equal(t, models.NewsPriorityHigh, updated.Priority)
}

func TestNewsServiceGetUnknown(t *testing.T) {
	svc := NewNewsService(&mockNewsRepo{}, nil, nil)
	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
