package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edupanel/timetable-api/internal/models"
)

const lessonColumns = "id, group_id, subject_id, teacher_id, room, day_of_week, start_time, end_time, lesson_type, week_type, week_number, semester_id, created_at, updated_at"

// LessonRepository provides persistence for lessons.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository creates a new lesson repository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// List returns lessons with optional filtering and pagination.
func (r *LessonRepository) List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, int, error) {
	base := "FROM lessons WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.GroupID != "" {
		conditions = append(conditions, fmt.Sprintf("group_id = $%d", len(args)+1))
		args = append(args, filter.GroupID)
	}
	if filter.SemesterID != "" {
		conditions = append(conditions, fmt.Sprintf("semester_id = $%d", len(args)+1))
		args = append(args, filter.SemesterID)
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.Room != "" {
		conditions = append(conditions, fmt.Sprintf("room = $%d", len(args)+1))
		args = append(args, filter.Room)
	}
	if filter.DayOfWeek != 0 {
		conditions = append(conditions, fmt.Sprintf("day_of_week = $%d", len(args)+1))
		args = append(args, filter.DayOfWeek)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"day_of_week": true,
		"start_time":  true,
		"room":        true,
		"created_at":  true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "day_of_week"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, start_time ASC LIMIT %d OFFSET %d", lessonColumns, base, sortBy, order, size, offset)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list lessons: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count lessons: %w", err)
	}

	return lessons, total, nil
}

// FindByID loads a lesson by id.
func (r *LessonRepository) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	query := fmt.Sprintf("SELECT %s FROM lessons WHERE id = $1", lessonColumns)
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, id); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// ListByGroupSemester returns one group's lessons within a semester ordered
// by day and start time.
func (r *LessonRepository) ListByGroupSemester(ctx context.Context, groupID, semesterID string) ([]models.Lesson, error) {
	query := fmt.Sprintf("SELECT %s FROM lessons WHERE group_id = $1 AND semester_id = $2 ORDER BY day_of_week ASC, start_time ASC", lessonColumns)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, groupID, semesterID); err != nil {
		return nil, fmt.Errorf("list lessons by group: %w", err)
	}
	return lessons, nil
}

// ListBySemester returns the full scheduling universe of a semester.
func (r *LessonRepository) ListBySemester(ctx context.Context, semesterID string) ([]models.Lesson, error) {
	query := fmt.Sprintf("SELECT %s FROM lessons WHERE semester_id = $1 ORDER BY group_id ASC, day_of_week ASC, start_time ASC", lessonColumns)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, semesterID); err != nil {
		return nil, fmt.Errorf("list lessons by semester: %w", err)
	}
	return lessons, nil
}

// ListByTeacher returns lessons taught by a teacher.
func (r *LessonRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Lesson, error) {
	query := fmt.Sprintf("SELECT %s FROM lessons WHERE teacher_id = $1 ORDER BY day_of_week ASC, start_time ASC", lessonColumns)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, teacherID); err != nil {
		return nil, fmt.Errorf("list lessons by teacher: %w", err)
	}
	return lessons, nil
}

// Create stores a new lesson record.
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lesson.CreatedAt.IsZero() {
		lesson.CreatedAt = now
	}
	lesson.UpdatedAt = now

	const query = `INSERT INTO lessons (id, group_id, subject_id, teacher_id, room, day_of_week, start_time, end_time, lesson_type, week_type, week_number, semester_id, created_at, updated_at) VALUES (:id, :group_id, :subject_id, :teacher_id, :room, :day_of_week, :start_time, :end_time, :lesson_type, :week_type, :week_number, :semester_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lesson); err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

// BulkCreate inserts many lessons within a transaction.
func (r *LessonRepository) BulkCreate(ctx context.Context, lessons []models.Lesson) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk create lessons: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.bulkInsertLessons(ctx, tx, lessons); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk create lessons: %w", err)
	}
	return nil
}

func (r *LessonRepository) bulkInsertLessons(ctx context.Context, exec sqlx.ExtContext, lessons []models.Lesson) error {
	now := time.Now().UTC()
	for i := range lessons {
		payload := lessons[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now

		if _, err := sqlx.NamedExecContext(ctx, exec, `INSERT INTO lessons (id, group_id, subject_id, teacher_id, room, day_of_week, start_time, end_time, lesson_type, week_type, week_number, semester_id, created_at, updated_at) VALUES (:id, :group_id, :subject_id, :teacher_id, :room, :day_of_week, :start_time, :end_time, :lesson_type, :week_type, :week_number, :semester_id, :created_at, :updated_at)`, &payload); err != nil {
			return fmt.Errorf("bulk insert lesson: %w", err)
		}
		lessons[i] = payload
	}
	return nil
}

// Update modifies a lesson record.
func (r *LessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	lesson.UpdatedAt = time.Now().UTC()
	const query = `UPDATE lessons SET group_id = :group_id, subject_id = :subject_id, teacher_id = :teacher_id, room = :room, day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time, lesson_type = :lesson_type, week_type = :week_type, week_number = :week_number, semester_id = :semester_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, lesson); err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}
	return nil
}

// Delete removes a lesson by id.
func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	return nil
}
