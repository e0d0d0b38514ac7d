package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupanel/timetable-api/internal/models"
)

func newLessonRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func lessonRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "group_id", "subject_id", "teacher_id", "room", "day_of_week", "start_time", "end_time", "lesson_type", "week_type", "week_number", "semester_id", "created_at", "updated_at"}).
		AddRow("lesson-1", "group-1", "subj-1", "teacher-1", "204", 2, "10:00", "11:30", "LECTURE", "ALL", 0, "sem-1", now, now)
}

func TestLessonRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, group_id, subject_id, teacher_id, room, day_of_week, start_time, end_time, lesson_type, week_type, week_number, semester_id, created_at, updated_at FROM lessons WHERE id = $1")).
		WithArgs("lesson-1").
		WillReturnRows(lessonRows())

	lesson, err := repo.FindByID(context.Background(), "lesson-1")
	require.NoError(t, err)
	assert.Equal(t, "group-1", lesson.GroupID)
	assert.Equal(t, models.WeekTypeAll, lesson.WeekType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryListByGroupSemester(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM lessons WHERE group_id = $1 AND semester_id = $2 ORDER BY day_of_week ASC, start_time ASC")).
		WithArgs("group-1", "sem-1").
		WillReturnRows(lessonRows())

	lessons, err := repo.ListByGroupSemester(context.Background(), "group-1", "sem-1")
	require.NoError(t, err)
	assert.Len(t, lessons, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lessons")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	lesson := models.Lesson{
		GroupID:    "group-1",
		SubjectID:  "subj-1",
		TeacherID:  "teacher-1",
		Room:       "204",
		DayOfWeek:  2,
		StartTime:  "10:00",
		EndTime:    "11:30",
		Type:       models.LessonTypeLecture,
		WeekType:   models.WeekTypeAll,
		SemesterID: "sem-1",
	}
	require.NoError(t, repo.Create(context.Background(), &lesson))
	assert.NotEmpty(t, lesson.ID)
	assert.False(t, lesson.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryBulkCreateRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lessons")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lessons")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	lessons := []models.Lesson{
		{GroupID: "group-1", SemesterID: "sem-1", DayOfWeek: 1, StartTime: "08:00", EndTime: "09:30"},
		{GroupID: "group-1", SemesterID: "sem-1", DayOfWeek: 1, StartTime: "09:45", EndTime: "11:15"},
	}
	require.Error(t, repo.BulkCreate(context.Background(), lessons))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM lessons WHERE id = $1")).
		WithArgs("lesson-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "lesson-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
