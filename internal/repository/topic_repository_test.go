package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/thesis-api/internal/models"
)

var topicRowColumns = []string{"id", "title", "description", "is_open", "is_standard", "max_members", "creation_date", "status", "topic_justification", "rejection_reason", "teacher_id", "declaration_id"}

func TestTopicRepositoryListFiltersByTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	created := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(topicRowColumns).
		AddRow(1, "Scheduling", "desc", true, true, 4, created, "PENDING", nil, nil, 3, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + topicColumns + " FROM topic WHERE teacher_id = $1 ORDER BY id ASC")).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	teacherID := int64(3)
	topics, err := repo.List(context.Background(), models.TopicFilter{TeacherID: &teacherID})
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, models.TopicPending, topics[0].Status)
	require.NotNil(t, topics[0].TeacherID)
	assert.Equal(t, int64(3), *topics[0].TeacherID)
	assert.Nil(t, topics[0].RejectionReason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicRepositoryListWithoutFilter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + topicColumns + " FROM topic ORDER BY id ASC")).
		WillReturnRows(sqlmock.NewRows(topicRowColumns))

	topics, err := repo.List(context.Background(), models.TopicFilter{})
	require.NoError(t, err)
	assert.Empty(t, topics)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM topic WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByIDForUpdate(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	created := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO topic").
		WithArgs("Scheduling", nil, true, false, 5, models.TopicPending, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "creation_date"}).AddRow(11, created))

	topic := &models.Topic{Title: "Scheduling", IsOpen: true, MaxMembers: 5, Status: models.TopicPending}
	require.NoError(t, repo.Create(context.Background(), topic))
	assert.Equal(t, int64(11), topic.ID)
	assert.Equal(t, created, topic.CreationDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicRepositoryUpdateWorkflowMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE topic SET status = $2, rejection_reason = $3, declaration_id = $4 WHERE id = $1")).
		WithArgs(int64(7), models.TopicApproved, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateWorkflow(context.Background(), &models.Topic{ID: 7, Status: models.TopicApproved})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicRepositoryBulkApprove(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE topic SET status = $1, rejection_reason = NULL WHERE id = ANY($2)")).
		WithArgs(models.TopicApproved, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.BulkApprove(context.Background(), []int64{1, 2, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicRepositoryListPending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "description", "status", "topic_justification", "creation_date", "teacher_title", "teacher_full_name", "student_count"}).
		AddRow(1, "Machine Learning in Healthcare", "ML", "PENDING", "Important", time.Now(), "dr", "Jan Kowalski", 0).
		AddRow(2, "Blockchain", nil, "PENDING", nil, time.Now(), nil, nil, 2)
	mock.ExpectQuery("WHERE t.status = \\$1").
		WithArgs(models.TopicPending).
		WillReturnRows(rows)

	pending, err := repo.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "Jan Kowalski", *pending[0].TeacherFullName)
	assert.Equal(t, models.TitleDr, *pending[0].TeacherTitle)
	assert.Nil(t, pending[1].TeacherTitle)
	assert.Equal(t, 2, pending[1].StudentCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
