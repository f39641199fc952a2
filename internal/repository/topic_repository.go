package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/thesis-api/internal/models"
)

const topicColumns = "id, title, description, is_open, is_standard, max_members, creation_date, status, topic_justification, rejection_reason, teacher_id, declaration_id"

// TopicRepository manages persistence for topics.
type TopicRepository struct {
	db *sqlx.DB
}

// NewTopicRepository constructs a TopicRepository.
func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// List returns topics matching the filter ordered by id.
func (r *TopicRepository) List(ctx context.Context, filter models.TopicFilter) ([]models.Topic, error) {
	var conditions []string
	var args []interface{}
	if filter.TeacherID != nil {
		args = append(args, *filter.TeacherID)
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := "SELECT " + topicColumns + " FROM topic"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id ASC"

	var topics []models.Topic
	if err := executor(ctx, r.db).SelectContext(ctx, &topics, query, args...); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

// ListPending returns pending topics with supervisor details and team size.
func (r *TopicRepository) ListPending(ctx context.Context) ([]models.PendingTopicRow, error) {
	const query = `SELECT t.id, t.title, t.description, t.status, t.topic_justification, t.creation_date,
te.title AS teacher_title, a.full_name AS teacher_full_name, COUNT(s.id) AS student_count
FROM topic t
LEFT JOIN teacher te ON te.id = t.teacher_id
LEFT JOIN account a ON a.id = te.account_id
LEFT JOIN student s ON s.topic_id = t.id
WHERE t.status = $1
GROUP BY t.id, te.title, a.full_name
ORDER BY t.id ASC`
	var rows []models.PendingTopicRow
	if err := executor(ctx, r.db).SelectContext(ctx, &rows, query, models.TopicPending); err != nil {
		return nil, fmt.Errorf("list pending topics: %w", err)
	}
	return rows, nil
}

// FindByID returns a topic by id.
func (r *TopicRepository) FindByID(ctx context.Context, id int64) (*models.Topic, error) {
	return r.get(ctx, "SELECT "+topicColumns+" FROM topic WHERE id = $1", id)
}

// FindByIDForUpdate returns a topic and locks the row.
func (r *TopicRepository) FindByIDForUpdate(ctx context.Context, id int64) (*models.Topic, error) {
	return r.get(ctx, "SELECT "+topicColumns+" FROM topic WHERE id = $1 FOR UPDATE", id)
}

func (r *TopicRepository) get(ctx context.Context, query string, id int64) (*models.Topic, error) {
	var topic models.Topic
	if err := executor(ctx, r.db).GetContext(ctx, &topic, query, id); err != nil {
		return nil, fmt.Errorf("get topic %d: %w", id, err)
	}
	return &topic, nil
}

// Create inserts a topic and fills its id and creation date.
func (r *TopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	const query = `INSERT INTO topic (title, description, is_open, is_standard, max_members, status, topic_justification, teacher_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, creation_date`
	row := executor(ctx, r.db).QueryRowxContext(ctx, query,
		topic.Title, topic.Description, topic.IsOpen, topic.IsStandard, topic.MaxMembers,
		topic.Status, topic.TopicJustification, topic.TeacherID)
	if err := row.Scan(&topic.ID, &topic.CreationDate); err != nil {
		return fmt.Errorf("create topic: %w", err)
	}
	return nil
}

// UpdateWorkflow persists the status, rejection reason and declaration link.
func (r *TopicRepository) UpdateWorkflow(ctx context.Context, topic *models.Topic) error {
	const query = `UPDATE topic SET status = $2, rejection_reason = $3, declaration_id = $4 WHERE id = $1`
	res, err := executor(ctx, r.db).ExecContext(ctx, query, topic.ID, topic.Status, topic.RejectionReason, topic.DeclarationID)
	if err != nil {
		return fmt.Errorf("update topic %d: %w", topic.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update topic %d: %w", topic.ID, sql.ErrNoRows)
	}
	return nil
}

// BulkApprove approves every listed topic in one statement and returns the
// number of rows changed. Unknown ids are ignored.
func (r *TopicRepository) BulkApprove(ctx context.Context, ids []int64) (int64, error) {
	const query = `UPDATE topic SET status = $1, rejection_reason = NULL WHERE id = ANY($2)`
	res, err := executor(ctx, r.db).ExecContext(ctx, query, models.TopicApproved, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("bulk approve topics: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk approve rows affected: %w", err)
	}
	return affected, nil
}

// CountByTeacher returns the number of topics a teacher supervises.
func (r *TopicRepository) CountByTeacher(ctx context.Context, teacherID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM topic WHERE teacher_id = $1`
	var count int
	if err := executor(ctx, r.db).GetContext(ctx, &count, query, teacherID); err != nil {
		return 0, fmt.Errorf("count topics for teacher %d: %w", teacherID, err)
	}
	return count, nil
}

// Count returns the total number of topics.
func (r *TopicRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := executor(ctx, r.db).GetContext(ctx, &count, `SELECT COUNT(*) FROM topic`); err != nil {
		return 0, fmt.Errorf("count topics: %w", err)
	}
	return count, nil
}
