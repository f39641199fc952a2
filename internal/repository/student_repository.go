package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/thesis-api/internal/models"
)

const studentColumns = "id, account_id, index_number, topic_id, declaration_id, is_declaration_approved"

// StudentRepository manages persistence for student profiles.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByIDForUpdate returns a student and locks the row.
func (r *StudentRepository) FindByIDForUpdate(ctx context.Context, id int64) (*models.Student, error) {
	query := "SELECT " + studentColumns + " FROM student WHERE id = $1 FOR UPDATE"
	var student models.Student
	if err := executor(ctx, r.db).GetContext(ctx, &student, query, id); err != nil {
		return nil, fmt.Errorf("get student %d: %w", id, err)
	}
	return &student, nil
}

// FindByAccountIDForUpdate returns the student profile of an account and locks the row.
func (r *StudentRepository) FindByAccountIDForUpdate(ctx context.Context, accountID int64) (*models.Student, error) {
	query := "SELECT " + studentColumns + " FROM student WHERE account_id = $1 FOR UPDATE"
	var student models.Student
	if err := executor(ctx, r.db).GetContext(ctx, &student, query, accountID); err != nil {
		return nil, fmt.Errorf("get student for account %d: %w", accountID, err)
	}
	return &student, nil
}

// ListByTopicForUpdate returns the students assigned to a topic, locking them.
func (r *StudentRepository) ListByTopicForUpdate(ctx context.Context, topicID int64) ([]models.Student, error) {
	query := "SELECT " + studentColumns + " FROM student WHERE topic_id = $1 ORDER BY id ASC FOR UPDATE"
	var students []models.Student
	if err := executor(ctx, r.db).SelectContext(ctx, &students, query, topicID); err != nil {
		return nil, fmt.Errorf("list students for topic %d: %w", topicID, err)
	}
	return students, nil
}

// ListTeamsByTopicIDs returns team members grouped by topic id.
func (r *StudentRepository) ListTeamsByTopicIDs(ctx context.Context, topicIDs []int64) (map[int64][]models.TeamMember, error) {
	result := make(map[int64][]models.TeamMember, len(topicIDs))
	if len(topicIDs) == 0 {
		return result, nil
	}
	const query = `SELECT s.id AS student_id, s.topic_id, s.index_number, a.full_name
FROM student s JOIN account a ON a.id = s.account_id
WHERE s.topic_id = ANY($1) ORDER BY s.topic_id ASC, s.index_number ASC`
	var members []models.TeamMember
	if err := executor(ctx, r.db).SelectContext(ctx, &members, query, pq.Array(topicIDs)); err != nil {
		return nil, fmt.Errorf("list topic teams: %w", err)
	}
	for _, m := range members {
		result[m.TopicID] = append(result[m.TopicID], m)
	}
	return result, nil
}

// Update persists the workflow fields of a student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE student SET topic_id = $2, declaration_id = $3, is_declaration_approved = $4 WHERE id = $1`
	res, err := executor(ctx, r.db).ExecContext(ctx, query, student.ID, student.TopicID, student.DeclarationID, student.IsDeclarationApproved)
	if err != nil {
		return fmt.Errorf("update student %d: %w", student.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update student %d: %w", student.ID, sql.ErrNoRows)
	}
	return nil
}

// ListTopicRows returns every student with its topic and approval flags,
// ordered by topic (unassigned last) then index number.
func (r *StudentRepository) ListTopicRows(ctx context.Context) ([]models.StudentTopicRow, error) {
	const query = `SELECT s.id AS student_id, s.index_number, a.full_name, s.is_declaration_approved AS student_approved,
t.id AS topic_id, t.title AS topic_title, t.status AS topic_status, te.is_declaration_approved AS teacher_approved
FROM student s
JOIN account a ON a.id = s.account_id
LEFT JOIN topic t ON t.id = s.topic_id
LEFT JOIN teacher te ON te.id = t.teacher_id
ORDER BY s.topic_id ASC NULLS LAST, s.index_number ASC`
	var rows []models.StudentTopicRow
	if err := executor(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list student topic rows: %w", err)
	}
	return rows, nil
}

// Create inserts a student profile and sets its id.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO student (account_id, index_number, topic_id, declaration_id, is_declaration_approved) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := executor(ctx, r.db).QueryRowxContext(ctx, query, student.AccountID, student.IndexNumber, student.TopicID, student.DeclarationID, student.IsDeclarationApproved).Scan(&student.ID); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
