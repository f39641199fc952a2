package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/thesis-api/internal/models"
)

const teacherColumns = "id, account_id, title, position, is_declaration_approved"

// TeacherRepository manages persistence for teacher profiles.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// FindByAccountIDForUpdate returns the teacher profile of an account and
// locks the row for the rest of the transaction.
func (r *TeacherRepository) FindByAccountIDForUpdate(ctx context.Context, accountID int64) (*models.Teacher, error) {
	query := "SELECT " + teacherColumns + " FROM teacher WHERE account_id = $1 FOR UPDATE"
	var teacher models.Teacher
	if err := executor(ctx, r.db).GetContext(ctx, &teacher, query, accountID); err != nil {
		return nil, fmt.Errorf("get teacher for account %d: %w", accountID, err)
	}
	return &teacher, nil
}

// FindProfileByAccountID returns the teacher profile with the account name.
func (r *TeacherRepository) FindProfileByAccountID(ctx context.Context, accountID int64) (*models.TeacherProfile, error) {
	const query = `SELECT t.id, t.account_id, t.title, t.position, t.is_declaration_approved, a.full_name
FROM teacher t JOIN account a ON a.id = t.account_id WHERE t.account_id = $1`
	var profile models.TeacherProfile
	if err := executor(ctx, r.db).GetContext(ctx, &profile, query, accountID); err != nil {
		return nil, fmt.Errorf("get teacher profile for account %d: %w", accountID, err)
	}
	return &profile, nil
}

// ListProfilesByIDs returns teacher profiles for the given ids, keyed by id.
func (r *TeacherRepository) ListProfilesByIDs(ctx context.Context, ids []int64) (map[int64]models.TeacherProfile, error) {
	result := make(map[int64]models.TeacherProfile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	const query = `SELECT t.id, t.account_id, t.title, t.position, t.is_declaration_approved, a.full_name
FROM teacher t JOIN account a ON a.id = t.account_id WHERE t.id = ANY($1)`
	var profiles []models.TeacherProfile
	if err := executor(ctx, r.db).SelectContext(ctx, &profiles, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list teacher profiles: %w", err)
	}
	for _, p := range profiles {
		result[p.ID] = p
	}
	return result, nil
}

// SetDeclarationApproved updates the teacher approval flag.
func (r *TeacherRepository) SetDeclarationApproved(ctx context.Context, id int64, approved bool) error {
	const query = `UPDATE teacher SET is_declaration_approved = $2 WHERE id = $1`
	if _, err := executor(ctx, r.db).ExecContext(ctx, query, id, approved); err != nil {
		return fmt.Errorf("update teacher %d approval: %w", id, err)
	}
	return nil
}

// Create inserts a teacher profile and sets its id.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	const query = `INSERT INTO teacher (account_id, title, position, is_declaration_approved) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := executor(ctx, r.db).QueryRowxContext(ctx, query, teacher.AccountID, teacher.Title, teacher.Position, teacher.IsDeclarationApproved).Scan(&teacher.ID); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}
