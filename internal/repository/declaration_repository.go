package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/thesis-api/internal/models"
)

// DeclarationRepository manages persistence for declarations.
type DeclarationRepository struct {
	db *sqlx.DB
}

// NewDeclarationRepository constructs a DeclarationRepository.
func NewDeclarationRepository(db *sqlx.DB) *DeclarationRepository {
	return &DeclarationRepository{db: db}
}

// FindByIDForUpdate returns a declaration and locks the row.
func (r *DeclarationRepository) FindByIDForUpdate(ctx context.Context, id int64) (*models.Declaration, error) {
	const query = `SELECT id, status, submission_date FROM declaration WHERE id = $1 FOR UPDATE`
	var decl models.Declaration
	if err := executor(ctx, r.db).GetContext(ctx, &decl, query, id); err != nil {
		return nil, fmt.Errorf("get declaration %d: %w", id, err)
	}
	return &decl, nil
}

// Save inserts the declaration when it has no id yet, otherwise updates it.
func (r *DeclarationRepository) Save(ctx context.Context, decl *models.Declaration) error {
	if decl.ID == 0 {
		const insert = `INSERT INTO declaration (status, submission_date) VALUES ($1, $2) RETURNING id`
		if err := executor(ctx, r.db).QueryRowxContext(ctx, insert, decl.Status, decl.SubmissionDate).Scan(&decl.ID); err != nil {
			return fmt.Errorf("create declaration: %w", err)
		}
		return nil
	}
	const update = `UPDATE declaration SET status = $2, submission_date = $3 WHERE id = $1`
	if _, err := executor(ctx, r.db).ExecContext(ctx, update, decl.ID, decl.Status, decl.SubmissionDate); err != nil {
		return fmt.Errorf("update declaration %d: %w", decl.ID, err)
	}
	return nil
}
