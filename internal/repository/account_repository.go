package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/thesis-api/internal/models"
)

const accountColumns = "id, full_name, login, password, role"

// AccountRepository manages persistence for accounts.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository constructs an AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByID returns the account or sql.ErrNoRows.
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	query := "SELECT " + accountColumns + " FROM account WHERE id = $1"
	var account models.Account
	if err := executor(ctx, r.db).GetContext(ctx, &account, query, id); err != nil {
		return nil, fmt.Errorf("get account %d: %w", id, err)
	}
	return &account, nil
}

// List returns every account ordered by id.
func (r *AccountRepository) List(ctx context.Context) ([]models.Account, error) {
	query := "SELECT " + accountColumns + " FROM account ORDER BY id ASC"
	var accounts []models.Account
	if err := executor(ctx, r.db).SelectContext(ctx, &accounts, query); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// Create inserts an account and sets its id.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	const query = `INSERT INTO account (full_name, login, password, role) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := executor(ctx, r.db).QueryRowxContext(ctx, query, account.FullName, account.Login, account.PasswordHash, account.Role).Scan(&account.ID); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// FindByLogin returns the account with the given login.
func (r *AccountRepository) FindByLogin(ctx context.Context, login string) (*models.Account, error) {
	query := "SELECT " + accountColumns + " FROM account WHERE login = $1"
	var account models.Account
	if err := executor(ctx, r.db).GetContext(ctx, &account, query, login); err != nil {
		return nil, fmt.Errorf("get account %q: %w", login, err)
	}
	return &account, nil
}
