package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/thesis-api/internal/models"
)

func TestAccountRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, full_name, login, password, role FROM account ORDER BY id ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "login", "password", "role"}).
			AddRow(1, "Jan Kowalski", "jkowalski", "hash", "STUDENT").
			AddRow(2, "Anna Nowak", "anowak", "hash", "TEACHER"))

	accounts, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, models.RoleTeacher, accounts[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectQuery("INSERT INTO account").
		WithArgs("Jan Kowalski", "jkowalski", "hash", models.RoleStudent).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	account := &models.Account{FullName: "Jan Kowalski", Login: "jkowalski", PasswordHash: "hash", Role: models.RoleStudent}
	require.NoError(t, repo.Create(context.Background(), account))
	assert.Equal(t, int64(7), account.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
