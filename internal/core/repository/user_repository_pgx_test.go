package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terracast/auth-service/internal/core/domain"
)

func TestPgxUserRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice", "a@x.com", "hash").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewUserRepository(mock)
	require.NoError(t, repo.Create(context.Background(), "alice", "a@x.com", "hash"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxUserRepository_CreateDuplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice", "a@x.com", "hash").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	repo := NewUserRepository(mock)
	err = repo.Create(context.Background(), "alice", "a@x.com", "hash")
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxUserRepository_GetByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := mock.NewRows([]string{"username", "email", "password_hash"}).
		AddRow("alice", "a@x.com", "hash")
	mock.ExpectQuery("SELECT username, email, password_hash FROM users").
		WithArgs("alice").
		WillReturnRows(rows)

	repo := NewUserRepository(mock)
	rec, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "a@x.com", rec.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxUserRepository_GetByUsernameNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT username, email, password_hash FROM users").
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)

	repo := NewUserRepository(mock)
	rec, err := repo.GetByUsername(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, rec)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxUserRepository_UpdateEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE users SET email").
		WithArgs("alice", "b@x.com").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewUserRepository(mock)
	require.NoError(t, repo.UpdateEmail(context.Background(), "alice", "b@x.com"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxUserRepository_UpdateEmailNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE users SET email").
		WithArgs("nobody", "b@x.com").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewUserRepository(mock)
	assert.ErrorIs(t, repo.UpdateEmail(context.Background(), "nobody", "b@x.com"), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxUserRepository_UpdatePasswordHashNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("nobody", "newhash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewUserRepository(mock)
	assert.ErrorIs(t, repo.UpdatePasswordHash(context.Background(), "nobody", "newhash"), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
