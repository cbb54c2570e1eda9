package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terracast/auth-service/internal/core/domain"
)

func TestPgxSessionStore_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	session := domain.SessionRecord{
		Token:     "tok",
		Username:  "alice",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs("tok", "alice", session.CreatedAt, session.ExpiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewSessionStore(mock)
	require.NoError(t, store.Create(context.Background(), session))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxSessionStore_GetByToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	rows := mock.NewRows([]string{"token", "username", "created_at", "expires_at"}).
		AddRow("tok", "alice", now, now.Add(time.Hour))
	mock.ExpectQuery("SELECT token, username, created_at, expires_at FROM sessions").
		WithArgs("tok").
		WillReturnRows(rows)

	store := NewSessionStore(mock)
	rec, err := store.GetByToken(context.Background(), "tok")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "alice", rec.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxSessionStore_GetByTokenUnknown(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT token, username, created_at, expires_at FROM sessions").
		WithArgs("bogus").
		WillReturnError(pgx.ErrNoRows)

	store := NewSessionStore(mock)
	rec, err := store.GetByToken(context.Background(), "bogus")
	require.NoError(t, err)
	assert.Nil(t, rec)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxSessionStore_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// Deleting an unknown token affects zero rows and is still a no-op.
	mock.ExpectExec("DELETE FROM sessions").
		WithArgs("tok").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	store := NewSessionStore(mock)
	require.NoError(t, store.Delete(context.Background(), "tok"))
	require.NoError(t, mock.ExpectationsWereMet())
}
